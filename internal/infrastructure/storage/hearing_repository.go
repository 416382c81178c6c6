package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"RecordsScanner/internal/domain"
	"RecordsScanner/internal/ports"
)

var hearingColumns = []string{
	"subject_name", "case_number", "hearing_date", "hearing_time", "location",
	"case_type", "charge", "status", "source", "confidence", "low_value",
}

var hearingInsertColumns = append(append([]string{"id"}, hearingColumns...), "created_at")

// HearingRepository persists court dates found for clients.
type HearingRepository struct {
	db  *DB
	now func() time.Time
}

var _ ports.HearingRepository = (*HearingRepository)(nil)

// NewHearingRepository wires an open DB.
func NewHearingRepository(db *DB) *HearingRepository {
	return &HearingRepository{db: db, now: time.Now}
}

// SaveHearings inserts records not yet stored for the same subject, case, date and source.
// It returns how many rows were new.
func (r *HearingRepository) SaveHearings(ctx context.Context, records []domain.HearingRecord) (int, error) {
	if r.db == nil || len(records) == 0 {
		return 0, nil
	}

	tx, err := r.db.Pool.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin save hearings: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	created := r.now().UTC().Format(timestampLayout)
	stored := 0
	for _, rec := range records {
		date := ""
		if rec.HasDate() {
			date = rec.HearingDate.Format(dateLayout)
		}
		lowValue := 0
		if rec.LowValue {
			lowValue = 1
		}

		query, args, err := r.db.builder.
			Insert("court_dates").
			Columns(hearingInsertColumns...).
			Values(
				uuid.NewString(), rec.SubjectName, rec.CaseNumber, date, rec.HearingTime, rec.Location,
				string(rec.Category), rec.Charge, rec.Status, rec.Source, string(rec.Confidence), lowValue, created,
			).
			Suffix("ON CONFLICT DO NOTHING").
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("build insert hearing: %w", err)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("insert hearing %s: %w", rec.CaseNumber, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			stored++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit hearings: %w", err)
	}
	return stored, nil
}

// HearingsFor returns stored hearings whose subject matches case-insensitively, soonest first.
func (r *HearingRepository) HearingsFor(ctx context.Context, subject string) ([]domain.HearingRecord, error) {
	if r.db == nil {
		return []domain.HearingRecord{}, nil
	}

	query, args, err := r.db.builder.
		Select(hearingColumns...).
		From("court_dates").
		Where(sq.Eq{"LOWER(subject_name)": strings.ToLower(strings.TrimSpace(subject))}).
		OrderBy("hearing_date", "hearing_time", "source").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select hearings: %w", err)
	}

	rows, err := r.db.Pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query hearings: %w", err)
	}
	defer rows.Close()

	out := []domain.HearingRecord{}
	for rows.Next() {
		var (
			rec        domain.HearingRecord
			date       string
			category   string
			confidence string
			lowValue   int
		)
		if err := rows.Scan(
			&rec.SubjectName, &rec.CaseNumber, &date, &rec.HearingTime, &rec.Location,
			&category, &rec.Charge, &rec.Status, &rec.Source, &confidence, &lowValue,
		); err != nil {
			return nil, fmt.Errorf("scan hearing: %w", err)
		}
		if t, err := time.Parse(dateLayout, date); err == nil {
			rec.HearingDate = &t
		}
		rec.Category = domain.CaseCategory(category)
		rec.Confidence = domain.MatchConfidence(confidence)
		rec.LowValue = lowValue != 0
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}
