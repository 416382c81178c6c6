package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"RecordsScanner/internal/domain"
	"RecordsScanner/internal/ports"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339
)

var arrestColumns = []string{
	"booking_number", "full_name", "arrest_date", "arrest_time", "location", "charges",
	"agency", "county", "status", "severity", "age", "address",
}

var arrestInsertColumns = append(append([]string{}, arrestColumns...), "created_at")

// ArrestRepository persists arrest-log records keyed by booking number.
type ArrestRepository struct {
	db  *DB
	now func() time.Time
}

var _ ports.ArrestRepository = (*ArrestRepository)(nil)

// NewArrestRepository wires an open DB.
func NewArrestRepository(db *DB) *ArrestRepository {
	return &ArrestRepository{db: db, now: time.Now}
}

// SaveArrests inserts every record whose booking number is new and returns those records.
func (r *ArrestRepository) SaveArrests(ctx context.Context, records []domain.ArrestRecord) ([]domain.ArrestRecord, error) {
	if r.db == nil || len(records) == 0 {
		return []domain.ArrestRecord{}, nil
	}

	tx, err := r.db.Pool.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save arrests: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	created := r.now().UTC().Format(timestampLayout)
	stored := make([]domain.ArrestRecord, 0, len(records))
	for _, rec := range records {
		charges, err := json.Marshal(rec.Charges)
		if err != nil {
			return nil, fmt.Errorf("encode charges %s: %w", rec.BookingNumber, err)
		}

		var age sql.NullInt64
		if rec.Age != nil {
			age = sql.NullInt64{Int64: int64(*rec.Age), Valid: true}
		}

		query, args, err := r.db.builder.
			Insert("arrest_logs").
			Columns(arrestInsertColumns...).
			Values(
				rec.BookingNumber, rec.FullName, rec.ArrestDate.Format(dateLayout), rec.ArrestTime,
				rec.Location, string(charges), rec.Agency, rec.County, rec.Status,
				string(rec.Severity), age, rec.Address, created,
			).
			Suffix("ON CONFLICT DO NOTHING").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build insert arrest: %w", err)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("insert arrest %s: %w", rec.BookingNumber, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			stored = append(stored, rec)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit arrests: %w", err)
	}
	return stored, nil
}

// RecentArrests returns up to limit records, newest arrest date first.
func (r *ArrestRepository) RecentArrests(ctx context.Context, limit int) ([]domain.ArrestRecord, error) {
	if r.db == nil {
		return []domain.ArrestRecord{}, nil
	}

	builder := r.db.builder.
		Select(arrestColumns...).
		From("arrest_logs").
		OrderBy("arrest_date DESC", "arrest_time DESC", "booking_number")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select arrests: %w", err)
	}

	rows, err := r.db.Pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query arrests: %w", err)
	}
	defer rows.Close()

	out := []domain.ArrestRecord{}
	for rows.Next() {
		rec, err := scanArrest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

func scanArrest(rows sq.RowScanner) (domain.ArrestRecord, error) {
	var (
		rec      domain.ArrestRecord
		date     string
		charges  string
		severity string
		age      sql.NullInt64
	)
	if err := rows.Scan(
		&rec.BookingNumber, &rec.FullName, &date, &rec.ArrestTime, &rec.Location, &charges,
		&rec.Agency, &rec.County, &rec.Status, &severity, &age, &rec.Address,
	); err != nil {
		return rec, fmt.Errorf("scan arrest: %w", err)
	}

	if t, err := time.Parse(dateLayout, date); err == nil {
		rec.ArrestDate = t
	}
	if err := json.Unmarshal([]byte(charges), &rec.Charges); err != nil {
		return rec, fmt.Errorf("decode charges %s: %w", rec.BookingNumber, err)
	}
	rec.Severity = domain.Severity(severity)
	if age.Valid {
		v := int(age.Int64)
		rec.Age = &v
	}
	return rec, nil
}
