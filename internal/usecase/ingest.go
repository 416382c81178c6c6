package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"RecordsScanner/internal/domain"
	"RecordsScanner/internal/extract"
	"RecordsScanner/internal/ports"
)

// ErrRunInProgress is returned when another ingestion run holds the lock.
var ErrRunInProgress = errors.New("ingestion run already in progress")

// IngestDeps wires all driven adapters into the ingestion run.
type IngestDeps struct {
	Locator     ports.BulletinLocator
	Downloader  ports.BulletinDownloader
	Table       ports.ArrestTableSource
	Extractor   *extract.Extractor
	Repository  ports.ArrestRepository
	Notifier    ports.Notifier
	Lock        ports.RunLock
	MinSeverity domain.Severity
	Logger      *slog.Logger
}

// IngestReport summarizes one ingestion run.
type IngestReport struct {
	RunID        string                    `json:"runId"`
	StartedAt    time.Time                 `json:"startedAt"`
	Bulletin     *domain.BulletinReference `json:"bulletin,omitempty"`
	Records      []domain.ArrestRecord     `json:"records"`
	Stored       int                       `json:"stored"`
	UsedFallback bool                      `json:"usedFallback"`
	Errors       []string                  `json:"errors"`
}

// Summary is the one-line outcome printed by the CLI and logged by the scheduler.
func (r IngestReport) Summary() string {
	return fmt.Sprintf("found %d records, %d steps had errors", len(r.Records), len(r.Errors))
}

// Ingestor implements the locate, extract, persist and notify workflow.
type Ingestor struct {
	locator     ports.BulletinLocator
	downloader  ports.BulletinDownloader
	table       ports.ArrestTableSource
	extractor   *extract.Extractor
	repository  ports.ArrestRepository
	notifier    ports.Notifier
	lock        ports.RunLock
	minSeverity domain.Severity
	logger      *slog.Logger
	now         func() time.Time
}

// NewIngestor constructs the orchestration component.
func NewIngestor(deps IngestDeps) *Ingestor {
	extractor := deps.Extractor
	if extractor == nil {
		extractor = extract.New(extract.Defaults{})
	}
	minSeverity := deps.MinSeverity
	if minSeverity == "" {
		minSeverity = domain.SeverityCritical
	}
	return &Ingestor{
		locator:     deps.Locator,
		downloader:  deps.Downloader,
		table:       deps.Table,
		extractor:   extractor,
		repository:  deps.Repository,
		notifier:    deps.Notifier,
		lock:        deps.Lock,
		minSeverity: minSeverity,
		logger:      deps.Logger,
		now:         time.Now,
	}
}

// Run performs one ingestion. Step failures are collected in the report;
// only a held lock or a lock failure aborts the run with an error.
func (i *Ingestor) Run(ctx context.Context) (IngestReport, error) {
	report := IngestReport{
		RunID:     uuid.NewString(),
		StartedAt: i.now(),
		Records:   []domain.ArrestRecord{},
		Errors:    []string{},
	}

	if i.lock != nil {
		release, ok, err := i.lock.TryAcquire()
		if err != nil {
			return report, fmt.Errorf("acquire run lock: %w", err)
		}
		if !ok {
			return report, ErrRunInProgress
		}
		defer func() {
			if err := release(); err != nil {
				i.warn("release run lock", "error", err)
			}
		}()
	}

	if i.locator == nil {
		return report, nil
	}

	ref := i.locator.Latest(ctx)
	if ref == nil {
		i.info("no bulletin available", "run", report.RunID)
		return report, nil
	}
	report.Bulletin = ref

	extractor := i.extractor.ForBulletin(*ref)
	records := i.extractBulletin(ctx, extractor, *ref, &report)
	if len(records) == 0 {
		records = i.extractTable(ctx, extractor, &report)
	}
	if records == nil {
		records = []domain.ArrestRecord{}
	}
	report.Records = records

	fresh := records
	if i.repository != nil && len(records) > 0 {
		stored, err := i.repository.SaveArrests(ctx, records)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("persist: %v", err))
			fresh = nil
		} else {
			fresh = stored
			report.Stored = len(stored)
		}
	}

	i.notify(ctx, fresh, &report)

	i.info("ingestion finished", "run", report.RunID, "bulletin", ref.URL,
		"records", len(report.Records), "stored", report.Stored, "fallback", report.UsedFallback, "errors", len(report.Errors))
	return report, nil
}

func (i *Ingestor) extractBulletin(ctx context.Context, extractor *extract.Extractor, ref domain.BulletinReference, report *IngestReport) []domain.ArrestRecord {
	if i.downloader == nil {
		return nil
	}
	text, err := i.downloader.Text(ctx, ref)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("download %s: %v", ref.Filename, err))
		return nil
	}
	return extractor.Extract(text)
}

func (i *Ingestor) extractTable(ctx context.Context, extractor *extract.Extractor, report *IngestReport) []domain.ArrestRecord {
	if i.table == nil {
		return []domain.ArrestRecord{}
	}
	report.UsedFallback = true
	rows, err := i.table.Rows(ctx)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("arrest table: %v", err))
		return []domain.ArrestRecord{}
	}
	return extractor.FromRows(rows)
}

func (i *Ingestor) notify(ctx context.Context, records []domain.ArrestRecord, report *IngestReport) {
	if i.notifier == nil {
		return
	}
	var alerts []domain.ArrestRecord
	for _, rec := range records {
		if rec.Severity.Rank() >= i.minSeverity.Rank() {
			alerts = append(alerts, rec)
		}
	}
	if len(alerts) == 0 {
		return
	}
	if err := i.notifier.PublishAlert(ctx, buildAlertMessage(alerts)); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("notify: %v", err))
	}
}

func buildAlertMessage(records []domain.ArrestRecord) string {
	var b strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&b, "*%s* (%s)\nBooking: %s\nArrested: %s %s, %s\nCharges: %s\n\n",
			rec.FullName,
			strings.ToUpper(string(rec.Severity)),
			rec.BookingNumber,
			rec.ArrestDate.Format("2006-01-02"),
			rec.ArrestTime,
			rec.Location,
			strings.Join(rec.Charges, "; "))
	}
	return strings.TrimSpace(b.String())
}

func (i *Ingestor) info(msg string, args ...interface{}) {
	if i.logger != nil {
		i.logger.Info(msg, args...)
	}
}

func (i *Ingestor) warn(msg string, args ...interface{}) {
	if i.logger != nil {
		i.logger.Warn(msg, args...)
	}
}
