package ports

import (
	"context"
	"time"

	"RecordsScanner/internal/domain"
	"RecordsScanner/internal/extract"
)

// HearingQuery is one name search forwarded to a court source.
type HearingQuery struct {
	Name   string
	State  string
	County string
}

// HearingSource is a named external court-record provider.
type HearingSource interface {
	Name() string
	Enabled() bool
	Search(ctx context.Context, q HearingQuery) ([]domain.HearingRecord, error)
}

// BulletinLocator finds the newest published arrest bulletin; nil means none available.
type BulletinLocator interface {
	Latest(ctx context.Context) *domain.BulletinReference
}

// BulletinDownloader retrieves a bulletin and returns its plain text.
type BulletinDownloader interface {
	Text(ctx context.Context, ref domain.BulletinReference) (string, error)
}

// ArrestTableSource reads the fallback HTML table from the publisher's index page.
type ArrestTableSource interface {
	Rows(ctx context.Context) ([]extract.Row, error)
}

// ArrestRepository persists extracted arrests; the caller owns deduplication.
type ArrestRepository interface {
	SaveArrests(ctx context.Context, records []domain.ArrestRecord) ([]domain.ArrestRecord, error)
	RecentArrests(ctx context.Context, limit int) ([]domain.ArrestRecord, error)
}

// HearingRepository persists hearing records discovered for clients.
type HearingRepository interface {
	SaveHearings(ctx context.Context, records []domain.HearingRecord) (int, error)
	HearingsFor(ctx context.Context, subject string) ([]domain.HearingRecord, error)
}

// Notifier streams alerts to Telegram or other channels.
type Notifier interface {
	PublishAlert(ctx context.Context, message string) error
}

// Scheduler controls when ingestion runs.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

// RunLock guards ingestion against overlapping runs.
type RunLock interface {
	TryAcquire() (release func() error, ok bool, err error)
}
