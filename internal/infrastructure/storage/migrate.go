package storage

import (
	"context"
	"fmt"
)

// Dates are stored as ISO text so both drivers compare and scan them the same way.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS arrest_logs (
  booking_number TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  arrest_date TEXT NOT NULL,
  arrest_time TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  charges TEXT NOT NULL DEFAULT '[]',
  agency TEXT NOT NULL DEFAULT '',
  county TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT '',
  severity TEXT NOT NULL DEFAULT '',
  age INTEGER,
  address TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_arrest_logs_arrest_date ON arrest_logs(arrest_date)`,
	`CREATE TABLE IF NOT EXISTS court_dates (
  id TEXT PRIMARY KEY,
  subject_name TEXT NOT NULL,
  case_number TEXT NOT NULL DEFAULT '',
  hearing_date TEXT NOT NULL DEFAULT '',
  hearing_time TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  case_type TEXT NOT NULL DEFAULT '',
  charge TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL,
  confidence TEXT NOT NULL DEFAULT '',
  low_value INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  UNIQUE (subject_name, case_number, hearing_date, source)
)`,
	`CREATE INDEX IF NOT EXISTS idx_court_dates_subject ON court_dates(subject_name)`,
}

// Migrate creates the tables when missing; it is safe to run on every start.
func (d *DB) Migrate(ctx context.Context) error {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migrate: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return tx.Commit()
}
