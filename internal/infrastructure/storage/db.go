// Package storage persists arrests and hearings for the CRUD collaborator.
// The same schema runs on Postgres (lib/pq) and SQLite (modernc.org/sqlite);
// the DSN picks the driver.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
)

// DB is an open pool plus a statement builder using the driver's placeholders.
type DB struct {
	Pool    *sql.DB
	Driver  string
	builder sq.StatementBuilderType
}

// Open connects to a postgres:// or postgresql:// URL, or else treats dsn as a SQLite path.
func Open(dsn string) (*DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("empty database dsn")
	}

	driver, source := driverSQLite, sqliteDSN(dsn)
	if isPostgres(dsn) {
		driver, source = driverPostgres, dsn
	}

	pool, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if driver == driverPostgres {
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	} else {
		// sqlite wants a single writer
		pool.SetMaxOpenConns(1)
		if !strings.Contains(source, ":memory:") {
			pool.SetConnMaxLifetime(5 * time.Minute)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return &DB{Pool: pool, Driver: driver, builder: builder}, nil
}

// Close releases the pool.
func (d *DB) Close() error {
	if d == nil || d.Pool == nil {
		return nil
	}
	return d.Pool.Close()
}

func isPostgres(dsn string) bool {
	lower := strings.ToLower(dsn)
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

// sqliteDSN adds the busy_timeout pragma, e.g. file:records.db?_pragma=busy_timeout(5000).
func sqliteDSN(path string) string {
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)"
}
