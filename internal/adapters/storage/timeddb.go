package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"auraboxing/internal/adapters/http/perf"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PingContext(ctx context.Context) error
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

// TimedDB wraps a *sql.DB to log slow queries and record timings to a collector.
type TimedDB struct {
	db        *sql.DB
	collector *perf.Collector
	threshold float64
}

// Compile-time check that *TimedDB satisfies SQLDB.
var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps a *sql.DB with timing instrumentation.
// A non-positive slowMs uses DefaultSlowQueryMs.
// PRE: db is a valid database connection
// POST: Returns a TimedDB that logs slow queries and records to collector
func NewTimedDB(db *sql.DB, collector *perf.Collector, slowMs int) *TimedDB {
	if slowMs <= 0 {
		slowMs = DefaultSlowQueryMs
	}
	return &TimedDB{
		db:        db,
		collector: collector,
		threshold: float64(slowMs),
	}
}

// RawDB returns the underlying *sql.DB for schema migrations.
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

// queryLabel names a query by call and target table, e.g. "QueryContext programs".
func queryLabel(op, query string) string {
	fields := strings.Fields(strings.ToLower(query))
	for i, f := range fields {
		if (f == "from" || f == "into" || f == "update") && i+1 < len(fields) {
			return op + " " + strings.Trim(fields[i+1], "(;")
		}
	}
	return op
}

// logQuery logs and records a query timing.
func (t *TimedDB) logQuery(op, query string, start time.Time) {
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0
	label := queryLabel(op, query)

	if durationMs >= t.threshold {
		slog.Warn("slow_query",
			"op", label,
			"duration_ms", durationMs,
		)
	} else {
		slog.Debug("query",
			"op", label,
			"duration_ms", durationMs,
		)
	}

	t.collector.Record(perf.Entry{
		Kind:       perf.KindQuery,
		Path:       label,
		DurationMs: durationMs,
		Timestamp:  start,
	})
}

// ExecContext wraps sql.DB.ExecContext with timing.
// PRE: ctx is valid, query is non-empty
// POST: query executed, timing recorded to collector
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.logQuery("ExecContext", query, start)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with timing.
// PRE: ctx is valid, query is non-empty
// POST: query executed, timing recorded to collector
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.logQuery("QueryContext", query, start)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with timing.
// PRE: ctx is valid, query is non-empty
// POST: query executed, timing recorded to collector
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.logQuery("QueryRowContext", query, start)
	return row
}

// PingContext verifies the connection; used by the health check.
func (t *TimedDB) PingContext(ctx context.Context) error {
	start := time.Now()
	err := t.db.PingContext(ctx)
	t.logQuery("PingContext", "", start)
	return err
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}
