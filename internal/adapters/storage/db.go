package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// TimestampLayout is the fixed-width UTC layout used for created_at columns.
// Fixed width keeps lexical order equal to chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTimestamp renders t for storage.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a stored created_at value.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// migration is a single forward-only schema step.
type migration struct {
	version int
	name    string
	sql     string
}

// migrations are applied in order; never edit a released entry, append a new one.
var migrations = []migration{
	{
		version: 1,
		name:    "create programs",
		sql: `
		CREATE TABLE IF NOT EXISTS programs (
			id TEXT PRIMARY KEY,
			city TEXT NOT NULL,
			date TEXT NOT NULL,
			time TEXT NOT NULL,
			maps_link TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_programs_date ON programs(date, time);
		`,
	},
	{
		// program_id is intentionally not a FOREIGN KEY: enquiries outlive deleted programs.
		version: 2,
		name:    "create enquiries",
		sql: `
		CREATE TABLE IF NOT EXISTS enquiries (
			id TEXT PRIMARY KEY,
			program_id TEXT,
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			email TEXT,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_enquiries_created_at ON enquiries(created_at);
		CREATE INDEX IF NOT EXISTS idx_enquiries_program_id ON enquiries(program_id);
		`,
	},
}

// LatestSchemaVersion returns the version the database reaches after MigrateDB.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// MigrateDB brings the schema up to LatestSchemaVersion.
// PRE: db is a valid, open database connection
// POST: All pending migrations are applied, each in its own transaction
func MigrateDB(db *sql.DB) error {
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := currentVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return err
		}
		slog.Info("migration_applied", "version", m.version, "name", m.name)
	}
	return nil
}

func currentVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(v.Int64), nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migration %d: begin: %w", m.version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_version (version, name, applied_at) VALUES (?, ?, ?)",
		m.version, m.name, FormatTimestamp(time.Now()),
	); err != nil {
		return fmt.Errorf("migration %d: record version: %w", m.version, err)
	}
	return tx.Commit()
}

// OpenSQLite opens the database file with WAL mode, busy timeout and pool settings.
// PRE: path is a writable file path or ":memory:"
// POST: Returns a pinged connection pool
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}
