// Package storagetest opens migrated in-memory databases for store tests.
package storagetest

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"auraboxing/internal/adapters/storage"
)

// OpenDB returns a migrated in-memory SQLite database closed at test cleanup.
func OpenDB(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// One connection so every query sees the same in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}
