package storage

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"auraboxing/internal/adapters/http/perf"
)

func openTimedTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("CREATE TABLE test (id TEXT PRIMARY KEY, val TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestTimedDB_ExecContext verifies ExecContext records timing.
func TestTimedDB_ExecContext(t *testing.T) {
	collector := perf.NewCollector()
	tdb := NewTimedDB(openTimedTestDB(t), collector, 0)

	_, err := tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello")
	if err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
}

// TestTimedDB_QueryContext verifies QueryContext records timing.
func TestTimedDB_QueryContext(t *testing.T) {
	collector := perf.NewCollector()
	tdb := NewTimedDB(openTimedTestDB(t), collector, 0)

	tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello")

	rows, err := tdb.QueryContext(context.Background(), "SELECT id, val FROM test")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	count := 0
	for rows.Next() {
		count++
	}
	rows.Close()
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}
	// 1 exec + 1 query = 2 recorded
	if collector.TotalRecorded() != 2 {
		t.Errorf("TotalRecorded = %d, want 2", collector.TotalRecorded())
	}
}

// TestTimedDB_NilCollector verifies TimedDB works without a collector.
func TestTimedDB_NilCollector(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), nil, 0)

	_, err := tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello")
	if err != nil {
		t.Fatalf("ExecContext with nil collector: %v", err)
	}
	if err := tdb.PingContext(context.Background()); err != nil {
		t.Fatalf("PingContext: %v", err)
	}
}

// TestTimedDB_ErrorPassthrough verifies SQL errors are returned unchanged
// and timing is still recorded.
func TestTimedDB_ErrorPassthrough(t *testing.T) {
	collector := perf.NewCollector()
	tdb := NewTimedDB(openTimedTestDB(t), collector, 0)

	if _, err := tdb.ExecContext(context.Background(), "INSERT INTO nonexistent_table VALUES (?)", 1); err == nil {
		t.Fatal("expected error from invalid SQL, got nil")
	}
	var val string
	err := tdb.QueryRowContext(context.Background(), "SELECT val FROM test WHERE id = ?", "missing").Scan(&val)
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
	if collector.TotalRecorded() != 2 {
		t.Errorf("TotalRecorded = %d, want 2 (must record even on error)", collector.TotalRecorded())
	}
}

// TestTimedDB_CancelledContext verifies a cancelled context returns an error.
func TestTimedDB_CancelledContext(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), perf.NewCollector(), 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello"); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}

// TestQueryLabel verifies queries are labelled by call and table.
func TestQueryLabel(t *testing.T) {
	tests := []struct {
		op, query, want string
	}{
		{"QueryContext", "SELECT id FROM programs ORDER BY date", "QueryContext programs"},
		{"ExecContext", "INSERT INTO enquiries (id) VALUES (?)", "ExecContext enquiries"},
		{"ExecContext", "DELETE FROM programs WHERE id = ?", "ExecContext programs"},
		{"QueryContext", "SELECT e.id FROM enquiries e LEFT JOIN programs p ON p.id = e.program_id", "QueryContext enquiries"},
		{"PingContext", "", "PingContext"},
	}
	for _, tt := range tests {
		if got := queryLabel(tt.op, tt.query); got != tt.want {
			t.Errorf("queryLabel(%q, %q) = %q, want %q", tt.op, tt.query, got, tt.want)
		}
	}
}

// TestTimedDB_RawDB verifies RawDB returns the original *sql.DB.
func TestTimedDB_RawDB(t *testing.T) {
	db := openTimedTestDB(t)
	tdb := NewTimedDB(db, nil, 0)
	if tdb.RawDB() != db {
		t.Error("RawDB() should return the original *sql.DB")
	}
}

// TestTimedDB_Close verifies Close releases the underlying connection.
func TestTimedDB_Close(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), perf.NewCollector(), 0)
	if err := tdb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := tdb.PingContext(context.Background()); err == nil {
		t.Error("expected ping to fail after Close")
	}
}

// TestTimedDB_ConcurrentMixedOps verifies no data races or panics under concurrent
// Exec, Query, and QueryRow calls.
func TestTimedDB_ConcurrentMixedOps(t *testing.T) {
	collector := perf.NewCollector()
	tdb := NewTimedDB(openTimedTestDB(t), collector, 0)
	ctx := context.Background()

	tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "seed", "data")

	done := make(chan struct{})
	var wg sync.WaitGroup
	ops := []func(){
		func() { tdb.ExecContext(ctx, "INSERT OR REPLACE INTO test (id, val) VALUES (?, ?)", "w", "v") },
		func() {
			if rows, err := tdb.QueryContext(ctx, "SELECT id FROM test LIMIT 1"); err == nil {
				rows.Close()
			}
		},
		func() {
			var v string
			tdb.QueryRowContext(ctx, "SELECT val FROM test WHERE id = ?", "seed").Scan(&v)
		},
	}
	for _, op := range ops {
		wg.Add(1)
		go func(op func()) {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					op()
				}
			}
		}(op)
	}

	time.Sleep(100 * time.Millisecond)
	close(done)
	wg.Wait()

	if collector.TotalRecorded() < 3 {
		t.Errorf("TotalRecorded = %d, want >= 3", collector.TotalRecorded())
	}
}
