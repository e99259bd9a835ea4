package program

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"auraboxing/internal/adapters/storage"
	domain "auraboxing/internal/domain/program"
)

// ErrNotFound is returned when no program has the requested ID.
var ErrNotFound = domain.ErrNotFound

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new program store.
// PRE: db is a valid, open database connection with migrations applied
// POST: store is ready for use
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const selectColumns = "SELECT id, city, date, time, maps_link, created_at FROM programs"

type scanner interface {
	Scan(dest ...any) error
}

func scanProgram(row scanner) (domain.Program, error) {
	var p domain.Program
	var dateStr, createdStr string
	if err := row.Scan(&p.ID, &p.City, &dateStr, &p.Time, &p.MapsLink, &createdStr); err != nil {
		return domain.Program{}, err
	}
	d, err := domain.ParseDate(dateStr)
	if err != nil {
		return domain.Program{}, fmt.Errorf("program %s: %w", p.ID, err)
	}
	p.Date = d
	created, err := storage.ParseTimestamp(createdStr)
	if err != nil {
		return domain.Program{}, fmt.Errorf("program %s: %w", p.ID, err)
	}
	p.CreatedAt = created
	return p, nil
}

// GetByID retrieves a Program by its ID.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Program, error) {
	p, err := scanProgram(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Program{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, err
}

// Save inserts a Program. Programs are never updated in place.
// PRE: entity has been validated and carries a new ID
// POST: Exactly one row is inserted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Program) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO programs (id, city, date, time, maps_link, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		entity.ID, entity.City, entity.Date.UTC().Format(domain.DateLayout), entity.Time, entity.MapsLink,
		storage.FormatTimestamp(entity.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert program: %w", err)
	}
	return nil
}

// Delete removes a Program. Enquiries referencing it are left untouched.
// PRE: id is non-empty
// POST: Row with given id is removed; deleting a missing id is not an error
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM programs WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	return nil
}

// List retrieves all Programs ordered by date ascending.
// PRE: none
// POST: Returns programs by date, then time, then creation order
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Program, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY date ASC, time ASC, created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	var results []domain.Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}
