package enquiry

import (
	"context"
	"database/sql"
	"fmt"

	"auraboxing/internal/adapters/storage"
	domain "auraboxing/internal/domain/enquiry"
	programDomain "auraboxing/internal/domain/program"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new enquiry store.
// PRE: db is a valid, open database connection with migrations applied
// POST: store is ready for use
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save inserts an Enquiry. A nil Email is stored as NULL.
// PRE: entity has been validated
// POST: Exactly one row is inserted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Enquiry) error {
	var email sql.NullString
	if entity.Email != nil {
		email = sql.NullString{String: *entity.Email, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO enquiries (id, program_id, name, phone, email, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		entity.ID, entity.ProgramID, entity.Name, entity.Phone, email,
		storage.FormatTimestamp(entity.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert enquiry: %w", err)
	}
	return nil
}

// ListWithProgram returns all enquiries, newest first, joined with their program.
// PRE: none
// POST: View.Program is nil for enquiries whose program no longer exists
func (s *SQLiteStore) ListWithProgram(ctx context.Context) ([]domain.View, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, COALESCE(e.program_id, ''), e.name, e.phone, e.email, e.created_at,
		       p.city, p.date
		FROM enquiries e
		LEFT JOIN programs p ON p.id = e.program_id
		ORDER BY e.created_at DESC, e.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list enquiries: %w", err)
	}
	defer rows.Close()

	var results []domain.View
	for rows.Next() {
		var v domain.View
		var email, city, date sql.NullString
		var createdStr string
		if err := rows.Scan(&v.ID, &v.ProgramID, &v.Name, &v.Phone, &email, &createdStr, &city, &date); err != nil {
			return nil, err
		}
		if email.Valid {
			e := email.String
			v.Email = &e
		}
		created, err := storage.ParseTimestamp(createdStr)
		if err != nil {
			return nil, fmt.Errorf("enquiry %s: %w", v.ID, err)
		}
		v.CreatedAt = created
		if city.Valid {
			d, err := programDomain.ParseDate(date.String)
			if err != nil {
				return nil, fmt.Errorf("enquiry %s program date: %w", v.ID, err)
			}
			v.Program = &domain.ProgramRef{City: city.String, Date: d}
		}
		results = append(results, v)
	}
	return results, rows.Err()
}
