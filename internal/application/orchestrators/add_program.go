package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"auraboxing/internal/domain/program"
)

// ProgramStoreForAdd defines the store interface needed by AddProgram.
type ProgramStoreForAdd interface {
	Save(ctx context.Context, p program.Program) error
}

// AddProgramInput carries input for the orchestrator.
// Date is the raw YYYY-MM-DD form value.
type AddProgramInput struct {
	City     string `schema:"city" json:"city"`
	Date     string `schema:"date" json:"date"`
	Time     string `schema:"time" json:"time"`
	MapsLink string `schema:"maps_link" json:"maps_link"`
}

// AddProgramDeps holds dependencies for AddProgram.
type AddProgramDeps struct {
	ProgramStore ProgramStoreForAdd
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteAddProgram validates and inserts a new program.
// PRE: caller holds an admin session
// POST: On success exactly one program row is inserted
// POST: On validation error nothing is written and a program.Err* is returned
func ExecuteAddProgram(ctx context.Context, input AddProgramInput, deps AddProgramDeps) (program.Program, error) {
	date, err := program.ParseDate(input.Date)
	if err != nil {
		return program.Program{}, err
	}

	p := program.Program{
		ID:        deps.GenerateID(),
		City:      strings.TrimSpace(input.City),
		Date:      date,
		Time:      strings.TrimSpace(input.Time),
		MapsLink:  strings.TrimSpace(input.MapsLink),
		CreatedAt: deps.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return program.Program{}, err
	}

	if err := deps.ProgramStore.Save(ctx, p); err != nil {
		return program.Program{}, fmt.Errorf("save program: %w", err)
	}

	slog.Info("program_added", "program_id", p.ID, "city", p.City, "date", p.Date.Format(program.DateLayout))
	return p, nil
}

// IsProgramValidationError reports whether err is a program input error rather than a store failure.
func IsProgramValidationError(err error) bool {
	return isOneOf(err,
		program.ErrEmptyCity, program.ErrCityTooLong, program.ErrMissingDate,
		program.ErrEmptyTime, program.ErrTimeTooLong, program.ErrEmptyMapsLink,
		program.ErrInvalidMapsLink, program.ErrInvalidDate,
	)
}
