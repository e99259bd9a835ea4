package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ProgramStoreForDelete defines the store interface needed by DeleteProgram.
type ProgramStoreForDelete interface {
	Delete(ctx context.Context, id string) error
}

// DeleteProgramInput carries input for the orchestrator.
type DeleteProgramInput struct {
	ProgramID string
}

// DeleteProgramDeps holds dependencies for DeleteProgram.
type DeleteProgramDeps struct {
	ProgramStore ProgramStoreForDelete
}

// ErrMissingProgramID is returned when no program id is supplied.
var ErrMissingProgramID = errors.New("program id is required")

// ExecuteDeleteProgram removes a program by ID.
// PRE: caller holds an admin session
// POST: The program row is gone; enquiries referencing it are left untouched
func ExecuteDeleteProgram(ctx context.Context, input DeleteProgramInput, deps DeleteProgramDeps) error {
	id := strings.TrimSpace(input.ProgramID)
	if id == "" {
		return ErrMissingProgramID
	}
	if err := deps.ProgramStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete program %s: %w", id, err)
	}
	slog.Info("program_deleted", "program_id", id)
	return nil
}
