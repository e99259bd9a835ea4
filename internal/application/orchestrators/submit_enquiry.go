package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"auraboxing/internal/domain/enquiry"
	"auraboxing/internal/domain/program"
)

// EnquiryStoreForSubmit defines the store interface needed by SubmitEnquiry.
type EnquiryStoreForSubmit interface {
	Save(ctx context.Context, e enquiry.Enquiry) error
}

// ProgramStoreForSubmit looks up the program an enquiry is about.
type ProgramStoreForSubmit interface {
	GetByID(ctx context.Context, id string) (program.Program, error)
}

// SubmitEnquiryInput carries input for the orchestrator.
// City is the display city echoed back into the form on failure.
type SubmitEnquiryInput struct {
	ProgramID string `schema:"program_id" json:"program_id"`
	City      string `schema:"city" json:"-"`
	Name      string `schema:"name" json:"name"`
	Phone     string `schema:"phone" json:"phone"`
	Email     string `schema:"email" json:"email"`
}

// SubmitEnquiryDeps holds dependencies for SubmitEnquiry.
type SubmitEnquiryDeps struct {
	EnquiryStore EnquiryStoreForSubmit
	ProgramStore ProgramStoreForSubmit
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSubmitEnquiry records a contact request for a program.
// PRE: none; the form is public
// POST: On success exactly one enquiry row is inserted; a blank email is stored as NULL
// INVARIANT: Blank name or phone never reaches the store
// INVARIANT: ProgramID names an existing program at creation time
func ExecuteSubmitEnquiry(ctx context.Context, input SubmitEnquiryInput, deps SubmitEnquiryDeps) (enquiry.Enquiry, error) {
	e := enquiry.Enquiry{
		ID:        deps.GenerateID(),
		ProgramID: strings.TrimSpace(input.ProgramID),
		Name:      strings.TrimSpace(input.Name),
		Phone:     strings.TrimSpace(input.Phone),
		Email:     enquiry.NormalizeEmail(input.Email),
		CreatedAt: deps.Now().UTC(),
	}
	if err := e.Validate(); err != nil {
		return enquiry.Enquiry{}, err
	}

	if _, err := deps.ProgramStore.GetByID(ctx, e.ProgramID); err != nil {
		if errors.Is(err, program.ErrNotFound) {
			return enquiry.Enquiry{}, enquiry.ErrUnknownProgram
		}
		return enquiry.Enquiry{}, fmt.Errorf("look up program: %w", err)
	}

	if err := deps.EnquiryStore.Save(ctx, e); err != nil {
		return enquiry.Enquiry{}, fmt.Errorf("save enquiry: %w", err)
	}

	slog.Info("enquiry_submitted", "enquiry_id", e.ID, "program_id", e.ProgramID, "has_email", e.Email != nil)
	return e, nil
}

// IsEnquiryValidationError reports whether err is an enquiry input error rather than a store failure.
func IsEnquiryValidationError(err error) bool {
	return isOneOf(err,
		enquiry.ErrEmptyProgramID, enquiry.ErrEmptyName, enquiry.ErrEmptyPhone,
		enquiry.ErrNameTooLong, enquiry.ErrPhoneTooLong, enquiry.ErrEmailTooLong,
		enquiry.ErrUnknownProgram,
	)
}

func isOneOf(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
