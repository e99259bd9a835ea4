package enquiry

import (
	"errors"
	"strings"
	"time"
)

// Max length constants.
const (
	MaxNameLength  = 200
	MaxPhoneLength = 200
	MaxEmailLength = 320
)

// Display labels.
const (
	DeletedProgramLabel = "Deleted Program"
	CreatedDateLayout   = "Jan 2, 2006"
)

// Domain errors
var (
	ErrEmptyName      = errors.New("name is required")
	ErrEmptyPhone     = errors.New("phone number is required")
	ErrNameTooLong    = errors.New("name cannot exceed 200 characters")
	ErrPhoneTooLong   = errors.New("phone number cannot exceed 200 characters")
	ErrEmailTooLong   = errors.New("email cannot exceed 320 characters")
	ErrEmptyProgramID = errors.New("program is required")
	ErrUnknownProgram = errors.New("program is no longer available")
)

// Enquiry is a contact request from a prospective participant about a program.
// ProgramID may outlive the program it names; see View.
type Enquiry struct {
	ID        string
	ProgramID string
	Name      string
	Phone     string
	Email     *string // nil when not provided
	CreatedAt time.Time
}

// ProgramRef is the program side of the read-time join.
type ProgramRef struct {
	City string
	Date time.Time
}

// View is an enquiry as listed on the dashboard.
// Program is nil when the referenced program has been deleted.
type View struct {
	Enquiry
	Program *ProgramRef
}

// NormalizeEmail trims s and maps blank input to nil.
func NormalizeEmail(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Validate checks the required contact fields.
// PRE: Enquiry struct is populated
// POST: Returns nil if valid, the first violated rule otherwise
func (e *Enquiry) Validate() error {
	if strings.TrimSpace(e.ProgramID) == "" {
		return ErrEmptyProgramID
	}
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	phone := strings.TrimSpace(e.Phone)
	if phone == "" {
		return ErrEmptyPhone
	}
	if len(phone) > MaxPhoneLength {
		return ErrPhoneTooLong
	}
	if e.Email != nil && len(*e.Email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	return nil
}

// EmailOrEmpty returns the email for display.
func (e Enquiry) EmailOrEmpty() string {
	if e.Email == nil {
		return ""
	}
	return *e.Email
}

// IsDangling reports whether the referenced program no longer exists.
func (v View) IsDangling() bool {
	return v.Program == nil
}

// ProgramLabel returns the upper-cased city of the joined program, or the deleted marker.
func (v View) ProgramLabel() string {
	if v.Program == nil {
		return DeletedProgramLabel
	}
	return strings.ToUpper(v.Program.City)
}
