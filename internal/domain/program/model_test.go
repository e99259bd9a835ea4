package program_test

import (
	"errors"
	"testing"
	"time"

	"auraboxing/internal/domain/program"
)

func validProgram() program.Program {
	return program.Program{
		ID:       "1",
		City:     "Pune",
		Date:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Time:     "18:00",
		MapsLink: "https://maps.example/x",
	}
}

// TestProgram_Validate tests validation of Program.
func TestProgram_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *program.Program)
		wantErr error
	}{
		{name: "valid program", mutate: func(p *program.Program) {}},
		{name: "empty city", mutate: func(p *program.Program) { p.City = "" }, wantErr: program.ErrEmptyCity},
		{name: "whitespace city", mutate: func(p *program.Program) { p.City = "   " }, wantErr: program.ErrEmptyCity},
		{name: "missing date", mutate: func(p *program.Program) { p.Date = time.Time{} }, wantErr: program.ErrMissingDate},
		{name: "empty time", mutate: func(p *program.Program) { p.Time = "" }, wantErr: program.ErrEmptyTime},
		{name: "empty maps link", mutate: func(p *program.Program) { p.MapsLink = " " }, wantErr: program.ErrEmptyMapsLink},
		{name: "maps link without scheme", mutate: func(p *program.Program) { p.MapsLink = "maps.example/x" }, wantErr: program.ErrInvalidMapsLink},
		{name: "javascript maps link", mutate: func(p *program.Program) { p.MapsLink = "javascript:alert(1)" }, wantErr: program.ErrInvalidMapsLink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProgram()
			tt.mutate(&p)
			err := p.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Program.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestParseDate covers blank, valid and malformed input.
func TestParseDate(t *testing.T) {
	d, err := program.ParseDate("2025-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.March || d.Day() != 1 {
		t.Errorf("got %v", d)
	}

	d, err = program.ParseDate("  ")
	if err != nil || !d.IsZero() {
		t.Errorf("blank date: got %v, %v; want zero, nil", d, err)
	}

	if _, err := program.ParseDate("01/03/2025"); !errors.Is(err, program.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

// TestProgram_Display verifies the card formatting.
func TestProgram_Display(t *testing.T) {
	p := validProgram()
	if got := p.DisplayCity(); got != "PUNE" {
		t.Errorf("DisplayCity() = %q, want PUNE", got)
	}
	if got := p.DisplayDate(); got != "March 01, 2025" {
		t.Errorf("DisplayDate() = %q, want March 01, 2025", got)
	}

	// A date carrying a non-UTC location still formats as its UTC calendar day.
	loc := time.FixedZone("UTC-8", -8*3600)
	p.Date = time.Date(2025, 2, 28, 16, 0, 0, 0, loc)
	if got := p.DisplayDate(); got != "March 01, 2025" {
		t.Errorf("DisplayDate() in UTC-8 = %q, want March 01, 2025", got)
	}
}
