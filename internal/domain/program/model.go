package program

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Date layouts.
const (
	DateLayout        = "2006-01-02"       // storage and form input
	DisplayDateLayout = "January 02, 2006" // public cards, e.g. "March 01, 2025"
	ShortDateLayout   = "Jan 2"            // enquiry table program column
)

// Max length constants.
const (
	MaxCityLength     = 100
	MaxTimeLength     = 20
	MaxMapsLinkLength = 2048
)

// Domain errors
var (
	ErrEmptyCity       = errors.New("program city cannot be empty")
	ErrCityTooLong     = errors.New("program city cannot exceed 100 characters")
	ErrMissingDate     = errors.New("program date is required")
	ErrEmptyTime       = errors.New("program time cannot be empty")
	ErrTimeTooLong     = errors.New("program time cannot exceed 20 characters")
	ErrEmptyMapsLink   = errors.New("program maps link cannot be empty")
	ErrInvalidMapsLink = errors.New("program maps link must be an http(s) URL")
	ErrInvalidDate     = errors.New("program date must be YYYY-MM-DD")
	ErrNotFound        = errors.New("program not found")
)

// Program is a scheduled boxing session in a city on a given date.
// INVARIANT: ID is immutable once stored; programs are never updated in place.
type Program struct {
	ID        string
	City      string
	Date      time.Time // calendar date, UTC midnight
	Time      string    // time of day as entered, e.g. "18:00"
	MapsLink  string
	CreatedAt time.Time
}

// Validate checks the fields required on creation.
// PRE: Program struct is populated
// POST: Returns nil if valid, the first violated rule otherwise
func (p *Program) Validate() error {
	city := strings.TrimSpace(p.City)
	if city == "" {
		return ErrEmptyCity
	}
	if len(city) > MaxCityLength {
		return ErrCityTooLong
	}
	if p.Date.IsZero() {
		return ErrMissingDate
	}
	t := strings.TrimSpace(p.Time)
	if t == "" {
		return ErrEmptyTime
	}
	if len(t) > MaxTimeLength {
		return ErrTimeTooLong
	}
	link := strings.TrimSpace(p.MapsLink)
	if link == "" {
		return ErrEmptyMapsLink
	}
	if len(link) > MaxMapsLinkLength {
		return ErrInvalidMapsLink
	}
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidMapsLink
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD string as a UTC calendar date.
// Blank input yields the zero time and no error so Validate can report it.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// DisplayCity returns the city as shown on cards.
func (p Program) DisplayCity() string {
	return strings.ToUpper(p.City)
}

// DisplayDate formats the calendar date as "Month DD, YYYY".
// The date is formatted in UTC so the result never depends on the server timezone.
func (p Program) DisplayDate() string {
	return FormatDate(p.Date)
}

// FormatDate formats a calendar date as "Month DD, YYYY".
func FormatDate(d time.Time) string {
	return d.UTC().Format(DisplayDateLayout)
}
