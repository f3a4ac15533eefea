// Package workcal defines the working-calendar service this library
// consumes: per-clinic weekend policy and holiday lists deciding which
// calendar days tasks should be displayed on. The service itself is owned
// by external configuration; this package carries the contract, an XML
// settings codec, and reference implementations for embedding and tests.
package workcal

import (
	"context"
	"fmt"
	"time"
)

// Error types
type ErrorType string

const (
	ErrNotFound     ErrorType = "not_found"
	ErrUnavailable  ErrorType = "unavailable"
	ErrInvalidInput ErrorType = "invalid_input"
)

// Error represents a working-calendar service error
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Settings is one clinic's working-calendar policy.
type Settings struct {
	// WeekendsAreWorkdays keeps Saturdays and Sundays eligible for task
	// display.
	WeekendsAreWorkdays bool
	// Holidays lists non-working dates; only the calendar day is
	// significant.
	Holidays []time.Time
}

// WorkingDay evaluates the policy for one calendar day.
func (s *Settings) WorkingDay(date time.Time) bool {
	if !s.WeekendsAreWorkdays {
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return false
		}
	}
	for _, h := range s.Holidays {
		hy, hm, hd := h.Date()
		dy, dm, dd := date.Date()
		if hy == dy && hm == dm && hd == dd {
			return false
		}
	}
	return true
}

// Service is the external working-calendar contract consumed by the
// recurrence engine's working-day path.
type Service interface {
	// IsWorkingDay reports whether date is a working day for the clinic.
	IsWorkingDay(ctx context.Context, clinicID string, date time.Time) (bool, error)
	// GetSettings retrieves the clinic's working-calendar policy.
	GetSettings(ctx context.Context, clinicID string) (*Settings, error)
}
