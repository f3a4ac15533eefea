package model

import "fmt"

// Error types
type ErrorType string

const (
	ErrInvalidRecurrence ErrorType = "invalid_recurrence"
	ErrInvalidDueType    ErrorType = "invalid_due_type"
	ErrInvalidStatus     ErrorType = "invalid_status"
	ErrInvalidInput      ErrorType = "invalid_input"
)

// Error represents a model validation error
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
