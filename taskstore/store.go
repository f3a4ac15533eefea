// Package taskstore defines the task source the recurrence engine reads
// from. Tasks are owned by the dashboard's backend; the engine only needs
// the read path, but the reference implementations also carry the write
// path so they can back the dashboard directly.
package taskstore

import (
	"context"
	"fmt"

	"github.com/clinova/taskcal/model"
)

// Error types
type ErrorType string

const (
	ErrNotFound     ErrorType = "not_found"
	ErrInvalidInput ErrorType = "invalid_input"
	ErrUnavailable  ErrorType = "unavailable"
)

// Error represents a task store error
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

// Source is the read contract the recurrence engine consumes.
type Source interface {
	// ListTasks retrieves every task of a clinic. Implementations must
	// return independent copies; the engine treats tasks as read-only
	// snapshots.
	ListTasks(ctx context.Context, clinicID string) ([]model.Task, error)
}

// Store extends Source with the write path used by the dashboard.
// Implementations validate enum fields on write (the model boundary), so
// unrecognized recurrence or due-type values never reach date math.
type Store interface {
	Source
	PutTask(ctx context.Context, clinicID string, task model.Task) (model.Task, error)
	DeleteTask(ctx context.Context, clinicID, taskID string) error
}
