package model

import (
	"time"

	"github.com/samber/mo"
)

// Recurrence identifies how often a task definition generates occurrences.
// The set is closed; anything else must be rejected at the boundary via
// ParseRecurrence rather than interpreted ad hoc in date math.
type Recurrence string

const (
	RecurrenceNone      Recurrence = "none"
	RecurrenceDaily     Recurrence = "daily"
	RecurrenceWeekly    Recurrence = "weekly"
	RecurrenceBiweekly  Recurrence = "biweekly"
	RecurrenceMonthly   Recurrence = "monthly"
	RecurrenceQuarterly Recurrence = "quarterly"
	RecurrenceYearly    Recurrence = "yearly"

	// Window patterns: the task stays open for every day of its cycle
	// window and has a hard deadline at the window's end.
	RecurrenceEndOfWeek  Recurrence = "eow"
	RecurrenceMidMonth   Recurrence = "midm"
	RecurrenceEndOfMonth Recurrence = "eom"
)

// ParseRecurrence validates a raw recurrence value against the closed set.
// An empty string is treated as "none".
func ParseRecurrence(raw string) (Recurrence, error) {
	if raw == "" {
		return RecurrenceNone, nil
	}
	switch r := Recurrence(raw); r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceBiweekly,
		RecurrenceMonthly, RecurrenceQuarterly, RecurrenceYearly,
		RecurrenceEndOfWeek, RecurrenceMidMonth, RecurrenceEndOfMonth:
		return r, nil
	}
	return "", &Error{Type: ErrInvalidRecurrence, Message: "unrecognized recurrence value: " + raw}
}

// IsStandard reports whether the pattern steps forward by a fixed unit
// (as opposed to the eow/midm/eom window patterns).
func (r Recurrence) IsStandard() bool {
	switch r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceBiweekly,
		RecurrenceMonthly, RecurrenceQuarterly, RecurrenceYearly:
		return true
	}
	return false
}

// Status of a task in the external store.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// ParseStatus validates a raw status value. An empty string is pending.
func ParseStatus(raw string) (Status, error) {
	if raw == "" {
		return StatusPending, nil
	}
	switch s := Status(raw); s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return s, nil
	}
	return "", &Error{Type: ErrInvalidStatus, Message: "unrecognized status value: " + raw}
}

// DueType describes when a non-recurring task is due. It is only
// meaningful when Recurrence is none.
type DueType string

const (
	DueBeforeOpening DueType = "before-opening"
	DueBefore1PM     DueType = "before-1pm"
	DueEndOfDay      DueType = "end-of-day"
	DueEndOfWeek     DueType = "end-of-week"
	DueEndOfMonth    DueType = "end-of-month"
	DueAnytime       DueType = "anytime"
	DueCustom        DueType = "custom"
	DueNone          DueType = "none"
)

// ParseDueType validates a raw due-type value. An empty string is "none".
func ParseDueType(raw string) (DueType, error) {
	if raw == "" {
		return DueNone, nil
	}
	switch d := DueType(raw); d {
	case DueBeforeOpening, DueBefore1PM, DueEndOfDay, DueEndOfWeek,
		DueEndOfMonth, DueAnytime, DueCustom, DueNone:
		return d, nil
	}
	return "", &Error{Type: ErrInvalidDueType, Message: "unrecognized due-type value: " + raw}
}

// Task is the stored task definition. It is owned by the external task
// store; this library only ever reads it and never mutates one.
type Task struct {
	// ID is the store's opaque stable identifier.
	ID string
	// Title is display text, copied through and never interpreted.
	Title  string
	Status Status
	// Recurrence governs occurrence generation. Must come from
	// ParseRecurrence at the boundary.
	Recurrence Recurrence
	// DueType is consulted only when Recurrence is none.
	DueType DueType
	// CustomDueDate is an explicit user-set due timestamp.
	CustomDueDate *time.Time
	// DueDate is a due timestamp set by the scheduling backend.
	DueDate *time.Time
	// GeneratedDate marks when an automatically generated task was created.
	GeneratedDate *time.Time
	CreatedAt     time.Time
	// CompletedAt is present iff Status is completed.
	CompletedAt *time.Time
	// Identity references, opaque to this library.
	AssignedTo  string
	ClaimedBy   string
	CompletedBy string
}

// Validate re-checks the enumeration fields of a task that arrived from an
// untyped source (JSON, SQL row). Tasks built from the Parse* functions are
// valid by construction.
func (t *Task) Validate() error {
	if _, err := ParseRecurrence(string(t.Recurrence)); err != nil {
		return err
	}
	if _, err := ParseStatus(string(t.Status)); err != nil {
		return err
	}
	if _, err := ParseDueType(string(t.DueType)); err != nil {
		return err
	}
	if t.ID == "" {
		return &Error{Type: ErrInvalidInput, Message: "task id is required"}
	}
	if t.CreatedAt.IsZero() {
		return &Error{Type: ErrInvalidInput, Message: "task created_at is required"}
	}
	return nil
}

// Completed reports whether the task is in the completed status.
func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

// ExplicitDue returns the user-visible explicit due timestamp, preferring
// the custom date over the backend one.
func (t Task) ExplicitDue() mo.Option[time.Time] {
	if t.CustomDueDate != nil {
		return mo.Some(*t.CustomDueDate)
	}
	if t.DueDate != nil {
		return mo.Some(*t.DueDate)
	}
	return mo.None[time.Time]()
}

// Anchor returns the reference date recurrence stepping starts from:
// custom due date, else generated date, else creation time.
func (t Task) Anchor() time.Time {
	if t.CustomDueDate != nil {
		return *t.CustomDueDate
	}
	if t.GeneratedDate != nil {
		return *t.GeneratedDate
	}
	return t.CreatedAt
}

// CompletionReference returns the timestamp that dates a completed task:
// completion time, else generated date, else creation time.
func (t Task) CompletionReference() time.Time {
	if t.CompletedAt != nil {
		return *t.CompletedAt
	}
	if t.GeneratedDate != nil {
		return *t.GeneratedDate
	}
	return t.CreatedAt
}

// ItemID implements Item.
func (t Task) ItemID() string { return t.ID }

// DedupKey implements Item. A raw task deduplicates against instances
// generated from it, so the key is the task's own id.
func (t Task) DedupKey() string { return t.ID }

func (Task) isItem() {}
