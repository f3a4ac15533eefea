package model

import (
	"fmt"
	"time"
)

// Item is the discriminated union of the two shapes an expansion can
// return: a raw Task from the store, or an ephemeral Instance projected
// from one. The unexported marker keeps the union closed so code that
// persists or mutates records can type-switch exhaustively and can never
// be handed a third shape carrying a synthetic id.
type Item interface {
	// ItemID is the task id for a Task, the synthetic id for an Instance.
	ItemID() string
	// DedupKey collapses a task and its own instances to one key, so a
	// result set can guarantee at most one entry per task per day.
	DedupKey() string

	isItem()
}

// CyclePeriod tags which window of a split-cycle pattern an instance
// belongs to. Empty for single-cycle patterns.
type CyclePeriod string

const (
	PeriodNone CyclePeriod = ""
	// Mid-month cycles: days 1-7 and days 15-21.
	PeriodFirst  CyclePeriod = "first"
	PeriodSecond CyclePeriod = "second"
	// End-of-month cycles: days 25..last, and the carry-over days 1-5.
	PeriodEnd   CyclePeriod = "end"
	PeriodStart CyclePeriod = "start"
)

// Instance is one date-scoped occurrence of a recurring task. Instances
// are produced by the recurrence engine, never persisted, and snapshot the
// parent task's mutable fields by value at generation time.
type Instance struct {
	// ID is synthetic and deterministic: identical inputs always produce
	// the identical id, so callers may safely use it for caching and list
	// identity. See InstanceID.
	ID           string
	ParentTaskID string
	// InstanceDate is the calendar day this occurrence belongs to.
	InstanceDate time.Time
	// OriginalDueDate is the deadline of the occurrence's cycle (for the
	// window patterns) or the occurrence date itself (standard patterns).
	OriginalDueDate time.Time
	// Period distinguishes the two monthly cycles of midm/eom patterns.
	Period CyclePeriod

	IsOverdue     bool
	OverdueReason string

	// Snapshot of the parent at generation time. Mutating the parent
	// afterwards has no effect on an already-produced instance.
	Title       string
	Recurrence  Recurrence
	Status      Status
	AssignedTo  string
	ClaimedBy   string
	CompletedAt *time.Time
	CompletedBy string
}

// InstanceID builds the deterministic synthetic id for an occurrence of
// parentID on date, optionally tagged with a split-cycle period.
func InstanceID(parentID string, rec Recurrence, period CyclePeriod, date time.Time) string {
	day := date.Format("2006-01-02")
	switch rec {
	case RecurrenceEndOfWeek:
		return fmt.Sprintf("%s_eow_%s", parentID, day)
	case RecurrenceMidMonth:
		return fmt.Sprintf("%s_midm_%s_%s", parentID, period, day)
	case RecurrenceEndOfMonth:
		return fmt.Sprintf("%s_eom_%s_%s", parentID, period, day)
	}
	return fmt.Sprintf("%s_%s", parentID, day)
}

// NewInstance projects one occurrence of task on date. The caller supplies
// the cycle period and the occurrence's due date; overdue classification
// happens separately.
func NewInstance(task Task, date, due time.Time, period CyclePeriod) Instance {
	inst := Instance{
		ID:              InstanceID(task.ID, task.Recurrence, period, date),
		ParentTaskID:    task.ID,
		InstanceDate:    date,
		OriginalDueDate: due,
		Period:          period,

		Title:      task.Title,
		Recurrence: task.Recurrence,
		Status:     task.Status,
		AssignedTo: task.AssignedTo,
		ClaimedBy:  task.ClaimedBy,
		CompletedBy: task.CompletedBy,
	}
	if task.CompletedAt != nil {
		at := *task.CompletedAt
		inst.CompletedAt = &at
	}
	return inst
}

// Completed reports whether the snapshotted status is completed.
func (i Instance) Completed() bool {
	return i.Status == StatusCompleted
}

// ItemID implements Item.
func (i Instance) ItemID() string { return i.ID }

// DedupKey implements Item.
func (i Instance) DedupKey() string { return i.ParentTaskID }

func (Instance) isItem() {}
