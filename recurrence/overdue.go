package recurrence

import (
	"time"

	"github.com/clinova/taskcal/model"
)

// Overdue reason strings, one fixed string per pattern with a deadline.
const (
	reasonEndOfWeek  = "Not completed by end of week (Sunday)"
	reasonMidMonth   = "Not completed by mid-month cycle deadline"
	reasonEndOfMonth = "Not completed by end of month"
	reasonGeneric    = "Overdue"
)

// IsOverdue reports whether item has missed its pattern deadline as of
// now. Completed items are never overdue. Only the window patterns
// (eow/midm/eom) define a deadline; the fixed-step patterns keep
// generating new occurrences instead of going overdue, so this always
// returns false for them.
func IsOverdue(item model.Item, now time.Time) bool {
	switch v := item.(type) {
	case model.Instance:
		if v.Completed() {
			return false
		}
		return deadlinePassed(v.Recurrence, v.InstanceDate, now)
	case model.Task:
		if v.Completed() {
			return false
		}
		return deadlinePassed(v.Recurrence, v.Anchor(), now)
	}
	return false
}

// deadlinePassed computes the deadline of the cycle containing ref and
// checks whether now is past it. The deadline is always 23:59:59 of the
// cycle's closing day; exactly 23:59:59 is still on time.
func deadlinePassed(rec model.Recurrence, ref, now time.Time) bool {
	switch rec {
	case model.RecurrenceEndOfWeek:
		sunday := weekStart(ref).AddDate(0, 0, 6)
		return now.After(endOfDay(sunday))
	case model.RecurrenceMidMonth:
		switch day := ref.Day(); {
		case day <= 7:
			return now.After(cycleDeadline(ref, 7))
		case day >= 15 && day <= 21:
			return now.After(cycleDeadline(ref, 21))
		}
		return false
	case model.RecurrenceEndOfMonth:
		return now.After(cycleDeadline(ref, lastDayOfMonth(ref)))
	}
	return false
}

// cycleDeadline returns 23:59:59 on the given day of ref's month.
func cycleDeadline(ref time.Time, day int) time.Time {
	return time.Date(ref.Year(), ref.Month(), day, 23, 59, 59, 0, ref.Location())
}

// OverdueReason returns the fixed human-readable string describing why a
// task of this pattern goes overdue. Patterns without a deadline rule get
// a generic string, used only when some other layer decides a task is
// overdue by other means.
func OverdueReason(task model.Task) string {
	switch task.Recurrence {
	case model.RecurrenceEndOfWeek:
		return reasonEndOfWeek
	case model.RecurrenceMidMonth:
		return reasonMidMonth
	case model.RecurrenceEndOfMonth:
		return reasonEndOfMonth
	}
	return reasonGeneric
}
