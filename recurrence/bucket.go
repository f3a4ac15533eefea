package recurrence

import (
	"time"

	"github.com/clinova/taskcal/model"
)

// ForDate narrows an expansion to exactly what belongs on one calendar
// day. Each expanded item is judged by the first rule that applies to it:
//
//  1. an instance belongs to its own instance date;
//  2. a completed task belongs to its completion day;
//  3. a task with an explicit due date belongs to that day;
//  4. a daily task with no explicit due date belongs to every day until
//     completed;
//  5. any other recurring task with no explicit due date and an "anytime"
//     due type belongs to every day until completed;
//  6. a non-recurring task with a fixed due type and no explicit due date
//     belongs to every day from its creation onward — it never expires
//     out of daily views by itself; closing such tasks out is the
//     caller's responsibility.
//
// The result never contains two entries for the same task. Ordering is
// stable relative to Expand output; callers needing a display order must
// sort explicitly.
func (e *Engine) ForDate(tasks []model.Task, date time.Time) []model.Item {
	day := dayOf(date)
	return bucketFilter(e.Expand(tasks, day, endOfDay(day)), day)
}

// bucketFilter applies the day-membership cascade plus per-task dedup to
// an expansion result.
func bucketFilter(items []model.Item, day time.Time) []model.Item {
	out := make([]model.Item, 0, len(items))
	seen := make(map[string]struct{})
	for _, it := range items {
		if !belongsToDay(it, day) {
			continue
		}
		key := it.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

// belongsToDay evaluates the fallback-rule cascade for one item. The
// first applicable rule decides; an item's absence of due information
// degrades to "does not match", never to an error.
func belongsToDay(item model.Item, day time.Time) bool {
	switch v := item.(type) {
	case model.Instance:
		return sameDay(v.InstanceDate, day)
	case model.Task:
		if v.Completed() {
			return sameDay(v.CompletionReference(), day)
		}
		if due, ok := v.ExplicitDue().Get(); ok {
			return sameDay(due, day)
		}
		if v.Recurrence == model.RecurrenceDaily {
			return true
		}
		if v.Recurrence != model.RecurrenceNone {
			return v.DueType == model.DueAnytime
		}
		if v.DueType != model.DueNone && v.DueType != model.DueCustom {
			return !dayOf(v.CreatedAt).After(day)
		}
		return false
	}
	return false
}
