package recurrence

import (
	"time"

	"github.com/clinova/taskcal/model"
)

// generateFunc produces the (possibly filtered) instances for one task
// over the expansion range, plus how many the raw generator produced
// before any filtering. The raw count decides whether the task fell
// outside its pattern (fallback: emit the raw task) or merely had every
// occurrence filtered away.
type generateFunc func(model.Task) (kept []model.Instance, raw int)

// Expand turns a task collection plus date range into the display-ready
// list of tasks and instances for that range, deduplicated so that at
// most one entry exists per task per calendar day. Identical input always
// yields an identically-ordered, identical-id result.
//
// Per task:
//   - recurring and not completed: the generated instances replace the raw
//     task; if the range does not overlap the pattern at all, the raw task
//     is emitted unchanged so it never silently disappears.
//   - recurring and completed: the raw task is emitted exactly once, and
//     only when its completion day falls inside the range. It is never
//     instance-expanded.
//   - no recurrence: the raw task is emitted exactly once.
func (e *Engine) Expand(tasks []model.Task, start, end time.Time) []model.Item {
	if end.Before(start) {
		return []model.Item{}
	}

	// Overdue flags flip at midnight, so the classification day is part
	// of the cache key.
	op := opExpand + "@" + dayOf(e.clock.Now()).Format("2006-01-02")
	if e.cache != nil {
		if cached, ok := e.cache.Get(op, tasks, start, end); ok {
			return cached
		}
	}

	items := e.expandWith(tasks, start, end, func(t model.Task) ([]model.Instance, int) {
		insts := e.Generate(t, start, end)
		return insts, len(insts)
	})

	if e.cache != nil {
		e.cache.Set(op, tasks, start, end, items)
	}
	return items
}

// ForRange is an alias of Expand.
func (e *Engine) ForRange(tasks []model.Task, start, end time.Time) []model.Item {
	return e.Expand(tasks, start, end)
}

// expandWith runs one expansion pass with a pluggable instance source,
// guarding against duplicate ids across the whole result.
func (e *Engine) expandWith(tasks []model.Task, start, end time.Time, generate generateFunc) []model.Item {
	startDay, endDay := dayOf(start), dayOf(end)

	items := make([]model.Item, 0, len(tasks))
	seen := make(map[string]struct{})
	emit := func(it model.Item) {
		id := it.ItemID()
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		items = append(items, it)
	}

	for _, task := range tasks {
		switch {
		case task.Recurrence != model.RecurrenceNone && !task.Completed():
			kept, raw := generate(task)
			if raw == 0 {
				// Range does not overlap the pattern; keep the task
				// visible rather than dropping it.
				emit(task)
				break
			}
			for _, inst := range kept {
				emit(inst)
			}
		case task.Recurrence != model.RecurrenceNone:
			// Completed recurring task: one phantom completion record,
			// scoped at day granularity to the range holding its
			// completion date.
			day := dayOf(task.CompletionReference())
			if !day.Before(startDay) && !day.After(endDay) {
				emit(task)
			}
		default:
			emit(task)
		}
	}
	return items
}
