package recurrence

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/clinova/taskcal/model"
	"github.com/clinova/taskcal/workcal"
)

// WorkdayEngine wraps an Engine with a working-calendar service so that
// occurrences falling on a clinic's non-working days are filtered out of
// expansions.
//
// The service is consulted once per candidate instance. Lookups are
// issued concurrently but results are reassembled in generation order, so
// output stays deterministic regardless of lookup latency. A failing or
// unreachable service fails open: the day is treated as working, so a
// transient infrastructure failure never silently hides a clinic's tasks.
type WorkdayEngine struct {
	engine  *Engine
	workcal workcal.Service
	logger  *slog.Logger
}

// NewWorkdayEngine creates a working-day-aware wrapper around engine.
// A nil logger falls back to slog.Default().
func NewWorkdayEngine(engine *Engine, service workcal.Service, logger *slog.Logger) *WorkdayEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkdayEngine{
		engine:  engine,
		workcal: service,
		logger:  logger,
	}
}

// GenerateWorkingDayInstances generates the occurrences of task inside
// [start, end] and keeps only those falling on the clinic's working days.
func (w *WorkdayEngine) GenerateWorkingDayInstances(ctx context.Context, task model.Task, start, end time.Time, clinicID string) []model.Instance {
	kept, _ := w.generateFiltered(ctx, task, start, end, clinicID)
	return kept
}

// ExpandWorkingDay has the same contract as Engine.Expand, with instances
// restricted to working days. A task whose pattern does not overlap the
// range at all still falls back to the raw task; a task whose occurrences
// were all filtered away as non-working emits nothing and reappears on
// the next working day.
func (w *WorkdayEngine) ExpandWorkingDay(ctx context.Context, tasks []model.Task, start, end time.Time, clinicID string) []model.Item {
	if end.Before(start) {
		return []model.Item{}
	}
	return w.engine.expandWith(tasks, start, end, func(t model.Task) ([]model.Instance, int) {
		return w.generateFiltered(ctx, t, start, end, clinicID)
	})
}

// ForWorkingDay has the same contract as Engine.ForDate, working-day
// aware. If date itself is not a working day it short-circuits to an
// empty result without running any expansion.
func (w *WorkdayEngine) ForWorkingDay(ctx context.Context, tasks []model.Task, date time.Time, clinicID string) []model.Item {
	day := dayOf(date)
	if !w.workingDay(ctx, clinicID, day) {
		return []model.Item{}
	}
	return bucketFilter(w.ExpandWorkingDay(ctx, tasks, day, endOfDay(day), clinicID), day)
}

// generateFiltered returns the working-day instances of task plus the raw
// pre-filter count.
func (w *WorkdayEngine) generateFiltered(ctx context.Context, task model.Task, start, end time.Time, clinicID string) ([]model.Instance, int) {
	instances := w.engine.Generate(task, start, end)
	if len(instances) == 0 {
		return nil, 0
	}

	// One lookup per candidate, fanned out; the keep mask is indexed by
	// generation order, which fixes the output order up front.
	keep := make([]bool, len(instances))
	var wg sync.WaitGroup
	for i := range instances {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			keep[i] = w.workingDay(ctx, clinicID, instances[i].InstanceDate)
		}(i)
	}
	wg.Wait()

	kept := make([]model.Instance, 0, len(instances))
	for i, inst := range instances {
		if keep[i] {
			kept = append(kept, inst)
		}
	}
	return kept, len(instances)
}

// workingDay consults the service, failing open on error.
func (w *WorkdayEngine) workingDay(ctx context.Context, clinicID string, date time.Time) bool {
	working, err := w.workcal.IsWorkingDay(ctx, clinicID, date)
	if err != nil {
		w.logger.Warn("working-calendar lookup failed, treating day as working",
			"clinic_id", clinicID,
			"date", date.Format("2006-01-02"),
			"error", err)
		return true
	}
	return working
}
