package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinova/taskcal/model"
)

func testEngine(now time.Time) *Engine {
	cfg := NoCacheConfig
	cfg.Clock = FixedClock{At: now}
	return NewEngineWithConfig(cfg)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func taskWith(id string, rec model.Recurrence, createdAt time.Time) model.Task {
	return model.Task{
		ID:         id,
		Title:      "task " + id,
		Status:     model.StatusPending,
		Recurrence: rec,
		DueType:    model.DueNone,
		CreatedAt:  createdAt,
	}
}

func TestEngine_Generate_Standard(t *testing.T) {
	engine := testEngine(date(2024, 3, 1))

	tests := []struct {
		name       string
		recurrence model.Recurrence
		anchor     time.Time
		start      time.Time
		end        time.Time
		wantDates  []time.Time
	}{
		{
			name:       "daily anchored inside range",
			recurrence: model.RecurrenceDaily,
			anchor:     date(2024, 3, 4),
			start:      date(2024, 3, 1),
			end:        date(2024, 3, 8),
			wantDates: []time.Time{
				date(2024, 3, 4), date(2024, 3, 5), date(2024, 3, 6),
				date(2024, 3, 7), date(2024, 3, 8),
			},
		},
		{
			name:       "weekly anchored before range steps from range start",
			recurrence: model.RecurrenceWeekly,
			anchor:     date(2024, 1, 1),
			start:      date(2024, 3, 6),
			end:        date(2024, 3, 27),
			wantDates: []time.Time{
				date(2024, 3, 6), date(2024, 3, 13), date(2024, 3, 20), date(2024, 3, 27),
			},
		},
		{
			name:       "biweekly",
			recurrence: model.RecurrenceBiweekly,
			anchor:     date(2024, 3, 1),
			start:      date(2024, 3, 1),
			end:        date(2024, 3, 31),
			wantDates: []time.Time{
				date(2024, 3, 1), date(2024, 3, 15), date(2024, 3, 29),
			},
		},
		{
			name:       "monthly",
			recurrence: model.RecurrenceMonthly,
			anchor:     date(2024, 1, 15),
			start:      date(2024, 1, 1),
			end:        date(2024, 4, 30),
			wantDates: []time.Time{
				date(2024, 1, 15), date(2024, 2, 15), date(2024, 3, 15), date(2024, 4, 15),
			},
		},
		{
			name:       "quarterly",
			recurrence: model.RecurrenceQuarterly,
			anchor:     date(2024, 1, 10),
			start:      date(2024, 1, 1),
			end:        date(2024, 12, 31),
			wantDates: []time.Time{
				date(2024, 1, 10), date(2024, 4, 10), date(2024, 7, 10), date(2024, 10, 10),
			},
		},
		{
			name:       "yearly",
			recurrence: model.RecurrenceYearly,
			anchor:     date(2023, 6, 1),
			start:      date(2023, 1, 1),
			end:        date(2025, 12, 31),
			wantDates: []time.Time{
				date(2023, 6, 1), date(2024, 6, 1), date(2025, 6, 1),
			},
		},
		{
			name:       "anchor after range yields nothing",
			recurrence: model.RecurrenceDaily,
			anchor:     date(2024, 5, 1),
			start:      date(2024, 3, 1),
			end:        date(2024, 3, 31),
			wantDates:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := taskWith("t1", tt.recurrence, tt.anchor)
			instances := engine.Generate(task, tt.start, tt.end)

			require.Len(t, instances, len(tt.wantDates))
			for i, want := range tt.wantDates {
				assert.True(t, instances[i].InstanceDate.Equal(want),
					"instance %d: got %s want %s", i, instances[i].InstanceDate, want)
				assert.Equal(t, "t1", instances[i].ParentTaskID)
				assert.Equal(t, model.InstanceID("t1", tt.recurrence, model.PeriodNone, want), instances[i].ID)
			}
		})
	}
}

func TestEngine_Generate_AnchorCascade(t *testing.T) {
	engine := testEngine(date(2024, 3, 1))

	created := date(2024, 3, 1)
	generated := date(2024, 3, 3)
	custom := date(2024, 3, 5)

	task := taskWith("t1", model.RecurrenceDaily, created)
	task.GeneratedDate = &generated
	task.CustomDueDate = &custom

	// Custom due date wins over generated date and creation time.
	instances := engine.Generate(task, date(2024, 3, 1), date(2024, 3, 6))
	require.NotEmpty(t, instances)
	assert.True(t, instances[0].InstanceDate.Equal(custom))

	task.CustomDueDate = nil
	instances = engine.Generate(task, date(2024, 3, 1), date(2024, 3, 6))
	require.NotEmpty(t, instances)
	assert.True(t, instances[0].InstanceDate.Equal(generated))

	task.GeneratedDate = nil
	instances = engine.Generate(task, date(2024, 3, 1), date(2024, 3, 6))
	require.NotEmpty(t, instances)
	assert.True(t, instances[0].InstanceDate.Equal(created))
}

func TestEngine_Generate_EndOfWeek(t *testing.T) {
	engine := testEngine(date(2024, 3, 1))
	task := taskWith("t1", model.RecurrenceEndOfWeek, date(2024, 1, 1))

	// 2024-03-04 is a Monday; the full week yields seven instances with
	// distinct ids, all due Sunday 23:59:59.
	instances := engine.Generate(task, date(2024, 3, 4), date(2024, 3, 10))
	require.Len(t, instances, 7)

	ids := make(map[string]struct{})
	sunday := time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)
	for i, inst := range instances {
		assert.True(t, inst.InstanceDate.Equal(date(2024, 3, 4+i)))
		assert.True(t, inst.OriginalDueDate.Equal(sunday))
		ids[inst.ID] = struct{}{}
	}
	assert.Len(t, ids, 7)

	// A partial week only yields the in-range days.
	instances = engine.Generate(task, date(2024, 3, 8), date(2024, 3, 10))
	require.Len(t, instances, 3)
	assert.True(t, instances[0].InstanceDate.Equal(date(2024, 3, 8)))
}

func TestEngine_Generate_MidMonth(t *testing.T) {
	engine := testEngine(date(2024, 3, 1))
	task := taskWith("t1", model.RecurrenceMidMonth, date(2024, 1, 1))

	instances := engine.Generate(task, date(2024, 3, 1), date(2024, 3, 31))
	require.Len(t, instances, 14)

	for i := 0; i < 7; i++ {
		assert.Equal(t, model.PeriodFirst, instances[i].Period)
		assert.True(t, instances[i].InstanceDate.Equal(date(2024, 3, 1+i)))
		assert.True(t, instances[i].OriginalDueDate.Equal(time.Date(2024, 3, 7, 23, 59, 59, 0, time.UTC)))
	}
	for i := 7; i < 14; i++ {
		assert.Equal(t, model.PeriodSecond, instances[i].Period)
		assert.True(t, instances[i].InstanceDate.Equal(date(2024, 3, 8+i)))
		assert.True(t, instances[i].OriginalDueDate.Equal(time.Date(2024, 3, 21, 23, 59, 59, 0, time.UTC)))
	}

	// Days 8-14 and 22-31 are outside both cycles.
	instances = engine.Generate(task, date(2024, 3, 8), date(2024, 3, 14))
	assert.Empty(t, instances)
}

func TestEngine_Generate_EndOfMonth(t *testing.T) {
	engine := testEngine(date(2024, 3, 1))
	task := taskWith("t1", model.RecurrenceEndOfMonth, date(2024, 1, 1))

	instances := engine.Generate(task, date(2024, 3, 1), date(2024, 3, 31))
	// Carry-over days 1-5 plus end window 25-31.
	require.Len(t, instances, 12)

	assert.Equal(t, model.PeriodStart, instances[0].Period)
	assert.True(t, instances[0].InstanceDate.Equal(date(2024, 3, 1)))
	assert.Equal(t, model.PeriodEnd, instances[5].Period)
	assert.True(t, instances[5].InstanceDate.Equal(date(2024, 3, 25)))

	// Both windows share the month-end deadline.
	monthEnd := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	for _, inst := range instances {
		assert.True(t, inst.OriginalDueDate.Equal(monthEnd))
	}

	// February end window respects the leap-year month length.
	instances = engine.Generate(task, date(2024, 2, 25), date(2024, 2, 29))
	require.Len(t, instances, 5)
	assert.True(t, instances[4].InstanceDate.Equal(date(2024, 2, 29)))
}

func TestEngine_Generate_Guards(t *testing.T) {
	engine := testEngine(date(2024, 3, 1))

	t.Run("inverted range", func(t *testing.T) {
		task := taskWith("t1", model.RecurrenceDaily, date(2024, 3, 1))
		assert.Empty(t, engine.Generate(task, date(2024, 3, 10), date(2024, 3, 1)))
	})

	t.Run("no recurrence", func(t *testing.T) {
		task := taskWith("t1", model.RecurrenceNone, date(2024, 3, 1))
		assert.Empty(t, engine.Generate(task, date(2024, 3, 1), date(2024, 3, 10)))
	})

	t.Run("completed task yields no instances", func(t *testing.T) {
		task := taskWith("t1", model.RecurrenceDaily, date(2024, 3, 1))
		task.Status = model.StatusCompleted
		assert.Empty(t, engine.Generate(task, date(2024, 3, 1), date(2024, 3, 10)))
	})

	t.Run("unrecognized recurrence yields no instances", func(t *testing.T) {
		task := taskWith("t1", model.Recurrence("fortnightly-ish"), date(2024, 3, 1))
		assert.Empty(t, engine.Generate(task, date(2024, 3, 1), date(2024, 3, 10)))
	})

	t.Run("generation is bounded", func(t *testing.T) {
		task := taskWith("t1", model.RecurrenceDaily, date(2024, 1, 1))
		instances := engine.Generate(task, date(2024, 1, 1), date(2026, 1, 1))
		assert.Len(t, instances, 365)
	})
}

func TestEngine_Generate_SnapshotsAreIndependent(t *testing.T) {
	engine := testEngine(date(2024, 3, 1))

	task := taskWith("t1", model.RecurrenceDaily, date(2024, 3, 1))
	task.AssignedTo = "dr-jones"

	instances := engine.Generate(task, date(2024, 3, 1), date(2024, 3, 3))
	require.Len(t, instances, 3)

	// Mutating the source task after generation must not leak into the
	// already-produced instances.
	task.AssignedTo = "someone-else"
	task.Status = model.StatusCompleted
	completedAt := date(2024, 3, 2)
	task.CompletedAt = &completedAt

	for _, inst := range instances {
		assert.Equal(t, "dr-jones", inst.AssignedTo)
		assert.Equal(t, model.StatusPending, inst.Status)
		assert.Nil(t, inst.CompletedAt)
	}
}

func TestEngine_Generate_Ordering(t *testing.T) {
	engine := testEngine(date(2024, 3, 1))
	task := taskWith("t1", model.RecurrenceMidMonth, date(2024, 1, 1))

	instances := engine.Generate(task, date(2024, 2, 10), date(2024, 4, 20))
	require.NotEmpty(t, instances)
	for i := 1; i < len(instances); i++ {
		assert.False(t, instances[i].InstanceDate.Before(instances[i-1].InstanceDate),
			"instances out of order at %d", i)
	}
}
