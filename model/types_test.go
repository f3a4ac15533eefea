package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseRecurrence(t *testing.T) {
	tests := []struct {
		raw     string
		want    Recurrence
		wantErr bool
	}{
		{"", RecurrenceNone, false},
		{"none", RecurrenceNone, false},
		{"daily", RecurrenceDaily, false},
		{"weekly", RecurrenceWeekly, false},
		{"biweekly", RecurrenceBiweekly, false},
		{"monthly", RecurrenceMonthly, false},
		{"quarterly", RecurrenceQuarterly, false},
		{"yearly", RecurrenceYearly, false},
		{"eow", RecurrenceEndOfWeek, false},
		{"midm", RecurrenceMidMonth, false},
		{"eom", RecurrenceEndOfMonth, false},
		{"Daily", "", true},
		{"fortnightly", "", true},
		{"weekly ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseRecurrence(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				var modelErr *Error
				require.ErrorAs(t, err, &modelErr)
				assert.Equal(t, ErrInvalidRecurrence, modelErr.Type)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDueType(t *testing.T) {
	got, err := ParseDueType("before-1pm")
	require.NoError(t, err)
	assert.Equal(t, DueBefore1PM, got)

	got, err = ParseDueType("")
	require.NoError(t, err)
	assert.Equal(t, DueNone, got)

	_, err = ParseDueType("whenever")
	require.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("in-progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got)

	_, err = ParseStatus("done")
	require.Error(t, err)
}

func TestTask_Validate(t *testing.T) {
	valid := Task{
		ID:         "t1",
		Status:     StatusPending,
		Recurrence: RecurrenceDaily,
		DueType:    DueNone,
		CreatedAt:  ts(2024, 3, 1),
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.Recurrence = "sometimes"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.ID = ""
	assert.Error(t, bad.Validate())

	bad = valid
	bad.CreatedAt = time.Time{}
	assert.Error(t, bad.Validate())
}

func TestTask_AnchorCascade(t *testing.T) {
	created := ts(2024, 3, 1)
	generated := ts(2024, 3, 3)
	custom := ts(2024, 3, 5)

	task := Task{ID: "t1", CreatedAt: created}
	assert.True(t, task.Anchor().Equal(created))

	task.GeneratedDate = &generated
	assert.True(t, task.Anchor().Equal(generated))

	task.CustomDueDate = &custom
	assert.True(t, task.Anchor().Equal(custom))
}

func TestTask_ExplicitDue(t *testing.T) {
	task := Task{ID: "t1", CreatedAt: ts(2024, 3, 1)}
	assert.True(t, task.ExplicitDue().IsAbsent())

	due := ts(2024, 3, 10)
	task.DueDate = &due
	got, ok := task.ExplicitDue().Get()
	require.True(t, ok)
	assert.True(t, got.Equal(due))

	custom := ts(2024, 3, 12)
	task.CustomDueDate = &custom
	got, ok = task.ExplicitDue().Get()
	require.True(t, ok)
	assert.True(t, got.Equal(custom))
}

func TestInstanceID_Deterministic(t *testing.T) {
	day := ts(2024, 3, 7)

	assert.Equal(t, "t1_2024-03-07", InstanceID("t1", RecurrenceDaily, PeriodNone, day))
	assert.Equal(t, "t1_eow_2024-03-07", InstanceID("t1", RecurrenceEndOfWeek, PeriodNone, day))
	assert.Equal(t, "t1_midm_first_2024-03-07", InstanceID("t1", RecurrenceMidMonth, PeriodFirst, day))
	assert.Equal(t, "t1_midm_second_2024-03-07", InstanceID("t1", RecurrenceMidMonth, PeriodSecond, day))
	assert.Equal(t, "t1_eom_end_2024-03-07", InstanceID("t1", RecurrenceEndOfMonth, PeriodEnd, day))
	assert.Equal(t, "t1_eom_start_2024-03-07", InstanceID("t1", RecurrenceEndOfMonth, PeriodStart, day))

	// Identical inputs always produce the identical id.
	assert.Equal(t,
		InstanceID("t1", RecurrenceDaily, PeriodNone, day),
		InstanceID("t1", RecurrenceDaily, PeriodNone, day))
}

func TestNewInstance_SnapshotsByValue(t *testing.T) {
	completedAt := ts(2024, 3, 2)
	task := Task{
		ID:          "t1",
		Title:       "daily check",
		Status:      StatusInProgress,
		Recurrence:  RecurrenceDaily,
		CreatedAt:   ts(2024, 3, 1),
		AssignedTo:  "dr-jones",
		ClaimedBy:   "nurse-kim",
		CompletedAt: &completedAt,
	}

	inst := NewInstance(task, ts(2024, 3, 7), ts(2024, 3, 7), PeriodNone)
	assert.Equal(t, "t1", inst.ParentTaskID)
	assert.Equal(t, "daily check", inst.Title)
	assert.Equal(t, StatusInProgress, inst.Status)
	assert.Equal(t, "dr-jones", inst.AssignedTo)
	assert.Equal(t, "nurse-kim", inst.ClaimedBy)

	// The completion timestamp is copied, not shared.
	require.NotNil(t, inst.CompletedAt)
	assert.NotSame(t, task.CompletedAt, inst.CompletedAt)
	*task.CompletedAt = ts(2030, 1, 1)
	assert.True(t, inst.CompletedAt.Equal(completedAt))
}

func TestItemUnion(t *testing.T) {
	task := Task{ID: "t1", CreatedAt: ts(2024, 3, 1)}
	inst := NewInstance(task, ts(2024, 3, 7), ts(2024, 3, 7), PeriodNone)

	var items []Item = []Item{task, inst}
	assert.Equal(t, "t1", items[0].ItemID())
	assert.Equal(t, "t1_2024-03-07", items[1].ItemID())

	// A task and its instances share a dedup key.
	assert.Equal(t, items[0].DedupKey(), items[1].DedupKey())
}
