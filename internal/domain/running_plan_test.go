package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortEntries_ByWeekThenDay(t *testing.T) {
	e1 := NewRunningPlanEntry(1, 1, nil)
	e2 := NewRunningPlanEntry(1, 2, nil)
	e3 := NewRunningPlanEntry(2, 3, nil)
	e4 := NewRunningPlanEntry(2, 7, nil)

	entries := []*RunningPlanEntry{e3, e2, e1, e4}
	SortEntries(entries)

	assert.Equal(t, []*RunningPlanEntry{e1, e2, e3, e4}, entries)
}

func TestCompareEntries_TiedOnSameWeekAndDay(t *testing.T) {
	a := NewRunningPlanEntry(3, 4, nil)
	b := NewRunningPlanEntry(3, 4, nil)
	assert.Equal(t, 0, CompareEntries(a, b))
	assert.Equal(t, -1, CompareEntries(NewRunningPlanEntry(1, 7, nil), NewRunningPlanEntry(2, 1, nil)))
	assert.Equal(t, 1, CompareEntries(NewRunningPlanEntry(2, 2, nil), NewRunningPlanEntry(2, 1, nil)))
}

func TestRunningPlanEntry_ClampsOutOfRange(t *testing.T) {
	e := NewRunningPlanEntry(53, 8, nil)
	assert.Equal(t, 1, e.Week())
	assert.Equal(t, 1, e.Day())

	e.SetWeek(0)
	e.SetDay(-3)
	assert.Equal(t, 1, e.Week())
	assert.Equal(t, 1, e.Day())

	e.SetWeek(52)
	e.SetDay(7)
	assert.Equal(t, 52, e.Week())
	assert.Equal(t, 7, e.Day())
}

func TestRunningPlanEntry_Duration(t *testing.T) {
	movement := MustNaturalKey("L")
	tests := []struct {
		name     string
		override int64
		units    []int64
		want     int64
	}{
		{"sum of units", 0, []int64{30, 5}, 35},
		{"override without units", 10, nil, 10},
		{"override above sum", 10, []int64{3, 4}, 10},
		{"sum above override", 10, []int64{25, 25}, 50},
		{"no units no override", 0, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units := make([]*RunningUnit, 0, len(tt.units))
			for _, d := range tt.units {
				units = append(units, NewRunningUnit(d, movement))
			}
			e := NewRunningPlanEntry(1, 1, units)
			e.DurationOverride = tt.override
			assert.Equal(t, tt.want, e.Duration())
		})
	}
}

func TestRunningPlan_Completion(t *testing.T) {
	movement := MustNaturalKey("L")
	u1 := NewRunningUnit(5, movement)
	u2 := NewRunningUnit(10, movement)
	u3 := NewRunningUnit(7, movement)
	plan := NewRunningPlan("Plan", "", 1, []*RunningPlanEntry{
		NewRunningPlanEntry(1, 1, []*RunningUnit{u1, u2}),
		NewRunningPlanEntry(1, 3, []*RunningUnit{u3}),
	}, false)

	assert.False(t, plan.IsCompleted())
	assert.Equal(t, 0, plan.PercentCompleted())

	require.True(t, plan.CompleteUnit(u1.ID()))
	assert.False(t, plan.IsCompleted())
	assert.Equal(t, 50, plan.Entries[0].PercentCompleted())
	assert.Equal(t, 33, plan.PercentCompleted())

	require.True(t, plan.CompleteUnit(u2.ID()))
	assert.True(t, plan.Entries[0].IsCompleted())
	assert.False(t, plan.IsCompleted())

	require.True(t, plan.CompleteUnit(u3.ID()))
	assert.True(t, plan.IsCompleted())
	assert.Equal(t, 100, plan.PercentCompleted())
	assert.Equal(t, int64(22), plan.Duration())

	assert.False(t, plan.CompleteUnit(NewIdentity()))
}

func TestRunningPlanEntry_CompletedWithoutUnits(t *testing.T) {
	e := NewRunningPlanEntry(1, 1, nil)
	assert.True(t, e.IsCompleted())
	assert.Equal(t, 0, e.PercentCompleted())
	assert.True(t, NewRunningPlan("Empty", "", 0, nil, false).IsCompleted())
}

func TestRunningPlan_SetStartDate_AlwaysMonday(t *testing.T) {
	// 2024-03-04 is a Monday.
	monday := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	plan := NewRunningPlan("Plan", "", 1, nil, false)

	for i := 0; i < 7; i++ {
		date := monday.AddDate(0, 0, i).Add(13 * time.Hour)
		plan.SetStartDate(date)
		got := plan.StartDate()
		assert.Equal(t, time.Monday, got.Weekday(), "day offset %d", i)
		assert.False(t, got.Before(time.Date(2024, time.March, 4+i, 0, 0, 0, 0, time.UTC)), "never moves backward")
		if i == 0 {
			assert.Equal(t, monday, got)
		} else {
			assert.Equal(t, monday.AddDate(0, 0, 7), got)
		}
	}
}

func TestRunningPlan_EntryDate(t *testing.T) {
	plan := NewRunningPlan("Plan", "", 1, nil, false)
	plan.SetStartDate(time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC))

	e := NewRunningPlanEntry(2, 3, nil)
	assert.Equal(t, time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC), plan.EntryDate(e))

	flexDate := time.Date(2024, time.May, 1, 18, 0, 0, 0, time.UTC)
	flex := NewFlexEntry(flexDate, 45, 5000, nil)
	assert.True(t, flex.IsFlex())
	assert.Equal(t, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), plan.EntryDate(flex))
	assert.Equal(t, int64(45), flex.Duration())
}

func TestMondayOfWeek(t *testing.T) {
	sunday := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), MondayOfWeek(sunday))
	assert.Equal(t, time.Monday, MondayOfWeek(time.Now()).Weekday())
}
