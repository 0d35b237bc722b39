// internal/domain/running_plan.go
package domain

import (
	"cmp"
	"slices"
	"time"
)

const (
	MaxWeek = 52
	MaxDay  = 7
)

// RunningUnit is one section of a training day, e.g. "5 min slow walking".
type RunningUnit struct {
	UUID           Identity
	Duration       int64 // minutes
	Completed      bool
	MovementTypeID Identity // -> MovementType
}

func NewRunningUnit(duration int64, movementTypeID Identity) *RunningUnit {
	return &RunningUnit{UUID: NewIdentity(), Duration: duration, MovementTypeID: movementTypeID}
}

func (u *RunningUnit) ID() Identity { return u.UUID }
func (u *RunningUnit) Kind() Kind   { return KindRunningUnit }

// RunningPlanEntry is a training day of a plan: week and day of week (1 = Monday),
// or for flex plans an explicit date with a target duration and distance.
type RunningPlanEntry struct {
	UUID             Identity
	week             int
	day              int
	RunningDate      *time.Time // flex plans only
	DurationOverride int64      // minutes, flex plans only
	Distance         float64    // flex plans only
	Units            []*RunningUnit
}

// NewRunningPlanEntry creates a template entry. Out-of-range week or day become 1.
func NewRunningPlanEntry(week, day int, units []*RunningUnit) *RunningPlanEntry {
	if units == nil {
		units = []*RunningUnit{}
	}
	e := &RunningPlanEntry{UUID: NewIdentity(), Units: units}
	e.SetWeek(week)
	e.SetDay(day)
	return e
}

// NewFlexEntry creates an entry defined by date, duration and distance instead of week/day.
func NewFlexEntry(date time.Time, duration int64, distance float64, units []*RunningUnit) *RunningPlanEntry {
	if units == nil {
		units = []*RunningUnit{}
	}
	d := truncateDay(date)
	return &RunningPlanEntry{
		UUID:             NewIdentity(),
		RunningDate:      &d,
		DurationOverride: duration,
		Distance:         distance,
		Units:            units,
	}
}

// RestoreRunningPlanEntry rebuilds an entry from stored values without clamping,
// so flex entries keep week and day at zero.
func RestoreRunningPlanEntry(id Identity, week, day int) *RunningPlanEntry {
	return &RunningPlanEntry{UUID: id, week: week, day: day, Units: []*RunningUnit{}}
}

func (e *RunningPlanEntry) ID() Identity { return e.UUID }
func (e *RunningPlanEntry) Kind() Kind   { return KindRunningPlanEntry }

func (e *RunningPlanEntry) Week() int { return e.week }
func (e *RunningPlanEntry) Day() int  { return e.day }

func (e *RunningPlanEntry) SetWeek(week int) {
	if week < 1 || week > MaxWeek {
		week = 1
	}
	e.week = week
}

func (e *RunningPlanEntry) SetDay(day int) {
	if day < 1 || day > MaxDay {
		day = 1
	}
	e.day = day
}

// IsFlex reports whether the entry is placed by date rather than by week and day.
func (e *RunningPlanEntry) IsFlex() bool {
	return e.RunningDate != nil && e.week == 0 && e.day == 0
}

// Duration is the sum of the unit durations. A positive override wins when
// the units are missing or add up to less than the override.
func (e *RunningPlanEntry) Duration() int64 {
	var sum int64
	for _, u := range e.Units {
		sum += u.Duration
	}
	if e.DurationOverride > 0 && (sum == 0 || sum < e.DurationOverride) {
		return e.DurationOverride
	}
	return sum
}

// IsCompleted is true when every unit is completed, and for entries without units.
func (e *RunningPlanEntry) IsCompleted() bool {
	for _, u := range e.Units {
		if !u.Completed {
			return false
		}
	}
	return true
}

// PercentCompleted returns the rounded-down share of completed units.
func (e *RunningPlanEntry) PercentCompleted() int {
	if len(e.Units) == 0 {
		return 0
	}
	completed := 0
	for _, u := range e.Units {
		if u.Completed {
			completed++
		}
	}
	return completed * 100 / len(e.Units)
}

// CompareEntries orders entries by week, then day. Flex entries have week 0
// and come first, ordered by date among themselves.
func CompareEntries(a, b *RunningPlanEntry) int {
	if c := cmp.Compare(a.week, b.week); c != 0 {
		return c
	}
	if c := cmp.Compare(a.day, b.day); c != 0 {
		return c
	}
	if a.RunningDate != nil && b.RunningDate != nil {
		return a.RunningDate.Compare(*b.RunningDate)
	}
	return 0
}

// SortEntries sorts in place; entries on the same day keep their order.
func SortEntries(entries []*RunningPlanEntry) {
	slices.SortStableFunc(entries, CompareEntries)
}

// RunningPlan is a training schedule. It owns its entries, which own their units.
type RunningPlan struct {
	UUID        Identity
	Name        string
	Remarks     string
	OrderNumber int
	IsTemplate  bool
	startDate   time.Time
	Entries     []*RunningPlanEntry
}

// NewRunningPlan starts the plan on the Monday on or after today.
func NewRunningPlan(name, remarks string, orderNumber int, entries []*RunningPlanEntry, isTemplate bool) *RunningPlan {
	if entries == nil {
		entries = []*RunningPlanEntry{}
	}
	p := &RunningPlan{
		UUID:        NewIdentity(),
		Name:        name,
		Remarks:     remarks,
		OrderNumber: orderNumber,
		IsTemplate:  isTemplate,
		Entries:     entries,
	}
	p.SetStartDate(time.Now())
	return p
}

func (p *RunningPlan) ID() Identity { return p.UUID }
func (p *RunningPlan) Kind() Kind   { return KindRunningPlan }

func (p *RunningPlan) StartDate() time.Time { return p.startDate }

// SetStartDate moves the date forward to the next Monday, or keeps it if it is one.
func (p *RunningPlan) SetStartDate(date time.Time) {
	p.startDate = NextMonday(date)
}

// RestoreStartDate sets a stored start date as is.
func (p *RunningPlan) RestoreStartDate(date time.Time) {
	p.startDate = truncateDay(date)
}

// EntryDate is the calendar day of an entry: start + (week-1) weeks + (day-1) days.
func (p *RunningPlan) EntryDate(e *RunningPlanEntry) time.Time {
	if e.IsFlex() {
		return *e.RunningDate
	}
	return p.startDate.AddDate(0, 0, (e.week-1)*7+(e.day-1))
}

// Duration sums the entry durations in minutes.
func (p *RunningPlan) Duration() int64 {
	var sum int64
	for _, e := range p.Entries {
		sum += e.Duration()
	}
	return sum
}

func (p *RunningPlan) IsCompleted() bool {
	for _, e := range p.Entries {
		if !e.IsCompleted() {
			return false
		}
	}
	return true
}

// PercentCompleted is the share of completed units over the whole plan.
func (p *RunningPlan) PercentCompleted() int {
	total, completed := 0, 0
	for _, e := range p.Entries {
		for _, u := range e.Units {
			total++
			if u.Completed {
				completed++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return completed * 100 / total
}

// CompleteUnit marks the unit with the given identity as completed. It only
// changes memory; call Library.Update to persist it.
func (p *RunningPlan) CompleteUnit(unitID Identity) bool {
	for _, e := range p.Entries {
		for _, u := range e.Units {
			if u.UUID.Equal(unitID) {
				u.Completed = true
				return true
			}
		}
	}
	return false
}

// SortEntries orders the plan's entries by week and day.
func (p *RunningPlan) SortEntries() {
	SortEntries(p.Entries)
}

// NextMonday returns the Monday on or after t, at midnight in t's location.
func NextMonday(t time.Time) time.Time {
	d := truncateDay(t)
	offset := (int(time.Monday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset)
}

// MondayOfWeek returns the Monday on or before t.
func MondayOfWeek(t time.Time) time.Time {
	d := truncateDay(t)
	offset := (int(d.Weekday()) - int(time.Monday) + 7) % 7
	return d.AddDate(0, 0, -offset)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
