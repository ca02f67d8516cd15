/*
calendar.go - Planned and should working hours of one person

PURPOSE:
  A Calendar answers, for each day of the requested range, how many hours
  the person's contract plans and how many hours are still owed once
  absences are applied ("should" hours).

LAYOUT:
  planned and absences are dense slices indexed by the day offset from
  span.From. The span may be wider than the requested range so that
  overtime reductions reaching outside the range can be distributed over
  all of their days. Queries outside the requested range report ok=false.

SHOULD HOURS:
  - no absence:                 planned
  - FULL leave:                 0 (dominates everything else that day)
  - MORNING/NOON leave:         planned/2 removed per half day
  - overtime reduction:         its total is spread over the absence's days
                                in proportion to each day's free capacity
  The result never drops below zero.

CONCURRENCY:
  Immutable after construction; safe for concurrent readers.

SEE ALSO:
  - calendar_service.go: Builds calendars from contracts and absences
  - report/service.go: Consumes should hours
*/
package workingtime

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/worktime-engine/core"
)

// Calendar is the reconciled planned/should view of one person.
type Calendar struct {
	personID  core.PersonID
	requested core.DateRange
	span      core.DateRange
	planned   []core.PlannedWorkingHours
	absences  [][]Absence
}

// NewCalendar builds a calendar. plannedAt is called once for every day of
// the span; span is widened to include requested if necessary. Absences
// are indexed for the days they touch inside the span.
func NewCalendar(personID core.PersonID, requested, span core.DateRange, plannedAt func(core.Date) core.PlannedWorkingHours, absences []Absence) *Calendar {
	span = span.Span(requested)
	c := &Calendar{
		personID:  personID,
		requested: requested,
		span:      span,
		planned:   make([]core.PlannedWorkingHours, span.Len()),
		absences:  make([][]Absence, span.Len()),
	}
	for i, day := range span.Days() {
		c.planned[i] = plannedAt(day)
	}
	for _, a := range absences {
		days := a.Days().Intersect(span)
		for d := days.From; d.Before(days.ToExclusive); d = d.AddDays(1) {
			i := span.From.DaysUntil(d)
			c.absences[i] = append(c.absences[i], a)
		}
	}
	return c
}

// PersonID returns the owner of the calendar.
func (c *Calendar) PersonID() core.PersonID { return c.personID }

// Range returns the requested range.
func (c *Calendar) Range() core.DateRange { return c.requested }

func (c *Calendar) index(d core.Date) (int, bool) {
	if !c.requested.Contains(d) {
		return 0, false
	}
	return c.span.From.DaysUntil(d), true
}

// PlannedWorkingHours returns the contract hours of d; ok is false for days
// outside the requested range.
func (c *Calendar) PlannedWorkingHours(d core.Date) (core.PlannedWorkingHours, bool) {
	i, ok := c.index(d)
	if !ok {
		return 0, false
	}
	return c.planned[i], true
}

// PlannedWorkingHoursBetween sums the planned hours of [from, toExclusive)
// within the requested range; days outside contribute zero.
func (c *Calendar) PlannedWorkingHoursBetween(from, toExclusive core.Date) core.PlannedWorkingHours {
	var sum core.PlannedWorkingHours
	window := c.requested.Intersect(core.DateRange{From: from, ToExclusive: toExclusive})
	for d := window.From; d.Before(window.ToExclusive); d = d.AddDays(1) {
		planned, _ := c.PlannedWorkingHours(d)
		sum += planned
	}
	return sum
}

// ShouldWorkingHoursBetween sums the should hours of [from, toExclusive)
// within the requested range.
func (c *Calendar) ShouldWorkingHoursBetween(from, toExclusive core.Date) core.ShouldWorkingHours {
	var sum core.ShouldWorkingHours
	window := c.requested.Intersect(core.DateRange{From: from, ToExclusive: toExclusive})
	for d := window.From; d.Before(window.ToExclusive); d = d.AddDays(1) {
		should, _ := c.ShouldWorkingHours(d)
		sum += should
	}
	return sum
}

// Absences returns the absences touching d. Days outside the requested
// range have none.
func (c *Calendar) Absences(d core.Date) []Absence {
	i, ok := c.index(d)
	if !ok || len(c.absences[i]) == 0 {
		return nil
	}
	out := make([]Absence, len(c.absences[i]))
	copy(out, c.absences[i])
	return out
}

// ShouldWorkingHours returns planned hours minus absences for d; ok is
// false for days outside the requested range.
func (c *Calendar) ShouldWorkingHours(d core.Date) (core.ShouldWorkingHours, bool) {
	i, ok := c.index(d)
	if !ok {
		return 0, false
	}
	return c.shouldAt(i), true
}

func (c *Calendar) shouldAt(i int) core.ShouldWorkingHours {
	planned := c.planned[i].Duration()
	if len(c.absences[i]) == 0 {
		return core.ShouldWorkingHours(planned)
	}

	var reduction time.Duration
	for _, a := range c.absences[i] {
		switch kind := a.Kind.(type) {
		case OvertimeReduction:
			reduction += c.overtimeShare(i, a, kind)
		default:
			if a.DayLength == DayLengthFull {
				return 0
			}
			reduction += planned / 2
		}
	}
	return core.ShouldWorkingHours(core.MaxDuration(planned-reduction, 0))
}

// overtimeShare is the part of the reduction's total that falls on day i:
// total / Σ capacity(d) * capacity(i), over the reduction's days with
// planned hours. A half-day reduction never offsets more than half of the
// day's planned hours.
func (c *Calendar) overtimeShare(i int, a Absence, reduction OvertimeReduction) time.Duration {
	planned := c.planned[i].Duration()
	if planned <= 0 || reduction.Total <= 0 {
		return 0
	}

	effectiveDays := decimal.Zero
	days := a.Days().Intersect(c.span)
	for d := days.From; d.Before(days.ToExclusive); d = d.AddDays(1) {
		j := c.span.From.DaysUntil(d)
		if c.planned[j] > 0 {
			effectiveDays = effectiveDays.Add(c.capacity(j))
		}
	}
	if !effectiveDays.IsPositive() {
		return 0
	}

	share := decimal.NewFromInt(int64(reduction.Total)).
		Mul(c.capacity(i)).
		Div(effectiveDays).
		IntPart()

	limit := decimal.NewFromInt(int64(planned)).Mul(a.DayLength.Value()).IntPart()
	if share > limit {
		share = limit
	}
	return time.Duration(share)
}

// capacity is the fraction of day i that leave absences leave free for
// overtime reduction, never below zero.
func (c *Calendar) capacity(i int) decimal.Decimal {
	free := one
	for _, other := range c.absences[i] {
		if other.IsOvertimeReduction() {
			continue
		}
		free = free.Sub(other.DayLength.Value())
	}
	if free.IsNegative() {
		return decimal.Zero
	}
	return free
}
