package report

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/worktime-engine/core"
)

// Month holds the weeks overlapping a month. Weeks keep their days outside
// the month; every total only counts the days inside it.
type Month struct {
	year  int
	month time.Month
	weeks []Week
}

// NewMonth builds a month report from its weeks in order.
func NewMonth(year int, month time.Month, weeks []Week) Month {
	return Month{year: year, month: month, weeks: append([]Week(nil), weeks...)}
}

func (m Month) Year() int         { return m.year }
func (m Month) Month() time.Month { return m.month }
func (m Month) Weeks() []Week     { return append([]Week(nil), m.weeks...) }
func (m Month) Range() core.DateRange {
	first := core.NewDate(m.year, m.month, 1)
	return core.DateRange{From: first, ToExclusive: first.AddMonths(1)}
}

// WeeksInMonth returns copies of the weeks restricted to the month's days.
func (m Month) WeeksInMonth() []Week {
	out := make([]Week, len(m.weeks))
	for i, w := range m.weeks {
		out[i] = w.InMonth(m.year, m.month)
	}
	return out
}

func (m Month) days() days {
	var out days
	for _, w := range m.WeeksInMonth() {
		out = append(out, w.days...)
	}
	return out
}

func (m Month) Persons() []core.PersonID                      { return m.days().persons() }
func (m Month) PlannedWorkingHours() core.PlannedWorkingHours { return m.days().planned() }
func (m Month) ShouldWorkingHours() core.ShouldWorkingHours   { return m.days().should() }
func (m Month) WorkDuration() core.WorkDuration               { return m.days().worked() }
func (m Month) AverageDayWorkDuration() core.WorkDuration     { return m.days().averageWorked() }
func (m Month) Delta() DeltaWorkingHours                      { return Delta(m.WorkDuration(), m.ShouldWorkingHours()) }
func (m Month) WorkedHoursRatio() decimal.Decimal             { return WorkedHoursRatio(m.WorkDuration(), m.ShouldWorkingHours()) }

func (m Month) PlannedWorkingHoursByPerson() map[core.PersonID]core.PlannedWorkingHours {
	return m.days().plannedByPerson()
}

func (m Month) ShouldWorkingHoursByPerson() map[core.PersonID]core.ShouldWorkingHours {
	return m.days().shouldByPerson()
}

func (m Month) WorkDurationByPerson() map[core.PersonID]core.WorkDuration {
	return m.days().workedByPerson()
}

func (m Month) DeltaByPerson() map[core.PersonID]DeltaWorkingHours {
	return m.days().deltaByPerson()
}

// AccumulatedOvertimeAtEnd is the running overtime of every person at the
// end of the month.
func (m Month) AccumulatedOvertimeAtEnd() map[core.PersonID]DeltaWorkingHours {
	return m.days().accumulatedAtEnd()
}
