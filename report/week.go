package report

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/worktime-engine/core"
)

// Week is seven consecutive days starting on a Monday.
type Week struct {
	first core.Date
	days  []Day
}

// NewWeek builds a week from its first date and its days in order.
func NewWeek(first core.Date, reportDays []Day) Week {
	return Week{first: first, days: append([]Day(nil), reportDays...)}
}

func (w Week) FirstDate() core.Date { return w.first }
func (w Week) LastDate() core.Date  { return w.first.AddDays(6) }

// Days returns the days of the week in order.
func (w Week) Days() []Day { return append([]Day(nil), w.days...) }

// CalendarWeek is the aligned week of year of the first day.
func (w Week) CalendarWeek() int { return core.AlignedWeekOfYear(w.first) }

func (w Week) Persons() []core.PersonID                      { return days(w.days).persons() }
func (w Week) PlannedWorkingHours() core.PlannedWorkingHours { return days(w.days).planned() }
func (w Week) ShouldWorkingHours() core.ShouldWorkingHours   { return days(w.days).should() }
func (w Week) WorkDuration() core.WorkDuration               { return days(w.days).worked() }
func (w Week) AverageDayWorkDuration() core.WorkDuration     { return days(w.days).averageWorked() }
func (w Week) Delta() DeltaWorkingHours                      { return Delta(w.WorkDuration(), w.ShouldWorkingHours()) }
func (w Week) WorkedHoursRatio() decimal.Decimal             { return WorkedHoursRatio(w.WorkDuration(), w.ShouldWorkingHours()) }

func (w Week) PlannedWorkingHoursByPerson() map[core.PersonID]core.PlannedWorkingHours {
	return days(w.days).plannedByPerson()
}

func (w Week) ShouldWorkingHoursByPerson() map[core.PersonID]core.ShouldWorkingHours {
	return days(w.days).shouldByPerson()
}

func (w Week) WorkDurationByPerson() map[core.PersonID]core.WorkDuration {
	return days(w.days).workedByPerson()
}

func (w Week) DeltaByPerson() map[core.PersonID]DeltaWorkingHours {
	return days(w.days).deltaByPerson()
}

// AccumulatedOvertimeAtEnd is the running overtime of every person on the
// last day they appear in this week.
func (w Week) AccumulatedOvertimeAtEnd() map[core.PersonID]DeltaWorkingHours {
	return days(w.days).accumulatedAtEnd()
}

// InMonth returns a copy holding only the days of the given month. The
// receiver is left untouched.
func (w Week) InMonth(year int, month time.Month) Week {
	out := Week{first: w.first}
	for _, d := range w.days {
		if d.Date().Year() == year && d.Date().Month() == month {
			out.days = append(out.days, d)
		}
	}
	return out
}
