/*
workingtime.go - Working-time contract model

PURPOSE:
  A WorkingTime is one validity-bounded contract of one person: planned
  hours per weekday, the federal state whose public holidays apply and
  whether the person works on public holidays.

VALIDITY:
  ValidFrom == nil marks the open-start ("first") contract. ValidTo is
  never stored; Timeline derives it as the day before the next contract's
  ValidFrom. The last contract is open-ended.

WEEKDAYS:
  Workdays maps weekday -> planned hours. A weekday missing from the map
  is a non-working day, which is distinguishable from an explicit 0h.

INHERITANCE:
  FederalStateGlobal and PublicHolidayInherit defer to the tenant-wide
  FederalStateSettings at calculation time.

SEE ALSO:
  - timeline.go: Ordering, ValidTo derivation, point lookup
  - calendar_service.go: Turns contracts into planned hours per day
*/
package workingtime

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warp/worktime-engine/core"
)

// =============================================================================
// PUBLIC HOLIDAY RULE
// =============================================================================

// PublicHolidayRule is the tri-state "works on public holidays" setting.
type PublicHolidayRule string

const (
	PublicHolidayInherit PublicHolidayRule = "GLOBAL"
	PublicHolidayWork    PublicHolidayRule = "YES"
	PublicHolidayOff     PublicHolidayRule = "NO"
)

// ParsePublicHolidayRule accepts GLOBAL/YES/NO and true/false.
func ParsePublicHolidayRule(s string) (PublicHolidayRule, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "GLOBAL", "INHERIT":
		return PublicHolidayInherit, nil
	case "YES", "TRUE":
		return PublicHolidayWork, nil
	case "NO", "FALSE":
		return PublicHolidayOff, nil
	default:
		return "", fmt.Errorf("unknown public holiday rule %q", s)
	}
}

// Resolve applies the tenant default for PublicHolidayInherit.
func (r PublicHolidayRule) Resolve(worksByDefault bool) bool {
	switch r {
	case PublicHolidayWork:
		return true
	case PublicHolidayOff:
		return false
	default:
		return worksByDefault
	}
}

// FederalStateSettings are the tenant-wide defaults contracts inherit.
type FederalStateSettings struct {
	FederalState         core.FederalState
	WorksOnPublicHoliday bool
}

// =============================================================================
// WORKING TIME
// =============================================================================

// WorkingTime is one contract period of one person.
type WorkingTime struct {
	ID                   string
	PersonID             core.PersonID
	ValidFrom            *core.Date // nil = open start
	ValidTo              *core.Date // derived, inclusive; nil = open end
	MinValidFrom         *core.Date // derived; earliest day a dated contract may move to
	Workdays             map[time.Weekday]core.PlannedWorkingHours
	FederalState         core.FederalState
	WorksOnPublicHoliday PublicHolidayRule

	// Derived flags, never persisted.
	Current bool
	Default bool
}

// NewWorkingTime creates a contract with a fresh id that inherits the
// tenant federal state settings.
func NewWorkingTime(personID core.PersonID, validFrom *core.Date, workdays map[time.Weekday]core.PlannedWorkingHours) WorkingTime {
	return WorkingTime{
		ID:                   uuid.NewString(),
		PersonID:             personID,
		ValidFrom:            validFrom,
		Workdays:             copyWorkdays(workdays),
		FederalState:         core.FederalStateGlobal,
		WorksOnPublicHoliday: PublicHolidayInherit,
	}
}

// DefaultWorkdays is 8h Monday to Friday and 0h on the weekend.
func DefaultWorkdays() map[time.Weekday]core.PlannedWorkingHours {
	eight := core.PlannedWorkingHours(8 * time.Hour)
	return map[time.Weekday]core.PlannedWorkingHours{
		time.Monday:    eight,
		time.Tuesday:   eight,
		time.Wednesday: eight,
		time.Thursday:  eight,
		time.Friday:    eight,
		time.Saturday:  0,
		time.Sunday:    0,
	}
}

// DefaultWorkingTime is synthesized for persons without any contract. It
// has no id and inherits every tenant setting.
func DefaultWorkingTime(personID core.PersonID) WorkingTime {
	return WorkingTime{
		PersonID:             personID,
		Workdays:             DefaultWorkdays(),
		FederalState:         core.FederalStateGlobal,
		WorksOnPublicHoliday: PublicHolidayInherit,
		Default:              true,
	}
}

// PlannedHours returns the hours of the weekday and whether the weekday
// is configured at all.
func (w WorkingTime) PlannedHours(day time.Weekday) (core.PlannedWorkingHours, bool) {
	hours, ok := w.Workdays[day]
	return hours, ok
}

// IsWorkday reports whether the weekday has planned hours above zero.
func (w WorkingTime) IsWorkday(day time.Weekday) bool {
	return w.Workdays[day] > 0
}

// ActualWorkingDays lists the weekdays with planned hours, Monday first.
func (w WorkingTime) ActualWorkingDays() []time.Weekday {
	var days []time.Weekday
	for _, day := range mondayFirst {
		if w.IsWorkday(day) {
			days = append(days, day)
		}
	}
	return days
}

// HasDifferentWorkingHours reports whether the working days do not all
// share the same duration.
func (w WorkingTime) HasDifferentWorkingHours() bool {
	var first core.PlannedWorkingHours
	seen := false
	for _, day := range w.ActualWorkingDays() {
		if !seen {
			first, seen = w.Workdays[day], true
			continue
		}
		if w.Workdays[day] != first {
			return true
		}
	}
	return false
}

// WeeklyHours sums all weekdays.
func (w WorkingTime) WeeklyHours() core.PlannedWorkingHours {
	var sum core.PlannedWorkingHours
	for _, hours := range w.Workdays {
		sum += hours
	}
	return sum
}

// Covers reports whether d lies within [ValidFrom, ValidTo].
func (w WorkingTime) Covers(d core.Date) bool {
	if w.ValidFrom != nil && d.Before(*w.ValidFrom) {
		return false
	}
	if w.ValidTo != nil && d.After(*w.ValidTo) {
		return false
	}
	return true
}

// Touches reports whether the validity window shares a day with r.
func (w WorkingTime) Touches(r core.DateRange) bool {
	if w.ValidFrom != nil && !w.ValidFrom.Before(r.ToExclusive) {
		return false
	}
	if w.ValidTo != nil && w.ValidTo.Before(r.From) {
		return false
	}
	return true
}

// EffectiveFederalState resolves FederalStateGlobal against the settings.
func (w WorkingTime) EffectiveFederalState(settings FederalStateSettings) core.FederalState {
	return w.FederalState.Resolve(settings.FederalState)
}

// WorksOnPublicHolidays resolves the tri-state against the settings.
func (w WorkingTime) WorksOnPublicHolidays(settings FederalStateSettings) bool {
	return w.WorksOnPublicHoliday.Resolve(settings.WorksOnPublicHoliday)
}

// IsOpenStart reports whether this is the first contract.
func (w WorkingTime) IsOpenStart() bool { return w.ValidFrom == nil }

var mondayFirst = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

func copyWorkdays(in map[time.Weekday]core.PlannedWorkingHours) map[time.Weekday]core.PlannedWorkingHours {
	out := make(map[time.Weekday]core.PlannedWorkingHours, len(in))
	for day, hours := range in {
		out[day] = hours
	}
	return out
}

// sortNewestFirst orders by ValidFrom descending with the open start last,
// which is how contracts are listed to users.
func sortNewestFirst(contracts []WorkingTime) {
	sort.SliceStable(contracts, func(i, j int) bool {
		a, b := contracts[i].ValidFrom, contracts[j].ValidFrom
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
