package report

import (
	"sort"

	"github.com/warp/worktime-engine/core"
	"github.com/warp/worktime-engine/workingtime"
)

// =============================================================================
// DAY
// =============================================================================

// PersonDay is what one person planned, owed and booked on one day.
type PersonDay struct {
	Person   core.Person
	Planned  core.PlannedWorkingHours
	Should   core.ShouldWorkingHours
	Entries  []Entry
	Absences []workingtime.Absence
}

// WorkDuration sums the entries, breaks excluded.
func (p PersonDay) WorkDuration() core.WorkDuration {
	var sum core.WorkDuration
	for _, e := range p.Entries {
		sum += e.WorkDuration()
	}
	return sum
}

// Delta is worked minus should.
func (p PersonDay) Delta() DeltaWorkingHours {
	return Delta(p.WorkDuration(), p.Should)
}

// Day is one calendar date of a report. Persons are those with a calendar
// or entries on the date.
type Day struct {
	date        core.Date
	locked      bool
	persons     map[core.PersonID]PersonDay
	accumulated map[core.PersonID]DeltaWorkingHours
}

// NewDay builds a report day. The accumulated overtime of each person
// equals the day's delta until the day is placed in a report.
func NewDay(date core.Date, locked bool, persons map[core.PersonID]PersonDay) Day {
	d := Day{
		date:        date,
		locked:      locked,
		persons:     make(map[core.PersonID]PersonDay, len(persons)),
		accumulated: make(map[core.PersonID]DeltaWorkingHours, len(persons)),
	}
	for id, p := range persons {
		p.Entries = append([]Entry(nil), p.Entries...)
		sort.SliceStable(p.Entries, func(i, j int) bool { return p.Entries[i].Start.Before(p.Entries[j].Start) })
		d.persons[id] = p
		d.accumulated[id] = p.Delta()
	}
	return d
}

func (d Day) Date() core.Date { return d.date }

// Locked reports whether the date lies outside the editable window.
func (d Day) Locked() bool { return d.locked }

// Persons returns the ids present on the day, sorted.
func (d Day) Persons() []core.PersonID {
	ids := make([]core.PersonID, 0, len(d.persons))
	for id := range d.persons {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Person returns the day of one person.
func (d Day) Person(id core.PersonID) (PersonDay, bool) {
	p, ok := d.persons[id]
	return p, ok
}

// Entries returns every entry of the day ordered by start.
func (d Day) Entries() []Entry {
	var out []Entry
	for _, p := range d.persons {
		out = append(out, p.Entries...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].Person.ID < out[j].Person.ID
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

func (d Day) PlannedWorkingHours() core.PlannedWorkingHours {
	var sum core.PlannedWorkingHours
	for _, p := range d.persons {
		sum += p.Planned
	}
	return sum
}

func (d Day) ShouldWorkingHours() core.ShouldWorkingHours {
	var sum core.ShouldWorkingHours
	for _, p := range d.persons {
		sum += p.Should
	}
	return sum
}

func (d Day) WorkDuration() core.WorkDuration {
	var sum core.WorkDuration
	for _, p := range d.persons {
		sum += p.WorkDuration()
	}
	return sum
}

func (d Day) Delta() DeltaWorkingHours {
	return Delta(d.WorkDuration(), d.ShouldWorkingHours())
}

// AccumulatedOvertime is the running delta of a person from the start of
// the report through this day. ok is false while the person has not yet
// appeared in the report.
func (d Day) AccumulatedOvertime(id core.PersonID) (DeltaWorkingHours, bool) {
	v, ok := d.accumulated[id]
	return v, ok
}

// accumulate returns a copy whose running totals continue from previous.
func (d Day) accumulate(previous map[core.PersonID]DeltaWorkingHours) Day {
	acc := make(map[core.PersonID]DeltaWorkingHours, len(previous)+len(d.persons))
	for id, v := range previous {
		acc[id] = v
	}
	for id, p := range d.persons {
		acc[id] += p.Delta()
	}
	d.accumulated = acc
	return d
}
