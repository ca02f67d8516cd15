/*
service.go - Builds week and month reports

PURPOSE:
  Merges booked time entries with the planned and should hours of the
  persons' calendars into Days, Weeks and Months with deltas and running
  overtime.

FLOW:
  1. Resolve the date range (ISO week or month) and the selected persons
  2. Load calendars and time entries for the range
  3. Drop entries of persons the directory does not know (logged)
  4. Build one Day per date, then run the overtime totals across them

SEE ALSO:
  - workingtime/calendar_service.go: Planned and should hours
  - day.go, week.go, month.go: Report containers
*/
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/worktime-engine/core"
	"github.com/warp/worktime-engine/workingtime"
)

// CalendarSource builds calendars; *workingtime.CalendarService is one.
type CalendarSource interface {
	Calendars(ctx context.Context, personIDs []core.PersonID, from, toExclusive core.Date) (map[core.PersonID]*workingtime.Calendar, error)
	CalendarsForAll(ctx context.Context, from, toExclusive core.Date) (map[core.PersonID]*workingtime.Calendar, error)
}

// =============================================================================
// SELECTION
// =============================================================================

// Selection names the persons a report covers.
type Selection struct {
	ids    []core.PersonID
	single bool
	all    bool
}

// Person selects exactly one person; an unknown id fails the report.
func Person(id core.PersonID) Selection {
	return Selection{ids: []core.PersonID{id}, single: true}
}

// Persons selects several persons; unknown ids are skipped.
func Persons(ids ...core.PersonID) Selection {
	return Selection{ids: append([]core.PersonID(nil), ids...)}
}

// Everyone selects every person of the directory.
func Everyone() Selection { return Selection{all: true} }

// =============================================================================
// SERVICE
// =============================================================================

// Service builds reports. It holds no mutable state.
type Service struct {
	calendars CalendarSource
	entries   TimeEntrySource
	persons   core.PersonSource
	log       *logrus.Logger
	lockDays  int
	now       func() time.Time
}

// NewService wires the service. Days are never locked until
// WithLockWindow is set. A nil logger falls back to logrus.StandardLogger().
func NewService(calendars CalendarSource, entries TimeEntrySource, persons core.PersonSource, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		calendars: calendars,
		entries:   entries,
		persons:   persons,
		log:       log,
		lockDays:  -1,
		now:       time.Now,
	}
}

// WithLockWindow locks every day more than days days in the past. A
// negative value disables locking.
func (s *Service) WithLockWindow(days int) *Service {
	s.lockDays = days
	return s
}

// WithClock replaces the clock used for the lock window.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Week builds the report of an ISO week.
func (s *Service) Week(ctx context.Context, year, isoWeek int, sel Selection) (Week, error) {
	r, err := core.ISOWeekRange(year, isoWeek)
	if err != nil {
		return Week{}, err
	}
	data, err := s.load(ctx, r, sel)
	if err != nil {
		return Week{}, err
	}

	week := data.week(r.From, s.isLocked)
	week.days = runningOvertime(week.days, nil)
	return week, nil
}

// Month builds the report of a month: every week whose Monday lies in the
// month or in the week reaching into it from the previous month.
func (s *Service) Month(ctx context.Context, year, month int, sel Selection) (Month, error) {
	r, err := core.MonthRange(year, month)
	if err != nil {
		return Month{}, err
	}
	data, err := s.load(ctx, r, sel)
	if err != nil {
		return Month{}, err
	}

	starts := core.WeekStartsForMonth(year, time.Month(month))
	weeks := make([]Week, 0, len(starts))
	var carry map[core.PersonID]DeltaWorkingHours
	for _, start := range starts {
		week := data.week(start, s.isLocked)
		week.days = runningOvertime(week.days, carry)
		if n := len(week.days); n > 0 {
			carry = week.days[n-1].accumulated
		}
		weeks = append(weeks, week)
	}
	return NewMonth(year, time.Month(month), weeks), nil
}

func (s *Service) isLocked(d core.Date) bool {
	if s.lockDays < 0 {
		return false
	}
	return d.Before(core.DateOf(s.now()).AddDays(-s.lockDays))
}

// =============================================================================
// LOADING
// =============================================================================

type reportData struct {
	persons   []core.Person
	calendars map[core.PersonID]*workingtime.Calendar
	entries   map[core.PersonID]map[core.Date][]Entry
}

func (s *Service) load(ctx context.Context, r core.DateRange, sel Selection) (*reportData, error) {
	persons, err := s.selectPersons(ctx, sel)
	if err != nil {
		return nil, err
	}
	known := make(map[core.PersonID]core.Person, len(persons))
	for _, p := range persons {
		known[p.ID] = p
	}

	var calendars map[core.PersonID]*workingtime.Calendar
	var entries []TimeEntry
	if sel.all {
		calendars, err = s.calendars.CalendarsForAll(ctx, r.From, r.ToExclusive)
		if err == nil {
			entries, err = s.entries.FindAllEntries(ctx, r)
		}
	} else {
		ids := core.IDsOf(persons)
		calendars, err = s.calendars.Calendars(ctx, ids, r.From, r.ToExclusive)
		if err == nil {
			entries, err = s.entries.FindEntries(ctx, r, ids)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("load report data for %s: %w", r, err)
	}

	data := &reportData{
		persons:   persons,
		calendars: calendars,
		entries:   map[core.PersonID]map[core.Date][]Entry{},
	}
	skipped := 0
	for _, e := range entries {
		person, ok := known[e.PersonID]
		if !ok {
			skipped++
			s.log.WithFields(logrus.Fields{
				"person_id":     e.PersonID,
				"time_entry_id": e.ID,
			}).Warn("could not find person for time entry while building report")
			continue
		}
		byDate := data.entries[e.PersonID]
		if byDate == nil {
			byDate = map[core.Date][]Entry{}
			data.entries[e.PersonID] = byDate
		}
		byDate[e.Date()] = append(byDate[e.Date()], Entry{
			Person:  person,
			Comment: e.Comment,
			Start:   e.Start,
			End:     e.End,
			IsBreak: e.IsBreak,
		})
	}

	s.log.WithFields(logrus.Fields{
		"range":   r.String(),
		"persons": len(persons),
		"entries": len(entries) - skipped,
		"skipped": skipped,
	}).Debug("loaded report data")

	return data, nil
}

func (s *Service) selectPersons(ctx context.Context, sel Selection) ([]core.Person, error) {
	if sel.all {
		persons, err := s.persons.AllPersons(ctx)
		if err != nil {
			return nil, fmt.Errorf("load persons: %w", err)
		}
		return persons, nil
	}

	persons, err := s.persons.FindPersons(ctx, sel.ids)
	if err != nil {
		return nil, fmt.Errorf("load persons: %w", err)
	}
	if sel.single && len(persons) == 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrPersonNotFound, sel.ids[0])
	}
	if len(persons) < len(sel.ids) {
		s.log.WithFields(logrus.Fields{
			"requested": len(sel.ids),
			"found":     len(persons),
		}).Warn("report skips unknown persons")
	}
	return persons, nil
}

// =============================================================================
// ASSEMBLY
// =============================================================================

func (data *reportData) week(first core.Date, locked func(core.Date) bool) Week {
	reportDays := make([]Day, 7)
	for i := range reportDays {
		date := first.AddDays(i)
		reportDays[i] = NewDay(date, locked(date), data.personDays(date))
	}
	return NewWeek(first, reportDays)
}

// personDays collects every person with a calendar day or entries on date.
func (data *reportData) personDays(date core.Date) map[core.PersonID]PersonDay {
	out := map[core.PersonID]PersonDay{}
	for _, person := range data.persons {
		entries := data.entries[person.ID][date]
		pd := PersonDay{Person: person, Entries: entries}

		present := len(entries) > 0
		if cal := data.calendars[person.ID]; cal != nil {
			if planned, ok := cal.PlannedWorkingHours(date); ok {
				should, _ := cal.ShouldWorkingHours(date)
				pd.Planned = planned
				pd.Should = should
				pd.Absences = cal.Absences(date)
				present = true
			}
		}
		if present {
			out[person.ID] = pd
		}
	}
	return out
}

// runningOvertime continues the per-person overtime totals from carry
// through the given days.
func runningOvertime(reportDays []Day, carry map[core.PersonID]DeltaWorkingHours) []Day {
	out := make([]Day, len(reportDays))
	for i, d := range reportDays {
		out[i] = d.accumulate(carry)
		carry = out[i].accumulated
	}
	return out
}
