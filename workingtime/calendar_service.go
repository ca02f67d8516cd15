/*
calendar_service.go - Builds working-time calendars for persons

PURPOSE:
  Resolves which contract applies on every day of a range, applies public
  holidays of the contract's federal state and indexes absences, producing
  one Calendar per person.

FLOW:
  1. Load absences overlapping [from, toExclusive)
  2. Widen the span to the full extent of those absences and reload once,
     so overtime reductions can be spread over all of their days
  3. Load contracts and tenant settings; build a Timeline per person
  4. Load public holidays for every federal state in play
  5. Compute planned hours per day and build the calendars

SEE ALSO:
  - calendar.go: Should-hours rules
  - timeline.go: Contract resolution
*/
package workingtime

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/warp/worktime-engine/core"
)

// Sources bundles the collaborators a CalendarService reads from.
type Sources struct {
	Contracts ContractSource
	Absences  AbsenceSource
	Holidays  HolidaySource
	Settings  SettingsSource
	Persons   core.PersonSource
}

// CalendarService builds Calendars. It holds no mutable state.
type CalendarService struct {
	src Sources
	log *logrus.Logger
}

// NewCalendarService wires the service. A nil logger falls back to
// logrus.StandardLogger().
func NewCalendarService(src Sources, log *logrus.Logger) *CalendarService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CalendarService{src: src, log: log}
}

// Calendar builds the calendar of a single person.
func (s *CalendarService) Calendar(ctx context.Context, personID core.PersonID, from, toExclusive core.Date) (*Calendar, error) {
	calendars, err := s.Calendars(ctx, []core.PersonID{personID}, from, toExclusive)
	if err != nil {
		return nil, err
	}
	return calendars[personID], nil
}

// CalendarsForAll builds calendars for every person of the directory.
func (s *CalendarService) CalendarsForAll(ctx context.Context, from, toExclusive core.Date) (map[core.PersonID]*Calendar, error) {
	persons, err := s.src.Persons.AllPersons(ctx)
	if err != nil {
		return nil, fmt.Errorf("load persons: %w", err)
	}
	return s.build(ctx, core.IDsOf(persons), from, toExclusive, true)
}

// Calendars builds one calendar per requested person.
func (s *CalendarService) Calendars(ctx context.Context, personIDs []core.PersonID, from, toExclusive core.Date) (map[core.PersonID]*Calendar, error) {
	return s.build(ctx, personIDs, from, toExclusive, false)
}

func (s *CalendarService) build(ctx context.Context, personIDs []core.PersonID, from, toExclusive core.Date, all bool) (map[core.PersonID]*Calendar, error) {
	requested, err := core.NewDateRange(from, toExclusive)
	if err != nil {
		return nil, err
	}
	result := make(map[core.PersonID]*Calendar, len(personIDs))
	if len(personIDs) == 0 {
		return result, nil
	}

	absences, span, err := s.absencesWithOverlap(ctx, personIDs, requested, all)
	if err != nil {
		return nil, err
	}

	settings, err := s.src.Settings.FederalStateSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load federal state settings: %w", err)
	}

	stored, err := s.src.Contracts.FindWorkingTimes(ctx, personIDs)
	if err != nil {
		return nil, fmt.Errorf("load working times: %w", err)
	}

	timelines := make(map[core.PersonID]*Timeline, len(personIDs))
	states := map[core.FederalState]struct{}{}
	today := core.Today()
	for _, id := range personIDs {
		timeline, err := NewTimeline(id, stored[id])
		if err != nil {
			return nil, fmt.Errorf("resolve working times of %s: %w", id, err)
		}
		timelines[id] = timeline
		for _, c := range timeline.Touching(span, today) {
			states[c.EffectiveFederalState(settings)] = struct{}{}
		}
	}

	holidays, err := s.publicHolidays(ctx, span, states)
	if err != nil {
		return nil, err
	}

	absencesByPerson := make(map[core.PersonID][]Absence, len(personIDs))
	for _, a := range absences {
		absencesByPerson[a.PersonID] = append(absencesByPerson[a.PersonID], a)
	}

	for _, id := range personIDs {
		timeline := timelines[id]
		plannedAt := func(d core.Date) core.PlannedWorkingHours {
			contract := timeline.At(d)
			if !contract.WorksOnPublicHolidays(settings) &&
				holidays.IsPublicHoliday(d, contract.EffectiveFederalState(settings)) {
				return 0
			}
			hours, _ := contract.PlannedHours(d.Weekday())
			return hours
		}
		result[id] = NewCalendar(id, requested, span, plannedAt, absencesByPerson[id])
	}

	s.log.WithFields(logrus.Fields{
		"persons":   len(personIDs),
		"requested": requested.String(),
		"span":      span.String(),
		"absences":  len(absences),
	}).Debug("built working time calendars")

	return result, nil
}

// absencesWithOverlap loads absences of the range and widens the range to
// cover every one of them completely, reloading once for the wider span.
func (s *CalendarService) absencesWithOverlap(ctx context.Context, personIDs []core.PersonID, requested core.DateRange, all bool) ([]Absence, core.DateRange, error) {
	fetch := func(r core.DateRange) ([]Absence, error) {
		if all {
			return s.src.Absences.FindAllAbsences(ctx, r)
		}
		return s.src.Absences.FindAbsences(ctx, personIDs, r)
	}

	absences, err := fetch(requested)
	if err != nil {
		return nil, core.DateRange{}, fmt.Errorf("load absences: %w", err)
	}

	span := requested
	for _, a := range absences {
		span = span.Span(a.Days())
	}
	if span == requested {
		return absences, span, nil
	}

	absences, err = fetch(span)
	if err != nil {
		return nil, core.DateRange{}, fmt.Errorf("load absences of widened range %s: %w", span, err)
	}
	return absences, span, nil
}

func (s *CalendarService) publicHolidays(ctx context.Context, span core.DateRange, states map[core.FederalState]struct{}) (core.HolidayCalendar, error) {
	list := make([]core.FederalState, 0, len(states))
	for state := range states {
		if state != core.FederalStateNone {
			list = append(list, state)
		}
	}
	if len(list) == 0 || s.src.Holidays == nil {
		return core.NoHolidays{}, nil
	}
	holidays, err := s.src.Holidays.PublicHolidays(ctx, span, list)
	if err != nil {
		return nil, fmt.Errorf("load public holidays: %w", err)
	}
	return holidays, nil
}
