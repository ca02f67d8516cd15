// Package memory provides in-memory sources for tests and local runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/worktime-engine/core"
	"github.com/warp/worktime-engine/report"
	"github.com/warp/worktime-engine/workingtime"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Store keeps everything in maps and start-ordered slices.
type Store struct {
	mu           sync.RWMutex
	persons      map[core.PersonID]core.Person
	workingTimes map[string]workingtime.WorkingTime
	absences     []workingtime.Absence
	entries      []report.TimeEntry
	holidays     []core.Holiday
	settings     workingtime.FederalStateSettings
}

// New returns an empty store with GLOBAL settings and no public-holiday work.
func New() *Store {
	return &Store{
		persons:      make(map[core.PersonID]core.Person),
		workingTimes: make(map[string]workingtime.WorkingTime),
		settings:     workingtime.FederalStateSettings{FederalState: core.FederalStateGlobal},
	}
}

// =============================================================================
// PERSONS
// =============================================================================

func (s *Store) SavePerson(_ context.Context, p core.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persons[p.ID] = p
	return nil
}

func (s *Store) FindPersons(_ context.Context, ids []core.PersonID) ([]core.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Person
	for _, id := range ids {
		if p, ok := s.persons[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) AllPersons(_ context.Context) ([]core.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Person, 0, len(s.persons))
	for _, p := range s.persons {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// WORKING TIMES
// =============================================================================

func (s *Store) FindWorkingTimes(_ context.Context, personIDs []core.PersonID) (map[core.PersonID][]workingtime.WorkingTime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[core.PersonID]bool, len(personIDs))
	for _, id := range personIDs {
		wanted[id] = true
	}
	out := map[core.PersonID][]workingtime.WorkingTime{}
	for _, wt := range s.workingTimes {
		if wanted[wt.PersonID] {
			out[wt.PersonID] = append(out[wt.PersonID], wt)
		}
	}
	return out, nil
}

func (s *Store) FindWorkingTime(_ context.Context, id string) (workingtime.WorkingTime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wt, ok := s.workingTimes[id]
	if !ok {
		return workingtime.WorkingTime{}, core.ErrNotFound
	}
	return wt, nil
}

func (s *Store) SaveWorkingTime(_ context.Context, wt workingtime.WorkingTime) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workingTimes[wt.ID] = wt
	return nil
}

func (s *Store) DeleteWorkingTime(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workingTimes[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.workingTimes, id)
	return nil
}

// =============================================================================
// ABSENCES
// =============================================================================

// SaveAbsence inserts an absence keeping the slice ordered by start.
func (s *Store) SaveAbsence(_ context.Context, a workingtime.Absence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := sort.Search(len(s.absences), func(i int) bool {
		return s.absences[i].Start.After(a.Start)
	})
	s.absences = append(s.absences, workingtime.Absence{})
	copy(s.absences[i+1:], s.absences[i:])
	s.absences[i] = a
	return nil
}

func (s *Store) FindAbsences(_ context.Context, personIDs []core.PersonID, r core.DateRange) ([]workingtime.Absence, error) {
	wanted := make(map[core.PersonID]bool, len(personIDs))
	for _, id := range personIDs {
		wanted[id] = true
	}
	return s.absencesWhere(r, func(a workingtime.Absence) bool { return wanted[a.PersonID] }), nil
}

func (s *Store) FindAllAbsences(_ context.Context, r core.DateRange) ([]workingtime.Absence, error) {
	return s.absencesWhere(r, func(workingtime.Absence) bool { return true }), nil
}

func (s *Store) absencesWhere(r core.DateRange, keep func(workingtime.Absence) bool) []workingtime.Absence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []workingtime.Absence
	for _, a := range s.absences {
		if !a.StartDate().Before(r.ToExclusive) {
			break
		}
		if a.Days().Overlaps(r) && keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// =============================================================================
// TIME ENTRIES
// =============================================================================

// SaveTimeEntry inserts an entry keeping the slice ordered by start.
func (s *Store) SaveTimeEntry(_ context.Context, e report.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].Start.After(e.Start)
	})
	s.entries = append(s.entries, report.TimeEntry{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = e
	return nil
}

func (s *Store) FindEntries(_ context.Context, r core.DateRange, personIDs []core.PersonID) ([]report.TimeEntry, error) {
	wanted := make(map[core.PersonID]bool, len(personIDs))
	for _, id := range personIDs {
		wanted[id] = true
	}
	return s.entriesWhere(r, func(e report.TimeEntry) bool { return wanted[e.PersonID] }), nil
}

func (s *Store) FindAllEntries(_ context.Context, r core.DateRange) ([]report.TimeEntry, error) {
	return s.entriesWhere(r, func(report.TimeEntry) bool { return true }), nil
}

func (s *Store) entriesWhere(r core.DateRange, keep func(report.TimeEntry) bool) []report.TimeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []report.TimeEntry
	for _, e := range s.entries {
		if r.Contains(e.Date()) && keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// HOLIDAYS & SETTINGS
// =============================================================================

func (s *Store) SaveHoliday(_ context.Context, h core.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holidays = append(s.holidays, h)
	return nil
}

func (s *Store) PublicHolidays(_ context.Context, r core.DateRange, states []core.FederalState) (core.HolidayCalendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[core.FederalState]bool, len(states))
	for _, st := range states {
		wanted[st] = true
	}
	var out []core.Holiday
	for _, h := range s.holidays {
		if r.Contains(h.Date) && wanted[h.FederalState] {
			out = append(out, h)
		}
	}
	return core.NewHolidaySet(out), nil
}

func (s *Store) SetFederalStateSettings(settings workingtime.FederalStateSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

func (s *Store) FederalStateSettings(context.Context) (workingtime.FederalStateSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}
