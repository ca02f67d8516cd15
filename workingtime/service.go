/*
service.go - Working-time contract administration

PURPOSE:
  Create, update, delete and list the contracts of a person while keeping
  the timeline rules intact.

RULES:
  - A person has at most one open-start contract (ValidFrom == nil) and it
    is the oldest one.
  - A contract with ValidFrom can only be added when the person already
    has contracts; the first one must be the open start.
  - Updating the open-start contract ignores a new ValidFrom; any other
    contract must keep a ValidFrom.
  - The open-start contract cannot be deleted (Delete returns false);
    every later contract can, whether it lies in the past or the future.
  - Unknown contract ids fail with ErrInvalidWorkingTime/ErrWorkingTimeNotFound.

SEE ALSO:
  - timeline.go: Validation of the resulting ordering
  - api/handlers.go: HTTP surface
*/
package workingtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/worktime-engine/core"
)

// Service administers contracts.
type Service struct {
	repo Repository
	log  *logrus.Logger
	now  func() time.Time
}

// NewService wires the service. A nil logger falls back to
// logrus.StandardLogger().
func NewService(repo Repository, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{repo: repo, log: log, now: time.Now}
}

// WithClock replaces the clock used for "current" flags.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) today() core.Date { return core.DateOf(s.now()) }

// WorkWeekUpdate is the new content of an existing contract.
type WorkWeekUpdate struct {
	ValidFrom            *core.Date
	Workdays             map[time.Weekday]core.PlannedWorkingHours
	FederalState         core.FederalState
	WorksOnPublicHoliday PublicHolidayRule
}

// =============================================================================
// QUERIES
// =============================================================================

// Contracts lists the contracts of a person newest first, with ValidTo and
// Current derived. A person without contracts gets the default contract.
func (s *Service) Contracts(ctx context.Context, personID core.PersonID) ([]WorkingTime, error) {
	timeline, err := s.timeline(ctx, personID)
	if err != nil {
		return nil, err
	}
	contracts := timeline.Contracts(s.today())
	sortNewestFirst(contracts)
	return contracts, nil
}

// ContractsByPersons returns, per person, the contracts touching r. Persons
// without contracts get the default contract.
func (s *Service) ContractsByPersons(ctx context.Context, personIDs []core.PersonID, r core.DateRange) (map[core.PersonID][]WorkingTime, error) {
	stored, err := s.repo.FindWorkingTimes(ctx, personIDs)
	if err != nil {
		return nil, fmt.Errorf("load working times: %w", err)
	}
	today := s.today()
	result := make(map[core.PersonID][]WorkingTime, len(personIDs))
	for _, id := range personIDs {
		timeline, err := NewTimeline(id, stored[id])
		if err != nil {
			return nil, err
		}
		touching := timeline.Touching(r, today)
		if timeline.IsEmpty() {
			touching = timeline.Contracts(today)
		}
		sortNewestFirst(touching)
		result[id] = touching
	}
	return result, nil
}

// ContractByID returns a single stored contract with derived fields.
func (s *Service) ContractByID(ctx context.Context, id string) (WorkingTime, error) {
	wt, err := s.find(ctx, id)
	if err != nil {
		return WorkingTime{}, err
	}
	return s.derived(ctx, wt.PersonID, id)
}

// CurrentContract returns the contract that applies today.
func (s *Service) CurrentContract(ctx context.Context, personID core.PersonID) (WorkingTime, error) {
	timeline, err := s.timeline(ctx, personID)
	if err != nil {
		return WorkingTime{}, err
	}
	current := timeline.At(s.today())
	current.Current = true
	return current, nil
}

// =============================================================================
// COMMANDS
// =============================================================================

// EnsureDefault stores the default contract as open start for a person who
// has no contract yet. It is a no-op otherwise.
func (s *Service) EnsureDefault(ctx context.Context, personID core.PersonID) (WorkingTime, error) {
	timeline, err := s.timeline(ctx, personID)
	if err != nil {
		return WorkingTime{}, err
	}
	if !timeline.IsEmpty() {
		return timeline.At(s.today()), nil
	}
	return s.Create(ctx, NewWorkingTime(personID, nil, DefaultWorkdays()))
}

// Create stores a new contract.
func (s *Service) Create(ctx context.Context, wt WorkingTime) (WorkingTime, error) {
	timeline, err := s.timeline(ctx, wt.PersonID)
	if err != nil {
		return WorkingTime{}, err
	}

	switch {
	case wt.ValidFrom == nil && !timeline.IsEmpty():
		return WorkingTime{}, &core.WorkingTimeError{PersonID: wt.PersonID, Reason: "an open-start contract already exists"}
	case wt.ValidFrom != nil && timeline.IsEmpty():
		return WorkingTime{}, &core.WorkingTimeError{PersonID: wt.PersonID, Reason: "the first contract must not have a validFrom"}
	}

	if wt.ID == "" {
		wt = withFreshID(wt)
	}
	wt = normalized(wt)

	if _, err := NewTimeline(wt.PersonID, append(timeline.Stored(), wt)); err != nil {
		return WorkingTime{}, err
	}

	if err := s.repo.SaveWorkingTime(ctx, wt); err != nil {
		return WorkingTime{}, fmt.Errorf("save working time: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"working_time_id": wt.ID,
		"person_id":       wt.PersonID,
		"valid_from":      core.FormatOptional(wt.ValidFrom),
	}).Info("created working time")

	return s.derived(ctx, wt.PersonID, wt.ID)
}

// Update replaces the content of an existing contract.
func (s *Service) Update(ctx context.Context, id string, update WorkWeekUpdate) (WorkingTime, error) {
	wt, err := s.find(ctx, id)
	if err != nil {
		return WorkingTime{}, err
	}

	switch {
	case wt.ValidFrom == nil:
		if update.ValidFrom != nil {
			s.log.WithFields(logrus.Fields{
				"working_time_id": id,
				"valid_from":      update.ValidFrom.String(),
			}).Info("ignore updating validFrom of the open-start working time")
		}
	case update.ValidFrom != nil:
		validFrom := *update.ValidFrom
		wt.ValidFrom = &validFrom
	default:
		return WorkingTime{}, &core.WorkingTimeError{WorkingTimeID: id, PersonID: wt.PersonID, Reason: "cannot update without validFrom"}
	}

	wt.Workdays = copyWorkdays(update.Workdays)
	wt.FederalState = update.FederalState
	wt.WorksOnPublicHoliday = update.WorksOnPublicHoliday
	wt = normalized(wt)

	timeline, err := s.timeline(ctx, wt.PersonID)
	if err != nil {
		return WorkingTime{}, err
	}
	others := make([]WorkingTime, 0)
	for _, c := range timeline.Stored() {
		if c.ID != id {
			others = append(others, c)
		}
	}
	if _, err := NewTimeline(wt.PersonID, append(others, wt)); err != nil {
		return WorkingTime{}, err
	}

	if err := s.repo.SaveWorkingTime(ctx, wt); err != nil {
		return WorkingTime{}, fmt.Errorf("save working time: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"working_time_id": id,
		"person_id":       wt.PersonID,
	}).Info("updated working time")

	return s.derived(ctx, wt.PersonID, id)
}

// Delete removes a contract. The open-start contract is never deleted and
// yields false.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	wt, err := s.find(ctx, id)
	if err != nil {
		return false, err
	}
	if wt.ValidFrom == nil {
		s.log.WithField("working_time_id", id).Info("refusing to delete the open-start working time")
		return false, nil
	}
	if err := s.repo.DeleteWorkingTime(ctx, id); err != nil {
		return false, fmt.Errorf("delete working time: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"working_time_id": id,
		"person_id":       wt.PersonID,
	}).Info("deleted working time")
	return true, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Service) timeline(ctx context.Context, personID core.PersonID) (*Timeline, error) {
	stored, err := s.repo.FindWorkingTimes(ctx, []core.PersonID{personID})
	if err != nil {
		return nil, fmt.Errorf("load working times: %w", err)
	}
	return NewTimeline(personID, stored[personID])
}

func (s *Service) find(ctx context.Context, id string) (WorkingTime, error) {
	wt, err := s.repo.FindWorkingTime(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return WorkingTime{}, &core.WorkingTimeError{WorkingTimeID: id, Reason: "not found", NotFound: true}
	}
	if err != nil {
		return WorkingTime{}, fmt.Errorf("load working time %s: %w", id, err)
	}
	return wt, nil
}

// derived reloads the person's timeline so ValidTo and Current reflect the
// stored state.
func (s *Service) derived(ctx context.Context, personID core.PersonID, id string) (WorkingTime, error) {
	timeline, err := s.timeline(ctx, personID)
	if err != nil {
		return WorkingTime{}, err
	}
	for _, c := range timeline.Contracts(s.today()) {
		if c.ID == id {
			return c, nil
		}
	}
	return WorkingTime{}, &core.WorkingTimeError{WorkingTimeID: id, PersonID: personID, Reason: "not found", NotFound: true}
}

func withFreshID(wt WorkingTime) WorkingTime {
	fresh := NewWorkingTime(wt.PersonID, wt.ValidFrom, wt.Workdays)
	fresh.FederalState = wt.FederalState
	fresh.WorksOnPublicHoliday = wt.WorksOnPublicHoliday
	return fresh
}

func normalized(wt WorkingTime) WorkingTime {
	if wt.FederalState == "" {
		wt.FederalState = core.FederalStateGlobal
	}
	if wt.WorksOnPublicHoliday == "" {
		wt.WorksOnPublicHoliday = PublicHolidayInherit
	}
	if wt.Workdays == nil {
		wt.Workdays = map[time.Weekday]core.PlannedWorkingHours{}
	}
	wt.ValidTo = nil
	wt.MinValidFrom = nil
	wt.Current = false
	wt.Default = false
	return wt
}
