package workingtime

import (
	"context"

	"github.com/warp/worktime-engine/core"
)

// =============================================================================
// SOURCES - Read access the calendar needs (implemented by store/*)
// =============================================================================

// ContractSource loads stored contracts. Persons without contracts are
// simply missing from the result.
type ContractSource interface {
	FindWorkingTimes(ctx context.Context, personIDs []core.PersonID) (map[core.PersonID][]WorkingTime, error)
}

// AbsenceSource loads absences overlapping a range.
type AbsenceSource interface {
	FindAbsences(ctx context.Context, personIDs []core.PersonID, r core.DateRange) ([]Absence, error)
	FindAllAbsences(ctx context.Context, r core.DateRange) ([]Absence, error)
}

// HolidaySource provides public holidays of the given states.
type HolidaySource interface {
	PublicHolidays(ctx context.Context, r core.DateRange, states []core.FederalState) (core.HolidayCalendar, error)
}

// SettingsSource provides the tenant-wide federal state defaults.
type SettingsSource interface {
	FederalStateSettings(ctx context.Context) (FederalStateSettings, error)
}

// StaticSettings is a SettingsSource with fixed values.
type StaticSettings FederalStateSettings

func (s StaticSettings) FederalStateSettings(context.Context) (FederalStateSettings, error) {
	return FederalStateSettings(s), nil
}

// =============================================================================
// REPOSITORY - Contract persistence for the admin service
// =============================================================================

// Repository persists contracts.
type Repository interface {
	ContractSource
	// FindWorkingTime returns core.ErrNotFound for unknown ids.
	FindWorkingTime(ctx context.Context, id string) (WorkingTime, error)
	SaveWorkingTime(ctx context.Context, wt WorkingTime) error
	DeleteWorkingTime(ctx context.Context, id string) error
}
