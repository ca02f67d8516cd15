package workingtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/worktime-engine/core"
	"github.com/warp/worktime-engine/store/memory"
	"github.com/warp/worktime-engine/workingtime"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newCalendarService(t *testing.T) (*workingtime.CalendarService, *memory.Store) {
	t.Helper()
	store := memory.New()
	require.NoError(t, store.SavePerson(context.Background(), core.Person{ID: alice, Name: "Alice"}))
	store.SetFederalStateSettings(workingtime.FederalStateSettings{FederalState: core.GermanyBadenWuerttemberg})

	svc := workingtime.NewCalendarService(workingtime.Sources{
		Contracts: store,
		Absences:  store,
		Holidays:  store,
		Settings:  store,
		Persons:   store,
	}, nil)
	return svc, store
}

func requirePlanned(t *testing.T, cal *workingtime.Calendar, d string, want float64) {
	t.Helper()
	got, ok := cal.PlannedWorkingHours(day(d))
	require.True(t, ok, "planned hours present for %s", d)
	assert.Equal(t, planned(want), got, "planned hours on %s", d)
}

// =============================================================================
// CONTRACT RESOLUTION
// =============================================================================

func TestCalendarService_DefaultContract(t *testing.T) {
	// GIVEN: A person without any contract
	svc, _ := newCalendarService(t)

	// WHEN: Building the calendar of a week
	cal, err := svc.Calendar(context.Background(), alice, day("2024-01-08"), day("2024-01-15"))
	require.NoError(t, err)

	// THEN: 8h Monday to Friday, 0h on the weekend
	requirePlanned(t, cal, "2024-01-08", 8)
	requirePlanned(t, cal, "2024-01-12", 8)
	requirePlanned(t, cal, "2024-01-13", 0)
	requirePlanned(t, cal, "2024-01-14", 0)
}

func TestCalendarService_StitchesContracts(t *testing.T) {
	// GIVEN: Contract A (8h Mon-Fri) and contract B from 2024-01-10 working Mon/Tue only
	svc, store := newCalendarService(t)
	ctx := context.Background()

	a := contract("", 8)
	b := workingtime.NewWorkingTime(alice, core.DatePtr(day("2024-01-10")), map[time.Weekday]core.PlannedWorkingHours{
		time.Monday:  planned(8),
		time.Tuesday: planned(8),
	})
	require.NoError(t, store.SaveWorkingTime(ctx, a))
	require.NoError(t, store.SaveWorkingTime(ctx, b))

	// WHEN: Building a calendar crossing the switch
	cal, err := svc.Calendar(ctx, alice, day("2024-01-08"), day("2024-01-16"))
	require.NoError(t, err)

	// THEN: A applies until the day before B, B afterwards
	requirePlanned(t, cal, "2024-01-09", 8)
	requirePlanned(t, cal, "2024-01-10", 0)
	requirePlanned(t, cal, "2024-01-11", 0)
	requirePlanned(t, cal, "2024-01-15", 8)
}

// =============================================================================
// PUBLIC HOLIDAYS
// =============================================================================

func TestCalendarService_PublicHolidays(t *testing.T) {
	newYear := core.Holiday{FederalState: core.GermanyBadenWuerttemberg, Date: day("2024-01-01"), Name: "Neujahr"}
	epiphany := core.Holiday{FederalState: core.GermanyBadenWuerttemberg, Date: day("2024-01-06"), Name: "Heilige Drei Könige"}

	tests := []struct {
		name  string
		rule  workingtime.PublicHolidayRule
		state core.FederalState
		want  float64
	}{
		{"inherits no public holiday work", workingtime.PublicHolidayInherit, core.FederalStateGlobal, 0},
		{"works on public holidays", workingtime.PublicHolidayWork, core.FederalStateGlobal, 8},
		{"other federal state", workingtime.PublicHolidayOff, core.GermanyBerlin, 8},
		{"no public holidays at all", workingtime.PublicHolidayOff, core.FederalStateNone, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newCalendarService(t)
			ctx := context.Background()
			require.NoError(t, store.SaveHoliday(ctx, newYear))
			require.NoError(t, store.SaveHoliday(ctx, epiphany))

			wt := contract("", 8)
			wt.WorksOnPublicHoliday = tt.rule
			wt.FederalState = tt.state
			require.NoError(t, store.SaveWorkingTime(ctx, wt))

			cal, err := svc.Calendar(ctx, alice, day("2024-01-01"), day("2024-01-08"))
			require.NoError(t, err)

			requirePlanned(t, cal, "2024-01-01", tt.want)
			requirePlanned(t, cal, "2024-01-02", 8)
			// a holiday on a 0h day stays 0h
			requirePlanned(t, cal, "2024-01-06", 0)
		})
	}
}

func TestCalendarService_PublicHolidayAbsorbsNoOvertime(t *testing.T) {
	// GIVEN: New Year's Day inside a 16h overtime reduction Mon-Wed
	svc, store := newCalendarService(t)
	ctx := context.Background()
	require.NoError(t, store.SaveHoliday(ctx, core.Holiday{FederalState: core.GermanyBadenWuerttemberg, Date: day("2024-01-01"), Name: "Neujahr"}))
	require.NoError(t, store.SaveAbsence(ctx, overtime("2024-01-01", "2024-01-03", workingtime.DayLengthFull, 16*time.Hour)))

	cal, err := svc.Calendar(ctx, alice, day("2024-01-01"), day("2024-01-08"))
	require.NoError(t, err)

	// THEN: Tuesday and Wednesday take the whole reduction
	requireShould(t, cal, "2024-01-01", 0)
	requireShould(t, cal, "2024-01-02", 0)
	requireShould(t, cal, "2024-01-03", 0)
	requireShould(t, cal, "2024-01-04", 8)
}

// =============================================================================
// ABSENCES
// =============================================================================

func TestCalendarService_WidensForAbsencesReachingOutside(t *testing.T) {
	// GIVEN: A 24h reduction from Friday to Wednesday
	svc, store := newCalendarService(t)
	ctx := context.Background()
	require.NoError(t, store.SaveAbsence(ctx, overtime("2024-01-05", "2024-01-10", workingtime.DayLengthFull, 24*time.Hour)))

	// WHEN: Only the week starting Monday is requested
	cal, err := svc.Calendar(ctx, alice, day("2024-01-08"), day("2024-01-15"))
	require.NoError(t, err)

	// THEN: Friday takes its share, so Mon-Wed are reduced by 6h each
	requireShould(t, cal, "2024-01-08", 2)
	requireShould(t, cal, "2024-01-09", 2)
	requireShould(t, cal, "2024-01-10", 2)
	requireShould(t, cal, "2024-01-11", 8)
	_, ok := cal.ShouldWorkingHours(day("2024-01-05"))
	assert.False(t, ok)
}

func TestCalendarService_CalendarsForAll(t *testing.T) {
	svc, store := newCalendarService(t)
	ctx := context.Background()
	require.NoError(t, store.SavePerson(ctx, core.Person{ID: "bob", Name: "Bob"}))
	require.NoError(t, store.SaveAbsence(ctx, workingtime.NewLeave("bob", day("2024-01-08"), day("2024-01-08"), workingtime.DayLengthFull, workingtime.CategoryHoliday)))

	calendars, err := svc.CalendarsForAll(ctx, day("2024-01-08"), day("2024-01-15"))
	require.NoError(t, err)
	require.Len(t, calendars, 2)

	requireShould(t, calendars[alice], "2024-01-08", 8)
	requireShould(t, calendars["bob"], "2024-01-08", 0)
}

func TestCalendarService_RejectsReversedRange(t *testing.T) {
	svc, _ := newCalendarService(t)

	_, err := svc.Calendar(context.Background(), alice, day("2024-01-15"), day("2024-01-08"))
	assert.ErrorIs(t, err, core.ErrInvalidCalendarReference)
}
