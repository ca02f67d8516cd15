package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/worktime-engine/core"
	"github.com/warp/worktime-engine/report"
	"github.com/warp/worktime-engine/store/sqlite"
	"github.com/warp/worktime-engine/workingtime"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func day(s string) core.Date { return core.MustParseDate(s) }

func rangeOf(t *testing.T, from, toExclusive string) core.DateRange {
	t.Helper()
	r, err := core.NewDateRange(day(from), day(toExclusive))
	require.NoError(t, err)
	return r
}

// =============================================================================
// PERSONS
// =============================================================================

func TestStore_Persons(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	// GIVEN: Two persons, one of them saved twice
	require.NoError(t, store.SavePerson(ctx, core.Person{ID: "bob", Name: "Bob"}))
	require.NoError(t, store.SavePerson(ctx, core.Person{ID: "alice", Name: "Alice", Email: "alice@example.com"}))
	require.NoError(t, store.SavePerson(ctx, core.Person{ID: "bob", Name: "Robert"}))

	// WHEN: Listing and looking up
	all, err := store.AllPersons(ctx)
	require.NoError(t, err)
	found, err := store.FindPersons(ctx, []core.PersonID{"bob", "nobody"})
	require.NoError(t, err)

	// THEN: The update wins, unknown ids are skipped
	require.Len(t, all, 2)
	assert.Equal(t, core.PersonID("alice"), all[0].ID)
	assert.Equal(t, "alice@example.com", all[0].Email)
	require.Len(t, found, 1)
	assert.Equal(t, "Robert", found[0].Name)

	_, err = store.GetPerson(ctx, "nobody")
	assert.ErrorIs(t, err, core.ErrPersonNotFound)
}

func TestStore_DeletePerson_RemovesTheirData(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	// GIVEN: A person with a contract, an absence and an entry
	require.NoError(t, store.SavePerson(ctx, core.Person{ID: "alice", Name: "Alice"}))
	require.NoError(t, store.SaveWorkingTime(ctx, workingtime.NewWorkingTime("alice", nil, workingtime.DefaultWorkdays())))
	require.NoError(t, store.SaveAbsence(ctx, workingtime.NewLeave("alice", day("2024-01-08"), day("2024-01-08"), workingtime.DayLengthFull, workingtime.CategoryHoliday)))
	start := day("2024-01-09").AtTime(9, 0, time.UTC)
	require.NoError(t, store.SaveTimeEntry(ctx, report.NewTimeEntry("alice", start, start.Add(time.Hour), "", false)))

	// WHEN: Deleting the person
	require.NoError(t, store.DeletePerson(ctx, "alice"))

	// THEN: Nothing of theirs is left
	contracts, err := store.FindWorkingTimes(ctx, []core.PersonID{"alice"})
	require.NoError(t, err)
	assert.Empty(t, contracts)
	absences, err := store.FindAllAbsences(ctx, rangeOf(t, "2024-01-01", "2024-02-01"))
	require.NoError(t, err)
	assert.Empty(t, absences)
	entries, err := store.FindAllEntries(ctx, rangeOf(t, "2024-01-01", "2024-02-01"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.ErrorIs(t, store.DeletePerson(ctx, "alice"), core.ErrPersonNotFound)
}

// =============================================================================
// WORKING TIMES
// =============================================================================

func TestStore_WorkingTime_RoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	// GIVEN: An open-start contract with an explicit 0h Saturday and no Sunday,
	// and a dated one with a federal state
	open := workingtime.NewWorkingTime("alice", nil, map[time.Weekday]core.PlannedWorkingHours{
		time.Monday:   core.PlannedWorkingHours(core.Hours(7.5)),
		time.Saturday: 0,
	})
	dated := workingtime.NewWorkingTime("alice", core.DatePtr(day("2024-03-01")), workingtime.DefaultWorkdays())
	dated.FederalState = core.GermanyBayern
	dated.WorksOnPublicHoliday = workingtime.PublicHolidayOff
	require.NoError(t, store.SaveWorkingTime(ctx, dated))
	require.NoError(t, store.SaveWorkingTime(ctx, open))

	// WHEN: Loading them back
	byPerson, err := store.FindWorkingTimes(ctx, []core.PersonID{"alice", "bob"})
	require.NoError(t, err)

	// THEN: NULL and 0 stay distinguishable, the open start comes first
	contracts := byPerson["alice"]
	require.Len(t, contracts, 2)
	assert.NotContains(t, byPerson, core.PersonID("bob"))

	assert.Nil(t, contracts[0].ValidFrom)
	hours, ok := contracts[0].PlannedHours(time.Saturday)
	assert.True(t, ok)
	assert.Zero(t, hours)
	_, ok = contracts[0].PlannedHours(time.Sunday)
	assert.False(t, ok)
	hours, _ = contracts[0].PlannedHours(time.Monday)
	assert.Equal(t, core.Hours(7.5), hours.Duration())

	require.NotNil(t, contracts[1].ValidFrom)
	assert.Equal(t, day("2024-03-01"), *contracts[1].ValidFrom)
	assert.Equal(t, core.GermanyBayern, contracts[1].FederalState)
	assert.Equal(t, workingtime.PublicHolidayOff, contracts[1].WorksOnPublicHoliday)
}

func TestStore_WorkingTime_UpdateAndDelete(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	// GIVEN: A stored contract
	wt := workingtime.NewWorkingTime("alice", core.DatePtr(day("2024-03-01")), workingtime.DefaultWorkdays())
	require.NoError(t, store.SaveWorkingTime(ctx, wt))

	// WHEN: Moving its start
	wt.ValidFrom = core.DatePtr(day("2024-04-01"))
	require.NoError(t, store.SaveWorkingTime(ctx, wt))

	// THEN: The row is replaced, not duplicated
	got, err := store.FindWorkingTime(ctx, wt.ID)
	require.NoError(t, err)
	assert.Equal(t, day("2024-04-01"), *got.ValidFrom)

	require.NoError(t, store.DeleteWorkingTime(ctx, wt.ID))
	_, err = store.FindWorkingTime(ctx, wt.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, store.DeleteWorkingTime(ctx, wt.ID), core.ErrNotFound)
}

// =============================================================================
// ABSENCES
// =============================================================================

func TestStore_Absences_Overlap(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	// GIVEN: Absences before, across the start of, inside and after January
	before := workingtime.NewLeave("alice", day("2023-12-20"), day("2023-12-22"), workingtime.DayLengthFull, workingtime.CategoryHoliday)
	across := workingtime.NewOvertimeReduction("alice", day("2023-12-28"), day("2024-01-03"), workingtime.DayLengthFull, 16*time.Hour)
	inside := workingtime.NewLeave("bob", day("2024-01-15"), day("2024-01-15"), workingtime.DayLengthMorning, workingtime.CategorySick)
	after := workingtime.NewLeave("alice", day("2024-02-01"), day("2024-02-02"), workingtime.DayLengthFull, workingtime.CategoryHoliday)
	for _, a := range []workingtime.Absence{before, across, inside, after} {
		require.NoError(t, store.SaveAbsence(ctx, a))
	}
	january := rangeOf(t, "2024-01-01", "2024-02-01")

	// WHEN: Querying January
	all, err := store.FindAllAbsences(ctx, january)
	require.NoError(t, err)
	alices, err := store.FindAbsences(ctx, []core.PersonID{"alice"}, january)
	require.NoError(t, err)

	// THEN: Only the overlapping ones are returned, with their kind intact
	require.Len(t, all, 2)
	assert.Equal(t, across.ID, all[0].ID)
	assert.Equal(t, inside.ID, all[1].ID)

	require.Len(t, alices, 1)
	assert.Equal(t, workingtime.OvertimeReduction{Total: 16 * time.Hour}, alices[0].Kind)
	assert.Equal(t, day("2023-12-28"), alices[0].StartDate())
	assert.Equal(t, day("2024-01-03"), alices[0].EndDate())

	assert.Equal(t, workingtime.Leave{Type: workingtime.CategorySick}, all[1].Kind)
	assert.Equal(t, workingtime.DayLengthMorning, all[1].DayLength)
}

func TestStore_DeleteAbsence(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	a := workingtime.NewLeave("alice", day("2024-01-08"), day("2024-01-08"), workingtime.DayLengthFull, workingtime.CategoryHoliday)
	require.NoError(t, store.SaveAbsence(ctx, a))

	require.NoError(t, store.DeleteAbsence(ctx, a.ID))
	assert.ErrorIs(t, store.DeleteAbsence(ctx, a.ID), core.ErrNotFound)
}

// =============================================================================
// TIME ENTRIES
// =============================================================================

func TestStore_Entries_ByStartDay(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	berlin := time.FixedZone("CET", 3600)

	// GIVEN: An entry starting shortly after midnight Berlin time (still the
	// previous day in UTC) and a break
	lateStart := time.Date(2024, 1, 9, 0, 30, 0, 0, berlin)
	work := report.NewTimeEntry("alice", lateStart, lateStart.Add(2*time.Hour), "night shift", false)
	breakStart := day("2024-01-10").AtTime(12, 0, time.UTC)
	pause := report.NewTimeEntry("alice", breakStart, breakStart.Add(30*time.Minute), "", true)
	other := report.NewTimeEntry("bob", breakStart, breakStart.Add(time.Hour), "", false)
	for _, e := range []report.TimeEntry{work, pause, other} {
		require.NoError(t, store.SaveTimeEntry(ctx, e))
	}

	// WHEN: Querying the 9th only
	ninth, err := store.FindEntries(ctx, core.SingleDay(day("2024-01-09")), []core.PersonID{"alice"})
	require.NoError(t, err)
	week, err := store.FindAllEntries(ctx, rangeOf(t, "2024-01-08", "2024-01-15"))
	require.NoError(t, err)

	// THEN: The entry belongs to the day of its own offset
	require.Len(t, ninth, 1)
	assert.Equal(t, work.ID, ninth[0].ID)
	assert.Equal(t, "night shift", ninth[0].Comment)
	assert.True(t, ninth[0].Start.Equal(lateStart))
	assert.Equal(t, 2*time.Hour, ninth[0].End.Sub(ninth[0].Start))

	assert.Len(t, week, 3)
	for _, e := range week {
		if e.ID == pause.ID {
			assert.True(t, e.IsBreak)
		}
	}

	require.NoError(t, store.DeleteTimeEntry(ctx, work.ID))
	assert.ErrorIs(t, store.DeleteTimeEntry(ctx, work.ID), core.ErrNotFound)
}

// =============================================================================
// HOLIDAYS & SETTINGS
// =============================================================================

func TestStore_PublicHolidays(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	// GIVEN: Holidays of two states, one saved twice under another name
	require.NoError(t, store.SaveHolidays(ctx, []core.Holiday{
		{FederalState: core.GermanyBayern, Date: day("2024-01-01"), Name: "New Year"},
		{FederalState: core.GermanyBayern, Date: day("2024-01-06"), Name: "Epiphany"},
		{FederalState: core.GermanyBerlin, Date: day("2024-01-01"), Name: "New Year"},
		{FederalState: core.GermanyBerlin, Date: day("2024-03-08"), Name: "Women's Day"},
	}))
	require.NoError(t, store.SaveHoliday(ctx, core.Holiday{FederalState: core.GermanyBayern, Date: day("2024-01-06"), Name: "Heilige Drei Koenige"}))

	// WHEN: Loading January for Bayern
	calendar, err := store.PublicHolidays(ctx, rangeOf(t, "2024-01-01", "2024-02-01"), []core.FederalState{core.GermanyBayern})
	require.NoError(t, err)

	// THEN: Only Bayern's January holidays are known
	assert.True(t, calendar.IsPublicHoliday(day("2024-01-06"), core.GermanyBayern))
	assert.False(t, calendar.IsPublicHoliday(day("2024-01-01"), core.GermanyBerlin))
	assert.False(t, calendar.IsPublicHoliday(day("2024-01-02"), core.GermanyBayern))

	listed, err := store.ListHolidays(ctx, 2024, core.GermanyBayern)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Heilige Drei Koenige", listed[1].Name)

	listed, err = store.ListHolidays(ctx, 2024, "")
	require.NoError(t, err)
	assert.Len(t, listed, 4)

	require.NoError(t, store.DeleteHoliday(ctx, listed[0].ID))
	assert.ErrorIs(t, store.DeleteHoliday(ctx, listed[0].ID), core.ErrNotFound)

	none, err := store.PublicHolidays(ctx, rangeOf(t, "2024-01-01", "2024-02-01"), nil)
	require.NoError(t, err)
	assert.False(t, none.IsPublicHoliday(day("2024-01-06"), core.GermanyBayern))
}

func TestStore_FederalStateSettings(t *testing.T) {
	store := newStore(t).WithDefaultSettings(workingtime.FederalStateSettings{FederalState: core.GermanyHessen})
	ctx := context.Background()

	// GIVEN: Nothing stored yet
	settings, err := store.FederalStateSettings(ctx)
	require.NoError(t, err)

	// THEN: The defaults apply
	assert.Equal(t, core.GermanyHessen, settings.FederalState)
	assert.False(t, settings.WorksOnPublicHoliday)

	// WHEN: Storing tenant settings
	require.NoError(t, store.SaveFederalStateSettings(ctx, workingtime.FederalStateSettings{
		FederalState:         core.GermanySachsen,
		WorksOnPublicHoliday: true,
	}))

	// THEN: They replace the defaults
	settings, err = store.FederalStateSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.GermanySachsen, settings.FederalState)
	assert.True(t, settings.WorksOnPublicHoliday)
}

func TestStore_FederalStateSettings_RejectsCorruptValue(t *testing.T) {
	// GIVEN: A database whose public-holiday setting is not a boolean
	path := filepath.Join(t.TempDir(), "settings.db")
	store, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO settings (key, value) VALUES ('works_on_public_holiday', 'sometimes')")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store, err = sqlite.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	// WHEN: Reading the settings
	_, err = store.FederalStateSettings(context.Background())

	// THEN: The corrupt row is reported instead of read as false
	require.Error(t, err)
	assert.Contains(t, err.Error(), "works_on_public_holiday")
}
