/*
handlers_test.go - HTTP tests for the API handlers

Tests for:
- Person creation with the default contract
- Contract timeline rules over HTTP (409 for the open start)
- Absences, time entries and the week/month reports
- Holiday import and the calendar endpoint
- Error mapping (400/404)
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/worktime-engine/api"
	"github.com/warp/worktime-engine/store/sqlite"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log, _ := test.NewNullLogger()
	now := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	h := api.NewHandler(store, log).WithClock(func() time.Time { return now })
	return api.NewRouter(h, "http://localhost:5173")
}

func do(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func createPerson(t *testing.T, srv http.Handler, id string) {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/persons", api.CreatePersonRequest{ID: id, Name: strings.ToUpper(id[:1]) + id[1:]})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

// =============================================================================
// PERSONS & WORKING TIMES
// =============================================================================

func TestCreatePerson_StoresDefaultWorkingTime(t *testing.T) {
	srv := newServer(t)

	// WHEN: Creating a person
	createPerson(t, srv, "alice")

	// THEN: The person has the open-start default contract
	rec := do(t, srv, http.MethodGet, "/api/persons/alice/working-times", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	contracts := decode[[]api.WorkingTimeDTO](t, rec)
	require.Len(t, contracts, 1)
	assert.NotEmpty(t, contracts[0].ID)
	assert.Empty(t, contracts[0].ValidFrom)
	assert.True(t, contracts[0].Current)
	assert.Equal(t, 40.0, contracts[0].WeeklyHours)
	assert.Equal(t, 8.0, contracts[0].Workdays["monday"])
	assert.Contains(t, contracts[0].Workdays, "saturday")

	rec = do(t, srv, http.MethodGet, "/api/persons/alice", nil)
	assert.Equal(t, "Alice", decode[api.PersonDTO](t, rec).Name)

	rec = do(t, srv, http.MethodPost, "/api/persons", api.CreatePersonRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkingTimes_Lifecycle(t *testing.T) {
	srv := newServer(t)
	createPerson(t, srv, "alice")

	// GIVEN: A part-time contract from March on
	rec := do(t, srv, http.MethodPost, "/api/persons/alice/working-times", api.WorkingTimeRequest{
		ValidFrom:    "2024-03-01",
		Workdays:     map[string]float64{"Monday": 6.5, "tuesday": 6.5, "wednesday": 0},
		FederalState: "GERMANY_BERLIN",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[api.WorkingTimeDTO](t, rec)
	assert.Equal(t, "2024-03-01", created.ValidFrom)
	assert.Equal(t, 13.0, created.WeeklyHours)
	assert.Equal(t, "GERMANY_BERLIN", created.FederalState)
	assert.False(t, created.Current)

	// THEN: The open start now ends the day before
	contracts := decode[[]api.WorkingTimeDTO](t, do(t, srv, http.MethodGet, "/api/persons/alice/working-times", nil))
	require.Len(t, contracts, 2)
	assert.Equal(t, created.ID, contracts[0].ID)
	assert.Equal(t, "2024-02-29", contracts[1].ValidTo)

	current := decode[api.WorkingTimeDTO](t, do(t, srv, http.MethodGet, "/api/persons/alice/working-times/current", nil))
	assert.Equal(t, contracts[1].ID, current.ID)

	// WHEN: Moving the contract
	rec = do(t, srv, http.MethodPut, "/api/working-times/"+created.ID, api.WorkingTimeRequest{
		ValidFrom: "2024-04-01",
		Workdays:  map[string]float64{"monday": 4},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "2024-04-01", decode[api.WorkingTimeDTO](t, rec).ValidFrom)

	// THEN: The open start cannot be deleted, the dated one can
	rec = do(t, srv, http.MethodDelete, "/api/working-times/"+contracts[1].ID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = do(t, srv, http.MethodDelete, "/api/working-times/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, srv, http.MethodGet, "/api/working-times/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWorkingTimes_Errors(t *testing.T) {
	srv := newServer(t)
	createPerson(t, srv, "alice")

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"unknown person", "/api/persons/nobody/working-times", api.WorkingTimeRequest{ValidFrom: "2024-03-01"}, http.StatusNotFound},
		{"second open start", "/api/persons/alice/working-times", api.WorkingTimeRequest{}, http.StatusBadRequest},
		{"unknown weekday", "/api/persons/alice/working-times", api.WorkingTimeRequest{ValidFrom: "2024-03-01", Workdays: map[string]float64{"funday": 1}}, http.StatusBadRequest},
		{"too many hours", "/api/persons/alice/working-times", api.WorkingTimeRequest{ValidFrom: "2024-03-01", Workdays: map[string]float64{"monday": 25}}, http.StatusBadRequest},
		{"bad date", "/api/persons/alice/working-times", api.WorkingTimeRequest{ValidFrom: "2024-02-30"}, http.StatusBadRequest},
		{"bad state", "/api/persons/alice/working-times", api.WorkingTimeRequest{ValidFrom: "2024-03-01", FederalState: "ATLANTIS"}, http.StatusBadRequest},
		{"bad json", "/api/persons/alice/working-times", "{", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[api.ErrorResponse](t, rec).Error)
		})
	}

	rec := do(t, srv, http.MethodPut, "/api/working-times/unknown", api.WorkingTimeRequest{ValidFrom: "2024-03-01"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// ABSENCES, ENTRIES & REPORTS
// =============================================================================

func TestWeekReport_ReconcilesEntriesAndAbsences(t *testing.T) {
	srv := newServer(t)
	createPerson(t, srv, "alice")

	// GIVEN: 8h on Monday and a day of leave on Tuesday of week 2/2024
	rec := do(t, srv, http.MethodPost, "/api/persons/alice/time-entries", api.CreateTimeEntryRequest{
		Start: "2024-01-08T09:00:00+01:00",
		End:   "2024-01-08T17:00:00+01:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, int64(480), decode[api.TimeEntryDTO](t, rec).DurationMinutes)

	rec = do(t, srv, http.MethodPost, "/api/persons/alice/absences", api.CreateAbsenceRequest{Start: "2024-01-09"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	absence := decode[api.AbsenceDTO](t, rec)
	assert.Equal(t, "HOLIDAY", absence.Category)
	assert.Equal(t, "FULL", absence.DayLength)

	// WHEN: Requesting the week report
	rec = do(t, srv, http.MethodGet, "/api/reports/week/2024/2?person=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	week := decode[api.ReportWeekDTO](t, rec)

	// THEN: Should hours drop by the leave day, delta is worked minus should
	assert.Equal(t, "2024-01-08", week.FirstDate)
	assert.Equal(t, 2, week.CalendarWeek)
	assert.Equal(t, 40.0, week.PlannedHours)
	assert.Equal(t, 32.0, week.ShouldHours)
	assert.Equal(t, 8.0, week.WorkedHours)
	assert.Equal(t, -24.0, week.DeltaHours)
	assert.Equal(t, "0.25", week.WorkedHoursRatio.String())
	require.Len(t, week.Persons, 1)
	assert.Equal(t, -24.0, week.Persons[0].AccumulatedOvertime)

	require.Len(t, week.Days, 7)
	monday := week.Days[0]
	require.Len(t, monday.Persons, 1)
	require.Len(t, monday.Persons[0].Entries, 1)
	require.NotNil(t, monday.Persons[0].AccumulatedOvertime)
	assert.Equal(t, 0.0, *monday.Persons[0].AccumulatedOvertime)
	require.Len(t, week.Days[1].Persons[0].Absences, 1)
	assert.Equal(t, 0.0, week.Days[1].ShouldHours)
	assert.False(t, monday.Locked)

	entries := decode[[]api.TimeEntryDTO](t, do(t, srv, http.MethodGet, "/api/persons/alice/time-entries?from=2024-01-01&to=2024-02-01", nil))
	require.Len(t, entries, 1)
	assert.Equal(t, "2024-01-08", entries[0].Date)
}

func TestAbsences_OvertimeReductionAndDelete(t *testing.T) {
	srv := newServer(t)
	createPerson(t, srv, "alice")

	// GIVEN: 12h of overtime spent over Monday to Wednesday
	rec := do(t, srv, http.MethodPost, "/api/persons/alice/absences", api.CreateAbsenceRequest{
		Start: "2024-01-08", End: "2024-01-10", Category: "overtime", OvertimeHours: 12,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	absence := decode[api.AbsenceDTO](t, rec)
	require.NotNil(t, absence.OvertimeHours)
	assert.Equal(t, 12.0, *absence.OvertimeHours)

	// THEN: Each day owes 4h less
	cal := decode[api.CalendarDTO](t, do(t, srv, http.MethodGet, "/api/persons/alice/calendar?from=2024-01-08&to=2024-01-11", nil))
	require.Len(t, cal.Days, 3)
	for _, d := range cal.Days {
		assert.Equal(t, 4.0, d.ShouldHours, d.Date)
	}

	listed := decode[[]api.AbsenceDTO](t, do(t, srv, http.MethodGet, "/api/persons/alice/absences?from=2024-01-01&to=2024-02-01", nil))
	require.Len(t, listed, 1)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/api/absences/"+absence.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodDelete, "/api/absences/"+absence.ID, nil).Code)

	// half days spanning several days are rejected
	rec = do(t, srv, http.MethodPost, "/api/persons/alice/absences", api.CreateAbsenceRequest{
		Start: "2024-01-08", End: "2024-01-09", DayLength: "MORNING",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReports_Errors(t *testing.T) {
	srv := newServer(t)
	createPerson(t, srv, "alice")

	tests := []struct {
		path   string
		status int
	}{
		{"/api/reports/week/2024/54", http.StatusBadRequest},
		{"/api/reports/week/2024/x", http.StatusBadRequest},
		{"/api/reports/month/2024/13", http.StatusBadRequest},
		{"/api/reports/week/2024/2?person=nobody", http.StatusNotFound},
		{"/api/reports/week/2024/2?persons=alice,nobody", http.StatusOK},
		{"/api/persons/alice/calendar?from=2024-01-08", http.StatusBadRequest},
		{"/api/persons/nobody/calendar?from=2024-01-08&to=2024-01-09", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.status, do(t, srv, http.MethodGet, tt.path, nil).Code)
		})
	}
}

func TestMonthReport_Everyone(t *testing.T) {
	srv := newServer(t)
	createPerson(t, srv, "alice")
	createPerson(t, srv, "bob")

	// WHEN: Requesting January 2024 for everyone
	rec := do(t, srv, http.MethodGet, "/api/reports/month/2024/1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	month := decode[api.ReportMonthDTO](t, rec)

	// THEN: 23 working days each, five weeks starting on New Year's Monday
	assert.Equal(t, 2024, month.Year)
	assert.Equal(t, 1, month.Month)
	assert.Equal(t, 368.0, month.PlannedHours)
	require.Len(t, month.Persons, 2)
	assert.Equal(t, "alice", month.Persons[0].PersonID)
	assert.Equal(t, 184.0, month.Persons[0].ShouldHours)
	require.Len(t, month.Weeks, 5)
	assert.Equal(t, "2024-01-01", month.Weeks[0].FirstDate)
}

// =============================================================================
// HOLIDAYS & SETTINGS
// =============================================================================

func TestHolidays_ImportAppliesToCalendar(t *testing.T) {
	srv := newServer(t)
	createPerson(t, srv, "alice")

	// GIVEN: Bavarian holidays and Bavaria as tenant state
	rec := do(t, srv, http.MethodPost, "/api/holidays/import", `{
		"year": 2024,
		"federal_states": ["GERMANY_BAYERN"],
		"months": [{"month": 1, "days": "1,6"}],
		"names": {"01-01": "Neujahr"}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decode[map[string]int](t, rec)["imported"])

	rec = do(t, srv, http.MethodPut, "/api/settings", api.SettingsDTO{FederalState: "GERMANY_BAYERN"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// WHEN: Building the calendar of the first week
	rec = do(t, srv, http.MethodGet, "/api/persons/alice/calendar?from=2024-01-01&to=2024-01-08", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cal := decode[api.CalendarDTO](t, rec)

	// THEN: New Year's Day plans nothing
	assert.Equal(t, 32.0, cal.PlannedHours)
	require.Len(t, cal.Days, 7)
	assert.Equal(t, 0.0, cal.Days[0].PlannedHours)
	assert.Equal(t, 8.0, cal.Days[1].PlannedHours)

	holidays := decode[[]api.HolidayDTO](t, do(t, srv, http.MethodGet, "/api/holidays?year=2024&state=germany_bayern", nil))
	require.Len(t, holidays, 2)
	assert.Equal(t, "Neujahr", holidays[0].Name)

	settings := decode[api.SettingsDTO](t, do(t, srv, http.MethodGet, "/api/settings", nil))
	assert.Equal(t, "GERMANY_BAYERN", settings.FederalState)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/api/holidays/"+holidays[0].ID, nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/holidays/import", `{"year": 2024}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/holidays", api.HolidayDTO{Date: "2024-01-01", FederalState: "GLOBAL"}).Code)
}

func TestDeletePerson(t *testing.T) {
	srv := newServer(t)
	createPerson(t, srv, "alice")

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/api/persons/alice", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/persons/alice", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodDelete, "/api/persons/alice", nil).Code)
	assert.Empty(t, decode[[]api.PersonDTO](t, do(t, srv, http.MethodGet, "/api/persons", nil)))
}
