/*
handlers.go - HTTP request handlers for the working-time API

PURPOSE:
  Implements all REST API endpoints. Each handler:
  1. Parses request (URL params, query string, JSON body)
  2. Validates input
  3. Calls the store or a domain service
  4. Returns JSON response

ENDPOINT GROUPS:
  Persons:       CRUD; creating a person stores the default contract
  Working times: Contract timeline per person, update and delete
  Absences:      Approved absences per person
  Time entries:  Booked intervals per person
  Holidays:      Public holidays, JSON import, tenant settings
  Calendar:      Planned and should hours per day
  Reports:       Week and month reconciliation

ERROR HANDLING:
  - 400: Malformed input or rule violations (core.IsClientError)
  - 404: Unknown persons, contracts or records (core.IsNotFound)
  - 409: The open-start contract cannot be deleted
  - 500: Store failures

SEE ALSO:
  - server.go: Route definitions
  - dto.go: Request/response types
  - workingtime/service.go: Contract rules
  - report/service.go: Report assembly
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/warp/worktime-engine/core"
	"github.com/warp/worktime-engine/holiday"
	"github.com/warp/worktime-engine/report"
	"github.com/warp/worktime-engine/store/sqlite"
	"github.com/warp/worktime-engine/workingtime"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store        *sqlite.Store
	WorkingTimes *workingtime.Service
	Calendars    *workingtime.CalendarService
	Reports      *report.Service

	log *logrus.Logger
}

// NewHandler wires the domain services on top of the store. A nil logger
// falls back to logrus.StandardLogger().
func NewHandler(store *sqlite.Store, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	calendars := workingtime.NewCalendarService(workingtime.Sources{
		Contracts: store,
		Absences:  store,
		Holidays:  store,
		Settings:  store,
		Persons:   store,
	}, log)
	return &Handler{
		Store:        store,
		WorkingTimes: workingtime.NewService(store, log),
		Calendars:    calendars,
		Reports:      report.NewService(calendars, store, store, log),
		log:          log,
	}
}

// WithLockWindow flags report days older than days as locked; negative
// disables locking.
func (h *Handler) WithLockWindow(days int) *Handler {
	h.Reports.WithLockWindow(days)
	return h
}

// WithClock replaces the clock of the domain services.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.WorkingTimes.WithClock(now)
	h.Reports.WithClock(now)
	return h
}

// Health reports that the server is up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// PERSON HANDLERS
// =============================================================================

// ListPersons returns all persons.
func (h *Handler) ListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := h.Store.AllPersons(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to list persons", err)
		return
	}

	dtos := make([]PersonDTO, len(persons))
	for i, p := range persons {
		dtos[i] = toPersonDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPerson returns a single person.
func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	person, err := h.Store.GetPerson(r.Context(), personID(r))
	if err != nil {
		h.writeDomainError(w, "Failed to get person", err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonDTO(person))
}

// CreatePerson stores a person together with the default contract.
func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req CreatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	person := core.Person{
		ID:        core.PersonID(req.ID),
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.SavePerson(r.Context(), person); err != nil {
		h.writeDomainError(w, "Failed to create person", err)
		return
	}
	if _, err := h.WorkingTimes.EnsureDefault(r.Context(), person.ID); err != nil {
		h.writeDomainError(w, "Failed to create default working time", err)
		return
	}

	h.log.WithField("person_id", person.ID).Info("created person")
	writeJSON(w, http.StatusCreated, toPersonDTO(person))
}

// DeletePerson removes a person and everything booked for them.
func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeletePerson(r.Context(), personID(r)); err != nil {
		h.writeDomainError(w, "Failed to delete person", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// WORKING TIME HANDLERS
// =============================================================================

// ListWorkingTimes returns the contracts of a person, newest first.
func (h *Handler) ListWorkingTimes(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requirePerson(w, r)
	if !ok {
		return
	}
	contracts, err := h.WorkingTimes.Contracts(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to list working times", err)
		return
	}

	dtos := make([]WorkingTimeDTO, len(contracts))
	for i, c := range contracts {
		dtos[i] = toWorkingTimeDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentWorkingTime returns the contract that applies today.
func (h *Handler) GetCurrentWorkingTime(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requirePerson(w, r)
	if !ok {
		return
	}
	current, err := h.WorkingTimes.CurrentContract(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get current working time", err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkingTimeDTO(current))
}

// CreateWorkingTime adds a contract to a person's timeline.
func (h *Handler) CreateWorkingTime(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requirePerson(w, r)
	if !ok {
		return
	}
	var req WorkingTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	update, err := parseWorkingTimeRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid working time", err)
		return
	}

	wt := workingtime.NewWorkingTime(id, update.ValidFrom, update.Workdays)
	wt.FederalState = update.FederalState
	wt.WorksOnPublicHoliday = update.WorksOnPublicHoliday

	created, err := h.WorkingTimes.Create(r.Context(), wt)
	if err != nil {
		h.writeDomainError(w, "Failed to create working time", err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkingTimeDTO(created))
}

// GetWorkingTime returns one contract.
func (h *Handler) GetWorkingTime(w http.ResponseWriter, r *http.Request) {
	wt, err := h.WorkingTimes.ContractByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get working time", err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkingTimeDTO(wt))
}

// UpdateWorkingTime replaces the content of a contract.
func (h *Handler) UpdateWorkingTime(w http.ResponseWriter, r *http.Request) {
	var req WorkingTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	update, err := parseWorkingTimeRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid working time", err)
		return
	}

	updated, err := h.WorkingTimes.Update(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		h.writeDomainError(w, "Failed to update working time", err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkingTimeDTO(updated))
}

// DeleteWorkingTime removes a contract. The open-start contract answers 409.
func (h *Handler) DeleteWorkingTime(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.WorkingTimes.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to delete working time", err)
		return
	}
	if !deleted {
		writeError(w, http.StatusConflict, "The first working time of a person cannot be deleted", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseWorkingTimeRequest(req WorkingTimeRequest) (workingtime.WorkWeekUpdate, error) {
	validFrom, err := core.ParseOptionalDate(req.ValidFrom)
	if err != nil {
		return workingtime.WorkWeekUpdate{}, err
	}
	workdays, err := parseWorkdays(req.Workdays)
	if err != nil {
		return workingtime.WorkWeekUpdate{}, err
	}
	state, err := core.ParseFederalState(req.FederalState)
	if err != nil {
		return workingtime.WorkWeekUpdate{}, err
	}
	rule, err := workingtime.ParsePublicHolidayRule(req.WorksOnPublicHoliday)
	if err != nil {
		return workingtime.WorkWeekUpdate{}, err
	}
	return workingtime.WorkWeekUpdate{
		ValidFrom:            validFrom,
		Workdays:             workdays,
		FederalState:         state,
		WorksOnPublicHoliday: rule,
	}, nil
}

// =============================================================================
// ABSENCE HANDLERS
// =============================================================================

// ListAbsences returns the absences of a person overlapping ?from=&to=.
func (h *Handler) ListAbsences(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requirePerson(w, r)
	if !ok {
		return
	}
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid range (use from=YYYY-MM-DD&to=YYYY-MM-DD)", err)
		return
	}
	absences, err := h.Store.FindAbsences(r.Context(), []core.PersonID{id}, rng)
	if err != nil {
		h.writeDomainError(w, "Failed to list absences", err)
		return
	}

	dtos := toAbsenceDTOs(absences)
	if dtos == nil {
		dtos = []AbsenceDTO{}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAbsence stores an approved absence.
func (h *Handler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requirePerson(w, r)
	if !ok {
		return
	}
	var req CreateAbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	absence, err := parseAbsenceRequest(id, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid absence", err)
		return
	}

	if err := h.Store.SaveAbsence(r.Context(), absence); err != nil {
		h.writeDomainError(w, "Failed to create absence", err)
		return
	}
	h.log.WithFields(logrus.Fields{
		"absence_id": absence.ID,
		"person_id":  id,
		"category":   absence.Category(),
	}).Info("created absence")
	writeJSON(w, http.StatusCreated, toAbsenceDTO(absence))
}

// DeleteAbsence removes an absence.
func (h *Handler) DeleteAbsence(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteAbsence(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, "Failed to delete absence", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseAbsenceRequest(id core.PersonID, req CreateAbsenceRequest) (workingtime.Absence, error) {
	start, err := core.ParseDate(req.Start)
	if err != nil {
		return workingtime.Absence{}, err
	}
	end := start
	if req.End != "" {
		if end, err = core.ParseDate(req.End); err != nil {
			return workingtime.Absence{}, err
		}
	}
	dayLength := workingtime.DayLengthFull
	if req.DayLength != "" {
		if dayLength, err = workingtime.ParseDayLength(req.DayLength); err != nil {
			return workingtime.Absence{}, err
		}
	}
	category := workingtime.CategoryHoliday
	if req.Category != "" {
		if category, err = workingtime.ParseCategory(req.Category); err != nil {
			return workingtime.Absence{}, err
		}
	}

	var absence workingtime.Absence
	if category == workingtime.CategoryOvertime {
		total := core.HoursToDuration(decimal.NewFromFloat(req.OvertimeHours))
		absence = workingtime.NewOvertimeReduction(id, start, end, dayLength, total)
	} else {
		absence = workingtime.NewLeave(id, start, end, dayLength, category)
	}
	return absence, absence.Validate()
}

// =============================================================================
// TIME ENTRY HANDLERS
// =============================================================================

// ListTimeEntries returns the entries of a person starting in ?from=&to=.
func (h *Handler) ListTimeEntries(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requirePerson(w, r)
	if !ok {
		return
	}
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid range (use from=YYYY-MM-DD&to=YYYY-MM-DD)", err)
		return
	}
	entries, err := h.Store.FindEntries(r.Context(), rng, []core.PersonID{id})
	if err != nil {
		h.writeDomainError(w, "Failed to list time entries", err)
		return
	}

	dtos := make([]TimeEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toTimeEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTimeEntry books an interval for a person.
func (h *Handler) CreateTimeEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requirePerson(w, r)
	if !ok {
		return
	}
	var req CreateTimeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start (use RFC3339)", err)
		return
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end (use RFC3339)", err)
		return
	}

	entry := report.NewTimeEntry(id, start, end, req.Comment, req.IsBreak)
	if err := entry.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time entry", err)
		return
	}
	if err := h.Store.SaveTimeEntry(r.Context(), entry); err != nil {
		h.writeDomainError(w, "Failed to create time entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTimeEntryDTO(entry))
}

// DeleteTimeEntry removes an entry.
func (h *Handler) DeleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteTimeEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, "Failed to delete time entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ListHolidays returns the holidays of ?year= (default: current year),
// optionally of one ?state=.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		year = parsed
	}
	var state core.FederalState
	if raw := r.URL.Query().Get("state"); raw != "" {
		parsed, err := core.ParseFederalState(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid state", err)
			return
		}
		state = parsed
	}

	holidays, err := h.Store.ListHolidays(r.Context(), year, state)
	if err != nil {
		h.writeDomainError(w, "Failed to list holidays", err)
		return
	}
	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = toHolidayDTO(hol)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday stores one holiday.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	state, err := core.ParseFederalState(req.FederalState)
	if err != nil || state == core.FederalStateGlobal || state == core.FederalStateNone {
		writeError(w, http.StatusBadRequest, "federalState must name a concrete federal state", err)
		return
	}

	hol := core.Holiday{ID: uuid.NewString(), FederalState: state, Date: date, Name: req.Name}
	if err := h.Store.SaveHoliday(r.Context(), hol); err != nil {
		h.writeDomainError(w, "Failed to create holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayDTO(hol))
}

// ImportHolidays stores a holiday calendar posted in the import format.
func (h *Handler) ImportHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := holiday.Parse(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid holiday calendar", err)
		return
	}
	if err := h.Store.SaveHolidays(r.Context(), holidays); err != nil {
		h.writeDomainError(w, "Failed to import holidays", err)
		return
	}
	h.log.WithField("holidays", len(holidays)).Info("imported public holidays")
	writeJSON(w, http.StatusCreated, map[string]int{"imported": len(holidays)})
}

// DeleteHoliday removes a holiday.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, "Failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSettings returns the tenant federal state defaults.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Store.FederalStateSettings(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to get settings", err)
		return
	}
	writeJSON(w, http.StatusOK, SettingsDTO{
		FederalState:         string(settings.FederalState),
		WorksOnPublicHoliday: settings.WorksOnPublicHoliday,
	})
}

// UpdateSettings replaces the tenant federal state defaults.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	state, err := core.ParseFederalState(req.FederalState)
	if err != nil || state == core.FederalStateGlobal {
		writeError(w, http.StatusBadRequest, "federalState must be NONE or a concrete federal state", err)
		return
	}

	settings := workingtime.FederalStateSettings{FederalState: state, WorksOnPublicHoliday: req.WorksOnPublicHoliday}
	if err := h.Store.SaveFederalStateSettings(r.Context(), settings); err != nil {
		h.writeDomainError(w, "Failed to update settings", err)
		return
	}
	writeJSON(w, http.StatusOK, SettingsDTO{FederalState: string(state), WorksOnPublicHoliday: req.WorksOnPublicHoliday})
}

// =============================================================================
// CALENDAR & REPORT ENDPOINTS
// =============================================================================

// GetCalendar returns planned and should hours of a person for ?from=&to=.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requirePerson(w, r)
	if !ok {
		return
	}
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid range (use from=YYYY-MM-DD&to=YYYY-MM-DD)", err)
		return
	}
	calendar, err := h.Calendars.Calendar(r.Context(), id, rng.From, rng.ToExclusive)
	if err != nil {
		h.writeDomainError(w, "Failed to build calendar", err)
		return
	}
	writeJSON(w, http.StatusOK, toCalendarDTO(calendar))
}

// GetWeekReport returns the report of /reports/week/{year}/{week}.
func (h *Handler) GetWeekReport(w http.ResponseWriter, r *http.Request) {
	year, week, err := yearAnd(r, "week")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year or week", err)
		return
	}
	rep, err := h.Reports.Week(r.Context(), year, week, selection(r))
	if err != nil {
		h.writeDomainError(w, "Failed to build week report", err)
		return
	}
	writeJSON(w, http.StatusOK, toReportWeekDTO(rep))
}

// GetMonthReport returns the report of /reports/month/{year}/{month}.
func (h *Handler) GetMonthReport(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearAnd(r, "month")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year or month", err)
		return
	}
	rep, err := h.Reports.Month(r.Context(), year, month, selection(r))
	if err != nil {
		h.writeDomainError(w, "Failed to build month report", err)
		return
	}
	writeJSON(w, http.StatusOK, toReportMonthDTO(rep))
}

// selection reads ?person= (one person, must exist), ?persons=a,b (known
// ones only) or, without either, everyone.
func selection(r *http.Request) report.Selection {
	q := r.URL.Query()
	if id := q.Get("person"); id != "" {
		return report.Person(core.PersonID(id))
	}
	if ids := q.Get("persons"); ids != "" {
		return report.Persons(core.PersonIDs(strings.Split(ids, ",")...)...)
	}
	return report.Everyone()
}

func yearAnd(r *http.Request, param string) (int, int, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return 0, 0, err
	}
	n, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil {
		return 0, 0, err
	}
	return year, n, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func personID(r *http.Request) core.PersonID {
	return core.PersonID(chi.URLParam(r, "personID"))
}

// requirePerson answers 404 for unknown persons.
func (h *Handler) requirePerson(w http.ResponseWriter, r *http.Request) (core.PersonID, bool) {
	id := personID(r)
	if _, err := h.Store.GetPerson(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to get person", err)
		return "", false
	}
	return id, true
}

// parseRange reads ?from= and ?to= (exclusive).
func parseRange(r *http.Request) (core.DateRange, error) {
	q := r.URL.Query()
	from, err := core.ParseDate(q.Get("from"))
	if err != nil {
		return core.DateRange{}, err
	}
	to, err := core.ParseDate(q.Get("to"))
	if err != nil {
		return core.DateRange{}, err
	}
	return core.NewDateRange(from, to)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors to their status code.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case core.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case core.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, message, err)
	default:
		h.log.WithError(err).Error(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
