/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Persons:       PersonDTO, CreatePersonRequest
  Working times: WorkingTimeDTO, WorkingTimeRequest
  Absences:      AbsenceDTO, CreateAbsenceRequest
  Time entries:  TimeEntryDTO, CreateTimeEntryRequest
  Holidays:      HolidayDTO, SettingsDTO
  Calendar:      CalendarDTO, CalendarDayDTO
  Reports:       ReportWeekDTO, ReportMonthDTO, ReportDayDTO

UNITS:
  Durations are decimal hours with three fractional digits. Weekdays are
  lower case English names; a weekday missing from "workdays" is a
  non-working day, an explicit 0 is a working day without hours.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/worktime-engine/core"
	"github.com/warp/worktime-engine/report"
	"github.com/warp/worktime-engine/workingtime"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// PersonDTO represents a person in API responses.
type PersonDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// CreatePersonRequest is the body of POST /persons. The id is generated
// when empty.
type CreatePersonRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// WorkingTimeDTO represents a contract with its derived validity.
type WorkingTimeDTO struct {
	ID                   string             `json:"id,omitempty"`
	PersonID             string             `json:"personId"`
	ValidFrom            string             `json:"validFrom,omitempty"`
	ValidTo              string             `json:"validTo,omitempty"`
	MinValidFrom         string             `json:"minValidFrom,omitempty"`
	Workdays             map[string]float64 `json:"workdays"`
	WeeklyHours          float64            `json:"weeklyHours"`
	FederalState         string             `json:"federalState"`
	WorksOnPublicHoliday string             `json:"worksOnPublicHoliday"`
	Current              bool               `json:"current"`
	Default              bool               `json:"default"`
}

// WorkingTimeRequest is the body of contract create and update.
type WorkingTimeRequest struct {
	ValidFrom            string             `json:"validFrom"`
	Workdays             map[string]float64 `json:"workdays"`
	FederalState         string             `json:"federalState"`
	WorksOnPublicHoliday string             `json:"worksOnPublicHoliday"`
}

// AbsenceDTO represents an absence in API responses.
type AbsenceDTO struct {
	ID            string   `json:"id"`
	PersonID      string   `json:"personId"`
	Start         string   `json:"start"`
	End           string   `json:"end"`
	DayLength     string   `json:"dayLength"`
	Category      string   `json:"category"`
	OvertimeHours *float64 `json:"overtimeHours,omitempty"`
}

// CreateAbsenceRequest is the body of POST /persons/{id}/absences.
type CreateAbsenceRequest struct {
	Start         string  `json:"start"` // YYYY-MM-DD
	End           string  `json:"end"`   // YYYY-MM-DD, inclusive
	DayLength     string  `json:"dayLength"`
	Category      string  `json:"category"`
	OvertimeHours float64 `json:"overtimeHours"`
}

// TimeEntryDTO represents a booked interval.
type TimeEntryDTO struct {
	ID              string `json:"id"`
	PersonID        string `json:"personId"`
	Date            string `json:"date"`
	Start           string `json:"start"`
	End             string `json:"end"`
	Comment         string `json:"comment,omitempty"`
	IsBreak         bool   `json:"isBreak"`
	DurationMinutes int64  `json:"durationMinutes"`
}

// CreateTimeEntryRequest is the body of POST /persons/{id}/time-entries.
type CreateTimeEntryRequest struct {
	Start   string `json:"start"` // RFC3339
	End     string `json:"end"`   // RFC3339
	Comment string `json:"comment"`
	IsBreak bool   `json:"isBreak"`
}

// HolidayDTO represents a public holiday.
type HolidayDTO struct {
	ID           string `json:"id,omitempty"`
	FederalState string `json:"federalState"`
	Date         string `json:"date"`
	Name         string `json:"name"`
}

// SettingsDTO carries the tenant federal state defaults.
type SettingsDTO struct {
	FederalState         string `json:"federalState"`
	WorksOnPublicHoliday bool   `json:"worksOnPublicHoliday"`
}

// CalendarDayDTO is one day of a working-time calendar.
type CalendarDayDTO struct {
	Date         string       `json:"date"`
	PlannedHours float64      `json:"plannedHours"`
	ShouldHours  float64      `json:"shouldHours"`
	Absences     []AbsenceDTO `json:"absences,omitempty"`
}

// CalendarDTO is the calendar of one person over a range.
type CalendarDTO struct {
	PersonID     string           `json:"personId"`
	From         string           `json:"from"`
	To           string           `json:"to"` // exclusive
	PlannedHours float64          `json:"plannedHours"`
	ShouldHours  float64          `json:"shouldHours"`
	Days         []CalendarDayDTO `json:"days"`
}

// ReportEntryDTO is a time entry inside a report day.
type ReportEntryDTO struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Comment string `json:"comment,omitempty"`
	IsBreak bool   `json:"isBreak"`
}

// ReportPersonDayDTO is one person on one report day.
type ReportPersonDayDTO struct {
	PersonID            string           `json:"personId"`
	Name                string           `json:"name"`
	PlannedHours        float64          `json:"plannedHours"`
	ShouldHours         float64          `json:"shouldHours"`
	WorkedHours         float64          `json:"workedHours"`
	DeltaHours          float64          `json:"deltaHours"`
	AccumulatedOvertime *float64         `json:"accumulatedOvertime,omitempty"`
	Entries             []ReportEntryDTO `json:"entries"`
	Absences            []AbsenceDTO     `json:"absences,omitempty"`
}

// ReportDayDTO is one day of a report.
type ReportDayDTO struct {
	Date         string               `json:"date"`
	Locked       bool                 `json:"locked"`
	PlannedHours float64              `json:"plannedHours"`
	ShouldHours  float64              `json:"shouldHours"`
	WorkedHours  float64              `json:"workedHours"`
	DeltaHours   float64              `json:"deltaHours"`
	Persons      []ReportPersonDayDTO `json:"persons"`
}

// ReportTotalsDTO are the totals of one person over a week or month.
type ReportTotalsDTO struct {
	PersonID            string  `json:"personId"`
	PlannedHours        float64 `json:"plannedHours"`
	ShouldHours         float64 `json:"shouldHours"`
	WorkedHours         float64 `json:"workedHours"`
	DeltaHours          float64 `json:"deltaHours"`
	AccumulatedOvertime float64 `json:"accumulatedOvertime"`
}

// ReportWeekDTO is a week report.
type ReportWeekDTO struct {
	CalendarWeek        int               `json:"calendarWeek"`
	FirstDate           string            `json:"firstDate"`
	LastDate            string            `json:"lastDate"`
	PlannedHours        float64           `json:"plannedHours"`
	ShouldHours         float64           `json:"shouldHours"`
	WorkedHours         float64           `json:"workedHours"`
	DeltaHours          float64           `json:"deltaHours"`
	AverageDayWorkHours float64           `json:"averageDayWorkHours"`
	WorkedHoursRatio    decimal.Decimal   `json:"workedHoursRatio"`
	Persons             []ReportTotalsDTO `json:"persons"`
	Days                []ReportDayDTO    `json:"days"`
}

// ReportMonthDTO is a month report. Totals cover days of the month only;
// the weeks are complete and may reach into the neighbouring months.
type ReportMonthDTO struct {
	Year                int               `json:"year"`
	Month               int               `json:"month"`
	PlannedHours        float64           `json:"plannedHours"`
	ShouldHours         float64           `json:"shouldHours"`
	WorkedHours         float64           `json:"workedHours"`
	DeltaHours          float64           `json:"deltaHours"`
	AverageDayWorkHours float64           `json:"averageDayWorkHours"`
	WorkedHoursRatio    decimal.Decimal   `json:"workedHoursRatio"`
	Persons             []ReportTotalsDTO `json:"persons"`
	Weeks               []ReportWeekDTO   `json:"weeks"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

var weekdayNames = map[string]time.Weekday{
	"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
	"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
	"sunday": time.Sunday,
}

func hours(d time.Duration) float64 {
	f, _ := core.HoursDecimal(d).Float64()
	return f
}

func toPersonDTO(p core.Person) PersonDTO {
	return PersonDTO{
		ID:        p.ID.String(),
		Name:      p.Name,
		Email:     p.Email,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

func toWorkingTimeDTO(wt workingtime.WorkingTime) WorkingTimeDTO {
	workdays := make(map[string]float64, len(wt.Workdays))
	for day, planned := range wt.Workdays {
		workdays[strings.ToLower(day.String())] = hours(planned.Duration())
	}
	return WorkingTimeDTO{
		ID:                   wt.ID,
		PersonID:             wt.PersonID.String(),
		ValidFrom:            core.FormatOptional(wt.ValidFrom),
		ValidTo:              core.FormatOptional(wt.ValidTo),
		MinValidFrom:         core.FormatOptional(wt.MinValidFrom),
		Workdays:             workdays,
		WeeklyHours:          hours(wt.WeeklyHours().Duration()),
		FederalState:         string(wt.FederalState),
		WorksOnPublicHoliday: string(wt.WorksOnPublicHoliday),
		Current:              wt.Current,
		Default:              wt.Default,
	}
}

// parseWorkdays converts decimal hours per weekday name.
func parseWorkdays(in map[string]float64) (map[time.Weekday]core.PlannedWorkingHours, error) {
	out := make(map[time.Weekday]core.PlannedWorkingHours, len(in))
	for name, h := range in {
		day, ok := weekdayNames[strings.ToLower(name)]
		if !ok {
			return nil, &core.WorkingTimeError{Reason: "unknown weekday " + name}
		}
		if h < 0 || h > 24 {
			return nil, &core.WorkingTimeError{Reason: "hours of " + name + " must be between 0 and 24"}
		}
		out[day] = core.PlannedWorkingHours(core.HoursToDuration(decimal.NewFromFloat(h)))
	}
	return out, nil
}

func toAbsenceDTO(a workingtime.Absence) AbsenceDTO {
	dto := AbsenceDTO{
		ID:        a.ID,
		PersonID:  a.PersonID.String(),
		Start:     a.StartDate().String(),
		End:       a.EndDate().String(),
		DayLength: string(a.DayLength),
		Category:  string(a.Category()),
	}
	if reduction, ok := a.Kind.(workingtime.OvertimeReduction); ok {
		h := hours(reduction.Total)
		dto.OvertimeHours = &h
	}
	return dto
}

func toAbsenceDTOs(absences []workingtime.Absence) []AbsenceDTO {
	if len(absences) == 0 {
		return nil
	}
	dtos := make([]AbsenceDTO, len(absences))
	for i, a := range absences {
		dtos[i] = toAbsenceDTO(a)
	}
	return dtos
}

func toTimeEntryDTO(e report.TimeEntry) TimeEntryDTO {
	return TimeEntryDTO{
		ID:              e.ID,
		PersonID:        e.PersonID.String(),
		Date:            e.Date().String(),
		Start:           e.Start.Format(time.RFC3339),
		End:             e.End.Format(time.RFC3339),
		Comment:         e.Comment,
		IsBreak:         e.IsBreak,
		DurationMinutes: int64(core.DurationInMinutes(e.End.Sub(e.Start)) / time.Minute),
	}
}

func toHolidayDTO(h core.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:           h.ID,
		FederalState: string(h.FederalState),
		Date:         h.Date.String(),
		Name:         h.Name,
	}
}

func toCalendarDTO(c *workingtime.Calendar) CalendarDTO {
	r := c.Range()
	dto := CalendarDTO{
		PersonID:     c.PersonID().String(),
		From:         r.From.String(),
		To:           r.ToExclusive.String(),
		PlannedHours: hours(c.PlannedWorkingHoursBetween(r.From, r.ToExclusive).Duration()),
		ShouldHours:  hours(c.ShouldWorkingHoursBetween(r.From, r.ToExclusive).Duration()),
		Days:         make([]CalendarDayDTO, 0, r.Len()),
	}
	for _, d := range r.Days() {
		planned, _ := c.PlannedWorkingHours(d)
		should, _ := c.ShouldWorkingHours(d)
		dto.Days = append(dto.Days, CalendarDayDTO{
			Date:         d.String(),
			PlannedHours: hours(planned.Duration()),
			ShouldHours:  hours(should.Duration()),
			Absences:     toAbsenceDTOs(c.Absences(d)),
		})
	}
	return dto
}

func toReportDayDTO(d report.Day) ReportDayDTO {
	dto := ReportDayDTO{
		Date:         d.Date().String(),
		Locked:       d.Locked(),
		PlannedHours: hours(d.PlannedWorkingHours().Duration()),
		ShouldHours:  hours(d.ShouldWorkingHours().Duration()),
		WorkedHours:  hours(d.WorkDuration().Duration()),
		DeltaHours:   hours(d.Delta().Duration()),
		Persons:      []ReportPersonDayDTO{},
	}
	for _, id := range d.Persons() {
		pd, _ := d.Person(id)
		person := ReportPersonDayDTO{
			PersonID:     id.String(),
			Name:         pd.Person.Name,
			PlannedHours: hours(pd.Planned.Duration()),
			ShouldHours:  hours(pd.Should.Duration()),
			WorkedHours:  hours(pd.WorkDuration().Duration()),
			DeltaHours:   hours(pd.Delta().Duration()),
			Entries:      make([]ReportEntryDTO, len(pd.Entries)),
			Absences:     toAbsenceDTOs(pd.Absences),
		}
		if acc, ok := d.AccumulatedOvertime(id); ok {
			h := hours(acc.Duration())
			person.AccumulatedOvertime = &h
		}
		for i, e := range pd.Entries {
			person.Entries[i] = ReportEntryDTO{
				Start:   e.Start.Format(time.RFC3339),
				End:     e.End.Format(time.RFC3339),
				Comment: e.Comment,
				IsBreak: e.IsBreak,
			}
		}
		dto.Persons = append(dto.Persons, person)
	}
	return dto
}

// totals is what weeks and months share for per-person figures.
type totals interface {
	Persons() []core.PersonID
	PlannedWorkingHoursByPerson() map[core.PersonID]core.PlannedWorkingHours
	ShouldWorkingHoursByPerson() map[core.PersonID]core.ShouldWorkingHours
	WorkDurationByPerson() map[core.PersonID]core.WorkDuration
	DeltaByPerson() map[core.PersonID]report.DeltaWorkingHours
	AccumulatedOvertimeAtEnd() map[core.PersonID]report.DeltaWorkingHours
}

func toTotalsDTOs(t totals) []ReportTotalsDTO {
	planned, should := t.PlannedWorkingHoursByPerson(), t.ShouldWorkingHoursByPerson()
	worked, delta := t.WorkDurationByPerson(), t.DeltaByPerson()
	accumulated := t.AccumulatedOvertimeAtEnd()

	persons := t.Persons()
	sort.Slice(persons, func(i, j int) bool { return persons[i] < persons[j] })
	dtos := make([]ReportTotalsDTO, 0, len(persons))
	for _, id := range persons {
		dtos = append(dtos, ReportTotalsDTO{
			PersonID:            id.String(),
			PlannedHours:        hours(planned[id].Duration()),
			ShouldHours:         hours(should[id].Duration()),
			WorkedHours:         hours(worked[id].Duration()),
			DeltaHours:          hours(delta[id].Duration()),
			AccumulatedOvertime: hours(accumulated[id].Duration()),
		})
	}
	return dtos
}

func toReportWeekDTO(w report.Week) ReportWeekDTO {
	dto := ReportWeekDTO{
		CalendarWeek:        w.CalendarWeek(),
		FirstDate:           w.FirstDate().String(),
		LastDate:            w.LastDate().String(),
		PlannedHours:        hours(w.PlannedWorkingHours().Duration()),
		ShouldHours:         hours(w.ShouldWorkingHours().Duration()),
		WorkedHours:         hours(w.WorkDuration().Duration()),
		DeltaHours:          hours(w.Delta().Duration()),
		AverageDayWorkHours: hours(w.AverageDayWorkDuration().Duration()),
		WorkedHoursRatio:    w.WorkedHoursRatio(),
		Persons:             toTotalsDTOs(w),
	}
	days := w.Days()
	dto.Days = make([]ReportDayDTO, len(days))
	for i, d := range days {
		dto.Days[i] = toReportDayDTO(d)
	}
	return dto
}

func toReportMonthDTO(m report.Month) ReportMonthDTO {
	dto := ReportMonthDTO{
		Year:                m.Year(),
		Month:               int(m.Month()),
		PlannedHours:        hours(m.PlannedWorkingHours().Duration()),
		ShouldHours:         hours(m.ShouldWorkingHours().Duration()),
		WorkedHours:         hours(m.WorkDuration().Duration()),
		DeltaHours:          hours(m.Delta().Duration()),
		AverageDayWorkHours: hours(m.AverageDayWorkDuration().Duration()),
		WorkedHoursRatio:    m.WorkedHoursRatio(),
		Persons:             toTotalsDTOs(m),
	}
	weeks := m.Weeks()
	dto.Weeks = make([]ReportWeekDTO, len(weeks))
	for i, w := range weeks {
		dto.Weeks[i] = toReportWeekDTO(w)
	}
	return dto
}
