package core

import (
	"fmt"
	"time"
)

// =============================================================================
// CALENDAR REFERENCES - year/week and year/month identifiers from callers
// =============================================================================

// WeeksInYear returns 52 or 53: the ISO week of December 28 is always the
// last week of its ISO year.
func WeeksInYear(year int) int {
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// FirstDayOfISOWeek returns the Monday of the given ISO week. Week numbers
// outside 1..WeeksInYear(year) are rejected.
func FirstDayOfISOWeek(year, week int) (Date, error) {
	if year < 1 || year > 9999 {
		return Date{}, &CalendarReferenceError{Reference: fmt.Sprintf("%d-W%02d", year, week), Reason: "year out of range"}
	}
	if week < 1 || week > WeeksInYear(year) {
		return Date{}, &CalendarReferenceError{
			Reference: fmt.Sprintf("%d-W%02d", year, week),
			Reason:    fmt.Sprintf("week must be between 1 and %d", WeeksInYear(year)),
		}
	}
	// January 4th always lies in ISO week 1.
	firstMonday := StartOfWeek(NewDate(year, time.January, 4))
	return firstMonday.AddWeeks(week - 1), nil
}

// ISOWeekRange is the seven day range of an ISO week.
func ISOWeekRange(year, week int) (DateRange, error) {
	monday, err := FirstDayOfISOWeek(year, week)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{From: monday, ToExclusive: monday.AddWeeks(1)}, nil
}

// MonthRange returns [first of month, first of next month).
func MonthRange(year, month int) (DateRange, error) {
	if month < 1 || month > 12 {
		return DateRange{}, &CalendarReferenceError{
			Reference: fmt.Sprintf("%d-%02d", year, month),
			Reason:    "month must be between 1 and 12",
		}
	}
	if year < 1 || year > 9999 {
		return DateRange{}, &CalendarReferenceError{Reference: fmt.Sprintf("%d-%02d", year, month), Reason: "year out of range"}
	}
	first := NewDate(year, time.Month(month), 1)
	return DateRange{From: first, ToExclusive: first.AddMonths(1)}, nil
}

// StartOfWeek returns the Monday on or before d.
func StartOfWeek(d Date) Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// AlignedWeekOfYear numbers weeks from January 1st in blocks of seven days,
// regardless of weekday.
func AlignedWeekOfYear(d Date) int {
	return (d.YearDay()-1)/7 + 1
}

// WeekStartsForMonth returns the Mondays of every week that overlaps the
// month, starting with the Monday on or before the first.
func WeekStartsForMonth(year int, month time.Month) []Date {
	first := NewDate(year, month, 1)
	previous := first.AddMonths(-1)

	var starts []Date
	for date := StartOfWeek(first); ; date = date.AddWeeks(1) {
		inPrevious := date.Year() == previous.Year() && date.Month() == previous.Month()
		inMonth := date.Year() == year && date.Month() == month
		if !inPrevious && !inMonth {
			break
		}
		starts = append(starts, date)
	}
	return starts
}
