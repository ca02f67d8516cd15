package core

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar day without time of day (all reconciliation is per day)
// =============================================================================

// DateLayout is the wire and storage representation of a Date.
const DateLayout = "2006-01-02"

// Date is a calendar day normalized to midnight UTC. The zero value is
// "no date"; use IsZero to check.
type Date struct {
	t time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t as seen in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// DateOfUTC returns the calendar day of t in UTC.
func DateOfUTC(t time.Time) Date {
	return DateOf(t.UTC())
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses YYYY-MM-DD. Malformed input yields an
// ErrInvalidCalendarReference.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, &CalendarReferenceError{Reference: s, Reason: "expected YYYY-MM-DD"}
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for fixtures and constants.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Compare returns -1, 0 or +1, suitable for slices.SortFunc.
func (d Date) Compare(other Date) int {
	switch {
	case d.Before(other):
		return -1
	case d.After(other):
		return 1
	default:
		return 0
	}
}

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddWeeks(n int) Date  { return d.AddDays(7 * n) }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }

// DaysUntil returns the number of days from d to other (negative when other
// lies before d).
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) YearDay() int          { return d.t.YearDay() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time { return d.t }

// AtTime combines the day with a wall clock time in loc.
func (d Date) AtTime(hour, minute int, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// OPTIONAL DATES - nil means open bound
// =============================================================================

// DatePtr returns a pointer to a copy of d.
func DatePtr(d Date) *Date { return &d }

// FormatOptional renders an open bound as the empty string.
func FormatOptional(d *Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// ParseOptionalDate parses "" as an open bound.
func ParseOptionalDate(s string) (*Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("parse optional date: %w", err)
	}
	return &d, nil
}
