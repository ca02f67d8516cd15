package workingtime

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/worktime-engine/core"
)

// =============================================================================
// DAY LENGTH
// =============================================================================

// DayLength is the part of a day an absence covers.
type DayLength string

const (
	DayLengthFull    DayLength = "FULL"
	DayLengthMorning DayLength = "MORNING"
	DayLengthNoon    DayLength = "NOON"
)

var (
	one  = decimal.NewFromInt(1)
	half = decimal.NewFromFloat(0.5)
)

// ParseDayLength accepts FULL, MORNING and NOON case-insensitively.
func ParseDayLength(s string) (DayLength, error) {
	switch dl := DayLength(strings.ToUpper(strings.TrimSpace(s))); dl {
	case DayLengthFull, DayLengthMorning, DayLengthNoon:
		return dl, nil
	case "":
		return DayLengthFull, nil
	default:
		return "", &core.ValidationError{Kind: core.ErrInvalidAbsence, Field: "dayLength", Message: fmt.Sprintf("unknown value %q", s)}
	}
}

// Value is 1 for a full day and 0.5 for a half day.
func (d DayLength) Value() decimal.Decimal {
	if d == DayLengthFull {
		return one
	}
	return half
}

// IsHalfDay reports MORNING or NOON.
func (d DayLength) IsHalfDay() bool { return d == DayLengthMorning || d == DayLengthNoon }

// Complements reports whether d and other together cover a full day.
func (d DayLength) Complements(other DayLength) bool {
	return (d == DayLengthMorning && other == DayLengthNoon) || (d == DayLengthNoon && other == DayLengthMorning)
}

// =============================================================================
// ABSENCE KIND - Leave or overtime reduction
// =============================================================================

// Category groups absence types. Every category except OVERTIME consumes
// planned hours the way holiday leave does.
type Category string

const (
	CategoryHoliday      Category = "HOLIDAY"
	CategorySick         Category = "SICK"
	CategorySpecialLeave Category = "SPECIALLEAVE"
	CategoryUnpaidLeave  Category = "UNPAIDLEAVE"
	CategoryOther        Category = "OTHER"
	CategoryOvertime     Category = "OVERTIME"
)

// ParseCategory accepts the category names case-insensitively.
// OVERTIME_REDUCTION is accepted as an alias of OVERTIME.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToUpper(strings.TrimSpace(s))); c {
	case CategoryHoliday, CategorySick, CategorySpecialLeave, CategoryUnpaidLeave, CategoryOther, CategoryOvertime:
		return c, nil
	case "OVERTIME_REDUCTION":
		return CategoryOvertime, nil
	default:
		return "", &core.ValidationError{Kind: core.ErrInvalidAbsence, Field: "category", Message: fmt.Sprintf("unknown value %q", s)}
	}
}

// Kind is the closed set of absence kinds: Leave or OvertimeReduction.
type Kind interface {
	Category() Category
	isKind()
}

// Leave is holiday-like absence: a full day removes the day's planned
// hours, a half day removes half of them.
type Leave struct {
	Type Category
}

func (l Leave) Category() Category {
	if l.Type == "" {
		return CategoryHoliday
	}
	return l.Type
}
func (Leave) isKind() {}

// OvertimeReduction spends accrued overtime. Total covers the whole
// absence, not each day.
type OvertimeReduction struct {
	Total time.Duration
}

func (OvertimeReduction) Category() Category { return CategoryOvertime }
func (OvertimeReduction) isKind()            {}

// =============================================================================
// ABSENCE
// =============================================================================

// Absence is one approved absence of one person. Start and End are
// instants; both days are included.
type Absence struct {
	ID        string
	PersonID  core.PersonID
	Start     time.Time
	End       time.Time
	DayLength DayLength
	Kind      Kind
}

// NewLeave creates a leave absence between two days, both inclusive.
func NewLeave(personID core.PersonID, start, end core.Date, dayLength DayLength, category Category) Absence {
	return Absence{
		ID:        uuid.NewString(),
		PersonID:  personID,
		Start:     start.Time(),
		End:       end.Time(),
		DayLength: dayLength,
		Kind:      Leave{Type: category},
	}
}

// NewOvertimeReduction creates an overtime reduction spending total over
// the days from start to end.
func NewOvertimeReduction(personID core.PersonID, start, end core.Date, dayLength DayLength, total time.Duration) Absence {
	return Absence{
		ID:        uuid.NewString(),
		PersonID:  personID,
		Start:     start.Time(),
		End:       end.Time(),
		DayLength: dayLength,
		Kind:      OvertimeReduction{Total: total},
	}
}

// StartDate is the first absent day (UTC).
func (a Absence) StartDate() core.Date { return core.DateOfUTC(a.Start) }

// EndDate is the last absent day (UTC).
func (a Absence) EndDate() core.Date { return core.DateOfUTC(a.End) }

// Days is the absence as a half-open range.
func (a Absence) Days() core.DateRange {
	return core.DateRange{From: a.StartDate(), ToExclusive: a.EndDate().AddDays(1)}
}

// Covers reports whether d is one of the absent days.
func (a Absence) Covers(d core.Date) bool {
	return !d.Before(a.StartDate()) && !d.After(a.EndDate())
}

// Category is a shortcut for Kind.Category().
func (a Absence) Category() Category {
	if a.Kind == nil {
		return CategoryHoliday
	}
	return a.Kind.Category()
}

// IsOvertimeReduction reports whether the absence spends overtime.
func (a Absence) IsOvertimeReduction() bool {
	_, ok := a.Kind.(OvertimeReduction)
	return ok
}

// Validate checks the structural rules an absence must satisfy.
func (a Absence) Validate() error {
	if a.PersonID == "" {
		return &core.ValidationError{Kind: core.ErrInvalidAbsence, Field: "personId", Message: "is required"}
	}
	if a.Start.IsZero() || a.End.IsZero() {
		return &core.ValidationError{Kind: core.ErrInvalidAbsence, Field: "start/end", Message: "are required"}
	}
	if a.EndDate().Before(a.StartDate()) {
		return &core.ValidationError{Kind: core.ErrInvalidAbsence, Field: "end", Message: "is before start"}
	}
	switch a.DayLength {
	case DayLengthFull:
	case DayLengthMorning, DayLengthNoon:
		if !a.StartDate().Equal(a.EndDate()) {
			return &core.ValidationError{Kind: core.ErrInvalidAbsence, Field: "dayLength", Message: "half days must start and end on the same day"}
		}
	default:
		return &core.ValidationError{Kind: core.ErrInvalidAbsence, Field: "dayLength", Message: fmt.Sprintf("unknown value %q", a.DayLength)}
	}
	switch k := a.Kind.(type) {
	case Leave:
		if k.Type == CategoryOvertime {
			return &core.ValidationError{Kind: core.ErrInvalidAbsence, Field: "category", Message: "overtime needs a total duration"}
		}
	case OvertimeReduction:
		if k.Total < 0 {
			return &core.ValidationError{Kind: core.ErrInvalidAbsence, Field: "overtimeHours", Message: "must not be negative"}
		}
	default:
		return &core.ValidationError{Kind: core.ErrInvalidAbsence, Field: "kind", Message: "is required"}
	}
	return nil
}
