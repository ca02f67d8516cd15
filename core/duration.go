package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DURATION VALUE TYPES
// =============================================================================
//
// All arithmetic is exact on time.Duration. Rounding happens exactly once,
// when a value leaves the engine: Minutes() for clock display and Hours()
// for decimal "industrial hours" (three fractional digits).

// PlannedWorkingHours is what a contract schedules for a day, before
// absences are applied.
type PlannedWorkingHours time.Duration

// ShouldWorkingHours is the obligation after absences are applied.
type ShouldWorkingHours time.Duration

// WorkDuration is time actually recorded, breaks excluded.
type WorkDuration time.Duration

// Hours is a convenience constructor for fixtures and defaults.
func Hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

func (p PlannedWorkingHours) Duration() time.Duration { return time.Duration(p) }
func (p PlannedWorkingHours) IsZero() bool            { return p == 0 }
func (p PlannedWorkingHours) Plus(o PlannedWorkingHours) PlannedWorkingHours {
	return p + o
}
func (p PlannedWorkingHours) Minutes() time.Duration { return DurationInMinutes(p.Duration()) }
func (p PlannedWorkingHours) Hours() decimal.Decimal { return HoursDecimal(p.Duration()) }
func (p PlannedWorkingHours) String() string         { return p.Duration().String() }

func (s ShouldWorkingHours) Duration() time.Duration { return time.Duration(s) }
func (s ShouldWorkingHours) IsZero() bool            { return s == 0 }
func (s ShouldWorkingHours) Plus(o ShouldWorkingHours) ShouldWorkingHours {
	return s + o
}
func (s ShouldWorkingHours) Minutes() time.Duration { return DurationInMinutes(s.Duration()) }
func (s ShouldWorkingHours) Hours() decimal.Decimal { return HoursDecimal(s.Duration()) }
func (s ShouldWorkingHours) String() string         { return s.Duration().String() }

func (w WorkDuration) Duration() time.Duration          { return time.Duration(w) }
func (w WorkDuration) IsZero() bool                     { return w == 0 }
func (w WorkDuration) Plus(o WorkDuration) WorkDuration { return w + o }
func (w WorkDuration) Minutes() time.Duration           { return DurationInMinutes(w.Duration()) }
func (w WorkDuration) Hours() decimal.Decimal           { return HoursDecimal(w.Duration()) }
func (w WorkDuration) String() string                   { return w.Duration().String() }

// =============================================================================
// PRESENTATION ROUNDING
// =============================================================================

// DurationInMinutes rounds up to the next full minute (30s -> 1m). Exact
// minutes are returned unchanged. Negative values round towards zero,
// which is "up" on the number line.
func DurationInMinutes(d time.Duration) time.Duration {
	truncated := d.Truncate(time.Minute)
	if truncated == d || d < 0 {
		return truncated
	}
	return truncated + time.Minute
}

var (
	sixty      = decimal.NewFromInt(60)
	threeSixty = decimal.NewFromInt(3600)
)

// HoursDecimal converts d to hours with three fractional digits. The
// minutes part and the seconds part are each rounded half-up on their own
// before being added to the whole hours, so 7m2s is 0.117+0.001 = 0.118.
func HoursDecimal(d time.Duration) decimal.Decimal {
	hours := int64(d / time.Hour)
	minutes := int64((d % time.Hour) / time.Minute)
	seconds := int64((d % time.Minute) / time.Second)

	minutePart := decimal.NewFromInt(minutes).DivRound(sixty, 3)
	secondPart := decimal.NewFromInt(seconds).DivRound(threeSixty, 3)
	return decimal.NewFromInt(hours).Add(minutePart).Add(secondPart)
}

// HoursToDuration converts a decimal hour value (e.g. 7.5) into a duration.
// Whole hours are kept; the fraction is converted to minutes rounded
// half-even.
func HoursToDuration(hours decimal.Decimal) time.Duration {
	whole := hours.Truncate(0)
	fraction := hours.Sub(whole)
	minutes := fraction.Mul(sixty).RoundBank(0).IntPart()
	return time.Duration(whole.IntPart())*time.Hour + time.Duration(minutes)*time.Minute
}

// MaxDuration returns the larger of a and b.
func MaxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
