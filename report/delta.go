package report

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/worktime-engine/core"
)

// DeltaWorkingHours is worked minus should. Negative means the person owes
// hours; positive is overtime.
type DeltaWorkingHours time.Duration

// Delta computes worked minus should.
func Delta(worked core.WorkDuration, should core.ShouldWorkingHours) DeltaWorkingHours {
	return DeltaWorkingHours(worked.Duration() - should.Duration())
}

func (d DeltaWorkingHours) Duration() time.Duration { return time.Duration(d) }
func (d DeltaWorkingHours) IsNegative() bool        { return d < 0 }
func (d DeltaWorkingHours) IsZero() bool            { return d == 0 }
func (d DeltaWorkingHours) Plus(o DeltaWorkingHours) DeltaWorkingHours {
	return d + o
}

// Abs drops the sign.
func (d DeltaWorkingHours) Abs() DeltaWorkingHours {
	if d < 0 {
		return -d
	}
	return d
}

// Minutes is the delta rounded to whole minutes, away from zero for
// positive values and towards zero for negative ones.
func (d DeltaWorkingHours) Minutes() time.Duration { return core.DurationInMinutes(d.Duration()) }

// Hours is the signed delta in decimal hours.
func (d DeltaWorkingHours) Hours() decimal.Decimal { return core.HoursDecimal(d.Duration()) }

func (d DeltaWorkingHours) String() string { return d.Duration().String() }
