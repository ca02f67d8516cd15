package report

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/worktime-engine/core"
)

// =============================================================================
// AGGREGATION - Shared by Week and Month
// =============================================================================

type days []Day

func (ds days) planned() core.PlannedWorkingHours {
	var sum core.PlannedWorkingHours
	for _, d := range ds {
		sum += d.PlannedWorkingHours()
	}
	return sum
}

func (ds days) should() core.ShouldWorkingHours {
	var sum core.ShouldWorkingHours
	for _, d := range ds {
		sum += d.ShouldWorkingHours()
	}
	return sum
}

func (ds days) worked() core.WorkDuration {
	var sum core.WorkDuration
	for _, d := range ds {
		sum += d.WorkDuration()
	}
	return sum
}

func (ds days) plannedByPerson() map[core.PersonID]core.PlannedWorkingHours {
	out := map[core.PersonID]core.PlannedWorkingHours{}
	for _, d := range ds {
		for id, p := range d.persons {
			out[id] += p.Planned
		}
	}
	return out
}

func (ds days) shouldByPerson() map[core.PersonID]core.ShouldWorkingHours {
	out := map[core.PersonID]core.ShouldWorkingHours{}
	for _, d := range ds {
		for id, p := range d.persons {
			out[id] += p.Should
		}
	}
	return out
}

func (ds days) workedByPerson() map[core.PersonID]core.WorkDuration {
	out := map[core.PersonID]core.WorkDuration{}
	for _, d := range ds {
		for id, p := range d.persons {
			out[id] += p.WorkDuration()
		}
	}
	return out
}

func (ds days) deltaByPerson() map[core.PersonID]DeltaWorkingHours {
	out := map[core.PersonID]DeltaWorkingHours{}
	for _, d := range ds {
		for id, p := range d.persons {
			out[id] += p.Delta()
		}
	}
	return out
}

// accumulatedAtEnd is each person's running overtime on the last day they
// appear in.
func (ds days) accumulatedAtEnd() map[core.PersonID]DeltaWorkingHours {
	out := map[core.PersonID]DeltaWorkingHours{}
	for _, d := range ds {
		for id, v := range d.accumulated {
			out[id] = v
		}
	}
	return out
}

func (ds days) persons() []core.PersonID {
	seen := map[core.PersonID]struct{}{}
	for _, d := range ds {
		for id := range d.persons {
			seen[id] = struct{}{}
		}
	}
	ids := make([]core.PersonID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// averageWorked is the mean of the non-zero daily worked durations, each
// rounded up to whole minutes, rounded half up to the nearest minute.
func (ds days) averageWorked() core.WorkDuration {
	var total, n int64
	for _, d := range ds {
		worked := d.WorkDuration()
		if worked.IsZero() {
			continue
		}
		total += int64(worked.Minutes() / time.Minute)
		n++
	}
	if n == 0 {
		return 0
	}
	avg := math.Floor(float64(total)/float64(n) + 0.5)
	return core.WorkDuration(time.Duration(avg) * time.Minute)
}

// WorkedHoursRatio is worked/should rounded up to two digits and capped at
// one. Nothing worked is zero; nothing owed is one.
func WorkedHoursRatio(worked core.WorkDuration, should core.ShouldWorkingHours) decimal.Decimal {
	if worked <= 0 {
		return decimal.Zero
	}
	if should <= 0 {
		return decimal.NewFromInt(1)
	}
	ratio := decimal.NewFromInt(int64(worked)).
		DivRound(decimal.NewFromInt(int64(should)), 8).
		RoundCeil(2)
	return decimal.Min(ratio, decimal.NewFromInt(1))
}
