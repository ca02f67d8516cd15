package workingtime

import (
	"sort"

	"github.com/warp/worktime-engine/core"
)

// =============================================================================
// TIMELINE - Sorted, non-overlapping contracts of one person
// =============================================================================

// Timeline holds one person's contracts sorted by ValidFrom ascending with
// the open start first. ValidTo is derived once on construction; lookups
// are a binary search over the starts.
//
// Days before the earliest dated contract (only possible when no open-start
// contract exists) and persons without contracts resolve to the default
// contract.
type Timeline struct {
	personID  core.PersonID
	contracts []WorkingTime
	fallback  WorkingTime
}

// NewTimeline validates and orders the contracts. More than one open-start
// contract, or two contracts starting on the same day, are rejected with
// ErrInvalidWorkingTime.
func NewTimeline(personID core.PersonID, contracts []WorkingTime) (*Timeline, error) {
	sorted := make([]WorkingTime, len(contracts))
	copy(sorted, contracts)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].ValidFrom, sorted[j].ValidFrom
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})

	for i := range sorted {
		if sorted[i].PersonID != personID {
			return nil, &core.WorkingTimeError{
				WorkingTimeID: sorted[i].ID, PersonID: personID,
				Reason: "belongs to person " + sorted[i].PersonID.String(),
			}
		}
		if i == 0 {
			continue
		}
		prev, cur := sorted[i-1].ValidFrom, sorted[i].ValidFrom
		if cur == nil {
			return nil, &core.WorkingTimeError{
				WorkingTimeID: sorted[i].ID, PersonID: personID,
				Reason: "more than one contract without validFrom",
			}
		}
		if prev != nil && prev.Equal(*cur) {
			return nil, &core.WorkingTimeError{
				WorkingTimeID: sorted[i].ID, PersonID: personID,
				Reason: "another contract already starts on " + cur.String(),
			}
		}
	}

	for i := range sorted {
		sorted[i].Workdays = copyWorkdays(sorted[i].Workdays)
		sorted[i].ValidTo = nil
		sorted[i].MinValidFrom = nil
		sorted[i].Current = false
		if i+1 < len(sorted) {
			validTo := sorted[i+1].ValidFrom.AddDays(-1)
			sorted[i].ValidTo = &validTo
		}
		if i > 0 && sorted[i-1].ValidFrom != nil {
			minValidFrom := sorted[i-1].ValidFrom.AddDays(1)
			sorted[i].MinValidFrom = &minValidFrom
		}
	}

	return &Timeline{
		personID:  personID,
		contracts: sorted,
		fallback:  DefaultWorkingTime(personID),
	}, nil
}

// PersonID returns the owner of the timeline.
func (t *Timeline) PersonID() core.PersonID { return t.personID }

// IsEmpty reports whether the person has no stored contract.
func (t *Timeline) IsEmpty() bool { return len(t.contracts) == 0 }

// At returns the contract that applies on d.
func (t *Timeline) At(d core.Date) WorkingTime {
	// first contract starting after d; the one before it applies
	idx := sort.Search(len(t.contracts), func(i int) bool {
		from := t.contracts[i].ValidFrom
		return from != nil && from.After(d)
	})
	if idx == 0 {
		return t.fallback
	}
	return t.contracts[idx-1]
}

// Contracts returns the contracts oldest first, with ValidTo derived and
// Current set relative to today. A person without contracts gets the
// default contract.
func (t *Timeline) Contracts(today core.Date) []WorkingTime {
	if len(t.contracts) == 0 {
		fallback := t.fallback
		fallback.Workdays = copyWorkdays(fallback.Workdays)
		fallback.Current = true
		return []WorkingTime{fallback}
	}
	out := make([]WorkingTime, len(t.contracts))
	for i, c := range t.contracts {
		c.Workdays = copyWorkdays(c.Workdays)
		c.Current = c.Covers(today)
		out[i] = c
	}
	return out
}

// Touching returns the contracts whose validity overlaps r, oldest first.
func (t *Timeline) Touching(r core.DateRange, today core.Date) []WorkingTime {
	var out []WorkingTime
	if !t.IsEmpty() && t.contracts[0].ValidFrom != nil && r.From.Before(*t.contracts[0].ValidFrom) {
		// days before the first dated contract fall back to the default
		out = append(out, t.fallback)
	}
	for _, c := range t.Contracts(today) {
		if c.Touches(r) {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the stored contract with the given id.
func (t *Timeline) Find(id string) (WorkingTime, bool) {
	for _, c := range t.contracts {
		if c.ID == id {
			return c, true
		}
	}
	return WorkingTime{}, false
}

// Stored returns copies of the stored contracts, oldest first, without the
// default fallback.
func (t *Timeline) Stored() []WorkingTime {
	out := make([]WorkingTime, len(t.contracts))
	for i, c := range t.contracts {
		c.Workdays = copyWorkdays(c.Workdays)
		out[i] = c
	}
	return out
}
