package core

// =============================================================================
// DATE RANGE - The window every calendar and report is computed for
// =============================================================================

// DateRange is the half-open day range [From, ToExclusive).
//
// Examples:
//   - ISO week 2024-W02: [2024-01-08, 2024-01-15)
//   - January 2024:      [2024-01-01, 2024-02-01)
type DateRange struct {
	From        Date
	ToExclusive Date
}

// NewDateRange validates that the range is not reversed.
func NewDateRange(from, toExclusive Date) (DateRange, error) {
	if toExclusive.Before(from) {
		return DateRange{}, &CalendarReferenceError{
			Reference: "[" + from.String() + ", " + toExclusive.String() + ")",
			Reason:    "end before start",
		}
	}
	return DateRange{From: from, ToExclusive: toExclusive}, nil
}

// SingleDay is the range containing exactly d.
func SingleDay(d Date) DateRange {
	return DateRange{From: d, ToExclusive: d.AddDays(1)}
}

// Contains returns true if d is within [From, ToExclusive).
func (r DateRange) Contains(d Date) bool {
	return d.AfterOrEqual(r.From) && d.Before(r.ToExclusive)
}

// Len is the number of days in the range.
func (r DateRange) Len() int {
	n := r.From.DaysUntil(r.ToExclusive)
	if n < 0 {
		return 0
	}
	return n
}

// IsEmpty reports whether the range holds no day.
func (r DateRange) IsEmpty() bool { return r.Len() == 0 }

// Last is the final day inside the range.
func (r DateRange) Last() Date { return r.ToExclusive.AddDays(-1) }

// Days returns all days in the range.
func (r DateRange) Days() []Date {
	days := make([]Date, 0, r.Len())
	for current := r.From; current.Before(r.ToExclusive); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// Overlaps reports whether the two ranges share at least one day.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.From.Before(other.ToExclusive) && other.From.Before(r.ToExclusive)
}

// OverlapsInclusive reports whether the closed interval [from, to] shares a
// day with the range.
func (r DateRange) OverlapsInclusive(from, to Date) bool {
	return from.Before(r.ToExclusive) && to.AfterOrEqual(r.From)
}

// Span returns the smallest range covering both r and other.
func (r DateRange) Span(other DateRange) DateRange {
	out := r
	if other.From.Before(out.From) {
		out.From = other.From
	}
	if other.ToExclusive.After(out.ToExclusive) {
		out.ToExclusive = other.ToExclusive
	}
	return out
}

// Intersect returns the days both ranges share; the result may be empty.
func (r DateRange) Intersect(other DateRange) DateRange {
	out := r
	if other.From.After(out.From) {
		out.From = other.From
	}
	if other.ToExclusive.Before(out.ToExclusive) {
		out.ToExclusive = other.ToExclusive
	}
	if out.ToExclusive.Before(out.From) {
		out.ToExclusive = out.From
	}
	return out
}

// String returns a string representation of the range.
func (r DateRange) String() string {
	return "[" + r.From.String() + ", " + r.ToExclusive.String() + ")"
}
