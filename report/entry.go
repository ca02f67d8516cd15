package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/warp/worktime-engine/core"
)

// =============================================================================
// TIME ENTRIES - What a person actually booked
// =============================================================================

// TimeEntry is one booked interval. A break is recorded like work but never
// counts towards the worked duration.
type TimeEntry struct {
	ID       string
	PersonID core.PersonID
	Comment  string
	Start    time.Time
	End      time.Time
	IsBreak  bool
}

// NewTimeEntry creates an entry with a fresh id.
func NewTimeEntry(personID core.PersonID, start, end time.Time, comment string, isBreak bool) TimeEntry {
	return TimeEntry{
		ID:       uuid.NewString(),
		PersonID: personID,
		Comment:  comment,
		Start:    start,
		End:      end,
		IsBreak:  isBreak,
	}
}

// Date is the day the entry is booked on, taken from its start in the
// start's own location.
func (e TimeEntry) Date() core.Date { return core.DateOf(e.Start) }

// Validate checks the structural rules of an entry.
func (e TimeEntry) Validate() error {
	if e.PersonID == "" {
		return &core.ValidationError{Kind: core.ErrInvalidTimeEntry, Field: "personId", Message: "is required"}
	}
	if e.Start.IsZero() || e.End.IsZero() {
		return &core.ValidationError{Kind: core.ErrInvalidTimeEntry, Field: "start/end", Message: "are required"}
	}
	if e.End.Before(e.Start) {
		return &core.ValidationError{Kind: core.ErrInvalidTimeEntry, Field: "end", Message: "is before start"}
	}
	return nil
}

// TimeEntrySource loads entries whose start day lies in a range.
type TimeEntrySource interface {
	FindEntries(ctx context.Context, r core.DateRange, personIDs []core.PersonID) ([]TimeEntry, error)
	FindAllEntries(ctx context.Context, r core.DateRange) ([]TimeEntry, error)
}

// =============================================================================
// REPORT ENTRIES
// =============================================================================

// Entry is a time entry resolved to its person, as shown in a report.
type Entry struct {
	Person  core.Person
	Comment string
	Start   time.Time
	End     time.Time
	IsBreak bool
}

// WorkDuration is End-Start, or zero for breaks.
func (e Entry) WorkDuration() core.WorkDuration {
	if e.IsBreak {
		return 0
	}
	return core.WorkDuration(e.End.Sub(e.Start))
}
