package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/warp/worktime-engine/core"
	"github.com/warp/worktime-engine/report"
)

// =============================================================================
// TIME ENTRY STORE (report.TimeEntrySource)
// =============================================================================

const entryColumns = "id, person_id, comment, start_at, end_at, is_break"

// SaveTimeEntry inserts or replaces an entry. The entry day is taken in
// the offset the entry was booked with.
func (s *Store) SaveTimeEntry(ctx context.Context, e report.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO time_entries (` + entryColumns + `, entry_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			comment = excluded.comment,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			is_break = excluded.is_break,
			entry_date = excluded.entry_date
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.PersonID,
		e.Comment,
		e.Start.Format(time.RFC3339Nano),
		e.End.Format(time.RFC3339Nano),
		e.IsBreak,
		e.Date().String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// DeleteTimeEntry removes an entry; unknown ids yield core.ErrNotFound.
func (s *Store) DeleteTimeEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM time_entries WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// FindEntries returns the entries of the persons starting on a day of r.
func (s *Store) FindEntries(ctx context.Context, r core.DateRange, personIDs []core.PersonID) ([]report.TimeEntry, error) {
	if len(personIDs) == 0 {
		return nil, nil
	}
	in, args := inClause(personIDs)
	args = append(args, r.From.String(), r.ToExclusive.String())
	return s.queryEntries(ctx, `
		SELECT `+entryColumns+` FROM time_entries
		WHERE person_id IN `+in+` AND entry_date >= ? AND entry_date < ?
		ORDER BY start_at`, args...)
}

// FindAllEntries returns every entry starting on a day of r.
func (s *Store) FindAllEntries(ctx context.Context, r core.DateRange) ([]report.TimeEntry, error) {
	return s.queryEntries(ctx, `
		SELECT `+entryColumns+` FROM time_entries
		WHERE entry_date >= ? AND entry_date < ?
		ORDER BY start_at`, r.From.String(), r.ToExclusive.String())
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]report.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []report.TimeEntry
	for rows.Next() {
		var e report.TimeEntry
		var start, end string
		if err := rows.Scan(&e.ID, &e.PersonID, &e.Comment, &start, &end, &e.IsBreak); err != nil {
			return nil, err
		}
		if e.Start, err = time.Parse(time.RFC3339Nano, start); err != nil {
			return nil, fmt.Errorf("time entry %s: %w", e.ID, err)
		}
		if e.End, err = time.Parse(time.RFC3339Nano, end); err != nil {
			return nil, fmt.Errorf("time entry %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
