package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/warp/worktime-engine/core"
	"github.com/warp/worktime-engine/workingtime"
)

// =============================================================================
// ABSENCE STORE (workingtime.AbsenceSource)
// =============================================================================

const absenceColumns = "id, person_id, start_at, end_at, day_length, category, overtime_seconds"

// SaveAbsence inserts or replaces an absence.
func (s *Store) SaveAbsence(ctx context.Context, a workingtime.Absence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var overtime sql.NullInt64
	if reduction, ok := a.Kind.(workingtime.OvertimeReduction); ok {
		overtime = sql.NullInt64{Int64: int64(reduction.Total / time.Second), Valid: true}
	}

	query := `
		INSERT INTO absences (` + absenceColumns + `, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			day_length = excluded.day_length,
			category = excluded.category,
			overtime_seconds = excluded.overtime_seconds,
			start_date = excluded.start_date,
			end_date = excluded.end_date
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID,
		a.PersonID,
		a.Start.UTC().Format(time.RFC3339),
		a.End.UTC().Format(time.RFC3339),
		string(a.DayLength),
		string(a.Category()),
		overtime,
		a.StartDate().String(),
		a.EndDate().String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// DeleteAbsence removes an absence; unknown ids yield core.ErrNotFound.
func (s *Store) DeleteAbsence(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM absences WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// FindAbsences returns the absences of the persons touching r.
func (s *Store) FindAbsences(ctx context.Context, personIDs []core.PersonID, r core.DateRange) ([]workingtime.Absence, error) {
	if len(personIDs) == 0 {
		return nil, nil
	}
	in, args := inClause(personIDs)
	args = append(args, r.ToExclusive.String(), r.From.String())
	return s.queryAbsences(ctx, `
		SELECT `+absenceColumns+` FROM absences
		WHERE person_id IN `+in+` AND start_date < ? AND end_date >= ?
		ORDER BY start_at`, args...)
}

// FindAllAbsences returns every absence touching r.
func (s *Store) FindAllAbsences(ctx context.Context, r core.DateRange) ([]workingtime.Absence, error) {
	return s.queryAbsences(ctx, `
		SELECT `+absenceColumns+` FROM absences
		WHERE start_date < ? AND end_date >= ?
		ORDER BY start_at`, r.ToExclusive.String(), r.From.String())
}

func (s *Store) queryAbsences(ctx context.Context, query string, args ...any) ([]workingtime.Absence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var absences []workingtime.Absence
	for rows.Next() {
		var a workingtime.Absence
		var start, end, dayLength, category string
		var overtime sql.NullInt64
		if err := rows.Scan(&a.ID, &a.PersonID, &start, &end, &dayLength, &category, &overtime); err != nil {
			return nil, err
		}
		if a.Start, err = time.Parse(time.RFC3339, start); err != nil {
			return nil, fmt.Errorf("absence %s: %w", a.ID, err)
		}
		if a.End, err = time.Parse(time.RFC3339, end); err != nil {
			return nil, fmt.Errorf("absence %s: %w", a.ID, err)
		}
		a.DayLength = workingtime.DayLength(dayLength)

		cat, err := workingtime.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("absence %s: %w", a.ID, err)
		}
		if cat == workingtime.CategoryOvertime {
			a.Kind = workingtime.OvertimeReduction{Total: time.Duration(overtime.Int64) * time.Second}
		} else {
			a.Kind = workingtime.Leave{Type: cat}
		}
		absences = append(absences, a)
	}
	return absences, rows.Err()
}
