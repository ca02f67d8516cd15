package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/warp/worktime-engine/core"
	"github.com/warp/worktime-engine/workingtime"
)

// =============================================================================
// WORKING TIME STORE (workingtime.Repository)
// =============================================================================

var weekdayColumns = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

const workingTimeColumns = `id, person_id, valid_from, monday, tuesday, wednesday, thursday,
	friday, saturday, sunday, federal_state, works_on_public_holiday`

// SaveWorkingTime inserts or replaces a contract.
func (s *Store) SaveWorkingTime(ctx context.Context, wt workingtime.WorkingTime) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO working_times (` + workingTimeColumns + `, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			valid_from = excluded.valid_from,
			monday = excluded.monday,
			tuesday = excluded.tuesday,
			wednesday = excluded.wednesday,
			thursday = excluded.thursday,
			friday = excluded.friday,
			saturday = excluded.saturday,
			sunday = excluded.sunday,
			federal_state = excluded.federal_state,
			works_on_public_holiday = excluded.works_on_public_holiday,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	args := []any{wt.ID, wt.PersonID, nullString(core.FormatOptional(wt.ValidFrom))}
	for _, day := range weekdayColumns {
		args = append(args, seconds(wt.Workdays, day))
	}
	args = append(args, string(wt.FederalState), string(wt.WorksOnPublicHoliday), now, now)

	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

// FindWorkingTime returns core.ErrNotFound for unknown ids.
func (s *Store) FindWorkingTime(ctx context.Context, id string) (workingtime.WorkingTime, error) {
	contracts, err := s.queryWorkingTimes(ctx, "SELECT "+workingTimeColumns+" FROM working_times WHERE id = ?", id)
	if err != nil {
		return workingtime.WorkingTime{}, err
	}
	if len(contracts) == 0 {
		return workingtime.WorkingTime{}, core.ErrNotFound
	}
	return contracts[0], nil
}

// FindWorkingTimes returns the stored contracts of the given persons.
func (s *Store) FindWorkingTimes(ctx context.Context, personIDs []core.PersonID) (map[core.PersonID][]workingtime.WorkingTime, error) {
	out := map[core.PersonID][]workingtime.WorkingTime{}
	if len(personIDs) == 0 {
		return out, nil
	}
	in, args := inClause(personIDs)
	contracts, err := s.queryWorkingTimes(ctx,
		"SELECT "+workingTimeColumns+" FROM working_times WHERE person_id IN "+in+" ORDER BY person_id, valid_from",
		args...)
	if err != nil {
		return nil, err
	}
	for _, wt := range contracts {
		out[wt.PersonID] = append(out[wt.PersonID], wt)
	}
	return out, nil
}

// DeleteWorkingTime removes a contract; unknown ids yield core.ErrNotFound.
func (s *Store) DeleteWorkingTime(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM working_times WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) queryWorkingTimes(ctx context.Context, query string, args ...any) ([]workingtime.WorkingTime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []workingtime.WorkingTime
	for rows.Next() {
		wt, err := scanWorkingTime(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, wt)
	}
	return contracts, rows.Err()
}

func scanWorkingTime(rows *sql.Rows) (workingtime.WorkingTime, error) {
	var wt workingtime.WorkingTime
	var validFrom sql.NullString
	var federalState, worksOnPublicHoliday string
	days := make([]sql.NullInt64, len(weekdayColumns))

	dest := []any{&wt.ID, &wt.PersonID, &validFrom}
	for i := range days {
		dest = append(dest, &days[i])
	}
	dest = append(dest, &federalState, &worksOnPublicHoliday)
	if err := rows.Scan(dest...); err != nil {
		return workingtime.WorkingTime{}, err
	}

	from, err := core.ParseOptionalDate(validFrom.String)
	if err != nil {
		return workingtime.WorkingTime{}, err
	}
	wt.ValidFrom = from
	wt.Workdays = map[time.Weekday]core.PlannedWorkingHours{}
	for i, day := range weekdayColumns {
		if days[i].Valid {
			wt.Workdays[day] = core.PlannedWorkingHours(time.Duration(days[i].Int64) * time.Second)
		}
	}
	wt.FederalState = core.FederalState(federalState)
	wt.WorksOnPublicHoliday = workingtime.PublicHolidayRule(worksOnPublicHoliday)
	return wt, nil
}

func seconds(workdays map[time.Weekday]core.PlannedWorkingHours, day time.Weekday) sql.NullInt64 {
	hours, ok := workdays[day]
	if !ok {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(hours.Duration() / time.Second), Valid: true}
}
