package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/warp/worktime-engine/core"
	"github.com/warp/worktime-engine/workingtime"
)

// =============================================================================
// HOLIDAY CALENDAR IMPLEMENTATION (workingtime.HolidaySource)
// =============================================================================

// SaveHoliday saves a holiday; a second holiday on the same day of the
// same federal state replaces the name.
func (s *Store) SaveHoliday(ctx context.Context, h core.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveHoliday(ctx, s.db, h)
}

// SaveHolidays saves a batch atomically.
func (s *Store) SaveHolidays(ctx context.Context, holidays []core.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, h := range holidays {
		if err := saveHoliday(ctx, tx, h); err != nil {
			return fmt.Errorf("save holiday %s %s: %w", h.FederalState, h.Date, err)
		}
	}
	return tx.Commit()
}

func saveHoliday(ctx context.Context, db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, h core.Holiday) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	query := `
		INSERT INTO holidays (id, federal_state, date, name, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(federal_state, date) DO UPDATE SET
			name = excluded.name
	`
	_, err := db.ExecContext(ctx, query,
		h.ID,
		string(h.FederalState),
		h.Date.String(),
		h.Name,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// PublicHolidays loads the holidays of the states within r.
func (s *Store) PublicHolidays(ctx context.Context, r core.DateRange, states []core.FederalState) (core.HolidayCalendar, error) {
	if len(states) == 0 {
		return core.NoHolidays{}, nil
	}
	in, args := inClause(states)
	args = append(args, r.From.String(), r.ToExclusive.String())
	holidays, err := s.queryHolidays(ctx, `
		SELECT id, federal_state, date, name FROM holidays
		WHERE federal_state IN `+in+` AND date >= ? AND date < ?
		ORDER BY date`, args...)
	if err != nil {
		return nil, err
	}
	return core.NewHolidaySet(holidays), nil
}

// ListHolidays returns the holidays of a year, optionally of one state.
func (s *Store) ListHolidays(ctx context.Context, year int, state core.FederalState) ([]core.Holiday, error) {
	query := "SELECT id, federal_state, date, name FROM holidays WHERE strftime('%Y', date) = ?"
	args := []any{strconv.Itoa(year)}
	if state != "" {
		query += " AND federal_state = ?"
		args = append(args, string(state))
	}
	return s.queryHolidays(ctx, query+" ORDER BY date, federal_state", args...)
}

func (s *Store) queryHolidays(ctx context.Context, query string, args ...any) ([]core.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []core.Holiday
	for rows.Next() {
		var h core.Holiday
		var state, date string
		if err := rows.Scan(&h.ID, &state, &date, &h.Name); err != nil {
			return nil, err
		}
		if h.Date, err = core.ParseDate(date); err != nil {
			return nil, err
		}
		h.FederalState = core.FederalState(state)
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// =============================================================================
// SETTINGS (workingtime.SettingsSource)
// =============================================================================

const (
	settingFederalState         = "federal_state"
	settingWorksOnPublicHoliday = "works_on_public_holiday"
)

// SaveFederalStateSettings stores the tenant defaults.
func (s *Store) SaveFederalStateSettings(ctx context.Context, settings workingtime.FederalStateSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, query, settingFederalState, string(settings.FederalState)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, settingWorksOnPublicHoliday, strconv.FormatBool(settings.WorksOnPublicHoliday)); err != nil {
		return err
	}
	return tx.Commit()
}

// FederalStateSettings returns the stored settings, falling back to the
// defaults for keys never stored.
func (s *Store) FederalStateSettings(ctx context.Context) (workingtime.FederalStateSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := s.defaults
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings WHERE key IN (?, ?)",
		settingFederalState, settingWorksOnPublicHoliday)
	if err != nil {
		return settings, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return settings, err
		}
		switch key {
		case settingFederalState:
			settings.FederalState = core.FederalState(value)
		case settingWorksOnPublicHoliday:
			works, err := strconv.ParseBool(value)
			if err != nil {
				return settings, fmt.Errorf("setting %s: %w", key, err)
			}
			settings.WorksOnPublicHoliday = works
		}
	}
	return settings, rows.Err()
}
