/*
Package sqlite provides a SQLite-backed implementation of the source interfaces.

PURPOSE:
  Persists persons, working-time contracts, absences, time entries, public
  holidays and the tenant settings, and serves them to the calendar and
  report services.

INTERFACES IMPLEMENTED:
  core.PersonSource:           Person directory
  workingtime.Repository:      Contracts (read and admin)
  workingtime.AbsenceSource:   Absences overlapping a range
  workingtime.HolidaySource:   Public holidays per federal state
  workingtime.SettingsSource:  Tenant federal state defaults
  report.TimeEntrySource:      Time entries per start day

KEY TABLES:
  persons:        Person directory
  working_times:  One row per contract; weekday columns are NULL for
                  non-working days and 0 for explicit 0h days
  absences:       Instants plus their UTC start/end days for range queries
  time_entries:   Instants plus the start day in the entry's own offset
  holidays:       One row per federal state and date
  settings:       Key/value tenant settings

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
  the single writer.

USAGE:
  store, err := sqlite.New("./data/worktime.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - workingtime/store.go: Source interfaces
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/worktime-engine/core"
	"github.com/warp/worktime-engine/workingtime"
)

// Store implements all source interfaces using SQLite.
type Store struct {
	db       *sql.DB
	mu       sync.RWMutex
	defaults workingtime.FederalStateSettings
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to ":memory:" is a database of its own
	db.SetMaxOpenConns(1)

	store := &Store{
		db:       db,
		defaults: workingtime.FederalStateSettings{FederalState: core.FederalStateGlobal},
	}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// WithDefaultSettings sets the settings reported while none are stored.
func (s *Store) WithDefaultSettings(settings workingtime.FederalStateSettings) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults = settings
	return s
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS persons (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		created_at TEXT NOT NULL
	);

	-- Weekday columns hold seconds; NULL marks a non-working day
	CREATE TABLE IF NOT EXISTS working_times (
		id TEXT PRIMARY KEY,
		person_id TEXT NOT NULL,
		valid_from TEXT,
		monday INTEGER,
		tuesday INTEGER,
		wednesday INTEGER,
		thursday INTEGER,
		friday INTEGER,
		saturday INTEGER,
		sunday INTEGER,
		federal_state TEXT NOT NULL DEFAULT 'GLOBAL',
		works_on_public_holiday TEXT NOT NULL DEFAULT 'GLOBAL',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_working_times_person
		ON working_times(person_id, valid_from);

	CREATE TABLE IF NOT EXISTS absences (
		id TEXT PRIMARY KEY,
		person_id TEXT NOT NULL,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		day_length TEXT NOT NULL,
		category TEXT NOT NULL,
		overtime_seconds INTEGER,
		created_at TEXT NOT NULL
	);

	-- Range lookups (hot path of every calendar)
	CREATE INDEX IF NOT EXISTS idx_absences_person_dates
		ON absences(person_id, start_date, end_date);
	CREATE INDEX IF NOT EXISTS idx_absences_dates
		ON absences(start_date, end_date);

	CREATE TABLE IF NOT EXISTS time_entries (
		id TEXT PRIMARY KEY,
		person_id TEXT NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		is_break BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_time_entries_person_date
		ON time_entries(person_id, entry_date);
	CREATE INDEX IF NOT EXISTS idx_time_entries_date
		ON time_entries(entry_date);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		federal_state TEXT NOT NULL,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(federal_state, date);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// inClause returns "(?, ?, ...)" and the matching arguments.
func inClause[T ~string](values []T) (string, []any) {
	if len(values) == 0 {
		return "(NULL)", nil
	}
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = string(v)
	}
	return "(" + strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ") + ")", args
}
