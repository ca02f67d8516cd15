package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/warp/worktime-engine/core"
)

// =============================================================================
// PERSON STORE (core.PersonSource)
// =============================================================================

// SavePerson inserts or updates a person.
func (s *Store) SavePerson(ctx context.Context, p core.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO persons (id, name, email, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email
	`
	_, err := s.db.ExecContext(ctx, query, p.ID, p.Name, nullString(p.Email), createdAt.Format(time.RFC3339))
	return err
}

// GetPerson returns core.ErrPersonNotFound for unknown ids.
func (s *Store) GetPerson(ctx context.Context, id core.PersonID) (core.Person, error) {
	persons, err := s.FindPersons(ctx, []core.PersonID{id})
	if err != nil {
		return core.Person{}, err
	}
	if len(persons) == 0 {
		return core.Person{}, core.ErrPersonNotFound
	}
	return persons[0], nil
}

// FindPersons returns the known persons among ids.
func (s *Store) FindPersons(ctx context.Context, ids []core.PersonID) ([]core.Person, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	in, args := inClause(ids)
	return s.queryPersons(ctx, "SELECT id, name, email, created_at FROM persons WHERE id IN "+in+" ORDER BY id", args...)
}

// AllPersons returns every person ordered by id.
func (s *Store) AllPersons(ctx context.Context) ([]core.Person, error) {
	return s.queryPersons(ctx, "SELECT id, name, email, created_at FROM persons ORDER BY id")
}

// DeletePerson removes a person together with their contracts, absences
// and time entries.
func (s *Store) DeletePerson(ctx context.Context, id core.PersonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"working_times", "absences", "time_entries"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE person_id = ?", id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM persons WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrPersonNotFound
	}
	return tx.Commit()
}

func (s *Store) queryPersons(ctx context.Context, query string, args ...any) ([]core.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var persons []core.Person
	for rows.Next() {
		var p core.Person
		var email sql.NullString
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Name, &email, &createdAt); err != nil {
			return nil, err
		}
		p.Email = email.String
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		persons = append(persons, p)
	}
	return persons, rows.Err()
}
