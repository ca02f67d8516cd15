package core

import "time"

// =============================================================================
// IDENTIFIERS
// =============================================================================

// PersonID identifies a person whose working time is tracked.
type PersonID string

func (id PersonID) String() string { return string(id) }

// PersonIDs converts raw strings, dropping empties.
func PersonIDs(raw ...string) []PersonID {
	ids := make([]PersonID, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			ids = append(ids, PersonID(s))
		}
	}
	return ids
}

// =============================================================================
// PERSON
// =============================================================================

// Person is an entry of the person directory.
type Person struct {
	ID        PersonID
	Name      string
	Email     string
	CreatedAt time.Time
}
