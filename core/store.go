package core

import "context"

// PersonSource is read access to the person directory.
type PersonSource interface {
	// FindPersons returns the known persons among ids; unknown ids are
	// skipped, not reported as errors.
	FindPersons(ctx context.Context, ids []PersonID) ([]Person, error)
	AllPersons(ctx context.Context) ([]Person, error)
}

// IDsOf extracts the ids of persons, preserving order.
func IDsOf(persons []Person) []PersonID {
	ids := make([]PersonID, len(persons))
	for i, p := range persons {
		ids[i] = p.ID
	}
	return ids
}
