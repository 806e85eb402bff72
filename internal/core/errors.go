package core

import (
	"errors"
	"fmt"
)

// Error taxonomy of the data-access core. Callers match with errors.Is.
var (
	// ErrNotFound: a lookup by id yielded no row.
	ErrNotFound = errors.New("not found")

	// ErrDataIntegrity: a transaction references a category or payment
	// method id that no registry row resolves.
	ErrDataIntegrity = errors.New("data integrity violation")

	// ErrPersistence: the underlying store operation failed. Save paths
	// silence this to a boolean; everything else propagates it.
	ErrPersistence = errors.New("persistence failure")
)

// NotFoundError builds an ErrNotFound carrying entity kind and id, enough
// context to log meaningfully.
func NotFoundError(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}

// IntegrityError reports a dangling category or method reference.
func IntegrityError(kind string, id int64, ref string, refID int64) error {
	return fmt.Errorf("%s %d references %s %d: %w", kind, id, ref, refID, ErrDataIntegrity)
}

// PersistenceError wraps a store failure so errors.Is(err, ErrPersistence)
// holds while the cause stays readable.
func PersistenceError(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrPersistence)
}
