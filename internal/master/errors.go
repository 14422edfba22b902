package master

import (
	"errors"
	"fmt"
)

// ErrPersistence marks failures to read or write the persisted store.
var ErrPersistence = errors.New("persistence error")

// ErrStaleTable marks a Save that rewrote the CSV but could not replace the
// SQLite table. It is always reported together with ErrPersistence.
var ErrStaleTable = errors.New("sqlite table not replaced")

func wrap(store, operation string, err error) error {
	return fmt.Errorf("%w: store %s: %s: %w", ErrPersistence, store, operation, err)
}
