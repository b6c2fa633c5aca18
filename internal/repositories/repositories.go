package repositories

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no row matches the requested key or id.
var ErrNotFound = errors.New("record not found")

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
}
