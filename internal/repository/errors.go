package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row. Implementations
// wrap it with the entity name, so callers test with errors.Is.
var ErrNotFound = errors.New("not found")
