package database

import "errors"

// Store errors.
var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("database: record not found")

	// ErrUnknownOrder is returned when a listing query is given an
	// order value that is not one of the Order constants.
	ErrUnknownOrder = errors.New("database: unknown sort order")
)
