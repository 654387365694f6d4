package store

import "errors"

// Common store errors shared by all store implementations.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert would violate a uniqueness
	// constraint.
	ErrDuplicate = errors.New("record already exists")
)
