package store

import "errors"

// Sentinel errors for user store operations.
var (
	// ErrNotFound is returned when no identity matches the lookup key.
	ErrNotFound = errors.New("user not found")

	// ErrConflict is returned when saving an identity would violate the
	// email uniqueness constraint.
	ErrConflict = errors.New("email already registered")
)
