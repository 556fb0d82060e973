package auth

import "errors"

// Sentinel errors forming the authentication/authorization taxonomy.
// Transport maps each of these to exactly one wire envelope; raw token-parse
// detail never crosses this boundary.
var (
	// ErrInvalidCredentials covers both "no such user" and "wrong password".
	// The two cases must stay indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthenticated means the request carries no usable identity.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden means the identity lacks the required role.
	ErrForbidden = errors.New("access denied")

	// ErrAlreadyExists marks duplicate registration; match with errors.Is.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound marks a missing identity; match with errors.Is.
	ErrNotFound = errors.New("not found")
)

// ConflictError is a duplicate-registration failure whose message is safe to
// return to the client verbatim.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// Is reports membership in the ErrAlreadyExists kind.
func (e *ConflictError) Is(target error) bool { return target == ErrAlreadyExists }

// NotFoundError is a missing-identity failure whose message is safe to
// return to the client verbatim.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// Is reports membership in the ErrNotFound kind.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
