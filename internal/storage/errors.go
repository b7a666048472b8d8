package storage

import "fmt"

// ValidationError reports malformed or out-of-range input. The store never
// mutates on a validation failure; callers can correct and retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports that a record does not exist or is not visible to
// the caller's scope. Scoped lookups return it for other owners' records
// so existence is never leaked.
type NotFoundError struct{}

func (e *NotFoundError) Error() string {
	return "record not found"
}

// AuthorizationError reports that the operation requires admin privilege.
type AuthorizationError struct{}

func (e *AuthorizationError) Error() string {
	return "not authorized"
}

// TransportError wraps a failure of the durable medium (file I/O, sql
// driver). It is always surfaced as-is, never collapsed into an empty
// result.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
