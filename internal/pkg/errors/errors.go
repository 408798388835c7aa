package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDuplicate signals a natural-key collision on insert. Callers
	// that race on first-creation should re-fetch instead of failing.
	ErrDuplicate = errors.New("duplicate key")
)
