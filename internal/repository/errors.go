package repository

import "errors"

// Store faults are reported through this closed set so callers can branch
// with errors.Is instead of inspecting driver error text. Anything else
// coming out of a repository is an unexplained storage fault.
var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when an insert violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrConcurrentUpdate is returned when a guarded update matched no rows:
	// the record changed or vanished since it was read.
	ErrConcurrentUpdate = errors.New("concurrent update")
)
