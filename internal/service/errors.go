package service

import "errors"

var (
	// ErrInvalidCredentials indicates that provided login credentials are
	// incorrect. Unknown id and wrong password are deliberately collapsed
	// into this one error so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrConflict is returned when a create collides with an existing record
	// on one of its natural keys.
	ErrConflict = errors.New("resource already exists")
	// ErrNotFound is returned when the target record is absent at update or
	// delete time.
	ErrNotFound = errors.New("resource not found")
	// ErrIDMismatch is returned when the path identifier and the entity's own
	// identifier disagree.
	ErrIDMismatch = errors.New("path id does not match body id")
)
