package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when an insert violates the unique
	// index on users.email.
	ErrDuplicateEmail = errors.New("email already exists")
)
