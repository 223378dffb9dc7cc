package domain

import "errors"

var (
	// ErrValidation marks input that the domain rejects before any network call.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks a missing record (unknown user, unknown preference row).
	ErrNotFound = errors.New("not found")
)
