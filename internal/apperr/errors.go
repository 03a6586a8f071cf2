// Package apperr defines the error kinds the HTTP boundary translates into
// status codes. Services wrap these sentinels with context via %w; handlers
// match them with errors.Is and never inspect message text.
package apperr

import "errors"

var (
	// ErrValidation covers bad or missing input, including duplicate
	// unique fields on signup.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthenticated covers missing, malformed, invalid or expired
	// credentials.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden means the identity is valid but does not own the
	// resource it tries to mutate.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorage covers unexpected database or disk failures.
	ErrStorage = errors.New("storage failure")
)
