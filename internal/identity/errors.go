package identity

import "errors"

var (
	// ErrNotFound indicates no account matches the lookup key.
	ErrNotFound = errors.New("account not found")
	// ErrConflict indicates an account already exists for the email.
	ErrConflict = errors.New("account already exists")
)
