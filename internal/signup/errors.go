package signup

import "errors"

var (
	// ErrAccountExists indicates a verified account already holds the email.
	ErrAccountExists = errors.New("email already registered")
	// ErrNoPending indicates no pending signup exists for the email; the
	// client has to start over.
	ErrNoPending = errors.New("signup session expired")
	// ErrInvalidCode indicates the submitted code does not match the stored one.
	ErrInvalidCode = errors.New("invalid verification code")
	// ErrCodeExpired indicates the code matched but its validity window passed.
	ErrCodeExpired = errors.New("verification code expired")
)
