package listing

import "errors"

var (
	// ErrNotFound indicates no listing matches the identifier.
	ErrNotFound = errors.New("listing not found")
	// ErrForbidden indicates the caller is authenticated but does not own
	// the listing.
	ErrForbidden = errors.New("not the listing owner")
)
