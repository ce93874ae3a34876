package signup

import "time"

// PendingSignup is the transient record of an unverified signup attempt.
// There is exactly one slot per email: a new signup for the same address
// overwrites the previous one, so only the latest code can ever verify.
// The record carries everything needed to create the account once the
// code checks out.
type PendingSignup struct {
	Email          string
	Username       string
	HashedPassword []byte
	Code           string
	ExpiresAt      time.Time
}

// Expired reports whether the code is no longer valid at the given time.
func (p PendingSignup) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}
