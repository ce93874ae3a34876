package identity

import "time"

// Account represents a verified user. Accounts are only ever created by the
// signup verification flow; ID and Email are immutable afterwards.
type Account struct {
	ID             string
	Email          string
	Username       string
	HashedPassword []byte
	Verified       bool
	FullName       string
	MobileNumber   string
	Bio            string
	City           string
	State          string
	CreatedAt      time.Time
}

// ProfileUpdate carries the owner-editable profile fields. Empty fields are
// left untouched.
type ProfileUpdate struct {
	FullName     string
	MobileNumber string
	Bio          string
	City         string
	State        string
}
