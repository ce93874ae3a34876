package listing

import "time"

const (
	defaultType     = "Sell"
	defaultCategory = "Residential"
)

// Listing is a property advertisement. OwnerID is set once at creation and
// never reassigned; only the owner may change or remove the listing.
type Listing struct {
	ID          string
	OwnerID     string
	Title       string
	Price       string
	Location    string
	Description string
	Type        string
	Category    string
	CreatedAt   time.Time
}

// Filter narrows public listing queries. Zero fields match everything.
type Filter struct {
	Type     string
	Category string
	Location string
}
