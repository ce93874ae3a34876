package listing

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type memoryRepository struct {
	mu       sync.RWMutex
	listings map[string]Listing
}

// NewMemoryRepository builds an in-memory listing store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{listings: make(map[string]Listing)}
}

func (r *memoryRepository) Create(_ context.Context, listing Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listings[listing.ID] = listing
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.listings[id]
	if !ok {
		return Listing{}, ErrNotFound
	}
	return listing, nil
}

func (r *memoryRepository) List(_ context.Context, filter Filter) ([]Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Listing
	for _, listing := range r.listings {
		if filter.Type != "" && listing.Type != filter.Type {
			continue
		}
		if filter.Category != "" && listing.Category != filter.Category {
			continue
		}
		if filter.Location != "" && !strings.Contains(strings.ToLower(listing.Location), strings.ToLower(filter.Location)) {
			continue
		}
		out = append(out, listing)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *memoryRepository) ListByOwner(_ context.Context, ownerID string) ([]Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Listing
	for _, listing := range r.listings {
		if listing.OwnerID == ownerID {
			out = append(out, listing)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *memoryRepository) Update(_ context.Context, listing Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[listing.ID]; !ok {
		return ErrNotFound
	}
	r.listings[listing.ID] = listing
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[id]; !ok {
		return ErrNotFound
	}
	delete(r.listings, id)
	return nil
}

func sortNewestFirst(listings []Listing) {
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
}
