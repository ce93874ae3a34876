package signup

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	slots map[string]PendingSignup
}

// NewMemoryRepository builds an in-memory pending-signup store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{slots: make(map[string]PendingSignup)}
}

func (r *memoryRepository) Upsert(_ context.Context, pending PendingSignup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[pending.Email] = pending
	return nil
}

func (r *memoryRepository) Find(_ context.Context, email string) (PendingSignup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pending, ok := r.slots[email]
	if !ok {
		return PendingSignup{}, ErrNoPending
	}
	return pending, nil
}

func (r *memoryRepository) Delete(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, email)
	return nil
}
