package identity

import (
	"context"
)

// Service manages account profiles. Account creation itself belongs to the
// signup flow; this service only reads and updates existing accounts.
type Service struct {
	repo Repository
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Profile returns the account for the given identifier.
func (s *Service) Profile(ctx context.Context, id string) (Account, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile applies owner-editable changes to the caller's own account.
// Email and username are immutable after verification.
func (s *Service) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (Account, error) {
	return s.repo.UpdateProfile(ctx, id, update)
}
