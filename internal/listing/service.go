package listing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service exposes listing operations. Reads are public; every mutation goes
// through an ownership check against the authenticated caller.
type Service struct {
	repo Repository
}

// NewService builds a listing service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Input captures the caller-editable listing fields.
type Input struct {
	Title       string
	Price       string
	Location    string
	Description string
	Type        string
	Category    string
}

// Create publishes a listing owned by the caller. The owner is taken from
// the authenticated identity, never from the request body.
func (s *Service) Create(ctx context.Context, ownerID string, input Input) (Listing, error) {
	if _, err := uuid.Parse(ownerID); err != nil {
		return Listing{}, err
	}

	listing := Listing{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       input.Title,
		Price:       input.Price,
		Location:    input.Location,
		Description: input.Description,
		Type:        input.Type,
		Category:    input.Category,
		CreatedAt:   time.Now().UTC(),
	}
	if listing.Type == "" {
		listing.Type = defaultType
	}
	if listing.Category == "" {
		listing.Category = defaultCategory
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		return Listing{}, err
	}
	return listing, nil
}

// Get retrieves a single listing.
func (s *Service) Get(ctx context.Context, id string) (Listing, error) {
	return s.repo.Get(ctx, id)
}

// List returns published listings matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]Listing, error) {
	return s.repo.List(ctx, filter)
}

// Mine returns the caller's own listings.
func (s *Service) Mine(ctx context.Context, ownerID string) ([]Listing, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Update overwrites the mutable fields of a listing the caller owns.
func (s *Service) Update(ctx context.Context, callerID, id string, input Input) (Listing, error) {
	listing, err := s.owned(ctx, callerID, id)
	if err != nil {
		return Listing{}, err
	}

	listing.Title = input.Title
	listing.Price = input.Price
	listing.Location = input.Location
	listing.Description = input.Description
	if input.Type != "" {
		listing.Type = input.Type
	}
	if input.Category != "" {
		listing.Category = input.Category
	}

	if err := s.repo.Update(ctx, listing); err != nil {
		return Listing{}, err
	}
	return listing, nil
}

// Delete removes a listing the caller owns.
func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	if _, err := s.owned(ctx, callerID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// owned loads the listing and enforces the ownership relation: mutation
// requires caller == owner, regardless of how valid the caller's token is.
func (s *Service) owned(ctx context.Context, callerID, id string) (Listing, error) {
	listing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Listing{}, err
	}
	if listing.OwnerID != callerID {
		return Listing{}, ErrForbidden
	}
	return listing, nil
}
