package identity

import (
	"context"
	"errors"
	"testing"
)

func TestUpdateProfileMergesFields(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	account := Account{
		ID:       "11111111-1111-1111-1111-111111111111",
		Email:    "a@x.com",
		Username: "alice",
		FullName: "Alice",
		City:     "Surat",
		Verified: true,
	}
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, account.ID, ProfileUpdate{Bio: "broker since 2019", City: "Ahmedabad"})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Bio != "broker since 2019" || updated.City != "Ahmedabad" {
		t.Fatalf("update not applied: %+v", updated)
	}
	// Empty fields leave the stored value alone; identity fields never move.
	if updated.FullName != "Alice" {
		t.Fatalf("full name should be untouched, got %q", updated.FullName)
	}
	if updated.Email != "a@x.com" || updated.Username != "alice" {
		t.Fatalf("email/username must be immutable, got %q/%q", updated.Email, updated.Username)
	}
}

func TestUpdateProfileUnknownAccount(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	if _, err := svc.UpdateProfile(context.Background(), "missing", ProfileUpdate{Bio: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateDuplicateEmailConflicts(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first := Account{ID: "11111111-1111-1111-1111-111111111111", Email: "a@x.com"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}

	second := Account{ID: "22222222-2222-2222-2222-222222222222", Email: "a@x.com"}
	if err := repo.Create(ctx, second); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}
