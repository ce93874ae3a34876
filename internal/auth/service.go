package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/roofline/roofline/internal/identity"
)

var (
	// ErrNoAccount indicates no account matches the submitted identifier.
	ErrNoAccount = errors.New("account not found")
	// ErrInvalidCredentials indicates the password check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service authenticates existing accounts and issues tokens for them.
type Service struct {
	accounts identity.Repository
	tokens   *TokenService
}

// NewService creates an auth service.
func NewService(accounts identity.Repository, tokens *TokenService) *Service {
	return &Service{accounts: accounts, tokens: tokens}
}

// Login resolves the account by email or username, verifies the password
// against the stored hash, and issues a bearer token. The single identifier
// is matched against both columns, which means a username colliding with
// someone else's email resolves to whichever row the store returns first.
func (s *Service) Login(ctx context.Context, usernameOrEmail, password string) (string, error) {
	account, err := s.accounts.FindByEmailOrUsername(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return "", ErrNoAccount
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword(account.HashedPassword, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(account.Email)
}
