package signup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/roofline/roofline/internal/identity"
	"github.com/roofline/roofline/internal/notification"
)

// TokenIssuer mints a bearer credential for a verified account.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// Options tune the signup flow.
type Options struct {
	// CodeTTL is how long an issued code stays valid.
	CodeTTL time.Duration
	// ResendStrict makes Resend refuse slots whose code already expired,
	// forcing the client back to Begin. The legacy behavior refreshes the
	// slot regardless of expiry.
	ResendStrict bool
}

// Service drives the two-phase signup: begin issues a code into the pending
// slot, verify promotes the slot into a verified account and hands back a
// bearer token.
type Service struct {
	repo         Repository
	accounts     identity.Repository
	tokens       TokenIssuer
	notifier     notification.Notifier
	logger       *slog.Logger
	codeTTL      time.Duration
	resendStrict bool
}

// NewService creates a signup service.
func NewService(repo Repository, accounts identity.Repository, tokens TokenIssuer, notifier notification.Notifier, logger *slog.Logger, opts Options) *Service {
	ttl := opts.CodeTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		repo:         repo,
		accounts:     accounts,
		tokens:       tokens,
		notifier:     notifier,
		logger:       logger,
		codeTTL:      ttl,
		resendStrict: opts.ResendStrict,
	}
}

// BeginInput captures a signup submission.
type BeginInput struct {
	Email    string
	Username string
	Password string
}

// Delivery reports whether the code reached the notifier. A failed delivery
// does not fail the signup; the pending slot is already written and the
// client can ask for a resend.
type Delivery struct {
	Delivered bool
}

// Begin starts a signup: hashes the password, writes the pending slot with a
// fresh code, and hands the code to the notifier. A prior live slot for the
// same email is replaced, so only the newest code can verify.
func (s *Service) Begin(ctx context.Context, in BeginInput) (Delivery, error) {
	_, err := s.accounts.FindByEmail(ctx, in.Email)
	if err == nil {
		return Delivery{}, ErrAccountExists
	}
	if !errors.Is(err, identity.ErrNotFound) {
		return Delivery{}, fmt.Errorf("lookup account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Delivery{}, err
	}

	code, err := generateCode()
	if err != nil {
		return Delivery{}, err
	}

	pending := PendingSignup{
		Email:          in.Email,
		Username:       in.Username,
		HashedPassword: hash,
		Code:           code,
		ExpiresAt:      time.Now().UTC().Add(s.codeTTL),
	}
	if err := s.repo.Upsert(ctx, pending); err != nil {
		return Delivery{}, fmt.Errorf("store pending signup: %w", err)
	}

	return Delivery{Delivered: s.deliver(ctx, in.Email, code)}, nil
}

// Resend overwrites the pending slot's code and expiry in place and delivers
// the new code. It fails with ErrNoPending when no slot exists, or, in strict
// mode, when the slot's code has already expired.
func (s *Service) Resend(ctx context.Context, email string) (Delivery, error) {
	pending, err := s.repo.Find(ctx, email)
	if err != nil {
		return Delivery{}, err
	}
	if s.resendStrict && pending.Expired(time.Now().UTC()) {
		return Delivery{}, ErrNoPending
	}

	code, err := generateCode()
	if err != nil {
		return Delivery{}, err
	}
	pending.Code = code
	pending.ExpiresAt = time.Now().UTC().Add(s.codeTTL)
	if err := s.repo.Upsert(ctx, pending); err != nil {
		return Delivery{}, fmt.Errorf("store pending signup: %w", err)
	}

	return Delivery{Delivered: s.deliver(ctx, email, code)}, nil
}

// Verify checks the submitted code against the pending slot and, on success,
// creates the verified account, consumes the slot, and issues a token. The
// account write strictly precedes the slot delete, and both precede token
// issuance, so a returned token always refers to a persisted account.
func (s *Service) Verify(ctx context.Context, email, code string) (string, error) {
	pending, err := s.repo.Find(ctx, email)
	if err != nil {
		return "", err
	}
	if pending.Code != code {
		return "", ErrInvalidCode
	}
	if pending.Expired(time.Now().UTC()) {
		return "", ErrCodeExpired
	}

	account := identity.Account{
		ID:             uuid.New().String(),
		Email:          pending.Email,
		Username:       pending.Username,
		HashedPassword: pending.HashedPassword,
		Verified:       true,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		// The unique index on email arbitrates concurrent verifications;
		// the loser surfaces the conflict instead of overwriting.
		if errors.Is(err, identity.ErrConflict) {
			return "", ErrAccountExists
		}
		return "", fmt.Errorf("create account: %w", err)
	}

	if err := s.repo.Delete(ctx, email); err != nil {
		return "", fmt.Errorf("consume pending signup: %w", err)
	}

	token, err := s.tokens.Issue(account.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *Service) deliver(ctx context.Context, email, code string) bool {
	msg := notification.Message{
		Kind:        notification.KindSignupCode,
		Destination: email,
		Body:        fmt.Sprintf("Your verification code is: %s", code),
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		if s.logger != nil {
			s.logger.Warn("verification code delivery failed", "email", email, "error", err)
		}
		return false
	}
	return true
}
