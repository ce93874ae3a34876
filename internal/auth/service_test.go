package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/roofline/roofline/internal/identity"
	"github.com/roofline/roofline/internal/notification"
	"github.com/roofline/roofline/internal/signup"
)

func seedAccount(t *testing.T, accounts identity.Repository, email, username, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	err = accounts.Create(context.Background(), identity.Account{
		ID:             "11111111-1111-1111-1111-111111111111",
		Email:          email,
		Username:       username,
		HashedPassword: hash,
		Verified:       true,
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
}

func TestLoginByEmailAndUsername(t *testing.T) {
	accounts := identity.NewMemoryRepository()
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	svc := NewService(accounts, tokens)
	seedAccount(t, accounts, "a@x.com", "alice", "hunter22")

	for _, identifier := range []string{"a@x.com", "alice"} {
		token, err := svc.Login(context.Background(), identifier, "hunter22")
		if err != nil {
			t.Fatalf("login with %q: %v", identifier, err)
		}
		subject, err := tokens.Validate(token)
		if err != nil {
			t.Fatalf("validate token: %v", err)
		}
		// The subject is always the email, even when logging in by username.
		if subject != "a@x.com" {
			t.Fatalf("expected subject a@x.com, got %q", subject)
		}
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	accounts := identity.NewMemoryRepository()
	svc := NewService(accounts, NewTokenService([]byte("test-secret"), time.Hour))
	seedAccount(t, accounts, "a@x.com", "alice", "hunter22")

	// One character off must fail.
	if _, err := svc.Login(context.Background(), "a@x.com", "hunter23"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownAccount(t *testing.T) {
	accounts := identity.NewMemoryRepository()
	svc := NewService(accounts, NewTokenService([]byte("test-secret"), time.Hour))

	if _, err := svc.Login(context.Background(), "ghost@x.com", "pw"); !errors.Is(err, ErrNoAccount) {
		t.Fatalf("expected ErrNoAccount, got %v", err)
	}
}

type sinkNotifier struct{ codes []string }

func (n *sinkNotifier) Send(_ context.Context, message notification.Message) error {
	const prefix = "Your verification code is: "
	if len(message.Body) > len(prefix) {
		n.codes = append(n.codes, message.Body[len(prefix):])
	}
	return nil
}

// Full admission flow: signup, verify, then both the verification token and a
// subsequent login token decode to the new account's email.
func TestSignupVerifyThenLogin(t *testing.T) {
	accounts := identity.NewMemoryRepository()
	pending := signup.NewMemoryRepository()
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	notifier := &sinkNotifier{}
	signups := signup.NewService(pending, accounts, tokens, notifier, nil, signup.Options{})
	svc := NewService(accounts, tokens)
	ctx := context.Background()

	if _, err := signups.Begin(ctx, signup.BeginInput{Email: "a@x.com", Username: "alice", Password: "hunter22"}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if len(notifier.codes) != 1 {
		t.Fatalf("expected one delivered code, got %d", len(notifier.codes))
	}

	verifyToken, err := signups.Verify(ctx, "a@x.com", notifier.codes[0])
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	subject, err := tokens.Validate(verifyToken)
	if err != nil {
		t.Fatalf("validate verification token: %v", err)
	}
	if subject != "a@x.com" {
		t.Fatalf("expected subject a@x.com, got %q", subject)
	}

	loginToken, err := svc.Login(ctx, "alice", "hunter22")
	if err != nil {
		t.Fatalf("login after verification: %v", err)
	}
	if subject, err = tokens.Validate(loginToken); err != nil || subject != "a@x.com" {
		t.Fatalf("login token subject = %q, err = %v", subject, err)
	}
}
