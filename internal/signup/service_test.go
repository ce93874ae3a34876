package signup

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/roofline/roofline/internal/identity"
	"github.com/roofline/roofline/internal/notification"
)

type captureNotifier struct {
	messages []notification.Message
	fail     bool
}

func (n *captureNotifier) Send(_ context.Context, message notification.Message) error {
	if n.fail {
		return errors.New("smtp unavailable")
	}
	n.messages = append(n.messages, message)
	return nil
}

func (n *captureNotifier) lastCode(t *testing.T) string {
	t.Helper()
	if len(n.messages) == 0 {
		t.Fatalf("no notification sent")
	}
	body := n.messages[len(n.messages)-1].Body
	code := strings.TrimPrefix(body, "Your verification code is: ")
	if code == body {
		t.Fatalf("unexpected notification body %q", body)
	}
	return code
}

type stubIssuer struct{}

func (stubIssuer) Issue(subject string) (string, error) {
	return "token:" + subject, nil
}

func newTestService(notifier notification.Notifier, opts Options) (*Service, Repository, identity.Repository) {
	pending := NewMemoryRepository()
	accounts := identity.NewMemoryRepository()
	svc := NewService(pending, accounts, stubIssuer{}, notifier, nil, opts)
	return svc, pending, accounts
}

func TestBeginIssuesSixDigitCode(t *testing.T) {
	notifier := &captureNotifier{}
	svc, _, _ := newTestService(notifier, Options{})
	ctx := context.Background()

	delivery, err := svc.Begin(ctx, BeginInput{Email: "a@x.com", Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if !delivery.Delivered {
		t.Fatalf("expected delivered")
	}

	code := notifier.lastCode(t)
	if len(code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", code)
	}
	if code[0] == '0' {
		t.Fatalf("code %q has a leading zero", code)
	}
}

func TestBeginReplacesPendingSignup(t *testing.T) {
	notifier := &captureNotifier{}
	svc, _, _ := newTestService(notifier, Options{})
	ctx := context.Background()

	if _, err := svc.Begin(ctx, BeginInput{Email: "a@x.com", Username: "alice", Password: "pw"}); err != nil {
		t.Fatalf("first begin: %v", err)
	}
	first := notifier.lastCode(t)

	if _, err := svc.Begin(ctx, BeginInput{Email: "a@x.com", Username: "alice", Password: "pw"}); err != nil {
		t.Fatalf("second begin: %v", err)
	}
	second := notifier.lastCode(t)

	if first != second {
		if _, err := svc.Verify(ctx, "a@x.com", first); !errors.Is(err, ErrInvalidCode) {
			t.Fatalf("expected ErrInvalidCode for superseded code, got %v", err)
		}
	}
	if _, err := svc.Verify(ctx, "a@x.com", second); err != nil {
		t.Fatalf("verify with latest code: %v", err)
	}
}

func TestBeginRejectsExistingAccount(t *testing.T) {
	notifier := &captureNotifier{}
	svc, _, accounts := newTestService(notifier, Options{})
	ctx := context.Background()

	if err := accounts.Create(ctx, identity.Account{ID: "11111111-1111-1111-1111-111111111111", Email: "a@x.com"}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	if _, err := svc.Begin(ctx, BeginInput{Email: "a@x.com", Username: "alice", Password: "pw"}); !errors.Is(err, ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestResendReplacesCodeInPlace(t *testing.T) {
	notifier := &captureNotifier{}
	svc, _, _ := newTestService(notifier, Options{})
	ctx := context.Background()

	if _, err := svc.Begin(ctx, BeginInput{Email: "a@x.com", Username: "alice", Password: "pw"}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	first := notifier.lastCode(t)

	if _, err := svc.Resend(ctx, "a@x.com"); err != nil {
		t.Fatalf("resend: %v", err)
	}
	second := notifier.lastCode(t)

	if first != second {
		if _, err := svc.Verify(ctx, "a@x.com", first); !errors.Is(err, ErrInvalidCode) {
			t.Fatalf("expected ErrInvalidCode for superseded code, got %v", err)
		}
	}
	token, err := svc.Verify(ctx, "a@x.com", second)
	if err != nil {
		t.Fatalf("verify with resent code: %v", err)
	}
	if token != "token:a@x.com" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestResendWithoutPendingSignup(t *testing.T) {
	svc, _, _ := newTestService(&captureNotifier{}, Options{})

	if _, err := svc.Resend(context.Background(), "nobody@x.com"); !errors.Is(err, ErrNoPending) {
		t.Fatalf("expected ErrNoPending, got %v", err)
	}
}

func TestResendRefreshesExpiredSlotByDefault(t *testing.T) {
	notifier := &captureNotifier{}
	svc, pending, _ := newTestService(notifier, Options{})
	ctx := context.Background()

	expired := PendingSignup{
		Email:     "a@x.com",
		Username:  "alice",
		Code:      "482913",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	if err := pending.Upsert(ctx, expired); err != nil {
		t.Fatalf("seed slot: %v", err)
	}

	if _, err := svc.Resend(ctx, "a@x.com"); err != nil {
		t.Fatalf("resend after expiry: %v", err)
	}
	if _, err := svc.Verify(ctx, "a@x.com", notifier.lastCode(t)); err != nil {
		t.Fatalf("verify refreshed code: %v", err)
	}
}

func TestResendStrictRejectsExpiredSlot(t *testing.T) {
	svc, pending, _ := newTestService(&captureNotifier{}, Options{ResendStrict: true})
	ctx := context.Background()

	expired := PendingSignup{
		Email:     "a@x.com",
		Username:  "alice",
		Code:      "482913",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	if err := pending.Upsert(ctx, expired); err != nil {
		t.Fatalf("seed slot: %v", err)
	}

	if _, err := svc.Resend(ctx, "a@x.com"); !errors.Is(err, ErrNoPending) {
		t.Fatalf("expected ErrNoPending in strict mode, got %v", err)
	}
}

func TestVerifyWithoutPendingSignup(t *testing.T) {
	svc, _, _ := newTestService(&captureNotifier{}, Options{})

	if _, err := svc.Verify(context.Background(), "nobody@x.com", "123456"); !errors.Is(err, ErrNoPending) {
		t.Fatalf("expected ErrNoPending, got %v", err)
	}
}

func TestVerifyRejectsWrongCode(t *testing.T) {
	notifier := &captureNotifier{}
	svc, _, _ := newTestService(notifier, Options{})
	ctx := context.Background()

	if _, err := svc.Begin(ctx, BeginInput{Email: "a@x.com", Username: "alice", Password: "pw"}); err != nil {
		t.Fatalf("begin: %v", err)
	}

	// Flip the last digit so the code differs by exactly one position.
	code := []byte(notifier.lastCode(t))
	if code[5] == '9' {
		code[5] = '1'
	} else {
		code[5]++
	}

	if _, err := svc.Verify(ctx, "a@x.com", string(code)); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
}

func TestVerifyRejectsExpiredCode(t *testing.T) {
	svc, pending, _ := newTestService(&captureNotifier{}, Options{})
	ctx := context.Background()

	slot := PendingSignup{
		Email:     "a@x.com",
		Username:  "alice",
		Code:      "482913",
		ExpiresAt: time.Now().UTC().Add(-time.Second),
	}
	if err := pending.Upsert(ctx, slot); err != nil {
		t.Fatalf("seed slot: %v", err)
	}

	// The code matches exactly; expiry alone must reject it.
	if _, err := svc.Verify(ctx, "a@x.com", "482913"); !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("expected ErrCodeExpired, got %v", err)
	}
}

func TestVerifyConsumesPendingSignup(t *testing.T) {
	notifier := &captureNotifier{}
	svc, _, accounts := newTestService(notifier, Options{})
	ctx := context.Background()

	if _, err := svc.Begin(ctx, BeginInput{Email: "a@x.com", Username: "alice", Password: "pw"}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	code := notifier.lastCode(t)

	if _, err := svc.Verify(ctx, "a@x.com", code); err != nil {
		t.Fatalf("verify: %v", err)
	}

	account, err := accounts.FindByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("account not created: %v", err)
	}
	if !account.Verified {
		t.Fatalf("expected account to be marked verified")
	}
	if account.Username != "alice" {
		t.Fatalf("expected username carried over, got %q", account.Username)
	}

	if _, err := svc.Verify(ctx, "a@x.com", code); !errors.Is(err, ErrNoPending) {
		t.Fatalf("expected ErrNoPending after consumption, got %v", err)
	}
}

func TestVerifyLosingRaceSurfacesConflict(t *testing.T) {
	svc, pending, accounts := newTestService(&captureNotifier{}, Options{})
	ctx := context.Background()

	// A concurrent verify already created the account; this caller still
	// holds a matching pending slot and must lose with a conflict rather
	// than overwrite.
	slot := PendingSignup{
		Email:     "a@x.com",
		Username:  "alice",
		Code:      "482913",
		ExpiresAt: time.Now().UTC().Add(time.Minute),
	}
	if err := pending.Upsert(ctx, slot); err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	if err := accounts.Create(ctx, identity.Account{ID: "11111111-1111-1111-1111-111111111111", Email: "a@x.com"}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	if _, err := svc.Verify(ctx, "a@x.com", "482913"); !errors.Is(err, ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestNotifierFailureKeepsPendingSignup(t *testing.T) {
	notifier := &captureNotifier{fail: true}
	svc, pending, _ := newTestService(notifier, Options{})
	ctx := context.Background()

	delivery, err := svc.Begin(ctx, BeginInput{Email: "a@x.com", Username: "alice", Password: "pw"})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if delivery.Delivered {
		t.Fatalf("expected delivery failure to be reported")
	}

	// The slot survived, so the user can recover via resend.
	slot, err := pending.Find(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("pending slot missing: %v", err)
	}
	if _, err := svc.Verify(ctx, "a@x.com", slot.Code); err != nil {
		t.Fatalf("verify after failed delivery: %v", err)
	}
}
