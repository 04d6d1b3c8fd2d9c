package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/auriga-labs/authgate/internal/pkg/clock"
	"github.com/auriga-labs/authgate/internal/pkg/config"
	"github.com/auriga-labs/authgate/internal/pkg/idempotency"
	"github.com/auriga-labs/authgate/internal/pkg/instrument"
	"github.com/auriga-labs/authgate/internal/pkg/mail"
	"github.com/auriga-labs/authgate/internal/pkg/validator"
)

const testConfigYAML = `
modules:
  auth:
    otp_ttl_minutes: 5
  notification:
    dedupe_ttl_minutes: 60
`

type fakeMailer struct {
	sent     []mail.Message
	failures int // number of sends that fail before one succeeds
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("smtp connection reset")
	}
	f.sent = append(f.sent, msg)
	return nil
}

// fakeTracker completes a key on first successful Exec and reports
// ErrAlreadyCompleted afterwards, like the redis-backed tracker does.
type fakeTracker struct {
	completed map[string]bool
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{completed: map[string]bool{}}
}

func (f *fakeTracker) Acquire(_ context.Context, key string, _ time.Duration) (idempotency.State, error) {
	if f.completed[key] {
		return idempotency.StateCompleted, nil
	}
	return idempotency.StateNone, nil
}

func (f *fakeTracker) MarkCompleted(_ context.Context, key string, _ time.Duration) error {
	f.completed[key] = true
	return nil
}

func (f *fakeTracker) MarkFailed(_ context.Context, _ string, _ time.Duration) error {
	return nil
}

func (f *fakeTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	if f.completed[key] {
		return idempotency.ErrAlreadyCompleted
	}
	if err := fn(ctx); err != nil {
		return err
	}
	f.completed[key] = true
	return nil
}

func newTestUsecase(t *testing.T, mailer *fakeMailer) *Usecase {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	return NewNotification(Dependency{
		RepoMail:    mailer,
		Idempotency: newFakeTracker(),
		Config:      cfg,
		Clock:       clock.New(),
		Validator:   v,
		Instrument:  instrument.NewNoop(),
	})
}

func validInput() ConsumeOtpIssuedInput {
	return ConsumeOtpIssuedInput{
		EventID:  "evt-1",
		Email:    "alice@example.com",
		Username: "alice",
		Purpose:  "REGISTRATION",
		Code:     "123456",
	}
}

func TestConsumeOtpIssued(t *testing.T) {

	t.Run("SendsEmail", func(t *testing.T) {

		// Arrange
		mailer := &fakeMailer{}
		uc := newTestUsecase(t, mailer)

		// Act
		err := uc.ConsumeOtpIssued(context.Background(), validInput())

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(mailer.sent) != 1 {
			t.Fatalf("expected one email, got %d", len(mailer.sent))
		}
		msg := mailer.sent[0]
		if len(msg.To) != 1 || msg.To[0] != "alice@example.com" {
			t.Fatalf("expected recipient alice@example.com, got %v", msg.To)
		}
		if msg.Subject != "Verify your email" {
			t.Fatalf("expected registration subject, got %q", msg.Subject)
		}
		if !strings.Contains(msg.TextBody, "123456") || !strings.Contains(msg.TextBody, "alice") {
			t.Fatalf("expected code and username in body, got %q", msg.TextBody)
		}
		if !strings.Contains(msg.TextBody, "5 minutes") {
			t.Fatalf("expected ttl in body, got %q", msg.TextBody)
		}
	})

	t.Run("PurposeSelectsTemplate", func(t *testing.T) {

		// Arrange
		mailer := &fakeMailer{}
		uc := newTestUsecase(t, mailer)
		in := validInput()
		in.Purpose = "PASSWORD_RESET"

		// Act
		err := uc.ConsumeOtpIssued(context.Background(), in)

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if mailer.sent[0].Subject != "Password reset code" {
			t.Fatalf("expected reset subject, got %q", mailer.sent[0].Subject)
		}
	})

	t.Run("DuplicateEventSkipped", func(t *testing.T) {

		// Arrange
		mailer := &fakeMailer{}
		uc := newTestUsecase(t, mailer)
		if err := uc.ConsumeOtpIssued(context.Background(), validInput()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// Act
		err := uc.ConsumeOtpIssued(context.Background(), validInput())

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(mailer.sent) != 1 {
			t.Fatalf("expected a single email, got %d", len(mailer.sent))
		}
	})

	t.Run("InvalidPayloadDropped", func(t *testing.T) {

		// Arrange
		mailer := &fakeMailer{}
		uc := newTestUsecase(t, mailer)
		in := validInput()
		in.Code = "12345" // not a 6 digit code

		// Act
		err := uc.ConsumeOtpIssued(context.Background(), in)

		// Assert: malformed events are dropped, not redelivered.
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(mailer.sent) != 0 {
			t.Fatalf("expected no email, got %d", len(mailer.sent))
		}
	})

	t.Run("RetriesTransientFailure", func(t *testing.T) {

		// Arrange
		mailer := &fakeMailer{failures: 2}
		uc := newTestUsecase(t, mailer)

		// Act
		err := uc.ConsumeOtpIssued(context.Background(), validInput())

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(mailer.sent) != 1 {
			t.Fatalf("expected one email after retries, got %d", len(mailer.sent))
		}
	})
}
