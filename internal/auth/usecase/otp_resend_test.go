package usecase

import (
	"context"
	"testing"
)

func TestOtpResend(t *testing.T) {

	t.Run("RegistrationReissues", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		if err := env.uc.Register(context.Background(), RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "s3cret-pass",
		}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// Act
		err := env.uc.OtpResend(context.Background(), OtpResendInput{
			Email: "alice@example.com",
			Type:  "REGISTRATION",
		})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(env.mq.published) != 2 {
			t.Fatalf("expected two published events, got %d", len(env.mq.published))
		}
		if env.mq.published[1].Purpose.String() != "REGISTRATION" {
			t.Fatalf("expected registration purpose, got %s", env.mq.published[1].Purpose)
		}
	})

	t.Run("RejectsPasswordResetType", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		env.seedAccount(t, "alice", "alice@example.com", "s3cret-pass", true, true)

		// Act
		err := env.uc.OtpResend(context.Background(), OtpResendInput{
			Email: "alice@example.com",
			Type:  "PASSWORD_RESET",
		})

		// Assert
		if err == nil {
			t.Fatalf("expected a validation error")
		}
		if len(env.mq.published) != 0 {
			t.Fatalf("expected no published events")
		}
	})

	t.Run("UnknownEmail", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)

		// Act
		err := env.uc.OtpResend(context.Background(), OtpResendInput{
			Email: "ghost@example.com",
			Type:  "LOGIN",
		})

		// Assert
		if msg := businessMsg(t, err); msg != "Invalid email or password" {
			t.Fatalf("expected credential message, got %q", msg)
		}
	})

	t.Run("VerifiedRegistrationConflicts", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		env.seedAccount(t, "alice", "alice@example.com", "s3cret-pass", true, true)

		// Act
		err := env.uc.OtpResend(context.Background(), OtpResendInput{
			Email: "alice@example.com",
			Type:  "REGISTRATION",
		})

		// Assert
		if msg := businessMsg(t, err); msg != "Email already registered" {
			t.Fatalf("expected conflict message, got %q", msg)
		}
	})

	t.Run("LoginResendChecksAccountState", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		env.seedAccount(t, "alice", "alice@example.com", "s3cret-pass", false, true)

		// Act
		err := env.uc.OtpResend(context.Background(), OtpResendInput{
			Email: "alice@example.com",
			Type:  "LOGIN",
		})

		// Assert
		if msg := businessMsg(t, err); msg != "Account is disabled" {
			t.Fatalf("expected disabled message, got %q", msg)
		}
	})
}
