package usecase

import (
	"context"
	"testing"
)

func TestPasswordForgot(t *testing.T) {

	t.Run("Success", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		env.seedAccount(t, "alice", "alice@example.com", "s3cret-pass", true, true)

		// Act
		err := env.uc.PasswordForgot(context.Background(), PasswordForgotInput{
			Email: "alice@example.com",
		})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(env.mq.published) != 1 || env.mq.published[0].Purpose.String() != "PASSWORD_RESET" {
			t.Fatalf("expected one reset event, got %+v", env.mq.published)
		}
	})

	t.Run("UnknownEmailLooksIdentical", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)

		// Act
		err := env.uc.PasswordForgot(context.Background(), PasswordForgotInput{
			Email: "ghost@example.com",
		})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(env.mq.published) != 0 {
			t.Fatalf("expected no events for unknown email")
		}
	})

	t.Run("IneligibleAccountLooksIdentical", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		env.seedAccount(t, "alice", "alice@example.com", "s3cret-pass", false, false)

		// Act
		err := env.uc.PasswordForgot(context.Background(), PasswordForgotInput{
			Email: "alice@example.com",
		})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(env.mq.published) != 0 {
			t.Fatalf("expected no events for ineligible account")
		}
	})

	t.Run("RateLimitedLooksIdentical", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		env.seedAccount(t, "alice", "alice@example.com", "s3cret-pass", true, true)

		// Act: three issues are allowed per window, the fourth is dropped.
		var err error
		for i := 0; i < 4; i++ {
			err = env.uc.PasswordForgot(context.Background(), PasswordForgotInput{
				Email: "alice@example.com",
			})
		}

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(env.mq.published) != 3 {
			t.Fatalf("expected three published events, got %d", len(env.mq.published))
		}
	})
}

func TestPasswordReset(t *testing.T) {

	startForgot := func(t *testing.T, env *testEnv) string {
		t.Helper()
		env.seedAccount(t, "alice", "alice@example.com", "old-pass-1", true, true)
		if err := env.uc.PasswordForgot(context.Background(), PasswordForgotInput{
			Email: "alice@example.com",
		}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		return env.mq.lastCode(t)
	}

	t.Run("Success", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		code := startForgot(t, env)

		// Act
		err := env.uc.PasswordReset(context.Background(), PasswordResetInput{
			Email:       "alice@example.com",
			Otp:         code,
			NewPassword: "new-pass-1",
		})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		acc := env.db.accounts["alice@example.com"]
		if env.pass.Verify(acc.Password, "old-pass-1") {
			t.Fatalf("expected old password to stop working")
		}
		if !env.pass.Verify(acc.Password, "new-pass-1") {
			t.Fatalf("expected new password to verify")
		}
	})

	t.Run("WrongCodeLeavesPassword", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		code := startForgot(t, env)
		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}

		// Act
		err := env.uc.PasswordReset(context.Background(), PasswordResetInput{
			Email:       "alice@example.com",
			Otp:         wrong,
			NewPassword: "new-pass-1",
		})

		// Assert
		if msg := businessMsg(t, err); msg != "Invalid or expired OTP" {
			t.Fatalf("expected generic otp message, got %q", msg)
		}
		acc := env.db.accounts["alice@example.com"]
		if !env.pass.Verify(acc.Password, "old-pass-1") {
			t.Fatalf("expected old password to keep working")
		}
	})

	t.Run("ConsumeOnce", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		code := startForgot(t, env)
		if err := env.uc.PasswordReset(context.Background(), PasswordResetInput{
			Email:       "alice@example.com",
			Otp:         code,
			NewPassword: "new-pass-1",
		}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// Act
		err := env.uc.PasswordReset(context.Background(), PasswordResetInput{
			Email:       "alice@example.com",
			Otp:         code,
			NewPassword: "new-pass-2",
		})

		// Assert
		if msg := businessMsg(t, err); msg != "OTP already used. Please request a new one." {
			t.Fatalf("expected consumed message, got %q", msg)
		}
		acc := env.db.accounts["alice@example.com"]
		if !env.pass.Verify(acc.Password, "new-pass-1") {
			t.Fatalf("expected first reset to remain in effect")
		}
	})

	t.Run("UnknownEmail", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)

		// Act
		err := env.uc.PasswordReset(context.Background(), PasswordResetInput{
			Email:       "ghost@example.com",
			Otp:         "123456",
			NewPassword: "new-pass-1",
		})

		// Assert
		if msg := businessMsg(t, err); msg != "Invalid or expired OTP" {
			t.Fatalf("expected generic otp message, got %q", msg)
		}
	})
}
