package usecase

import (
	"context"
	"testing"
	"time"
)

func TestRegister(t *testing.T) {

	t.Run("Success", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)

		// Act
		err := env.uc.Register(context.Background(), RegisterInput{
			Username: "alice",
			Email:    "Alice@Example.com",
			Password: "s3cret-pass",
		})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		acc, ok := env.db.accounts["alice@example.com"]
		if !ok {
			t.Fatalf("expected account stored under normalized email")
		}
		if acc.Enabled || acc.EmailVerified {
			t.Fatalf("expected fresh account to start disabled and unverified")
		}
		if acc.Password == "s3cret-pass" {
			t.Fatalf("expected stored password to be hashed")
		}
		if len(env.mq.published) != 1 {
			t.Fatalf("expected one otp event, got %d", len(env.mq.published))
		}
		if env.mq.published[0].Purpose.String() != "REGISTRATION" {
			t.Fatalf("expected registration purpose, got %v", env.mq.published[0].Purpose)
		}
	})

	t.Run("RejectsInvalidInput", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)

		// Act
		err := env.uc.Register(context.Background(), RegisterInput{
			Username: "al",
			Email:    "not-an-email",
			Password: "x",
		})

		// Assert
		if err == nil {
			t.Fatalf("expected validation error")
		}
		if len(env.mq.published) != 0 {
			t.Fatalf("expected no otp event on invalid input")
		}
	})

	t.Run("VerifiedEmailConflicts", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		env.seedAccount(t, "alice", "alice@example.com", "s3cret-pass", true, true)

		// Act
		err := env.uc.Register(context.Background(), RegisterInput{
			Username: "other",
			Email:    "alice@example.com",
			Password: "whatever1",
		})

		// Assert
		if msg := businessMsg(t, err); msg != "Email already registered" {
			t.Fatalf("expected conflict message, got %q", msg)
		}
	})

	t.Run("UnverifiedRestartKeepsAccount", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		acc := env.seedAccount(t, "alice", "alice@example.com", "original-pass", false, false)
		originalHash := acc.Password

		// Act
		err := env.uc.Register(context.Background(), RegisterInput{
			Username: "someone-else",
			Email:    "alice@example.com",
			Password: "different-pass",
		})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if acc.Username != "alice" || acc.Password != originalHash {
			t.Fatalf("expected stored account untouched on restart")
		}
		if len(env.mq.published) != 1 {
			t.Fatalf("expected a fresh otp event, got %d", len(env.mq.published))
		}
	})

	t.Run("UsernameTaken", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		env.seedAccount(t, "alice", "alice@example.com", "s3cret-pass", true, true)

		// Act
		err := env.uc.Register(context.Background(), RegisterInput{
			Username: "alice",
			Email:    "new@example.com",
			Password: "s3cret-pass",
		})

		// Assert
		if msg := businessMsg(t, err); msg != "Username already taken" {
			t.Fatalf("expected username conflict, got %q", msg)
		}
	})

	t.Run("RateLimited", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		env.seedAccount(t, "alice", "alice@example.com", "s3cret-pass", false, false)

		// Act: limit is 3 per window, so the 4th restart is refused.
		var err error
		for range 4 {
			err = env.uc.Register(context.Background(), RegisterInput{
				Username: "alice",
				Email:    "alice@example.com",
				Password: "s3cret-pass",
			})
		}

		// Assert
		if msg := businessMsg(t, err); msg != "Too many OTP requests. Please try again later." {
			t.Fatalf("expected rate limit message, got %q", msg)
		}
		if len(env.mq.published) != 3 {
			t.Fatalf("expected 3 otp events before the limit, got %d", len(env.mq.published))
		}
	})
}

func TestRegisterVerify(t *testing.T) {

	t.Run("Success", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		if err := env.uc.Register(context.Background(), RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "s3cret-pass",
		}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		code := env.mq.lastCode(t)

		// Act
		err := env.uc.RegisterVerify(context.Background(), RegisterVerifyInput{
			Email: "alice@example.com",
			Otp:   code,
		})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		acc := env.db.accounts["alice@example.com"]
		if !acc.Enabled || !acc.EmailVerified {
			t.Fatalf("expected account enabled and verified, got %+v", acc)
		}
	})

	t.Run("UnknownEmail", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)

		// Act
		err := env.uc.RegisterVerify(context.Background(), RegisterVerifyInput{
			Email: "ghost@example.com",
			Otp:   "123456",
		})

		// Assert
		if msg := businessMsg(t, err); msg != "Invalid or expired OTP" {
			t.Fatalf("expected generic otp message, got %q", msg)
		}
	})

	t.Run("WrongCode", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		if err := env.uc.Register(context.Background(), RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "s3cret-pass",
		}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		code := env.mq.lastCode(t)
		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}

		// Act
		err := env.uc.RegisterVerify(context.Background(), RegisterVerifyInput{
			Email: "alice@example.com",
			Otp:   wrong,
		})

		// Assert
		if msg := businessMsg(t, err); msg != "Invalid or expired OTP" {
			t.Fatalf("expected generic otp message, got %q", msg)
		}
		if acc := env.db.accounts["alice@example.com"]; acc.EmailVerified {
			t.Fatalf("expected account to stay unverified")
		}
	})

	t.Run("ConsumeOnce", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		if err := env.uc.Register(context.Background(), RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "s3cret-pass",
		}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		code := env.mq.lastCode(t)
		if err := env.uc.RegisterVerify(context.Background(), RegisterVerifyInput{
			Email: "alice@example.com",
			Otp:   code,
		}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// Already-verified accounts short-circuit, so force a fresh unverified
		// state to exercise the ledger's consumed marker directly.
		acc := env.db.accounts["alice@example.com"]
		acc.Enabled = false
		acc.EmailVerified = false

		// Act
		err := env.uc.RegisterVerify(context.Background(), RegisterVerifyInput{
			Email: "alice@example.com",
			Otp:   code,
		})

		// Assert
		if msg := businessMsg(t, err); msg != "OTP already used. Please request a new one." {
			t.Fatalf("expected consumed message, got %q", msg)
		}
	})

	t.Run("ExpiredCode", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		if err := env.uc.Register(context.Background(), RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "s3cret-pass",
		}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		code := env.mq.lastCode(t)
		env.ledger.timeOffset = 10 * time.Minute

		// Act
		err := env.uc.RegisterVerify(context.Background(), RegisterVerifyInput{
			Email: "alice@example.com",
			Otp:   code,
		})

		// Assert
		if msg := businessMsg(t, err); msg != "Invalid or expired OTP" {
			t.Fatalf("expected generic otp message, got %q", msg)
		}
	})

	t.Run("AttemptCap", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		if err := env.uc.Register(context.Background(), RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "s3cret-pass",
		}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		code := env.mq.lastCode(t)
		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}

		// Act: burn the 3 allowed attempts, then try the correct code.
		for range 3 {
			_ = env.uc.RegisterVerify(context.Background(), RegisterVerifyInput{
				Email: "alice@example.com",
				Otp:   wrong,
			})
		}
		err := env.uc.RegisterVerify(context.Background(), RegisterVerifyInput{
			Email: "alice@example.com",
			Otp:   code,
		})

		// Assert
		if msg := businessMsg(t, err); msg != "Too many incorrect attempts. Please request a new OTP." {
			t.Fatalf("expected attempt cap message, got %q", msg)
		}
	})

	t.Run("ResendSupersedesOldCode", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		if err := env.uc.Register(context.Background(), RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "s3cret-pass",
		}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		oldCode := env.mq.lastCode(t)

		if err := env.uc.OtpResend(context.Background(), OtpResendInput{
			Email: "alice@example.com",
			Type:  "REGISTRATION",
		}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		newCode := env.mq.lastCode(t)
		if oldCode == newCode {
			t.Skipf("generated codes collided")
		}

		// Act
		errOld := env.uc.RegisterVerify(context.Background(), RegisterVerifyInput{
			Email: "alice@example.com",
			Otp:   oldCode,
		})

		// Assert
		if errOld == nil {
			t.Fatalf("expected superseded code to be rejected")
		}
		if err := env.uc.RegisterVerify(context.Background(), RegisterVerifyInput{
			Email: "alice@example.com",
			Otp:   newCode,
		}); err != nil {
			t.Fatalf("expected latest code to verify, got %v", err)
		}
	})
}
