package hash

import (
	"bytes"
	"testing"
)

func TestBcrypt(t *testing.T) {

	t.Run("HashAndVerify", func(t *testing.T) {

		// Arrange
		h := NewBcrypt(4, "pepper")

		// Act
		hashed, err := h.Hash("s3cret-pass")

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !h.Verify(string(hashed), "s3cret-pass") {
			t.Fatalf("expected hash to verify")
		}
		if h.Verify(string(hashed), "wrong-pass") {
			t.Fatalf("expected wrong password to fail")
		}
	})

	t.Run("PepperChangesOutcome", func(t *testing.T) {

		// Arrange
		h1 := NewBcrypt(4, "pepper-a")
		h2 := NewBcrypt(4, "pepper-b")

		// Act
		hashed, err := h1.Hash("s3cret-pass")

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if h2.Verify(string(hashed), "s3cret-pass") {
			t.Fatalf("expected verify with different pepper to fail")
		}
	})
}

func TestArgon2id(t *testing.T) {

	t.Run("HashAndVerify", func(t *testing.T) {

		// Arrange
		h := NewArgon2id("pepper")

		// Act
		hashed, err := h.Hash("s3cret-pass")

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !h.Verify(string(hashed), "s3cret-pass") {
			t.Fatalf("expected hash to verify")
		}
		if h.Verify(string(hashed), "wrong-pass") {
			t.Fatalf("expected wrong password to fail")
		}
	})

	t.Run("SaltedHashesDiffer", func(t *testing.T) {

		// Arrange
		h := NewArgon2id("")

		// Act
		first, err1 := h.Hash("same-input")
		second, err2 := h.Hash("same-input")

		// Assert
		if err1 != nil || err2 != nil {
			t.Fatalf("expected no error, got %v %v", err1, err2)
		}
		if bytes.Equal(first, second) {
			t.Fatalf("expected salted hashes of same input to differ")
		}
	})
}

func TestHMACSHA256(t *testing.T) {

	t.Run("Deterministic", func(t *testing.T) {

		// Arrange
		h := NewHMACSHA256("otp-hmac-secret")

		// Act
		first, err1 := h.Hash("123456")
		second, err2 := h.Hash("123456")

		// Assert
		if err1 != nil || err2 != nil {
			t.Fatalf("expected no error, got %v %v", err1, err2)
		}
		if !bytes.Equal(first, second) {
			t.Fatalf("expected deterministic digests, got %s vs %s", first, second)
		}
	})

	t.Run("Verify", func(t *testing.T) {

		// Arrange
		h := NewHMACSHA256("otp-hmac-secret")
		hashed, _ := h.Hash("123456")

		// Act & Assert
		if !h.Verify(string(hashed), "123456") {
			t.Fatalf("expected digest to verify")
		}
		if h.Verify(string(hashed), "654321") {
			t.Fatalf("expected different code to fail")
		}
	})

	t.Run("SecretChangesDigest", func(t *testing.T) {

		// Arrange
		h1 := NewHMACSHA256("secret-a")
		h2 := NewHMACSHA256("secret-b")

		// Act
		first, _ := h1.Hash("123456")
		second, _ := h2.Hash("123456")

		// Assert
		if bytes.Equal(first, second) {
			t.Fatalf("expected digests under different secrets to differ")
		}
	})
}
