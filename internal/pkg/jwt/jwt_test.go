package jwt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fixedUUID struct{ id string }

func (g fixedUUID) Generate() string { return g.id }

func testSecret() []byte {
	return []byte(strings.Repeat("k", 64))
}

func newTestJWT(t *testing.T, now time.Time) *Symmetric {
	t.Helper()

	j, err := NewHS512(Config{
		Secret:     testSecret(),
		Issuer:     "authgate",
		Audiences:  []string{"authgate"},
		TTLMinutes: 15 * time.Minute,
		Clock:      fixedClock{now: now},
		UUID:       fixedUUID{id: "jti-1"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	return j
}

func TestNewHS512(t *testing.T) {

	t.Run("RejectsShortKey", func(t *testing.T) {

		// Act
		_, err := NewHS512(Config{Secret: []byte("too-short")})

		// Assert
		if !errors.Is(err, ErrSigningKeyTooShort) {
			t.Fatalf("expected ErrSigningKeyTooShort, got %v", err)
		}
	})
}

func TestSymmetricGenerateVerify(t *testing.T) {

	t.Run("RoundTrip", func(t *testing.T) {

		// Arrange
		j := newTestJWT(t, time.Now())

		// Act
		token, err := j.Generate(42, "alice", "alice@example.com")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		claims, err := j.Verify(token)

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if claims.UserID != 42 {
			t.Fatalf("expected user id 42, got %d", claims.UserID)
		}
		if claims.Username != "alice" {
			t.Fatalf("expected username alice, got %q", claims.Username)
		}
		if claims.UserEmail != "alice@example.com" {
			t.Fatalf("expected email claim, got %q", claims.UserEmail)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {

		// Arrange
		j := newTestJWT(t, time.Now().Add(-time.Hour))

		// Act
		token, err := j.Generate(42, "alice", "alice@example.com")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		_, err = j.Verify(token)

		// Assert
		if !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("TamperedToken", func(t *testing.T) {

		// Arrange
		j := newTestJWT(t, time.Now())
		token, err := j.Generate(42, "alice", "alice@example.com")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// Act
		_, err = j.Verify(token + "x")

		// Assert
		if err == nil {
			t.Fatalf("expected tampered token to fail")
		}
	})

	t.Run("WrongKey", func(t *testing.T) {

		// Arrange
		j := newTestJWT(t, time.Now())
		token, err := j.Generate(42, "alice", "alice@example.com")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		other, err := NewHS512(Config{
			Secret:     []byte(strings.Repeat("z", 64)),
			Issuer:     "authgate",
			Audiences:  []string{"authgate"},
			TTLMinutes: 15 * time.Minute,
			Clock:      fixedClock{now: time.Now()},
			UUID:       fixedUUID{id: "jti-2"},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// Act
		_, err = other.Verify(token)

		// Assert
		if err == nil {
			t.Fatalf("expected verification under a different key to fail")
		}
	})
}

func TestAuthContext(t *testing.T) {

	t.Run("RoundTrip", func(t *testing.T) {

		// Arrange
		claims := Claims{UserID: 7, Username: "bob"}

		// Act
		ctx := SetAuth(context.Background(), claims)
		got := GetAuth(ctx)

		// Assert
		if got == nil || got.UserID != 7 || got.Username != "bob" {
			t.Fatalf("expected stored claims back, got %+v", got)
		}
	})

	t.Run("MissingClaims", func(t *testing.T) {

		// Act
		got := GetAuth(context.Background())

		// Assert
		if got != nil {
			t.Fatalf("expected nil claims, got %+v", got)
		}
	})
}
