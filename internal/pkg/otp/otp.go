package otp

import (
	"crypto/rand"
	"strings"
)

// Generator defines the contract for one-time code generation.
type Generator interface {
	// Generate creates a new random numeric code.
	Generate() (string, error)
}

// Numeric implements Generator using uniformly random decimal digits.
//
// Codes keep leading zeros, so a 6-digit generator always returns exactly
// six characters.
type Numeric struct {
	digits int
}

// NewNumeric constructs a Numeric generator. If digits is not positive, it
// falls back to the common 6-digit length.
func NewNumeric(digits int) *Numeric {
	if digits <= 0 {
		digits = 6
	}

	return &Numeric{digits: digits}
}

// Generate creates a new random numeric code.
//
// Each digit is drawn independently with rejection sampling, so the result is
// uniform over the full code space.
func (n *Numeric) Generate() (string, error) {
	var sb strings.Builder
	sb.Grow(n.digits)

	buf := make([]byte, 1)
	for sb.Len() < n.digits {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}

		// Reject bytes >= 250 to avoid modulo bias over 10 digits.
		if buf[0] >= 250 {
			continue
		}

		sb.WriteByte('0' + buf[0]%10)
	}

	return sb.String(), nil
}
