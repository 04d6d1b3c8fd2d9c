package otp

import (
	"testing"
)

func TestNumericGenerate(t *testing.T) {

	t.Run("DefaultLength", func(t *testing.T) {

		// Arrange
		gen := NewNumeric(0)

		// Act
		code, err := gen.Generate()

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
	})

	t.Run("OnlyDigits", func(t *testing.T) {

		// Arrange
		gen := NewNumeric(6)

		// Act & Assert
		for range 200 {
			code, err := gen.Generate()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(code) != 6 {
				t.Fatalf("expected 6 digits, got %q", code)
			}
			for _, c := range code {
				if c < '0' || c > '9' {
					t.Fatalf("expected numeric code, got %q", code)
				}
			}
		}
	})

	t.Run("CustomLength", func(t *testing.T) {

		// Arrange
		gen := NewNumeric(8)

		// Act
		code, err := gen.Generate()

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(code) != 8 {
			t.Fatalf("expected 8 digits, got %q", code)
		}
	})

	t.Run("NotConstant", func(t *testing.T) {

		// Arrange
		gen := NewNumeric(6)
		seen := map[string]struct{}{}

		// Act
		for range 50 {
			code, err := gen.Generate()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			seen[code] = struct{}{}
		}

		// Assert
		if len(seen) < 2 {
			t.Fatalf("expected varied codes, got %d distinct", len(seen))
		}
	})
}
