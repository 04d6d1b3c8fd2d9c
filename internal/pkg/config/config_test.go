package config

import (
	"testing"
	"time"
)

const testYAML = `
modules:
  auth:
    enabled: true
    otp_ttl_minutes: 5
    otp_max_attempts: 5
  notification:
    consumer_names:
      - otp_issued_notification
server:
  read_timeout_seconds: 15
`

func TestNewViperFromBytes(t *testing.T) {

	t.Run("MissingConfigType", func(t *testing.T) {

		// Act
		_, err := NewViperFromBytes("", []byte(testYAML))

		// Assert
		if err == nil {
			t.Fatalf("expected error for missing config type")
		}
	})

	t.Run("ReadsValues", func(t *testing.T) {

		// Arrange
		cfg, err := NewViperFromBytes("yaml", []byte(testYAML))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// Act & Assert
		if !cfg.GetBool("modules.auth.enabled") {
			t.Fatalf("expected modules.auth.enabled true")
		}
		if got := cfg.GetInt("modules.auth.otp_max_attempts"); got != 5 {
			t.Fatalf("expected 5, got %d", got)
		}
		if got := cfg.GetMinute("modules.auth.otp_ttl_minutes"); got != 5*time.Minute {
			t.Fatalf("expected 5m, got %v", got)
		}
		if got := cfg.GetSecond("server.read_timeout_seconds"); got != 15*time.Second {
			t.Fatalf("expected 15s, got %v", got)
		}
		if got := cfg.GetArray("modules.notification.consumer_names"); len(got) != 1 || got[0] != "otp_issued_notification" {
			t.Fatalf("expected consumer names, got %v", got)
		}
	})

	t.Run("MissingKeyDefaults", func(t *testing.T) {

		// Arrange
		cfg, err := NewViperFromBytes("yaml", []byte(testYAML))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// Act & Assert
		if got := cfg.GetInt("does.not.exist"); got != 0 {
			t.Fatalf("expected zero default, got %d", got)
		}
		if got := cfg.GetString("does.not.exist"); got != "" {
			t.Fatalf("expected empty default, got %q", got)
		}
	})
}
