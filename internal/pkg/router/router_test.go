package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/auriga-labs/authgate/internal/pkg/config"
	"github.com/auriga-labs/authgate/internal/pkg/goerror"
	"github.com/auriga-labs/authgate/internal/pkg/instrument"
	"github.com/auriga-labs/authgate/internal/pkg/jwt"
	"github.com/auriga-labs/authgate/internal/pkg/uid"
)

const testConfigYAML = `
app:
  maintenance:
    endpoints: []
instrument:
  log_mask_fields:
    - password
`

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

func newTestRouter(t *testing.T) (*Router, jwt.JWT) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tokenizer, err := jwt.NewHS512(jwt.Config{
		Secret:     []byte(strings.Repeat("k", 64)),
		Issuer:     "authgate",
		Audiences:  []string{"authgate"},
		TTLMinutes: 15 * time.Minute,
		Clock:      realClock{},
		UUID:       uid.NewUUID(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	return NewRouter(Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		JWT:        tokenizer,
		Instrument: instrument.NewNoop(),
	}), tokenizer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func doRequest(t *testing.T, ro *Router, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("expected json body, got %q: %v", rec.Body.String(), err)
	}

	return rec, env
}

func TestRouterEnvelope(t *testing.T) {

	t.Run("Root", func(t *testing.T) {

		// Arrange
		ro, _ := newTestRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		// Act
		rec, env := doRequest(t, ro, req)

		// Assert
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !env.Success || env.Message != "Welcome to AuthGate API" {
			t.Fatalf("expected welcome envelope, got %+v", env)
		}
	})

	t.Run("NotFound", func(t *testing.T) {

		// Arrange
		ro, _ := newTestRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/nope", nil)

		// Act
		rec, env := doRequest(t, ro, req)

		// Assert
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if env.Success || env.Message != "endpoint not found" {
			t.Fatalf("expected not found envelope, got %+v", env)
		}
	})

	t.Run("SuccessWithData", func(t *testing.T) {

		// Arrange
		ro, _ := newTestRouter(t)
		ro.POST("/api/v1/auth/login", func(r *Request) (any, error) {
			return map[string]string{"hello": "world"}, nil
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))

		// Act
		rec, env := doRequest(t, ro, req)

		// Assert
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !env.Success || env.Message != "request has been successfully" {
			t.Fatalf("expected default envelope, got %+v", env)
		}
		if !strings.Contains(string(env.Data), `"hello":"world"`) {
			t.Fatalf("expected data payload, got %s", env.Data)
		}
	})

	t.Run("BusinessErrorMapped", func(t *testing.T) {

		// Arrange
		ro, _ := newTestRouter(t)
		ro.POST("/api/v1/auth/login", func(r *Request) (any, error) {
			return nil, goerror.NewBusiness("Invalid email or password", goerror.CodeUnauthorized)
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))

		// Act
		rec, env := doRequest(t, ro, req)

		// Assert
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if env.Success || env.Message != "Invalid email or password" {
			t.Fatalf("expected business envelope, got %+v", env)
		}
	})

	t.Run("MalformedBody", func(t *testing.T) {

		// Arrange
		ro, _ := newTestRouter(t)
		ro.POST("/api/v1/auth/login", func(r *Request) (any, error) {
			var body struct {
				Email string `json:"email"`
			}
			if err := r.DecodeBody(&body); err != nil {
				return nil, err
			}
			return body, nil
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":`))

		// Act
		rec, env := doRequest(t, ro, req)

		// Assert
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if env.Message != "Invalid request body" {
			t.Fatalf("expected body message, got %q", env.Message)
		}
	})
}

func TestRouterAuthentication(t *testing.T) {

	t.Run("ProtectedWithoutToken", func(t *testing.T) {

		// Arrange
		ro, _ := newTestRouter(t)
		ro.GET("/api/v1/auth/current-user", func(r *Request) (any, error) {
			return map[string]string{"ok": "yes"}, nil
		})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/current-user", nil)

		// Act
		rec, env := doRequest(t, ro, req)

		// Assert
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if env.Message != "Authentication required" {
			t.Fatalf("expected auth message, got %q", env.Message)
		}
	})

	t.Run("ProtectedWithGarbageToken", func(t *testing.T) {

		// Arrange
		ro, _ := newTestRouter(t)
		ro.GET("/api/v1/auth/current-user", func(r *Request) (any, error) {
			return map[string]string{"ok": "yes"}, nil
		})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/current-user", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")

		// Act
		rec, env := doRequest(t, ro, req)

		// Assert
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if env.Message != "Invalid or expired token" {
			t.Fatalf("expected token message, got %q", env.Message)
		}
	})

	t.Run("ProtectedWithValidToken", func(t *testing.T) {

		// Arrange
		ro, tokenizer := newTestRouter(t)
		ro.GET("/api/v1/auth/current-user", func(r *Request) (any, error) {
			clm := jwt.GetAuth(r.Context())
			if clm == nil {
				t.Fatalf("expected claims in context")
			}
			return map[string]string{"username": clm.Username}, nil
		})
		token, err := tokenizer.Generate(42, "alice", "alice@example.com")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/current-user", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		// Act
		rec, env := doRequest(t, ro, req)

		// Assert
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(string(env.Data), `"username":"alice"`) {
			t.Fatalf("expected claims-derived data, got %s", env.Data)
		}
	})

	t.Run("PublicEndpointSkipsAuth", func(t *testing.T) {

		// Arrange
		ro, _ := newTestRouter(t)
		ro.POST("/api/v1/auth/register", func(r *Request) (any, error) {
			return nil, nil
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{}`))

		// Act
		rec := httptest.NewRecorder()
		ro.ServeHTTP(rec, req)

		// Assert
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}
