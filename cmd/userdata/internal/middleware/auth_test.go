package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/thalib/userdata/cmd/userdata/internal/auth"
	"github.com/thalib/userdata/cmd/userdata/internal/constants"
	"github.com/thalib/userdata/cmd/userdata/internal/logging"
)

// stubAuth resolves a user only for the header value "good".
type stubAuth struct {
	auth.Base
}

func (stubAuth) CurrentUser(r *http.Request) *auth.User {
	if r.Header.Get(constants.HeaderAuthorization) == "good" {
		return &auth.User{ID: 1, Email: "bob@example.com"}
	}
	return nil
}

func okHandler(t *testing.T, wantUser bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := auth.UserFromContext(r.Context())
		if ok != wantUser {
			t.Errorf("user in context = %v, want %v", ok, wantUser)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})
}

func TestAuthMiddleware(t *testing.T) {
	excluded := []string{"/api/v1/status/", "/api/v1/public*"}

	tests := []struct {
		name       string
		auth       auth.Authenticator
		path       string
		header     string
		wantStatus int
		wantError  string
		wantUser   bool
	}{
		{name: "no authenticator", auth: nil, path: "/api/v1/users/me", wantStatus: http.StatusOK},
		{name: "excluded exact", auth: stubAuth{}, path: "/api/v1/status", wantStatus: http.StatusOK},
		{name: "excluded wildcard", auth: stubAuth{}, path: "/api/v1/public/docs", wantStatus: http.StatusOK},
		{name: "missing header", auth: stubAuth{}, path: "/api/v1/users/me", wantStatus: http.StatusUnauthorized, wantError: "Unauthorized"},
		{name: "unknown user", auth: stubAuth{}, path: "/api/v1/users/me", header: "bad", wantStatus: http.StatusForbidden, wantError: "Forbidden"},
		{name: "base never resolves", auth: auth.Base{}, path: "/api/v1/users/me", header: "good", wantStatus: http.StatusForbidden, wantError: "Forbidden"},
		{name: "resolved", auth: stubAuth{}, path: "/api/v1/users/me", header: "good", wantStatus: http.StatusOK, wantUser: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthMiddleware(AuthConfig{Authenticator: tt.auth, ExcludedPaths: excluded})
			handler := m.Authenticate(okHandler(t, tt.wantUser))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(constants.HeaderAuthorization, tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d. Body: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantError == "" {
				return
			}

			if ct := w.Header().Get(constants.HeaderContentType); ct != constants.MIMEApplicationJSON {
				t.Errorf("expected JSON content type, got %q", ct)
			}
			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			if body["error"] != tt.wantError {
				t.Errorf("expected error %q, got %v", tt.wantError, body["error"])
			}
			if code, _ := body["code"].(float64); int(code) != tt.wantStatus {
				t.Errorf("expected code %d, got %v", tt.wantStatus, body["code"])
			}
		})
	}
}

func TestAuthMiddleware_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.LoggerConfig{Name: "auth", Output: &buf})

	m := NewAuthMiddleware(AuthConfig{Authenticator: stubAuth{}, Logger: logger})
	handler := m.Authenticate(okHandler(t, false))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if !strings.Contains(out, " WARN ") || !strings.Contains(out, "path=/api/v1/users/me;") {
		t.Errorf("expected auth failure warning, got %q", out)
	}
}

func TestAuthMiddleware_EmptyHeader(t *testing.T) {
	m := NewAuthMiddleware(AuthConfig{Authenticator: stubAuth{}})
	handler := m.Authenticate(okHandler(t, false))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header[constants.HeaderAuthorization] = []string{""}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected %d for an empty Authorization header, got %d", http.StatusUnauthorized, w.Code)
	}
}
