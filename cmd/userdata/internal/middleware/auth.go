// Package middleware provides the HTTP request gate that enforces
// authentication on every path not excluded by configuration.
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/thalib/userdata/cmd/userdata/internal/auth"
	"github.com/thalib/userdata/cmd/userdata/internal/constants"
	"github.com/thalib/userdata/cmd/userdata/internal/logging"
)

// Error messages written by the gate.
const (
	MessageUnauthorized = "Unauthorized"
	MessageForbidden    = "Forbidden"
)

// AuthConfig holds configuration for the request gate
type AuthConfig struct {
	// Authenticator resolves callers. Nil disables the gate.
	Authenticator auth.Authenticator

	// ExcludedPaths never require authentication
	ExcludedPaths []string

	// Logger records rejected requests. Optional.
	Logger *logging.Logger
}

// AuthMiddleware rejects requests to protected paths that lack credentials
// (401) or whose credentials do not resolve to a user (403).
type AuthMiddleware struct {
	config AuthConfig
}

// NewAuthMiddleware creates a new request gate
func NewAuthMiddleware(config AuthConfig) *AuthMiddleware {
	return &AuthMiddleware{config: config}
}

// Authenticate wraps next with the gate. On success the resolved user is
// available through auth.UserFromContext.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a := m.config.Authenticator
		if a == nil || !a.RequireAuth(r.URL.Path, m.config.ExcludedPaths) {
			next.ServeHTTP(w, r)
			return
		}

		if _, ok := a.AuthorizationHeader(r); !ok {
			m.logAuthFailure(r, "missing authorization header")
			WriteError(w, http.StatusUnauthorized, MessageUnauthorized)
			return
		}

		user := a.CurrentUser(r)
		if user == nil {
			m.logAuthFailure(r, "credentials did not resolve to a user")
			WriteError(w, http.StatusForbidden, MessageForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
	})
}

func (m *AuthMiddleware) logAuthFailure(r *http.Request, reason string) {
	if m.config.Logger == nil {
		return
	}
	m.config.Logger.WithContext(r.Context()).Warnf("auth failure: method=%s; path=%s; reason=%s;", r.Method, r.URL.Path, reason)
}

// WriteError writes a JSON error response: {"error": message, "code": status}.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set(constants.HeaderContentType, constants.MIMEApplicationJSON)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]any{
		"error": message,
		"code":  statusCode,
	})
}
