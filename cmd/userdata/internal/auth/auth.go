package auth

import (
	"net/http"
)

// Authenticator is the contract the request gate relies on.
type Authenticator interface {
	// RequireAuth reports whether path needs authentication.
	RequireAuth(path string, excluded []string) bool

	// AuthorizationHeader returns the Authorization header of r, if any.
	AuthorizationHeader(r *http.Request) (string, bool)

	// CurrentUser resolves the caller of r. Nil means unknown.
	CurrentUser(r *http.Request) *User
}

// Base implements path exclusion and header extraction. It never resolves a
// user, so every protected request ends in 403.
type Base struct{}

// RequireAuth reports whether path needs authentication.
func (Base) RequireAuth(path string, excluded []string) bool {
	return RequiresAuth(path, excluded)
}

// AuthorizationHeader returns the Authorization header of r, if any.
func (Base) AuthorizationHeader(r *http.Request) (string, bool) {
	return AuthorizationHeader(RequestHeaders(r))
}

// CurrentUser always returns nil.
func (Base) CurrentUser(*http.Request) *User {
	return nil
}
