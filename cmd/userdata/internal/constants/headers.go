// Package constants provides centralized constant definitions for the userdata
// service. Values reused across packages live here so the log format, header
// names and redaction tokens stay consistent.
package constants

// HTTP header names used throughout the application.
const (
	// HeaderRequestID is the HTTP header used for request tracking and correlation.
	// Used in: logging/request.go
	HeaderRequestID = "X-Request-ID"

	// HeaderAuthorization is the standard HTTP Authorization header.
	// Used in: auth/header.go
	HeaderAuthorization = "Authorization"

	// HeaderContentType is the standard HTTP Content-Type header.
	// Used in: middleware/auth.go, server/server.go
	HeaderContentType = "Content-Type"
)

// MIME types used in HTTP responses.
const (
	// MIMEApplicationJSON is the MIME type for JSON responses.
	MIMEApplicationJSON = "application/json"
)

// Authentication schemes.
const (
	// AuthSchemeBasic is the scheme handled by auth.Basic.
	// Format: "Basic <base64(email:password)>" in Authorization header
	AuthSchemeBasic = "Basic "
)
