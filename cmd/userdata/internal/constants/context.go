package constants

// Context keys for storing and retrieving values from request contexts.
const (
	// ContextKeyRequestID is the context key for storing request IDs.
	// Used in: logging/logger.go, logging/request.go
	ContextKeyRequestID = "request_id"

	// ContextKeyCurrentUser is the context key for the authenticated user.
	// Used in: auth/context.go
	ContextKeyCurrentUser = "current_user"
)
