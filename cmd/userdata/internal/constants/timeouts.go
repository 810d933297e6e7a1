package constants

import "time"

// Timeout and duration constants used throughout the application.
const (
	// ShutdownTimeout is the maximum time allowed for graceful shutdown.
	// Used in: server/server.go
	ShutdownTimeout = 30 * time.Second

	// HTTPReadTimeout is the maximum duration for reading the entire request.
	// Used in: server/server.go
	HTTPReadTimeout = 15 * time.Second

	// HTTPWriteTimeout is the maximum duration before timing out writes of the response.
	// Used in: server/server.go
	HTTPWriteTimeout = 15 * time.Second

	// HTTPIdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Used in: server/server.go
	HTTPIdleTimeout = 60 * time.Second

	// QueryTimeout bounds a single database query issued by the exporter
	// or the credential lookup.
	// Used in: records/exporter.go, auth/user_store.go
	QueryTimeout = 30 * time.Second
)
