package constants

// API routes served by server/server.go.
const (
	PathStatus       = "/api/v1/status"
	PathStats        = "/api/v1/stats"
	PathUnauthorized = "/api/v1/unauthorized"
	PathForbidden    = "/api/v1/forbidden"
	PathCurrentUser  = "/api/v1/users/me"
)

// DefaultExcludedPaths are the routes reachable without authentication
// when auth.excluded_paths is not configured.
// Used in: config/config.go
var DefaultExcludedPaths = []string{
	PathStatus + "/",
	PathUnauthorized + "/",
	PathForbidden + "/",
}
