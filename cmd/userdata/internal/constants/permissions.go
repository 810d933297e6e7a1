package constants

import "os"

// File permission modes used when creating log directories and files.
const (
	// DirPermissions is the default permission mode for creating directories.
	// Used in: logging/logger.go, preflight/preflight.go
	DirPermissions os.FileMode = 0755

	// FilePermissions is the default permission mode for creating regular files.
	// Used in: logging/logger.go
	FilePermissions os.FileMode = 0644
)
