package constants

// Log line layout used by the redacting formatter.
const (
	// LogTag is the literal prefix of every rendered log line.
	// Used in: logging/formatter.go
	LogTag = "[USERDATA]"

	// LogTimeFormat renders the timestamp with millisecond precision.
	// Used in: logging/formatter.go
	// Example: 2019-11-19 18:24:25,105
	LogTimeFormat = "2006-01-02 15:04:05,000"

	// UserDataLoggerName is the logger used by the user data export.
	// Used in: main.go
	UserDataLoggerName = "user_data"

	// LogFileName is the file written inside the configured logging path.
	// Used in: config/config.go
	LogFileName = "main.log"
)
