package constants

// PIIFields are the field names whose values are redacted from every log line.
// Matching is case-sensitive against "field=value;" tokens.
// Used in: logging/logger.go
var PIIFields = []string{
	"name",
	"email",
	"phone",
	"ssn",
	"password",
}

// Redaction tokens shared by the formatter and the structured-field masker.
const (
	// RedactedPlaceholder replaces a sensitive value in logs.
	// Used in: logging/formatter.go, logging/logger.go
	RedactedPlaceholder = "***"

	// FieldSeparator terminates every "field=value" pair in a log message.
	// Used in: logging/formatter.go, records/exporter.go
	FieldSeparator = ";"
)
