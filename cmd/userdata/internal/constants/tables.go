package constants

// TableUsers holds the personal data rows read by the exporter
// and the credential lookup.
// Used in: records/exporter.go, auth/user_store.go, database/schema.go, server/server.go, main.go
const TableUsers = "users"
