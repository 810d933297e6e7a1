package database

import "errors"

var (
	// ErrEmptyConnectionString indicates that no connection string was configured
	ErrEmptyConnectionString = errors.New("connection string is empty")

	// ErrUnknownDialect indicates a connection string no supported driver understands
	ErrUnknownDialect = errors.New("unable to detect database dialect from connection string")

	// ErrNotConnected indicates use of a driver before Connect
	ErrNotConnected = errors.New("database is not connected")

	// ErrInvalidIdentifier indicates an unsafe table or column name
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrTableNotFound indicates the schema has not been migrated
	ErrTableNotFound = errors.New("table does not exist")
)
