// Package database provides connection management for the personal data store.
// It supports MySQL (the production store), PostgreSQL and SQLite with
// dialect detection from connection strings.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// DialectType represents the type of database dialect
type DialectType string

const (
	DialectPostgres DialectType = "postgres"
	DialectMySQL    DialectType = "mysql"
	DialectSQLite   DialectType = "sqlite"
)

// Driver defines the interface for database operations
type Driver interface {
	// Connect establishes a connection to the database
	Connect(ctx context.Context) error

	// Close closes the database connection
	Close() error

	// Exec executes a query without returning rows
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)

	// Query executes a query that returns rows
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// QueryRow executes a query that returns at most one row
	QueryRow(ctx context.Context, query string, args ...any) *sql.Row

	// Ping verifies the connection to the database is still alive
	Ping(ctx context.Context) error

	// Dialect returns the database dialect type
	Dialect() DialectType

	// ListTables returns the user tables in the database
	ListTables(ctx context.Context) ([]string, error)

	// TableExists checks if a table exists in the database
	TableExists(ctx context.Context, tableName string) (bool, error)
}

// Config holds database connection configuration
type Config struct {
	ConnectionString string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

type baseDriver struct {
	db      *sql.DB
	dialect DialectType
	dsn     string
	config  Config
}

// Connect opens the pool and pings the server
func (d *baseDriver) Connect(ctx context.Context) error {
	db, err := sql.Open(string(d.dialect), d.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(d.config.MaxOpenConns)
	db.SetMaxIdleConns(d.config.MaxIdleConns)
	db.SetConnMaxLifetime(d.config.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	d.db = db
	return nil
}

// Close closes the database connection
func (d *baseDriver) Close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

func (d *baseDriver) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if d.db == nil {
		return nil, ErrNotConnected
	}
	return d.db.ExecContext(ctx, query, args...)
}

func (d *baseDriver) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if d.db == nil {
		return nil, ErrNotConnected
	}
	return d.db.QueryContext(ctx, query, args...)
}

// QueryRow must only be called after a successful Connect
func (d *baseDriver) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return d.db.QueryRowContext(ctx, query, args...)
}

func (d *baseDriver) Ping(ctx context.Context) error {
	if d.db == nil {
		return ErrNotConnected
	}
	return d.db.PingContext(ctx)
}

func (d *baseDriver) Dialect() DialectType {
	return d.dialect
}

// NewDriver creates a new database driver based on the connection string.
// It does not connect; call Connect before use.
func NewDriver(config Config) (Driver, error) {
	dialect, dsn, err := detectDialect(config.ConnectionString)
	if err != nil {
		return nil, err
	}

	return &baseDriver{
		dialect: dialect,
		dsn:     dsn,
		config:  config,
	}, nil
}

// Placeholder returns the positional parameter marker n (1-based) for the dialect.
func Placeholder(dialect DialectType, n int) string {
	if dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// detectDialect detects the database dialect from the connection string
func detectDialect(connectionString string) (DialectType, string, error) {
	if connectionString == "" {
		return "", "", ErrEmptyConnectionString
	}

	lower := strings.ToLower(connectionString)

	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DialectPostgres, connectionString, nil
	}

	if strings.HasPrefix(lower, "mysql://") {
		// the mysql driver takes a bare DSN
		return DialectMySQL, connectionString[len("mysql://"):], nil
	}

	if strings.HasPrefix(lower, "sqlite://") {
		dsn := connectionString[len("sqlite://"):]

		// shared cache so every pooled connection sees the same in-memory database
		if dsn == ":memory:" {
			dsn = "file::memory:?mode=memory&cache=shared"
		}

		return DialectSQLite, dsn, nil
	}

	// user:password@tcp(host:port)/database
	if strings.Contains(lower, "@tcp(") || strings.Contains(lower, "charset=") {
		return DialectMySQL, connectionString, nil
	}

	if lower == ":memory:" || strings.HasSuffix(lower, ".db") || strings.HasSuffix(lower, ".sqlite") || strings.HasSuffix(lower, ".sqlite3") {
		return DialectSQLite, connectionString, nil
	}

	if strings.Contains(lower, "host=") || strings.Contains(lower, "dbname=") {
		return DialectPostgres, connectionString, nil
	}

	return "", "", fmt.Errorf("%w: %s", ErrUnknownDialect, redactDSN(connectionString))
}

// redactDSN hides the credentials part of a connection string for error messages.
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	if at < 0 {
		return dsn
	}
	return "***" + dsn[at:]
}
