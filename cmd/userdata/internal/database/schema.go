package database

import (
	"context"
	"fmt"

	"github.com/thalib/userdata/cmd/userdata/internal/constants"
)

// SchemaSQL returns the statements that create the users table for the dialect.
func SchemaSQL(dialect DialectType) []string {
	switch dialect {
	case DialectPostgres:
		return []string{
			`CREATE TABLE IF NOT EXISTS ` + constants.TableUsers + ` (
				id BIGSERIAL PRIMARY KEY,
				name VARCHAR(256),
				email VARCHAR(256) NOT NULL UNIQUE,
				phone VARCHAR(16),
				ssn VARCHAR(16),
				password VARCHAR(256) NOT NULL,
				ip VARCHAR(64),
				last_login TIMESTAMP,
				user_agent VARCHAR(512)
			)`,
		}
	case DialectMySQL:
		return []string{
			`CREATE TABLE IF NOT EXISTS ` + constants.TableUsers + ` (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				name VARCHAR(256),
				email VARCHAR(256) NOT NULL UNIQUE,
				phone VARCHAR(16),
				ssn VARCHAR(16),
				password VARCHAR(256) NOT NULL,
				ip VARCHAR(64),
				last_login TIMESTAMP NULL,
				user_agent VARCHAR(512)
			)`,
		}
	default:
		return []string{
			`CREATE TABLE IF NOT EXISTS ` + constants.TableUsers + ` (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT,
				email TEXT NOT NULL UNIQUE,
				phone TEXT,
				ssn TEXT,
				password TEXT NOT NULL,
				ip TEXT,
				last_login DATETIME,
				user_agent TEXT
			)`,
		}
	}
}

// Migrate creates the users table if it does not exist.
func Migrate(ctx context.Context, d Driver) error {
	for _, stmt := range SchemaSQL(d.Dialect()) {
		if _, err := d.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// RequireSchema returns ErrTableNotFound when Migrate has not been run.
func RequireSchema(ctx context.Context, d Driver) error {
	exists, err := d.TableExists(ctx, constants.TableUsers)
	if err != nil {
		return fmt.Errorf("failed to check schema: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s (run migrate first)", ErrTableNotFound, constants.TableUsers)
	}
	return nil
}
