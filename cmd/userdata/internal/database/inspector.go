package database

import (
	"context"
	"fmt"
)

// ListTables returns all user tables, excluding system tables
func (d *baseDriver) ListTables(ctx context.Context) ([]string, error) {
	var query string

	switch d.dialect {
	case DialectSQLite:
		query = `SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	case DialectMySQL:
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE' ORDER BY table_name`
	case DialectPostgres:
		query = `SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname = 'public' ORDER BY tablename`
	default:
		return nil, fmt.Errorf("unsupported database dialect: %s", d.dialect)
	}

	rows, err := d.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, tableName)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}

	return tables, nil
}

// TableExists checks if a table exists in the database
func (d *baseDriver) TableExists(ctx context.Context, tableName string) (bool, error) {
	if !isValidIdentifier(tableName) {
		return false, fmt.Errorf("%w: %q", ErrInvalidIdentifier, tableName)
	}

	tables, err := d.ListTables(ctx)
	if err != nil {
		return false, err
	}

	for _, table := range tables {
		if table == tableName {
			return true, nil
		}
	}

	return false, nil
}

// isValidIdentifier validates that an identifier contains only safe characters
func isValidIdentifier(name string) bool {
	if name == "" || len(name) > 64 {
		return false
	}

	for i, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_':
		case ch >= '0' && ch <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}
