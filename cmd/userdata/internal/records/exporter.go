// Package records streams personal data rows into the log. Every value is
// written as a field=value; pair so the logger's redaction masks the
// sensitive columns before anything reaches a sink.
package records

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/thalib/userdata/cmd/userdata/internal/constants"
	"github.com/thalib/userdata/cmd/userdata/internal/database"
	"github.com/thalib/userdata/cmd/userdata/internal/logging"
	"github.com/thalib/userdata/cmd/userdata/internal/ulid"
)

// Columns are the users table columns emitted for every row, in order.
var Columns = []string{"name", "email", "phone", "ssn", "password", "ip", "last_login", "user_agent"}

// Row is one users record keyed by column name. NULL columns are empty.
type Row map[string]string

// FormatRow renders r as "name=<v>; email=<v>; ...;" over Columns.
func FormatRow(r Row) string {
	var b strings.Builder
	for i, col := range Columns {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(col)
		b.WriteByte('=')
		b.WriteString(r[col])
		b.WriteString(constants.FieldSeparator)
	}
	return b.String()
}

// Result summarizes one export run.
type Result struct {
	RunID string
	Rows  int
}

// Exporter logs every users row through a redacting logger.
type Exporter struct {
	db     database.Driver
	logger *logging.Logger
	runID  string
}

// NewExporter creates an exporter reading from db and writing to logger.
func NewExporter(db database.Driver, logger *logging.Logger) *Exporter {
	return &Exporter{db: db, logger: logger}
}

// SetRunID tags the next export with id instead of a freshly generated one,
// so a scheduler can correlate its own run with the log lines.
func (e *Exporter) SetRunID(id string) error {
	if err := ulid.Validate(id); err != nil {
		return fmt.Errorf("invalid run ID: %w", err)
	}
	e.runID = id
	return nil
}

// Export reads all users and logs one INFO line per row.
// It fails with database.ErrTableNotFound when the schema is missing.
func (e *Exporter) Export(ctx context.Context) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.QueryTimeout)
	defer cancel()

	result := Result{RunID: e.runID}
	if result.RunID == "" {
		result.RunID = ulid.Generate()
	}
	logger := e.logger.WithField("run", result.RunID)

	if err := database.RequireSchema(ctx, e.db); err != nil {
		return result, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(Columns, ", "), constants.TableUsers)
	rows, err := e.db.Query(ctx, query)
	if err != nil {
		return result, fmt.Errorf("failed to query %s: %w", constants.TableUsers, err)
	}
	defer rows.Close()

	values := make([]sql.NullString, len(Columns))
	dest := make([]any, len(Columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return result, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(Row, len(Columns))
		for i, col := range Columns {
			row[col] = values[i].String
		}
		logger.Info(FormatRow(row))
		result.Rows++
	}

	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("error iterating rows: %w", err)
	}

	logger.WithFields(map[string]any{"rows": result.Rows}).Debug("export finished")
	return result, nil
}
