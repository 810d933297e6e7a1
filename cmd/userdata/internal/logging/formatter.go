package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/thalib/userdata/cmd/userdata/internal/constants"
	"github.com/thalib/userdata/cmd/userdata/internal/redact"
)

// Entry is a decoded log event as seen by the formatter.
type Entry struct {
	Name    string
	Level   string
	Time    time.Time
	Message string
	Fields  map[string]any
}

// RedactingFormatter renders zerolog events as
// "[USERDATA] <name> <LEVEL> <timestamp>: <message>" and runs the rendered
// line through the PII redactor before it reaches the underlying writer.
type RedactingFormatter struct {
	out      io.Writer
	redactor *redact.Redactor
}

// NewRedactingFormatter creates a formatter writing to out that redacts the
// given fields with constants.RedactedPlaceholder.
func NewRedactingFormatter(out io.Writer, fields []string) *RedactingFormatter {
	return &RedactingFormatter{
		out:      out,
		redactor: redact.New(fields, constants.RedactedPlaceholder, constants.FieldSeparator),
	}
}

// Format renders and redacts a single entry. The result has no trailing newline.
func (f *RedactingFormatter) Format(e Entry) string {
	var b strings.Builder
	b.WriteString(constants.LogTag)
	b.WriteByte(' ')
	b.WriteString(e.Name)
	b.WriteByte(' ')
	b.WriteString(strings.ToUpper(e.Level))
	b.WriteByte(' ')
	b.WriteString(e.Time.Format(constants.LogTimeFormat))
	b.WriteString(": ")
	b.WriteString(e.Message)

	// extra structured fields are appended as key=value pairs so they go
	// through the same redaction as the message
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v%s", k, e.Fields[k], constants.FieldSeparator)
	}

	return f.redactor.Redact(b.String())
}

// Write implements io.Writer for zerolog. Input that is not a JSON event is
// still redacted before being written.
func (f *RedactingFormatter) Write(p []byte) (int, error) {
	entry, ok := decodeEntry(p)
	if !ok {
		if _, err := io.WriteString(f.out, f.redactor.Redact(string(p))); err != nil {
			return 0, err
		}
		return len(p), nil
	}

	if _, err := io.WriteString(f.out, f.Format(entry)+"\n"); err != nil {
		return 0, err
	}
	return len(p), nil
}

func decodeEntry(p []byte) (Entry, bool) {
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return Entry{}, false
	}

	e := Entry{Fields: make(map[string]any)}
	for k, v := range raw {
		switch k {
		case zerolog.LevelFieldName:
			e.Level, _ = v.(string)
		case zerolog.MessageFieldName:
			e.Message, _ = v.(string)
		case zerolog.TimestampFieldName:
			if s, ok := v.(string); ok {
				if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
					e.Time = t
				}
			}
		case loggerFieldName:
			e.Name, _ = v.(string)
		default:
			e.Fields[k] = v
		}
	}
	return e, true
}

// redactingWriter redacts raw output from writers that render events
// themselves (zerolog.ConsoleWriter, plain JSON).
type redactingWriter struct {
	out      io.Writer
	redactor *redact.Redactor
}

func newRedactingWriter(out io.Writer, fields []string) *redactingWriter {
	return &redactingWriter{
		out:      out,
		redactor: redact.New(fields, constants.RedactedPlaceholder, constants.FieldSeparator),
	}
}

func (w *redactingWriter) Write(p []byte) (int, error) {
	if _, err := io.WriteString(w.out, w.redactor.Redact(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}
