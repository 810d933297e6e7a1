// Package logging provides PII-safe logging on top of zerolog.
// Every output mode (simple text, console, JSON, file, dual) passes through
// redaction of the sensitive field set before bytes reach a sink, and
// structured fields with sensitive keys are masked.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/thalib/userdata/cmd/userdata/internal/constants"
)

const loggerFieldName = "logger"

// dualWriter writes each event to a console writer and a file writer.
// Both are expected to redact on their own.
type dualWriter struct {
	consoleWriter io.Writer
	fileWriter    io.Writer
}

func (dw *dualWriter) Write(p []byte) (n int, err error) {
	n1, err1 := dw.consoleWriter.Write(p)

	// always attempt the file, even if the console failed
	n2, err2 := dw.fileWriter.Write(p)

	if n1 > n2 {
		n = n1
	} else {
		n = n2
	}

	if err1 != nil {
		return n, err1
	}
	return n, err2
}

// Level represents logging levels
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Output formats.
const (
	FormatSimple  = "simple"
	FormatConsole = "console"
	FormatJSON    = "json"
)

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	// Name identifies the logger in every rendered line
	Name string

	// Level is the minimum log level (debug, info, warn, error). Default: info
	Level Level

	// Format is the output format: simple (default), console or json
	Format string

	// Output is the writer for logs (default: os.Stderr)
	Output io.Writer

	// FilePath is the path to the log file (if specified, Output is ignored)
	FilePath string

	// DualOutput writes console format to stderr and simple format to FilePath
	DualOutput bool

	// SensitiveFields are redacted in addition to constants.PIIFields
	SensitiveFields []string

	now func() time.Time
}

// Logger wraps zerolog with PII redaction.
type Logger struct {
	logger          zerolog.Logger
	config          LoggerConfig
	sensitiveFields map[string]bool
	closer          io.Closer
}

// NewLogger creates a logger with its own output sink.
// Call Close to release a log file opened for FilePath.
func NewLogger(config LoggerConfig) *Logger {
	config = withDefaults(config)
	out, closer := newSink(config)
	l := newLogger(config, out)
	l.closer = closer
	return l
}

// Close releases the log file owned by this logger, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

func withDefaults(config LoggerConfig) LoggerConfig {
	if config.Level == "" {
		config.Level = LevelInfo
	}
	if config.Format == "" {
		config.Format = FormatSimple
	}
	if config.now == nil {
		config.now = time.Now
	}
	return config
}

// redactedFields is the ordered field list used by the formatter:
// the fixed PII set first, then any configured extras.
func redactedFields(config LoggerConfig) []string {
	fields := append([]string(nil), constants.PIIFields...)
	for _, f := range config.SensitiveFields {
		f = strings.TrimSpace(f)
		if f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// newSink builds the single writer every event of a logger goes through.
// Writes are serialized so loggers sharing a sink never interleave lines.
// The returned closer is nil when nothing was opened.
func newSink(config LoggerConfig) (io.Writer, io.Closer) {
	out, closer := buildSink(config)
	return zerolog.SyncWriter(out), closer
}

func buildSink(config LoggerConfig) (io.Writer, io.Closer) {
	fields := redactedFields(config)

	if config.FilePath != "" {
		file, err := openLogFile(config.FilePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", config.FilePath, err)
			return formatWriter(config.Format, os.Stderr, fields), nil
		}

		if config.DualOutput {
			// stderr gets the console format, the file gets the simple format
			return &dualWriter{
				consoleWriter: formatWriter(FormatConsole, os.Stderr, fields),
				fileWriter:    NewRedactingFormatter(file, fields),
			}, file
		}
		return formatWriter(config.Format, file, fields), file
	}

	out := config.Output
	if out == nil {
		out = os.Stderr
	}
	return formatWriter(config.Format, out, fields), nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.FilePermissions)
}

func formatWriter(format string, out io.Writer, fields []string) io.Writer {
	switch format {
	case FormatJSON:
		return newRedactingWriter(out, fields)
	case FormatConsole:
		// colors would split field=value tokens apart
		return zerolog.ConsoleWriter{
			Out:        newRedactingWriter(out, fields),
			NoColor:    true,
			TimeFormat: time.RFC3339,
		}
	default:
		return NewRedactingFormatter(out, fields)
	}
}

func newLogger(config LoggerConfig, out io.Writer) *Logger {
	var zeroLevel zerolog.Level
	switch config.Level {
	case LevelDebug:
		zeroLevel = zerolog.DebugLevel
	case LevelInfo:
		zeroLevel = zerolog.InfoLevel
	case LevelWarn:
		zeroLevel = zerolog.WarnLevel
	case LevelError:
		zeroLevel = zerolog.ErrorLevel
	default:
		zeroLevel = zerolog.InfoLevel
	}

	logger := zerolog.New(out).
		Level(zeroLevel).
		Hook(timestampHook{now: config.now}).
		With().
		Str(loggerFieldName, config.Name).
		Logger()

	// structured field keys are masked case-insensitively
	sensitiveFields := make(map[string]bool)
	for _, field := range redactedFields(config) {
		sensitiveFields[strings.ToLower(field)] = true
	}

	return &Logger{
		logger:          logger,
		config:          config,
		sensitiveFields: sensitiveFields,
	}
}

// timestampHook stamps events with nanosecond precision so the formatter
// can render milliseconds without touching zerolog's global time format.
type timestampHook struct {
	now func() time.Time
}

func (h timestampHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str(zerolog.TimestampFieldName, h.now().Format(time.RFC3339Nano))
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.config.Name
}

// WithContext returns a logger with context fields
func (l *Logger) WithContext(ctx context.Context) *Logger {
	newLogger := *l
	newLogger.closer = nil

	if requestID := GetRequestID(ctx); requestID != "" {
		newLogger.logger = l.logger.With().Str(constants.ContextKeyRequestID, requestID).Logger()
	}

	return &newLogger
}

// WithField returns a logger with an additional field
func (l *Logger) WithField(key string, value any) *Logger {
	newLogger := *l
	newLogger.closer = nil
	newLogger.logger = l.logger.With().Interface(key, l.maskSensitive(key, value)).Logger()
	return &newLogger
}

// WithFields returns a logger with additional fields
func (l *Logger) WithFields(fields map[string]any) *Logger {
	newLogger := *l
	newLogger.closer = nil
	ctx := l.logger.With()
	for key, value := range fields {
		ctx = ctx.Interface(key, l.maskSensitive(key, value))
	}
	newLogger.logger = ctx.Logger()
	return &newLogger
}

// maskSensitive masks sensitive field values (case-insensitive)
func (l *Logger) maskSensitive(key string, value any) any {
	if l.sensitiveFields[strings.ToLower(key)] {
		return constants.RedactedPlaceholder
	}
	return value
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...any) {
	l.logger.Debug().Msgf(format, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...any) {
	l.logger.Info().Msgf(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...any) {
	l.logger.Warn().Msgf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string) {
	l.logger.Error().Msg(msg)
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...any) {
	l.logger.Error().Msgf(format, args...)
}

// ErrorWithErr logs an error with the error object
func (l *Logger) ErrorWithErr(msg string, err error) {
	l.logger.Error().Err(err).Msg(msg)
}

type contextKey string

const requestIDKey contextKey = constants.ContextKeyRequestID

// SetRequestID sets the request ID in the context
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID gets the request ID from the context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
