package logging

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/thalib/userdata/cmd/userdata/internal/constants"
)

// RequestLoggerConfig holds configuration for request logging middleware
type RequestLoggerConfig struct {
	Logger *Logger

	// SkipPaths are paths that should not be logged
	SkipPaths []string
}

// RequestLogger is middleware for logging HTTP requests
type RequestLogger struct {
	config    RequestLoggerConfig
	skipPaths map[string]bool
}

// NewRequestLogger creates a new request logging middleware
func NewRequestLogger(config RequestLoggerConfig) *RequestLogger {
	skipPaths := make(map[string]bool)
	for _, path := range config.SkipPaths {
		skipPaths[path] = true
	}

	return &RequestLogger{
		config:    config,
		skipPaths: skipPaths,
	}
}

// Middleware returns the HTTP middleware function
func (rl *RequestLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.skipPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()

		requestID := r.Header.Get(constants.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(constants.HeaderRequestID, requestID)

		ctx := SetRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		logger := rl.config.Logger.WithContext(ctx)
		msg := fmt.Sprintf("method=%s; path=%s; status=%d; duration=%s; bytes=%d;",
			r.Method, r.URL.Path, rw.statusCode, time.Since(start), rw.bytesWritten)

		switch {
		case rw.statusCode >= 500:
			logger.Error(msg)
		case rw.statusCode >= 400:
			logger.Warn(msg)
		default:
			logger.Info(msg)
		}
	})
}

// responseWriter wraps http.ResponseWriter to capture status code and bytes
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}
