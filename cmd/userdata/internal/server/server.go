// Package server exposes the userdata HTTP API behind the request logger and
// the authentication gate.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/thalib/userdata/cmd/userdata/internal/auth"
	"github.com/thalib/userdata/cmd/userdata/internal/config"
	"github.com/thalib/userdata/cmd/userdata/internal/constants"
	"github.com/thalib/userdata/cmd/userdata/internal/database"
	"github.com/thalib/userdata/cmd/userdata/internal/logging"
	"github.com/thalib/userdata/cmd/userdata/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	config  *config.AppConfig
	db      database.Driver
	auth    auth.Authenticator
	logger  *logging.Logger
	mux     *http.ServeMux
	handler http.Handler
	server  *http.Server
}

// New creates a new server instance. db and authenticator may be nil; a nil
// authenticator leaves every route open. A nil logger logs to stderr.
func New(cfg *config.AppConfig, db database.Driver, authenticator auth.Authenticator, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewLogger(logging.LoggerConfig{Name: "server"})
	}

	s := &Server{
		config: cfg,
		db:     db,
		auth:   authenticator,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.setupRoutes()

	gate := middleware.NewAuthMiddleware(middleware.AuthConfig{
		Authenticator: authenticator,
		ExcludedPaths: cfg.Auth.ExcludedPaths,
		Logger:        logger,
	})
	requests := logging.NewRequestLogger(logging.RequestLoggerConfig{
		Logger:    logger,
		SkipPaths: cfg.Logging.SkipPaths,
	})
	s.handler = requests.Middleware(gate.Authenticate(s.mux))

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.handler,
		ReadTimeout:  constants.HTTPReadTimeout,
		WriteTimeout: constants.HTTPWriteTimeout,
		IdleTimeout:  constants.HTTPIdleTimeout,
	}
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// handle registers h for path with and without a trailing slash. Deeper
// paths are not matched.
func (s *Server) handle(method, path string, h http.HandlerFunc) {
	s.mux.HandleFunc(method+" "+path, h)
	s.mux.HandleFunc(method+" "+path+"/{$}", h)
}

func (s *Server) setupRoutes() {
	s.handle(http.MethodGet, constants.PathStatus, s.statusHandler)
	s.handle(http.MethodGet, constants.PathStats, s.statsHandler)
	s.handle(http.MethodGet, constants.PathUnauthorized, s.unauthorizedHandler)
	s.handle(http.MethodGet, constants.PathForbidden, s.forbiddenHandler)
	s.handle(http.MethodGet, constants.PathCurrentUser, s.currentUserHandler)
	s.mux.HandleFunc("/", s.notFoundHandler)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Infof("Starting server on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown
func (s *Server) Run() error {
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- s.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		s.logger.Infof("Received signal: %v", sig)

		ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if err := s.server.Close(); err != nil {
				return fmt.Errorf("could not stop server gracefully: %w", err)
			}
		}
	}

	return nil
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// statsHandler reports the number of stored users.
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Database not configured")
		return
	}

	var count int
	query := "SELECT COUNT(*) FROM " + constants.TableUsers
	if err := s.db.QueryRow(r.Context(), query).Scan(&count); err != nil {
		s.logger.WithContext(r.Context()).ErrorWithErr("failed to count users", err)
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]int{"users": count})
}

func (s *Server) unauthorizedHandler(w http.ResponseWriter, r *http.Request) {
	middleware.WriteError(w, http.StatusUnauthorized, middleware.MessageUnauthorized)
}

func (s *Server) forbiddenHandler(w http.ResponseWriter, r *http.Request) {
	middleware.WriteError(w, http.StatusForbidden, middleware.MessageForbidden)
}

func (s *Server) currentUserHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	s.logger.WithContext(r.Context()).Infof("current user: %s", user)
	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	middleware.WriteError(w, http.StatusNotFound, "Not found")
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set(constants.HeaderContentType, constants.MIMEApplicationJSON)
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.ErrorWithErr("Error encoding JSON response", err)
	}
}
