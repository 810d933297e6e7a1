package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/thalib/userdata/cmd/userdata/internal/auth"
	"github.com/thalib/userdata/cmd/userdata/internal/config"
	"github.com/thalib/userdata/cmd/userdata/internal/constants"
	"github.com/thalib/userdata/cmd/userdata/internal/database"
	"github.com/thalib/userdata/cmd/userdata/internal/logging"
	"github.com/thalib/userdata/cmd/userdata/internal/password"
	"github.com/thalib/userdata/cmd/userdata/internal/preflight"
	"github.com/thalib/userdata/cmd/userdata/internal/records"
	"github.com/thalib/userdata/cmd/userdata/internal/server"
)

const usage = `Usage: userdata [-config path] <command> [args]

Commands:
  export [run-id]        log every users row with personal data redacted (default)
  serve                  run the HTTP API
  migrate                create the users table
  useradd <email> [name] read a password from stdin and store a new user
  hash                   read a password from stdin and print its digest
  verify <digest>        read a password from stdin; exit 0 if it matches
`

// errMismatch makes verify exit with status 1 without printing an error.
var errMismatch = errors.New("password does not match")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("userdata", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := flags.String("config", "", "path to configuration file (default: ./config.yaml)")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	command := "export"
	rest := flags.Args()
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	if err := runPreflightChecks(cfg); err != nil {
		fmt.Fprintf(stderr, "Preflight checks failed: %v\n", err)
		return 1
	}

	loggerConfig := cfg.Logging.LoggerConfig()
	loggerConfig.Output = stderr
	registry := logging.NewRegistry(loggerConfig)
	defer registry.Close()

	a := &app{
		cfg:      cfg,
		registry: registry,
		logger:   registry.Get("userdata"),
		stdin:    stdin,
		stdout:   stdout,
	}

	ctx := context.Background()
	switch command {
	case "export":
		err = a.export(ctx, rest)
	case "serve":
		err = a.serve(ctx)
	case "migrate":
		err = a.migrate(ctx)
	case "useradd":
		err = a.useradd(ctx, rest)
	case "hash":
		err = a.hash()
	case "verify":
		err = a.verify(rest)
	default:
		fmt.Fprintf(stderr, "Unknown command %q\n\n%s", command, usage)
		return 2
	}

	if errors.Is(err, errMismatch) {
		return 1
	}
	if err != nil {
		a.logger.ErrorWithErr(command+" failed", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runPreflightChecks creates the log directory and the SQLite database directory
func runPreflightChecks(cfg *config.AppConfig) error {
	checks := []preflight.DirCheck{
		{Path: cfg.Logging.Path, FailFatal: true},
	}
	if cfg.Database.Connection == string(database.DialectSQLite) && cfg.Database.Path != ":memory:" {
		checks = append(checks, preflight.DirCheck{Path: filepath.Dir(cfg.Database.Path), FailFatal: true})
	}

	_, err := preflight.Run(checks)
	return err
}

type app struct {
	cfg      *config.AppConfig
	registry *logging.Registry
	logger   *logging.Logger
	stdin    io.Reader
	stdout   io.Writer
}

func (a *app) openDB(ctx context.Context) (database.Driver, error) {
	dbConfig, err := a.cfg.Database.DriverConfig()
	if err != nil {
		return nil, err
	}

	driver, err := database.NewDriver(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}
	if err := driver.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	a.logger.Infof("Connected to %s database", driver.Dialect())
	return driver, nil
}

func (a *app) hasher() (password.Hasher, error) {
	return password.New(a.cfg.Hash.PasswordConfig())
}

// readSecret reads one line from stdin without its line ending.
func (a *app) readSecret() (string, error) {
	scanner := bufio.NewScanner(a.stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return "", errors.New("no password on stdin")
	}
	return strings.TrimRight(scanner.Text(), "\r"), nil
}

func (a *app) export(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errors.New("export takes at most one run ID")
	}

	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	exporter := records.NewExporter(db, a.registry.Get(constants.UserDataLoggerName))
	if len(args) == 1 {
		if err := exporter.SetRunID(args[0]); err != nil {
			return err
		}
	}
	result, err := exporter.Export(ctx)
	if err != nil {
		return err
	}

	a.logger.Infof("export finished: run=%s; rows=%d;", result.RunID, result.Rows)
	return nil
}

func (a *app) migrate(ctx context.Context) error {
	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	a.logger.Infof("table %s is ready", constants.TableUsers)
	return nil
}

func (a *app) useradd(ctx context.Context, args []string) error {
	if len(args) < 1 || args[0] == "" {
		return errors.New("useradd requires an email")
	}

	secret, err := a.readSecret()
	if err != nil {
		return err
	}
	hasher, err := a.hasher()
	if err != nil {
		return err
	}
	digest, err := hasher.Hash(secret)
	if err != nil {
		return err
	}

	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	user := &auth.User{Email: args[0], Password: string(digest)}
	if len(args) > 1 {
		user.Name = strings.Join(args[1:], " ")
	}
	if err := auth.NewSQLUserStore(db).Create(ctx, user); err != nil {
		return err
	}

	a.logger.Infof("created user %s", user)
	return nil
}

func (a *app) hash() error {
	secret, err := a.readSecret()
	if err != nil {
		return err
	}
	hasher, err := a.hasher()
	if err != nil {
		return err
	}
	digest, err := hasher.Hash(secret)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, string(digest))
	return nil
}

func (a *app) verify(args []string) error {
	if len(args) != 1 {
		return errors.New("verify requires exactly one digest")
	}

	secret, err := a.readSecret()
	if err != nil {
		return err
	}
	hasher, err := a.hasher()
	if err != nil {
		return err
	}
	if !hasher.Verify([]byte(args[0]), secret) {
		fmt.Fprintln(a.stdout, "invalid")
		return errMismatch
	}
	fmt.Fprintln(a.stdout, "valid")
	return nil
}

func (a *app) serve(ctx context.Context) error {
	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RequireSchema(ctx, db); err != nil {
		return err
	}

	var authenticator auth.Authenticator
	switch a.cfg.Auth.Type {
	case config.AuthTypeAuth:
		authenticator = auth.Base{}
	case config.AuthTypeBasic:
		hasher, err := a.hasher()
		if err != nil {
			return err
		}
		authenticator = auth.NewBasic(auth.NewSQLUserStore(db), hasher, a.registry.Get("auth"))
	}

	a.logger.Infof("Server will start on %s:%d (auth: %s)", a.cfg.Server.Host, a.cfg.Server.Port, a.cfg.Auth.Type)
	return server.New(a.cfg, db, authenticator, a.registry.Get("server")).Run()
}
