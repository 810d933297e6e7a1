// Package config loads userdata configuration from an optional YAML file,
// a .env file and the environment. Database credentials come from the
// PERSONAL_DATA_DB_* variables; the authenticator is selected by AUTH_TYPE.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/thalib/userdata/cmd/userdata/internal/constants"
	"github.com/thalib/userdata/cmd/userdata/internal/database"
	"github.com/thalib/userdata/cmd/userdata/internal/logging"
	"github.com/thalib/userdata/cmd/userdata/internal/password"
)

// Authenticator selections for auth.type / AUTH_TYPE.
const (
	AuthTypeNone  = "none"
	AuthTypeAuth  = "auth"
	AuthTypeBasic = "basic_auth"
)

var (
	// ErrMissingDatabaseName indicates that PERSONAL_DATA_DB_NAME is not set
	ErrMissingDatabaseName = errors.New("database name is required (PERSONAL_DATA_DB_NAME)")

	// ErrInvalidConfig wraps every validation failure
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Defaults contains all default configuration values
// centralized in one place to avoid hardcoded literals
var Defaults = struct {
	Server struct {
		Port int
		Host string
	}
	Database struct {
		Connection      string
		User            string
		Password        string
		Host            string
		Path            string
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime int
	}
	Logging struct {
		Level  string
		Format string
	}
	Auth struct {
		Type          string
		ExcludedPaths []string
	}
	Hash struct {
		Algorithm string
		Cost      int
	}
}{
	Server: struct {
		Port int
		Host string
	}{
		Port: 5000,
		Host: "0.0.0.0",
	},
	Database: struct {
		Connection      string
		User            string
		Password        string
		Host            string
		Path            string
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime int
	}{
		Connection:      string(database.DialectMySQL),
		User:            "root",
		Password:        "",
		Host:            "localhost",
		Path:            "userdata.db",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 300, // 5 minutes
	},
	Logging: struct {
		Level  string
		Format string
	}{
		Level:  string(logging.LevelInfo),
		Format: logging.FormatSimple,
	},
	Auth: struct {
		Type          string
		ExcludedPaths []string
	}{
		Type:          AuthTypeNone,
		ExcludedPaths: constants.DefaultExcludedPaths,
	},
	Hash: struct {
		Algorithm string
		Cost      int
	}{
		Algorithm: password.AlgorithmBcrypt,
		Cost:      12,
	},
}

// AppConfig holds the application configuration.
// It is designed to be immutable after initialization.
type AppConfig struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Hash     HashConfig     `mapstructure:"hash"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

type DatabaseConfig struct {
	Connection      string `mapstructure:"connection"` // mysql, postgres or sqlite
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	Path            string `mapstructure:"path"` // sqlite only
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // in seconds
}

type LoggingConfig struct {
	Level                     string   `mapstructure:"level"`
	Format                    string   `mapstructure:"format"`  // simple, console or json
	Path                      string   `mapstructure:"path"`    // log directory; empty logs to stderr
	Console                   bool     `mapstructure:"console"` // also log to stderr when path is set
	AdditionalSensitiveFields []string `mapstructure:"additional_sensitive_fields"`
	SkipPaths                 []string `mapstructure:"skip_paths"` // request paths left out of the access log
}

type AuthConfig struct {
	Type          string   `mapstructure:"type"`
	ExcludedPaths []string `mapstructure:"excluded_paths"`
}

type HashConfig struct {
	Algorithm string `mapstructure:"algorithm"`
	Cost      int    `mapstructure:"cost"`
	Pepper    string `mapstructure:"pepper"`
}

// Load reads configuration. configPath may be empty, in which case
// config.yaml is searched for in the working directory and ./config and
// defaults apply when none is found. A .env file in the working directory is
// loaded into the environment first; variables already set win over it.
func Load(configPath string) (*AppConfig, error) {
	// a missing .env is not an error
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("USERDATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// names shared with existing deployments, not prefixed
	v.BindEnv("database.user", "PERSONAL_DATA_DB_USERNAME")
	v.BindEnv("database.password", "PERSONAL_DATA_DB_PASSWORD")
	v.BindEnv("database.host", "PERSONAL_DATA_DB_HOST")
	v.BindEnv("database.name", "PERSONAL_DATA_DB_NAME")
	v.BindEnv("auth.type", "AUTH_TYPE")

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", Defaults.Server.Port)
	v.SetDefault("server.host", Defaults.Server.Host)
	v.SetDefault("database.connection", Defaults.Database.Connection)
	v.SetDefault("database.user", Defaults.Database.User)
	v.SetDefault("database.password", Defaults.Database.Password)
	v.SetDefault("database.host", Defaults.Database.Host)
	v.SetDefault("database.port", 0)
	v.SetDefault("database.name", "")
	v.SetDefault("database.path", Defaults.Database.Path)
	v.SetDefault("database.max_open_conns", Defaults.Database.MaxOpenConns)
	v.SetDefault("database.max_idle_conns", Defaults.Database.MaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", Defaults.Database.ConnMaxLifetime)
	v.SetDefault("logging.level", Defaults.Logging.Level)
	v.SetDefault("logging.format", Defaults.Logging.Format)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.console", false)
	v.SetDefault("logging.additional_sensitive_fields", []string{})
	v.SetDefault("logging.skip_paths", []string{})
	v.SetDefault("auth.type", Defaults.Auth.Type)
	v.SetDefault("auth.excluded_paths", Defaults.Auth.ExcludedPaths)
	v.SetDefault("hash.algorithm", Defaults.Hash.Algorithm)
	v.SetDefault("hash.cost", Defaults.Hash.Cost)
	v.SetDefault("hash.pepper", "")
}

func validate(cfg *AppConfig) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, cfg.Server.Port)
	}

	switch database.DialectType(cfg.Database.Connection) {
	case database.DialectMySQL, database.DialectPostgres, database.DialectSQLite:
	default:
		return fmt.Errorf("%w: database.connection must be mysql, postgres or sqlite, got %q", ErrInvalidConfig, cfg.Database.Connection)
	}

	switch logging.Level(cfg.Logging.Level) {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, cfg.Logging.Level)
	}

	switch cfg.Logging.Format {
	case logging.FormatSimple, logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalidConfig, cfg.Logging.Format)
	}

	cfg.Auth.Type = strings.ToLower(strings.TrimSpace(cfg.Auth.Type))
	switch cfg.Auth.Type {
	case "":
		cfg.Auth.Type = AuthTypeNone
	case AuthTypeNone, AuthTypeAuth, AuthTypeBasic:
	default:
		return fmt.Errorf("%w: auth.type %q", ErrInvalidConfig, cfg.Auth.Type)
	}

	if _, err := password.New(cfg.Hash.PasswordConfig()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}

// Params converts the database section into connection parameters.
func (c DatabaseConfig) Params() database.Params {
	return database.Params{
		Type:     database.DialectType(c.Connection),
		Username: c.User,
		Password: c.Password,
		Host:     c.Host,
		Port:     c.Port,
		Name:     c.Name,
		Path:     c.Path,
	}
}

// DriverConfig returns the settings for database.NewDriver.
func (c DatabaseConfig) DriverConfig() (database.Config, error) {
	if c.Connection != string(database.DialectSQLite) && c.Name == "" {
		return database.Config{}, ErrMissingDatabaseName
	}

	dsn, err := database.BuildConnectionString(c.Params())
	if err != nil {
		return database.Config{}, err
	}

	return database.Config{
		ConnectionString: dsn,
		MaxOpenConns:     c.MaxOpenConns,
		MaxIdleConns:     c.MaxIdleConns,
		ConnMaxLifetime:  time.Duration(c.ConnMaxLifetime) * time.Second,
	}, nil
}

// LoggerConfig returns the settings for logging.NewRegistry.
func (c LoggingConfig) LoggerConfig() logging.LoggerConfig {
	lc := logging.LoggerConfig{
		Level:           logging.Level(c.Level),
		Format:          c.Format,
		SensitiveFields: c.AdditionalSensitiveFields,
	}
	if c.Path != "" {
		lc.FilePath = filepath.Join(c.Path, constants.LogFileName)
		lc.DualOutput = c.Console
	}
	return lc
}

// PasswordConfig returns the settings for password.New.
func (c HashConfig) PasswordConfig() password.Config {
	return password.Config{
		Algorithm: c.Algorithm,
		Cost:      c.Cost,
		Pepper:    c.Pepper,
	}
}
