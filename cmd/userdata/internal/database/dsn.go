package database

import (
	"fmt"
	"net"
	"net/url"

	"github.com/go-sql-driver/mysql"
)

// Params are the discrete connection settings read from configuration
// (PERSONAL_DATA_DB_USERNAME, PERSONAL_DATA_DB_PASSWORD, PERSONAL_DATA_DB_HOST,
// PERSONAL_DATA_DB_NAME).
type Params struct {
	Type     DialectType
	Username string
	Password string
	Host     string
	Port     int
	Name     string
	// Path is the database file for SQLite; ":memory:" for an in-memory database
	Path string
}

// BuildConnectionString renders params as a connection string accepted by NewDriver.
func BuildConnectionString(p Params) (string, error) {
	switch p.Type {
	case DialectMySQL, "":
		cfg := mysql.NewConfig()
		cfg.User = p.Username
		cfg.Passwd = p.Password
		cfg.Net = "tcp"
		cfg.Addr = hostPort(p.Host, p.Port)
		cfg.DBName = p.Name
		cfg.ParseTime = true
		return "mysql://" + cfg.FormatDSN(), nil

	case DialectPostgres:
		u := url.URL{
			Scheme: "postgres",
			Host:   hostPort(p.Host, p.Port),
			Path:   "/" + p.Name,
		}
		if p.Password != "" {
			u.User = url.UserPassword(p.Username, p.Password)
		} else if p.Username != "" {
			u.User = url.User(p.Username)
		}
		q := url.Values{}
		q.Set("sslmode", "disable")
		u.RawQuery = q.Encode()
		return u.String(), nil

	case DialectSQLite:
		if p.Path == "" {
			return "", fmt.Errorf("%w: sqlite requires a database path", ErrEmptyConnectionString)
		}
		return "sqlite://" + p.Path, nil

	default:
		return "", fmt.Errorf("unsupported database type: %s", p.Type)
	}
}

func hostPort(host string, port int) string {
	if port == 0 {
		return host
	}
	return net.JoinHostPort(host, fmt.Sprint(port))
}
