package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thalib/userdata/cmd/userdata/internal/constants"
	"github.com/thalib/userdata/cmd/userdata/internal/database"
)

// UserStore finds users for credential checks.
type UserStore interface {
	// FindByEmail returns nil, nil when no user has that email.
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// SQLUserStore reads and writes the users table.
type SQLUserStore struct {
	db database.Driver
}

// NewSQLUserStore creates a user store over db.
func NewSQLUserStore(db database.Driver) *SQLUserStore {
	return &SQLUserStore{db: db}
}

// FindByEmail retrieves a user by email.
func (s *SQLUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.QueryTimeout)
	defer cancel()

	query := fmt.Sprintf(
		"SELECT id, name, email, phone, ssn, password, ip, last_login, user_agent FROM %s WHERE email = %s",
		constants.TableUsers, database.Placeholder(s.db.Dialect(), 1),
	)

	var user User
	var name, phone, ssn, ip, lastLogin, userAgent sql.NullString
	err := s.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &name, &user.Email, &phone, &ssn, &user.Password, &ip, &lastLogin, &userAgent,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Name = name.String
	user.Phone = phone.String
	user.SSN = ssn.String
	user.IP = ip.String
	user.LastLogin = lastLogin.String
	user.UserAgent = userAgent.String
	return &user, nil
}

// Create inserts user and sets its ID. user.Password must already be a digest.
func (s *SQLUserStore) Create(ctx context.Context, user *User) error {
	ctx, cancel := context.WithTimeout(ctx, constants.QueryTimeout)
	defer cancel()

	dialect := s.db.Dialect()
	placeholders := ""
	for i := 1; i <= 7; i++ {
		if i > 1 {
			placeholders += ", "
		}
		placeholders += database.Placeholder(dialect, i)
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (name, email, phone, ssn, password, ip, user_agent) VALUES (%s)",
		constants.TableUsers, placeholders,
	)
	args := []any{
		nullable(user.Name), user.Email, nullable(user.Phone), nullable(user.SSN),
		user.Password, nullable(user.IP), nullable(user.UserAgent),
	}

	if dialect == database.DialectPostgres {
		if err := s.db.QueryRow(ctx, query+" RETURNING id", args...).Scan(&user.ID); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	}

	result, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user ID: %w", err)
	}
	user.ID = id
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
