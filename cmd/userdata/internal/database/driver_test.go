package database

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestDriver(t *testing.T) Driver {
	t.Helper()
	driver, err := NewDriver(Config{
		ConnectionString: "sqlite://" + filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:     1,
		MaxIdleConns:     1,
		ConnMaxLifetime:  time.Minute,
	})
	if err != nil {
		t.Fatalf("failed to create driver: %v", err)
	}
	if err := driver.Connect(context.Background()); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { driver.Close() })
	return driver
}

func TestDetectDialect(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    DialectType
		wantDSN string
		wantErr error
	}{
		{name: "postgres url", input: "postgres://u:p@localhost/db", want: DialectPostgres, wantDSN: "postgres://u:p@localhost/db"},
		{name: "postgresql url", input: "postgresql://localhost/db", want: DialectPostgres, wantDSN: "postgresql://localhost/db"},
		{name: "mysql url", input: "mysql://root@tcp(localhost)/db", want: DialectMySQL, wantDSN: "root@tcp(localhost)/db"},
		{name: "mysql dsn", input: "root:pw@tcp(db:3306)/personal_data", want: DialectMySQL, wantDSN: "root:pw@tcp(db:3306)/personal_data"},
		{name: "sqlite url", input: "sqlite:///tmp/users.db", want: DialectSQLite, wantDSN: "/tmp/users.db"},
		{name: "sqlite memory", input: "sqlite://:memory:", want: DialectSQLite, wantDSN: "file::memory:?mode=memory&cache=shared"},
		{name: "sqlite file", input: "users.sqlite3", want: DialectSQLite, wantDSN: "users.sqlite3"},
		{name: "postgres keyword dsn", input: "host=localhost dbname=users", want: DialectPostgres, wantDSN: "host=localhost dbname=users"},
		{name: "empty", input: "", wantErr: ErrEmptyConnectionString},
		{name: "unknown", input: "secret@somewhere", wantErr: ErrUnknownDialect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dsn, err := detectDialect(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("detectDialect(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("detectDialect(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want || dsn != tt.wantDSN {
				t.Errorf("detectDialect(%q) = (%s, %q), want (%s, %q)", tt.input, got, dsn, tt.want, tt.wantDSN)
			}
		})
	}
}

func TestDetectDialect_HidesCredentials(t *testing.T) {
	_, _, err := detectDialect("hunter2@nowhere")
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(err.Error(), "hunter2") {
		t.Errorf("error leaks credentials: %v", err)
	}
}

func TestPlaceholder(t *testing.T) {
	if got := Placeholder(DialectPostgres, 2); got != "$2" {
		t.Errorf("Placeholder(postgres, 2) = %q, want $2", got)
	}
	if got := Placeholder(DialectMySQL, 2); got != "?" {
		t.Errorf("Placeholder(mysql, 2) = %q, want ?", got)
	}
	if got := Placeholder(DialectSQLite, 1); got != "?" {
		t.Errorf("Placeholder(sqlite, 1) = %q, want ?", got)
	}
}

func TestDriver_NotConnected(t *testing.T) {
	driver, err := NewDriver(Config{ConnectionString: "sqlite://:memory:"})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if _, err := driver.Exec(ctx, "SELECT 1"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Exec error = %v, want ErrNotConnected", err)
	}
	if _, err := driver.Query(ctx, "SELECT 1"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Query error = %v, want ErrNotConnected", err)
	}
	if err := driver.Ping(ctx); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Ping error = %v, want ErrNotConnected", err)
	}
	if err := driver.Close(); err != nil {
		t.Errorf("Close on unconnected driver: %v", err)
	}
}

func TestMigrate_SQLite(t *testing.T) {
	driver := newTestDriver(t)
	ctx := context.Background()

	if driver.Dialect() != DialectSQLite {
		t.Fatalf("expected sqlite dialect, got %s", driver.Dialect())
	}

	exists, err := driver.TableExists(ctx, "users")
	if err != nil {
		t.Fatalf("TableExists failed: %v", err)
	}
	if exists {
		t.Fatal("users table should not exist before Migrate")
	}
	if err := RequireSchema(ctx, driver); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("RequireSchema before Migrate = %v, want ErrTableNotFound", err)
	}

	// twice: the schema must be re-runnable
	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, driver); err != nil {
			t.Fatalf("Migrate run %d failed: %v", i+1, err)
		}
	}

	exists, err = driver.TableExists(ctx, "users")
	if err != nil {
		t.Fatalf("TableExists failed: %v", err)
	}
	if !exists {
		t.Error("users table should exist after Migrate")
	}
	if err := RequireSchema(ctx, driver); err != nil {
		t.Errorf("RequireSchema after Migrate: %v", err)
	}

	tables, err := driver.ListTables(ctx)
	if err != nil {
		t.Fatalf("ListTables failed: %v", err)
	}
	for _, table := range tables {
		if strings.HasPrefix(table, "sqlite_") {
			t.Errorf("ListTables returned system table %q", table)
		}
	}

	_, err = driver.Exec(ctx,
		"INSERT INTO users (name, email, phone, ssn, password, ip, last_login, user_agent) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		"Bob", "bob@example.com", "555-0100", "123-45-6789", "digest", "10.0.0.1", "2019-11-14 06:16:24", "curl/8.0",
	)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	var count int
	if err := driver.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}
}

func TestTableExists_InvalidName(t *testing.T) {
	driver := newTestDriver(t)

	for _, name := range []string{"", "users; DROP TABLE users;--", "table-with-dash", "1startwithnum"} {
		t.Run(name, func(t *testing.T) {
			_, err := driver.TableExists(context.Background(), name)
			if !errors.Is(err, ErrInvalidIdentifier) {
				t.Errorf("TableExists(%q) error = %v, want ErrInvalidIdentifier", name, err)
			}
		})
	}
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"users", true},
		{"Users", true},
		{"_users", true},
		{"user_data2", true},
		{"", false},
		{"1users", false},
		{"user-data", false},
		{"user data", false},
		{"users;", false},
		{strings.Repeat("a", 65), false},
	}

	for _, tt := range tests {
		if got := isValidIdentifier(tt.input); got != tt.want {
			t.Errorf("isValidIdentifier(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
