package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// createSQLiteDB creates a database file with the given DDL and returns its path
func createSQLiteDB(t *testing.T, statements ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Failed to open SQLite: %v", err)
	}
	defer conn.Close()

	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			t.Fatalf("Failed to execute %q: %v", stmt, err)
		}
	}
	// Make sure the file exists even without statements
	if err := conn.Ping(); err != nil {
		t.Fatalf("Failed to ping SQLite: %v", err)
	}
	return path
}

func openSQLite(t *testing.T, path string) *SQLiteClient {
	t.Helper()

	client, err := NewSQLiteClient(context.Background(), path)
	if err != nil {
		t.Fatalf("NewSQLiteClient() error = %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSQLiteListTables(t *testing.T) {
	path := createSQLiteDB(t,
		`CREATE TABLE users (id INTEGER PRIMARY KEY, username TEXT, email TEXT)`,
		`CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER, total REAL)`,
		`CREATE VIEW active_users AS SELECT id, username FROM users`,
	)

	tables, err := NewSQLiteExtractor(openSQLite(t, path)).ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables() error = %v", err)
	}

	if strings.Join(tables, ",") != "orders,users" {
		t.Errorf("ListTables() = %v, want [orders users] without the view", tables)
	}
}

func TestSQLiteDescribeTable(t *testing.T) {
	path := createSQLiteDB(t,
		`CREATE TABLE "mixed ""name""" (zeta TEXT, ID INTEGER, alpha, "año" TEXT)`,
	)
	e := NewSQLiteExtractor(openSQLite(t, path))

	cols, err := e.DescribeTable(context.Background(), `mixed "name"`)
	if err != nil {
		t.Fatalf("DescribeTable() error = %v", err)
	}
	if strings.Join(cols, ",") != "zeta,ID,alpha,año" {
		t.Errorf("DescribeTable() = %v, want declaration order", cols)
	}
}

func TestSQLiteRequestedViewAndMissingTable(t *testing.T) {
	path := createSQLiteDB(t,
		`CREATE TABLE orders (id INTEGER PRIMARY KEY, total REAL)`,
		`CREATE VIEW big_orders AS SELECT * FROM orders WHERE total > 100`,
	)

	extractor := NewExtractor(NewSQLiteExtractor(openSQLite(t, path)), zerolog.Nop())
	report, err := extractor.ExtractSchema(context.Background(), []string{"big_orders", "missing", "orders"})
	if err != nil {
		t.Fatalf("ExtractSchema() error = %v", err)
	}

	if got := report.Schema().TableNames(); strings.Join(got, ",") != "orders" {
		t.Errorf("tables = %v, want [orders]", got)
	}

	failures := report.Failures()
	if len(failures) != 2 {
		t.Fatalf("Failures() = %v, want big_orders and missing", failures)
	}
	for _, f := range failures {
		if !errors.Is(f.Err, ErrTableNotFound) {
			t.Errorf("failure %s error = %v, want ErrTableNotFound", f.Name, f.Err)
		}
	}
}

func TestSQLiteExtractSchema(t *testing.T) {
	path := createSQLiteDB(t,
		`CREATE TABLE clientes (id INTEGER PRIMARY KEY, nombre TEXT)`,
		`CREATE TABLE articulos (codigo TEXT, descripcion TEXT)`,
	)

	extractor := NewExtractor(NewSQLiteExtractor(openSQLite(t, path)), zerolog.Nop())
	report, err := extractor.ExtractSchema(context.Background(), nil)
	if err != nil {
		t.Fatalf("ExtractSchema() error = %v", err)
	}

	s := report.Schema()
	if got := s.TableNames(); strings.Join(got, ",") != "articulos,clientes" {
		t.Errorf("tables = %v", got)
	}
	if cols := s.Table("clientes").Columns; strings.Join(cols, ",") != "id,nombre" {
		t.Errorf("clientes columns = %v", cols)
	}
}

func TestNewSQLiteClientMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.db")

	if _, err := NewSQLiteClient(context.Background(), path); err == nil {
		t.Error("expected error for missing database file")
	}
}
