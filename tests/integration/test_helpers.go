//go:build integration
// +build integration

package integration

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tordrt/schemaextract/internal/db"
	"github.com/tordrt/schemaextract/internal/formatter"
	"github.com/tordrt/schemaextract/internal/schema"
)

// fixtureTables are created by every dialect's setup, plus a view that must be skipped
var fixtureTables = []string{"order_items", "orders", "products", "users"}

// extract runs the extractor against a catalog and fails the test on fatal errors
func extract(t *testing.T, catalog db.Catalog, tables []string) *schema.Report {
	t.Helper()

	report, err := db.NewExtractor(catalog, zerolog.Nop()).ExtractSchema(context.Background(), tables)
	if err != nil {
		t.Fatalf("Failed to extract schema: %v", err)
	}
	return report
}

// verifyTablesExist checks that exactly the expected tables are present, in order
func verifyTablesExist(t *testing.T, s *schema.Schema, expectedTables []string) {
	t.Helper()

	got := s.TableNames()
	if strings.Join(got, ",") != strings.Join(expectedTables, ",") {
		t.Errorf("Expected tables %v, got %v", expectedTables, got)
	}
}

// verifyColumns checks that a table has exactly the expected columns, in order
func verifyColumns(t *testing.T, s *schema.Schema, tableName string, expectedColumns []string) {
	t.Helper()

	table := s.Table(tableName)
	if table == nil {
		t.Fatalf("Table %s not found", tableName)
		return
	}

	if strings.Join(table.Columns, ",") != strings.Join(expectedColumns, ",") {
		t.Errorf("Expected columns %v in %s, got %v", expectedColumns, tableName, table.Columns)
	}
}

// verifyPrimaryKeyGuess checks the reconstructed statement for a table
func verifyPrimaryKeyGuess(t *testing.T, s *schema.Schema, tableName string, wantPK bool) {
	t.Helper()

	table := s.Table(tableName)
	if table == nil {
		t.Fatalf("Table %s not found", tableName)
		return
	}

	stmt := formatter.CreateTableStatement(*table)
	if got := strings.Count(stmt, "PRIMARY KEY"); (got == 1) != wantPK || got > 1 {
		t.Errorf("Unexpected PRIMARY KEY clauses in:\n%s", stmt)
	}
}

// verifyMissingTableSkipped checks that a nonexistent table and a requested
// view are reported, not fatal, and that a repeated name is read once
func verifyMissingTableSkipped(t *testing.T, catalog db.Catalog, view string) {
	t.Helper()

	report := extract(t, catalog, []string{"users", "does_not_exist", view, "users"})
	verifyTablesExist(t, report.Schema(), []string{"users"})

	var failed []string
	for _, f := range report.Failures() {
		if !errors.Is(f.Err, db.ErrTableNotFound) {
			t.Errorf("Expected %s to fail with ErrTableNotFound, got %v", f.Name, f.Err)
		}
		failed = append(failed, f.Name)
	}
	if strings.Join(failed, ",") != "does_not_exist,"+view {
		t.Errorf("Expected does_not_exist and %s to fail, got %v", view, failed)
	}
}
