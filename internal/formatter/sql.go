package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/schemaextract/internal/schema"
)

const (
	typeID    = "INT"
	typeOther = "TEXT"
)

// SQLFormatter writes an approximate CREATE TABLE script for the schema.
// Column types are guessed from the name alone: a column called id
// (any case) is INT and becomes the primary key, everything else is TEXT.
type SQLFormatter struct {
	writer io.Writer
}

// NewSQLFormatter creates a new SQL formatter
func NewSQLFormatter(w io.Writer) *SQLFormatter {
	return &SQLFormatter{writer: w}
}

// Format writes one CREATE TABLE block per table, each followed by a blank line
func (f *SQLFormatter) Format(s *schema.Schema) error {
	for _, table := range s.Tables {
		if _, err := io.WriteString(f.writer, CreateTableStatement(table)+"\n\n"); err != nil {
			return err
		}
	}
	return nil
}

// CreateTableStatement renders the CREATE TABLE statement for one table.
// A table without columns renders an empty column list.
func CreateTableStatement(table schema.Table) string {
	lines := make([]string, 0, len(table.Columns)+1)
	for _, col := range table.Columns {
		lines = append(lines, fmt.Sprintf("  %s %s", quoteIdentifier(col), ColumnType(col)))
	}

	if pk, ok := primaryKeyColumn(table.Columns); ok {
		lines = append(lines, fmt.Sprintf("  PRIMARY KEY (%s)", quoteIdentifier(pk)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", quoteIdentifier(table.Name))
	if len(lines) > 0 {
		b.WriteString(strings.Join(lines, ",\n"))
		b.WriteString("\n")
	}
	b.WriteString(");")
	return b.String()
}

// ColumnType returns the guessed SQL type for a column name
func ColumnType(column string) string {
	if isIDColumn(column) {
		return typeID
	}
	return typeOther
}

// primaryKeyColumn returns the first id column, keeping its spelling
func primaryKeyColumn(columns []string) (string, bool) {
	for _, col := range columns {
		if isIDColumn(col) {
			return col, true
		}
	}
	return "", false
}

func isIDColumn(column string) bool {
	return strings.EqualFold(column, "id")
}

func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// WriteSQL renders the schema script and writes it to path, replacing any existing file
func WriteSQL(s *schema.Schema, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return NewSQLFormatter(w).Format(s)
	})
}
