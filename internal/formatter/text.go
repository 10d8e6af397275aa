package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/schemaextract/internal/schema"
)

// TextFormatter formats schema as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the schema in compact text format
func (f *TextFormatter) Format(s *schema.Schema) error {
	for i, table := range s.Tables {
		if i > 0 {
			if _, err := fmt.Fprintln(f.writer); err != nil { // Blank line between tables
				return err
			}
		}

		if err := f.formatTable(table); err != nil {
			return err
		}
	}
	return nil
}

func (f *TextFormatter) formatTable(table schema.Table) error {
	noun := "columns"
	if len(table.Columns) == 1 {
		noun = "column"
	}
	if _, err := fmt.Fprintf(f.writer, "TABLE %s (%d %s)\n", table.Name, len(table.Columns), noun); err != nil {
		return err
	}

	for _, col := range table.Columns {
		if _, err := fmt.Fprintf(f.writer, "  %s: %s\n", col, ColumnType(col)); err != nil {
			return err
		}
	}
	return nil
}
