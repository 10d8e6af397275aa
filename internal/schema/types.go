package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Schema represents the extracted table layout of one database.
// Tables keep the order in which the database listed them.
type Schema struct {
	Tables []Table
}

// Table represents a base table and its column names in native order
type Table struct {
	Name    string
	Columns []string
}

// Table returns the table with the given name, or nil
func (s *Schema) Table(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// TableNames returns the table names in schema order
func (s *Schema) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.Name)
	}
	return names
}

// MarshalJSON encodes the schema as an object keyed by table name.
// Keys follow table order; HTML characters are left unescaped.
func (s Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, t := range s.Tables {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(t.Name); err != nil {
			return nil, fmt.Errorf("failed to encode table name %q: %w", t.Name, err)
		}
		buf.Truncate(buf.Len() - 1) // Encode appends a newline
		buf.WriteByte(':')

		columns := t.Columns
		if columns == nil {
			columns = []string{}
		}
		if err := enc.Encode(columns); err != nil {
			return nil, fmt.Errorf("failed to encode columns of %q: %w", t.Name, err)
		}
		buf.Truncate(buf.Len() - 1)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}
