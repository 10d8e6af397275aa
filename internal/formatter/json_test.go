package formatter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/tordrt/schemaextract/internal/schema"
)

func TestJSONFormatter(t *testing.T) {
	tests := []struct {
		name   string
		schema *schema.Schema
		want   string
	}{
		{
			name:   "empty schema",
			schema: &schema.Schema{},
			want:   "{}\n",
		},
		{
			name: "single table",
			schema: &schema.Schema{Tables: []schema.Table{
				{Name: "clientes", Columns: []string{"id", "nombre"}},
			}},
			want: "{\n  \"clientes\": [\n    \"id\",\n    \"nombre\"\n  ]\n}\n",
		},
		{
			name: "non-ASCII kept verbatim",
			schema: &schema.Schema{Tables: []schema.Table{
				{Name: "años", Columns: []string{"descripción"}},
			}},
			want: "{\n  \"años\": [\n    \"descripción\"\n  ]\n}\n",
		},
		{
			name: "line separators kept verbatim",
			schema: &schema.Schema{Tables: []schema.Table{
				{Name: "t\u2028x", Columns: []string{"a\u2029b"}},
			}},
			want: "{\n  \"t\u2028x\": [\n    \"a\u2029b\"\n  ]\n}\n",
		},
		{
			name: "escaped backslash before u2028 text",
			schema: &schema.Schema{Tables: []schema.Table{
				{Name: `t\u2028`, Columns: []string{`\\u2029`}},
			}},
			want: "{\n  \"t\\\\u2028\": [\n    \"\\\\\\\\u2029\"\n  ]\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewJSONFormatter(&buf).Format(tt.schema); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Format() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestJSONFormatterPreservesOrder(t *testing.T) {
	s := &schema.Schema{Tables: []schema.Table{
		{Name: "table", Columns: []string{"id", "name", "email"}},
		{Name: "another", Columns: []string{"z", "a"}},
	}}

	var buf bytes.Buffer
	if err := NewJSONFormatter(&buf).Format(s); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	// Decoding into a map loses key order, so check values here and order via offsets
	var decoded map[string][]string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got := decoded["table"]; len(got) != 3 || got[0] != "id" || got[1] != "name" || got[2] != "email" {
		t.Errorf("table columns = %v, want [id name email]", got)
	}

	out := buf.String()
	if bytes.Index(buf.Bytes(), []byte(`"table"`)) > bytes.Index(buf.Bytes(), []byte(`"another"`)) {
		t.Errorf("tables out of order:\n%s", out)
	}
}

func TestWriteJSONOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	if err := os.WriteFile(path, []byte("stale content that is much longer than the new output"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := WriteJSON(&schema.Schema{}, path); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "{}\n" {
		t.Errorf("file content = %q, want %q", content, "{}\n")
	}
}

func TestWriteJSONUnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	// A regular file cannot be used as a directory
	if err := WriteJSON(&schema.Schema{}, filepath.Join(blocker, "schema.json")); err == nil {
		t.Error("expected error for unwritable path")
	}
}
