package formatter

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/tordrt/schemaextract/internal/schema"
)

// JSONFormatter writes the schema as a JSON object of table → column names
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// Format writes the schema with two-space indentation.
// Non-ASCII and HTML characters are written verbatim, including the
// U+2028 and U+2029 separators encoding/json always escapes.
func (f *JSONFormatter) Format(s *schema.Schema) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return err
	}

	_, err := f.writer.Write(unescapeLineSeparators(buf.Bytes()))
	return err
}

// unescapeLineSeparators turns \u2028 and \u2029 escapes back into the raw
// runes. An escaped backslash is copied as a pair so that a literal
// backslash-u sequence in a name stays escaped.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if rest := data[i:]; bytes.HasPrefix(rest, []byte(`\u2028`)) || bytes.HasPrefix(rest, []byte(`\u2029`)) {
			if rest[5] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			continue
		}
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}

// WriteJSON renders the schema and writes it to path, replacing any existing file
func WriteJSON(s *schema.Schema, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return NewJSONFormatter(w).Format(s)
	})
}
