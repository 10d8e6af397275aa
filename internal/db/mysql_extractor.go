package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// MySQLExtractor reads table metadata from MySQL with SHOW FULL TABLES and DESCRIBE
type MySQLExtractor struct {
	client     *MySQLClient
	schemaName string
}

// NewMySQLExtractor creates a new MySQL catalog.
// An empty schemaName uses the database selected by the connection.
func NewMySQLExtractor(client *MySQLClient, schemaName string) *MySQLExtractor {
	return &MySQLExtractor{
		client:     client,
		schemaName: schemaName,
	}
}

// ListTables returns the base tables of the database, skipping views
func (e *MySQLExtractor) ListTables(ctx context.Context) ([]string, error) {
	query := "SHOW FULL TABLES WHERE Table_type = 'BASE TABLE'"
	if e.schemaName != "" {
		query = fmt.Sprintf("SHOW FULL TABLES FROM %s WHERE Table_type = 'BASE TABLE'", QuoteIdentifier(e.schemaName))
	}

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName, tableType string
		if err := rows.Scan(&tableName, &tableType); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}

	return tables, rows.Err()
}

// DescribeTable returns the Field column of DESCRIBE, in table order.
// Type, Null, Key, Default and Extra are discarded.
func (e *MySQLExtractor) DescribeTable(ctx context.Context, tableName string) ([]string, error) {
	target := QuoteIdentifier(tableName)
	if e.schemaName != "" {
		target = QuoteIdentifier(e.schemaName) + "." + target
	}

	rows, err := e.client.GetDB().QueryContext(ctx, "DESCRIBE "+target)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("DESCRIBE %s returned no fields", target)
	}

	values := make([]sql.RawBytes, len(fields))
	dest := make([]any, len(fields))
	for i := range values {
		dest[i] = &values[i]
	}

	var columns []string
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		// RawBytes is only valid until the next call to Next
		columns = append(columns, string(values[0]))
	}
	return columns, rows.Err()
}

// QuoteIdentifier wraps a name in backticks, doubling any backtick inside it
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
