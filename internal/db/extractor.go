package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tordrt/schemaextract/internal/schema"
)

// ErrTableNotFound marks a requested table that is not a listed base table
var ErrTableNotFound = errors.New("table not found")

// Catalog answers the two metadata queries needed for extraction
type Catalog interface {
	// ListTables returns the base tables (no views) in listing order
	ListTables(ctx context.Context) ([]string, error)
	// DescribeTable returns the column names of a table in native order
	DescribeTable(ctx context.Context, table string) ([]string, error)
}

// Extractor walks a catalog table by table and collects a report.
// A table whose describe query fails is skipped, not fatal.
type Extractor struct {
	catalog Catalog
	logger  zerolog.Logger
}

// NewExtractor creates a new schema extractor
func NewExtractor(catalog Catalog, logger zerolog.Logger) *Extractor {
	return &Extractor{
		catalog: catalog,
		logger:  logger,
	}
}

// ExtractSchema extracts the column names for the specified tables.
// If tables is empty, extracts all base tables the catalog lists. Requested
// names are checked against the listing, so views and unknown names are
// reported as failures with ErrTableNotFound; repeated names are read once.
func (e *Extractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Report, error) {
	listed, err := e.catalog.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}

	e.logger.Debug().Int("tables", len(listed)).Msg("Listed base tables")

	tableNames := listed
	if len(tables) > 0 {
		tableNames = uniqueNames(tables)
	}

	baseTables := make(map[string]bool, len(listed))
	for _, name := range listed {
		baseTables[name] = true
	}

	report := &schema.Report{Results: make([]schema.TableResult, 0, len(tableNames))}
	for _, tableName := range tableNames {
		if !baseTables[tableName] {
			err := fmt.Errorf("%w: %s is not a base table", ErrTableNotFound, tableName)
			e.logger.Warn().Str("table", tableName).Err(err).Msg("Skipping requested table")
			report.Add(schema.TableResult{Name: tableName, Err: err})
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("extraction aborted before table %s: %w", tableName, err)
		}

		columns, err := e.catalog.DescribeTable(ctx, tableName)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("extraction aborted at table %s: %w", tableName, ctx.Err())
			}
			e.logger.Warn().Str("table", tableName).Err(err).Msg("Failed to read table, skipping")
			report.Add(schema.TableResult{Name: tableName, Err: err})
			continue
		}

		if columns == nil {
			columns = []string{}
		}
		e.logger.Debug().Str("table", tableName).Int("columns", len(columns)).Msg("Read table")
		report.Add(schema.TableResult{Name: tableName, Columns: columns})
	}

	return report, nil
}

// uniqueNames drops repeated names, keeping the first occurrence
func uniqueNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		unique = append(unique, name)
	}
	return unique
}
