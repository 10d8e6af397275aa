package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tordrt/schemaextract"
	"github.com/tordrt/schemaextract/internal/config"
	"github.com/tordrt/schemaextract/internal/formatter"
	"github.com/tordrt/schemaextract/internal/schema"
)

var (
	dbURL      string
	configPath string
	jsonOut    string
	sqlOut     string
	noSQL      bool
	tables     string
	exclude    string
	schemaName string
	printText  bool
	strict     bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "schemaextract",
	Short: "Export database tables and columns as JSON and SQL",
	Long: `schemaextract lists the base tables of a MySQL, PostgreSQL or SQLite database,
reads their column names and writes them to a JSON file. It also writes an
approximate CREATE TABLE script in which id columns are INT primary keys and
every other column is TEXT.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&dbURL, "db-url", "", "Database URL (mysql://, postgres:// or sqlite://); overrides --config")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.Flags().StringVar(&jsonOut, "json-out", config.DefaultJSONPath, "JSON output file")
	rootCmd.Flags().StringVar(&sqlOut, "sql-out", config.DefaultSQLPath, "SQL output file")
	rootCmd.Flags().BoolVar(&noSQL, "no-sql", false, "Skip writing the SQL script")
	rootCmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	rootCmd.Flags().StringVarP(&exclude, "exclude", "x", "", "Tables to leave out of the outputs (comma-separated)")
	rootCmd.Flags().StringVarP(&schemaName, "schema", "s", "", "PostgreSQL schema or MySQL database to read")
	rootCmd.Flags().BoolVar(&printText, "print", false, "Also print the extracted tables to stdout")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error if any table could not be read")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every table")
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger := newLogger(cmd.ErrOrStderr(), verbose)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	url, err := cfg.DatabaseURL()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	opts := &schemaextract.Options{
		Tables:     parseTableList(tables),
		SchemaName: cfg.Database.Schema,
		Logger:     &logger,
	}

	report, err := schemaextract.ExtractSchema(ctx, url, opts)
	if err != nil {
		return err
	}

	s := report.Schema()
	schemaextract.FilterExcludedTables(s, parseTableList(exclude))

	outOpts := &schemaextract.OutputOptions{JSONPath: cfg.Output.JSONPath}
	if !cfg.Output.SkipSQL {
		outOpts.SQLPath = cfg.Output.SQLPath
	}
	if err := schemaextract.WriteOutputs(s, outOpts); err != nil {
		return err
	}

	if printText {
		if err := formatter.NewTextFormatter(cmd.OutOrStdout()).Format(s); err != nil {
			return fmt.Errorf("failed to print schema: %w", err)
		}
	}

	failures := report.Failures()
	event := logger.Info().
		Int("tables", len(s.Tables)).
		Int("failed", len(failures)).
		Str("json", outOpts.JSONPath)
	if outOpts.SQLPath != "" {
		event = event.Str("sql", outOpts.SQLPath)
	}
	event.Msg("Schema exported")

	if strict && len(failures) > 0 {
		return fmt.Errorf("%d table(s) could not be read: %s", len(failures), failedNames(failures))
	}
	return nil
}

// loadConfig merges the config file and environment with explicitly set flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if flags.Changed("json-out") {
		cfg.Output.JSONPath = jsonOut
	}
	if flags.Changed("sql-out") {
		cfg.Output.SQLPath = sqlOut
	}
	if noSQL {
		cfg.Output.SkipSQL = true
	}
	if flags.Changed("schema") {
		cfg.Database.Schema = schemaName
	}
	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func parseTableList(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}

	var tableList []string
	for _, t := range strings.Split(list, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tableList = append(tableList, t)
		}
	}
	return tableList
}

func failedNames(failures []schema.TableResult) string {
	names := make([]string, 0, len(failures))
	for _, f := range failures {
		names = append(names, f.Name)
	}
	return strings.Join(names, ", ")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
