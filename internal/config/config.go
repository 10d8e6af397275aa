package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default output paths
const (
	DefaultJSONPath = "schema.json"
	DefaultSQLPath  = "estructura_generada.sql"
)

// Supported drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the connection and output settings of one run
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Output   OutputConfig   `yaml:"output"`
}

// DatabaseConfig identifies the database to extract.
// URL, when set, takes precedence over the individual fields.
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Schema   string `yaml:"schema"`
}

// OutputConfig holds the destination files.
// The SQL script is written to SQLPath unless SkipSQL is set.
type OutputConfig struct {
	JSONPath string `yaml:"json"`
	SQLPath  string `yaml:"sql"`
	SkipSQL  bool   `yaml:"skip_sql"`
}

// Default returns the settings used when nothing else is configured
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:   DriverMySQL,
			Host:     "localhost",
			Port:     3306,
			User:     "root",
			Password: "root",
			Name:     "erp_local",
		},
		Output: OutputConfig{
			JSONPath: DefaultJSONPath,
			SQLPath:  DefaultSQLPath,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file,
// a .env file in the working directory if present, and SCHEMA_* environment
// variables, in that order. The process environment wins over .env and is
// never modified.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	dotenv, err := readDotenv(".env")
	if err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(envLookup(dotenv)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readDotenv parses a .env file without exporting it; a missing file is empty
func readDotenv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

func envLookup(dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	setString := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	setString("SCHEMA_DB_URL", &c.Database.URL)
	setString("SCHEMA_DB_DRIVER", &c.Database.Driver)
	setString("SCHEMA_DB_HOST", &c.Database.Host)
	setString("SCHEMA_DB_USER", &c.Database.User)
	setString("SCHEMA_DB_PASSWORD", &c.Database.Password)
	setString("SCHEMA_DB_NAME", &c.Database.Name)
	setString("SCHEMA_DB_SCHEMA", &c.Database.Schema)
	setString("SCHEMA_JSON_OUT", &c.Output.JSONPath)
	setString("SCHEMA_SQL_OUT", &c.Output.SQLPath)

	if v, ok := lookup("SCHEMA_DB_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SCHEMA_DB_PORT must be a number: %w", err)
		}
		c.Database.Port = port
	}
	if v, ok := lookup("SCHEMA_SKIP_SQL"); ok {
		skip, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SCHEMA_SKIP_SQL must be a boolean: %w", err)
		}
		c.Output.SkipSQL = skip
	}
	return nil
}

// Validate checks that the configuration can produce a connection URL
func (c *Config) Validate() error {
	if c.Output.JSONPath == "" {
		return errors.New("output.json is required")
	}
	if c.Output.SQLPath == "" && !c.Output.SkipSQL {
		return errors.New("output.sql is required unless output.skip_sql is set")
	}
	if c.Database.URL != "" {
		return nil
	}

	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres:
		if c.Database.Host == "" {
			return errors.New("database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("database.port %d is out of range", c.Database.Port)
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("database.driver must be one of mysql, postgres, sqlite (got %q)", c.Database.Driver)
	}

	if c.Database.Name == "" {
		return errors.New("database.name is required")
	}
	return nil
}

// DatabaseURL returns the connection URL understood by schemaextract.ExtractSchema
func (c *Config) DatabaseURL() (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	d := c.Database
	if d.URL != "" {
		return d.URL, nil
	}

	switch d.Driver {
	case DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = d.User
		mc.Passwd = d.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
		mc.DBName = d.Name
		return "mysql://" + mc.FormatDSN(), nil
	case DriverPostgres:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(d.User, d.Password),
			Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
			Path:   "/" + d.Name,
		}
		return u.String(), nil
	default:
		return "sqlite://" + d.Name, nil
	}
}
