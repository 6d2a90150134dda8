// Package config loads the library description: where the database lives,
// what the item table looks like and how to log.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"gopkg.in/yaml.v3"

	"github.com/roach88/dbcore/internal/query"
	"github.com/roach88/dbcore/internal/store"
)

// Config describes one library: the SQLite file, the layout of its item
// and attribute tables, the fields searched by --any, and logging.
type Config struct {
	Database       string         `yaml:"database"`
	Table          string         `yaml:"table"`
	AttributeTable string         `yaml:"attribute_table"`
	Columns        []ColumnConfig `yaml:"columns"`
	SearchFields   []string       `yaml:"search_fields"`
	Logger         LoggerConfig   `yaml:"logger"`
}

// ColumnConfig is a native column of the item table. Type is a SQLite
// declared type: TEXT, INTEGER, REAL, NUMERIC or BLOB.
type ColumnConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// LoggerConfig selects the log handler. Level is debug, info, warn or
// error; Type is text, json or colored-text.
type LoggerConfig struct {
	Level string `yaml:"level"`
	Type  string `yaml:"type"`
}

// Default returns the configuration of a music library.
func Default() Config {
	return Config{
		Database:       "library.db",
		Table:          "items",
		AttributeTable: "item_attributes",
		Columns: []ColumnConfig{
			{Name: "title", Type: "TEXT"},
			{Name: "artist", Type: "TEXT"},
			{Name: "artist_sort", Type: "TEXT"},
			{Name: "album", Type: "TEXT"},
			{Name: "albumartist", Type: "TEXT"},
			{Name: "albumartist_sort", Type: "TEXT"},
			{Name: "genre", Type: "TEXT"},
			{Name: "year", Type: "INTEGER"},
			{Name: "track", Type: "INTEGER"},
			{Name: "length", Type: "REAL"},
			{Name: "bpm", Type: "INTEGER"},
			{Name: "comp", Type: "INTEGER"},
			{Name: "added", Type: "REAL"},
			{Name: "path", Type: "BLOB"},
		},
		SearchFields: []string{"artist", "title", "album", "albumartist", "genre"},
		Logger: LoggerConfig{
			Level: "info",
			Type:  "text",
		},
	}
}

// Load reads a YAML configuration file. Fields the file leaves out keep
// their Default values; unknown fields are an error.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML from r on top of Default and validates the result.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the schema, the search fields and the logger settings.
func (cfg Config) Validate() error {
	schema := cfg.Schema()
	if err := schema.Validate(); err != nil {
		return err
	}
	for _, f := range cfg.SearchFields {
		if !query.ValidField(f) {
			return fmt.Errorf("search field %q: %w", f, query.ErrInvalidField)
		}
	}
	if _, err := parseLevel(cfg.Logger.Level); err != nil {
		return err
	}
	switch cfg.Logger.Type {
	case "text", "json", "colored-text":
	default:
		return fmt.Errorf("invalid log type: %s", cfg.Logger.Type)
	}
	return nil
}

// Schema converts the table description for the store.
func (cfg Config) Schema() store.Schema {
	cols := make([]store.Column, len(cfg.Columns))
	for i, c := range cfg.Columns {
		cols[i] = store.Column{Name: c.Name, Type: c.Type}
	}
	return store.Schema{
		Table:          cfg.Table,
		AttributeTable: cfg.AttributeTable,
		Columns:        cols,
	}
}

// NewLogger builds the logger described by the configuration, writing to w.
func (cfg Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	return parseLoggerConfig(cfg.Logger, w)
}

func parseLoggerConfig(cfg LoggerConfig, w io.Writer) (*slog.Logger, error) {
	var handler slog.Handler

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	switch cfg.Type {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case "text":
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	case "colored-text":
		handler = tint.NewHandler(w, &tint.Options{Level: level})
	default:
		return nil, fmt.Errorf("invalid log type: %s", cfg.Type)
	}

	return slog.New(handler), nil
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", s)
	}
}
