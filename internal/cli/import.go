package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/dbcore/internal/engine"
	"github.com/roach88/dbcore/internal/record"
	"github.com/roach88/dbcore/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
}

// ImportResult is the payload of import.
type ImportResult struct {
	Imported int     `json:"imported"`
	IDs      []int64 `json:"ids"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <records.yaml>",
		Short: "Add records to the library",
		Long: `Add records from a YAML file to the library database.

The file holds a list of field maps. Fields that are columns of the item
table are stored there; every other field becomes a flexible attribute.
Records are stored in order and the import stops at the first failure.

Example file:
  - { title: Help!, artist: The Beatles, year: 1965, mood: upbeat }
  - { title: Hyperballad, artist: Björk, year: 1995 }

Examples:
  dbcore import --db ./library.db records.yaml
  dbcore import -c library.yaml records.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from configuration)")

	return cmd
}

func runImport(opts *ImportOptions, file string, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg, opts.RootOptions, cmd.ErrOrStderr()); err != nil {
		return err
	}

	records, err := loadRecords(file)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read records", err)
	}

	path := opts.Database
	if path == "" {
		path = cfg.Database
	}
	st, err := store.Open(path, cfg.Schema())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	eng, err := engine.New(st)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create engine", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ids, err := eng.Import(ctx, records)
	if err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("import stopped after %d record(s)", len(ids)), err)
	}

	return newFormatter(opts.RootOptions, cmd).Imported(ids)
}

// loadRecords reads a YAML list of field maps.
func loadRecords(path string) ([]record.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var docs []map[string]any
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	records := make([]record.Record, len(docs))
	for i, doc := range docs {
		r, err := record.FromMap(doc)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records[i] = r
	}
	return records, nil
}
