package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/dbcore/internal/engine"
	"github.com/roach88/dbcore/internal/store"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	QueryOptions
	Database string
	MaxScan  int

	// SearchIDGenerator allows overriding the search id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	SearchIDGenerator engine.SearchIDGenerator
}

// SearchRecord is a record as printed by search.
type SearchRecord struct {
	ID     int64          `json:"id"`
	Fields map[string]any `json:"fields"`
}

// SearchResult is the JSON payload of search.
type SearchResult struct {
	Records    []SearchRecord `json:"records"`
	SQL        string         `json:"sql"`
	PostFilter bool           `json:"post_filter"`
	PostSort   bool           `json:"post_sort"`
	Scanned    int            `json:"scanned"`
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the library",
		Long: `Search the library database and print the matching records.

The database path comes from --db, or from the configuration when --db is
not set.

Examples:
  dbcore search --db ./library.db --where substring:artist=beatles --sort year
  dbcore search -c library.yaml --where mood=calm --max-scan 10000
  dbcore search --db ./library.db --any love --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(opts, cmd)
		},
	}

	addQueryFlags(cmd, &opts.QueryOptions)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from configuration)")
	cmd.Flags().IntVar(&opts.MaxScan, "max-scan", engine.DefaultMaxScan, "fail slow searches that scan more rows (0 = no limit)")

	return cmd
}

func runSearch(opts *SearchOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg, opts.RootOptions, cmd.ErrOrStderr()); err != nil {
		return err
	}

	q, s, err := opts.build(cfg.Schema(), cfg.SearchFields)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid search", err)
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

	engineOpts := []engine.EngineOption{engine.WithMaxScan(opts.MaxScan)}
	if opts.SearchIDGenerator != nil {
		engineOpts = append(engineOpts, engine.WithSearchIDGenerator(opts.SearchIDGenerator))
	}
	eng, err := engine.New(st, engineOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create engine", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := eng.Search(ctx, q, s)
	if err != nil {
		return WrapExitError(ExitFailure, "search failed", err)
	}

	return newFormatter(opts.RootOptions, cmd).Records(res)
}
