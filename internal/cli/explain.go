package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/dbcore/internal/query"
	"github.com/roach88/dbcore/internal/querysql"
)

// ExplainResult describes a compiled search.
type ExplainResult struct {
	SQL        string   `json:"sql"`
	Params     []any    `json:"params"`
	PostFilter bool     `json:"post_filter"`
	PostSort   bool     `json:"post_sort"`
	Slow       []string `json:"slow,omitempty"`
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	qopts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Show the SQL a search compiles to",
		Long: `Compile a search and print the statement without running it.

Reports which parts of the search fall back to in-memory matching or
sorting, and why. No database is opened.

Examples:
  dbcore explain --where numeric:year=1990..1999 --sort artist
  dbcore explain --where regexp:title=^Love --any beatles --or
  dbcore explain --where mood=calm --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(rootOpts, qopts, cmd)
		},
	}

	addQueryFlags(cmd, qopts)
	return cmd
}

func runExplain(opts *RootOptions, qopts *QueryOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	schema := cfg.Schema()
	q, s, err := qopts.build(schema, cfg.SearchFields)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid search", err)
	}

	builder, err := querysql.NewBuilder(schema.Table)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid table", err)
	}
	stmt := builder.Build(q, s)

	result := ExplainResult{
		SQL:        stmt.SQL,
		Params:     stmt.Params,
		PostFilter: stmt.PostFilter,
		PostSort:   stmt.PostSort,
	}
	if q != nil {
		result.Slow = query.Analyze(q).Slow
	}

	return newFormatter(opts, cmd).Explain(result)
}
