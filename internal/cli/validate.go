package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dbcore/internal/config"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool     `json:"valid"`
	Table   string   `json:"table,omitempty"`
	Columns []string `json:"columns,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [config.yaml]",
		Short: "Validate a library configuration",
		Long: `Check a library configuration without opening its database.

Reads the file given as argument, or --config when no argument is given.
Checks column names and types, search fields, and logger settings.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rootOpts.ConfigPath
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(rootOpts, path, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if path == "" {
		return NewExitError(ExitCommandError, "no configuration given: pass a file or --config")
	}
	formatter.Debugf("validating %s", path)

	cfg, err := config.Load(path)
	if err != nil {
		result := ValidationResult{Valid: false, Error: err.Error()}
		if outErr := formatter.Failure("E_INVALID_CONFIG", "configuration invalid", result); outErr != nil {
			return outErr
		}
		if opts.Format != "json" {
			fmt.Fprintf(cmd.OutOrStdout(), "✗ %s\n  %v\n", path, err)
		}
		return WrapExitError(ExitFailure, "configuration invalid", err)
	}

	schema := cfg.Schema()
	if opts.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:   true,
			Table:   schema.Table,
			Columns: schema.ColumnNames(),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: table %s, %d column(s)\n", path, schema.Table, len(schema.Columns))
	return nil
}
