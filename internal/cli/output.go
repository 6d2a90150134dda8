package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/dbcore/internal/engine"
	"github.com/roach88/dbcore/internal/record"
)

// Process exit codes.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the command ran and failed: search error, invalid configuration, failing scenarios
	ExitCommandError = 2 // the command could not run: bad flags, unreadable files
)

// ExitError is returned by commands that need a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError creates an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError creates an ExitError around err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps err to a process exit code. Errors that carry no
// ExitError exit with ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Response is the envelope of every --format json result.
type Response struct {
	Status   string         `json:"status"` // "ok" or "error"
	Data     any            `json:"data,omitempty"`
	Error    *ResponseError `json:"error,omitempty"`
	SearchID string         `json:"search_id,omitempty"`
}

// ResponseError describes why a response has status "error".
type ResponseError struct {
	Code    string `json:"code"` // E_TEST_FAILED, E_INVALID_CONFIG
	Message string `json:"message"`
}

// OutputFormatter prints command results as text or JSON. Diagnostics go
// to ErrWriter so that stdout stays parseable JSON.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func (f *OutputFormatter) isJSON() bool { return f.Format == "json" }

func (f *OutputFormatter) encode(resp Response) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// Success prints data. Text output is data's default format on one line.
func (f *OutputFormatter) Success(data any) error {
	if f.isJSON() {
		return f.encode(Response{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Failure prints an error response carrying data. It writes nothing in
// text mode; commands describe their own failures there.
func (f *OutputFormatter) Failure(code, message string, data any) error {
	if !f.isJSON() {
		return nil
	}
	return f.encode(Response{
		Status: "error",
		Data:   data,
		Error:  &ResponseError{Code: code, Message: message},
	})
}

// Debugf prints a diagnostic line when --verbose is set.
func (f *OutputFormatter) Debugf(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// Explain prints a compiled statement. Text output shows each parameter
// with its Go type, which decides how the driver binds it.
func (f *OutputFormatter) Explain(r ExplainResult) error {
	if f.isJSON() {
		return f.Success(r)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "SQL: %s\n", r.SQL)
	for i, p := range r.Params {
		fmt.Fprintf(&b, "  param %d: %T %v\n", i, p, p)
	}
	fmt.Fprintf(&b, "post_filter: %t\n", r.PostFilter)
	fmt.Fprintf(&b, "post_sort: %t\n", r.PostSort)
	for _, reason := range r.Slow {
		fmt.Fprintf(&b, "slow: %s\n", reason)
	}
	_, err := io.WriteString(f.Writer, b.String())
	return err
}

// Records prints the outcome of a search, one record per line in text
// mode. JSON output carries the search id for matching log lines.
func (f *OutputFormatter) Records(res engine.Result) error {
	if f.isJSON() {
		records := make([]SearchRecord, len(res.Records))
		for i, r := range res.Records {
			records[i] = SearchRecord{ID: r.ID, Fields: recordFields(r)}
		}
		return f.encode(Response{
			Status:   "ok",
			SearchID: res.SearchID,
			Data: SearchResult{
				Records:    records,
				SQL:        res.Statement.SQL,
				PostFilter: res.Statement.PostFilter,
				PostSort:   res.Statement.PostSort,
				Scanned:    res.Scanned,
			},
		})
	}
	for _, r := range res.Records {
		fmt.Fprintln(f.Writer, recordLine(r))
	}
	_, err := fmt.Fprintf(f.Writer, "%d record(s)\n", len(res.Records))
	return err
}

// Imported prints the ids assigned by an import.
func (f *OutputFormatter) Imported(ids []int64) error {
	if f.isJSON() {
		return f.Success(ImportResult{Imported: len(ids), IDs: ids})
	}
	return f.Success(fmt.Sprintf("imported %d record(s)", len(ids)))
}

// recordLine renders a record as its id followed by name="value" pairs in
// name order.
func recordLine(r record.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", r.ID)
	for _, k := range r.Keys() {
		v := r.Get(k)
		if record.IsMissing(v) {
			continue
		}
		fmt.Fprintf(&b, " %s=%q", k, record.AsString(v))
	}
	return b.String()
}

// recordFields returns the present fields of r as driver values.
func recordFields(r record.Record) map[string]any {
	fields := make(map[string]any, len(r.Fields))
	for _, k := range r.Keys() {
		v := r.Get(k)
		if record.IsMissing(v) {
			continue
		}
		fields[k] = record.Param(v)
	}
	return fields
}
