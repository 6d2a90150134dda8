package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when a case does not meet its expectations.
// It includes the case trace to help debug the failure.
type AssertionError struct {
	Case     string    // Case name
	Path     string    // "compiled", "in_memory" or "post_filter"
	Expected string    // Human-readable expected outcome
	Actual   string    // Human-readable actual outcome
	Trace    CaseTrace // Full case trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s (%s)\n", e.Case, e.Path)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	fmt.Fprintf(&buf, "  SQL: %s %v\n", e.Trace.SQL, e.Trace.Params)

	return buf.String()
}

// checkCase compares a case trace against the case's expectations and
// returns every mismatch.
func checkCase(c Case, trace CaseTrace) []error {
	var errs []error
	ordered := len(c.Sort) > 0

	if !sameIDs(c.ExpectIDs, trace.Compiled, ordered) {
		errs = append(errs, &AssertionError{
			Case:     c.Name,
			Path:     "compiled",
			Expected: fmt.Sprintf("ids %v", c.ExpectIDs),
			Actual:   fmt.Sprintf("ids %v", trace.Compiled),
			Trace:    trace,
		})
	}
	if !sameIDs(c.ExpectIDs, trace.InMemory, ordered) {
		errs = append(errs, &AssertionError{
			Case:     c.Name,
			Path:     "in_memory",
			Expected: fmt.Sprintf("ids %v", c.ExpectIDs),
			Actual:   fmt.Sprintf("ids %v", trace.InMemory),
			Trace:    trace,
		})
	}
	if c.ExpectPostFilter != nil && *c.ExpectPostFilter != trace.PostFilter {
		errs = append(errs, &AssertionError{
			Case:     c.Name,
			Path:     "post_filter",
			Expected: fmt.Sprintf("post_filter %t", *c.ExpectPostFilter),
			Actual:   fmt.Sprintf("post_filter %t", trace.PostFilter),
			Trace:    trace,
		})
	}
	return errs
}

// sameIDs compares id lists, in order when ordered is set and as sets
// otherwise.
func sameIDs(want, got []int64, ordered bool) bool {
	if ordered {
		return slices.Equal(want, got)
	}
	a, b := slices.Clone(want), slices.Clone(got)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}
