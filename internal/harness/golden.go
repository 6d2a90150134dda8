package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RenderTrace formats a scenario trace as stable text for golden files.
//
// Format:
//
//	scenario: <name>
//	case: <case name>
//	  sql: <statement>
//	  param 0: <go type> <value>
//	  post_filter: <bool>
//	  post_sort: <bool>
//	  compiled: [<ids>]
//	  in_memory: [<ids>]
func RenderTrace(scenarioName string, result *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", scenarioName)
	for _, c := range result.Trace {
		fmt.Fprintf(&b, "case: %s\n", c.Name)
		fmt.Fprintf(&b, "  sql: %s\n", c.SQL)
		for i, p := range c.Params {
			fmt.Fprintf(&b, "  param %d: %T %v\n", i, p, p)
		}
		fmt.Fprintf(&b, "  post_filter: %t\n", c.PostFilter)
		fmt.Fprintf(&b, "  post_sort: %t\n", c.PostSort)
		fmt.Fprintf(&b, "  compiled: %v\n", c.Compiled)
		fmt.Fprintf(&b, "  in_memory: %v\n", c.InMemory)
	}
	return []byte(b.String())
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, RenderTrace(scenarioName, result))
}
