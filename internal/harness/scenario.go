package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/dbcore/internal/config"
)

// Scenario defines a conformance scenario: records to store and cases to
// search for.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Columns replaces the default music library columns when set.
	Columns []config.ColumnConfig `yaml:"columns,omitempty"`

	// SearchFields replaces the default fields of "any" searches when set.
	SearchFields []string `yaml:"search_fields,omitempty"`

	// Records are stored in order before any case runs.
	Records []map[string]any `yaml:"records"`

	// Cases are the searches to check.
	Cases []Case `yaml:"cases"`

	// SearchID is an optional fixed search id for deterministic traces.
	// If empty, defaults to "test-search-default".
	SearchID string `yaml:"search_id,omitempty"`
}

// Case is one search and its expected outcome.
type Case struct {
	// Name identifies the case within the scenario.
	Name string `yaml:"name"`

	// Where holds "kind:field=pattern" terms.
	Where []string `yaml:"where,omitempty"`

	// Any is a substring searched for in every search field.
	Any string `yaml:"any,omitempty"`

	// Or joins the terms with OR instead of AND.
	Or bool `yaml:"or,omitempty"`

	// Query is a query tree joined with the terms.
	Query *Node `yaml:"query,omitempty"`

	// Sort holds "field[:asc|desc]" terms.
	Sort []string `yaml:"sort,omitempty"`

	// ExpectIDs are the ids both paths must select.
	ExpectIDs []int64 `yaml:"expect_ids"`

	// ExpectPostFilter, when set, is the expected compile outcome: true if
	// the filter must fall back to in-memory matching.
	ExpectPostFilter *bool `yaml:"expect_post_filter,omitempty"`
}

// Node is a query tree node. Exactly one of its fields is set.
type Node struct {
	Term string `yaml:"term,omitempty"`
	And  []Node `yaml:"and,omitempty"`
	Or   []Node `yaml:"or,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(bytes.NewReader(data))
}

// ParseScenario parses and validates a scenario document.
func ParseScenario(r io.Reader) (*Scenario, error) {
	// Reject unknown fields (catches typos like "expect_id:" vs "expect_ids:")
	var scenario Scenario
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Description == "" {
		return errors.New("description is required")
	}
	if len(s.Cases) == 0 {
		return errors.New("cases list is required and must be non-empty")
	}

	names := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if names[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate name %q", i, c.Name)
		}
		names[c.Name] = true
		if c.ExpectIDs == nil {
			return fmt.Errorf("cases[%d]: expect_ids is required (use [] for no matches)", i)
		}
		if c.Query != nil {
			if err := validateNode(*c.Query); err != nil {
				return fmt.Errorf("cases[%d].query: %w", i, err)
			}
		}
	}
	return nil
}

func validateNode(n Node) error {
	set := 0
	if n.Term != "" {
		set++
	}
	if n.And != nil {
		set++
	}
	if n.Or != nil {
		set++
	}
	if set != 1 {
		return errors.New("node must have exactly one of term, and, or")
	}
	for _, child := range append(n.And, n.Or...) {
		if err := validateNode(child); err != nil {
			return err
		}
	}
	return nil
}
