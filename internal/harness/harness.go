package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/dbcore/internal/config"
	"github.com/roach88/dbcore/internal/engine"
	"github.com/roach88/dbcore/internal/query"
	"github.com/roach88/dbcore/internal/record"
	"github.com/roach88/dbcore/internal/sorting"
	"github.com/roach88/dbcore/internal/store"
	"github.com/roach88/dbcore/internal/testutil"
)

// Harness is the test execution engine.
// It runs the cases of one scenario against one store.
type Harness struct {
	store        *store.Store
	engine       *engine.Engine
	searchFields []string
	all          []record.Record
	logger       *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// A fixed search id keeps traces reproducible.
//
// Execution flow:
// 1. Create fresh in-memory database with the scenario's columns
// 2. Store the records in order
// 3. Run every case on the engine and in memory
// 4. Return result with pass/fail, trace, and errors
func Run(scenario *Scenario) (*Result, error) {
	cfg := config.Default()
	if len(scenario.Columns) > 0 {
		cfg.Columns = scenario.Columns
	}
	if len(scenario.SearchFields) > 0 {
		cfg.SearchFields = scenario.SearchFields
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid columns: %w", err)
	}

	st, err := store.Open(":memory:", cfg.Schema())
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	eng, err := engine.New(st, engine.WithSearchIDGenerator(testutil.NewFixedSearchID(scenario.SearchID)))
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	h := &Harness{
		store:        st,
		engine:       eng,
		searchFields: cfg.SearchFields,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	ctx := context.Background()
	if err := h.load(ctx, scenario.Records); err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	result := NewResult()
	for i, c := range scenario.Cases {
		trace, err := h.runCase(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("case %d (%s): %w", i, c.Name, err)
		}
		result.AddCaseTrace(trace)
		for _, e := range checkCase(c, trace) {
			result.AddError(e.Error())
		}
		h.logger.Info("case completed",
			"case", c.Name,
			"post_filter", trace.PostFilter,
			"post_sort", trace.PostSort,
			"compiled", len(trace.Compiled),
			"in_memory", len(trace.InMemory))
	}
	return result, nil
}

// load stores the records and keeps a copy of everything read back, so
// in-memory matching sees the values the store returns.
func (h *Harness) load(ctx context.Context, fields []map[string]any) error {
	records := make([]record.Record, len(fields))
	for i, f := range fields {
		r, err := record.FromMap(f)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		records[i] = r
	}
	if _, err := h.engine.Import(ctx, records); err != nil {
		return err
	}

	all, err := h.store.Execute(ctx, h.engine.Plan(nil, nil))
	if err != nil {
		return fmt.Errorf("read back: %w", err)
	}
	h.all = all
	return nil
}

// runCase searches through the engine, then repeats the search by matching
// every stored record in memory.
func (h *Harness) runCase(ctx context.Context, c Case) (CaseTrace, error) {
	q, err := h.buildQuery(c)
	if err != nil {
		return CaseTrace{}, err
	}
	s, err := sorting.Parse(c.Sort, h.store.Schema())
	if err != nil {
		return CaseTrace{}, err
	}

	res, err := h.engine.Search(ctx, q, s)
	if err != nil {
		return CaseTrace{}, err
	}

	var matched []record.Record
	for _, r := range h.all {
		if q == nil || q.Match(r) {
			matched = append(matched, r)
		}
	}
	if s != nil {
		s.Sort(matched)
	}

	return CaseTrace{
		Name:       c.Name,
		SQL:        res.Statement.SQL,
		Params:     res.Statement.Params,
		PostFilter: res.Statement.PostFilter,
		PostSort:   res.Statement.PostSort,
		Compiled:   ids(res.Records),
		InMemory:   ids(matched),
	}, nil
}

// buildQuery joins the case's terms, its any-field search and its query
// tree.
func (h *Harness) buildQuery(c Case) (query.Query, error) {
	qs, err := query.ParseTerms(c.Where, h.engine.Fast)
	if err != nil {
		return nil, err
	}
	if c.Any != "" {
		anyField, err := query.NewAnyFieldQuery(c.Any, h.searchFields, query.KindSubstring)
		if err != nil {
			return nil, err
		}
		qs = append(qs, anyField)
	}
	if c.Query != nil {
		tree, err := h.buildNode(*c.Query)
		if err != nil {
			return nil, err
		}
		qs = append(qs, tree)
	}
	return query.Combine(c.Or, qs...)
}

func (h *Harness) buildNode(n Node) (query.Query, error) {
	if n.Term != "" {
		t, err := query.ParseTerm(n.Term)
		if err != nil {
			return nil, err
		}
		return t.Build(h.engine.Fast)
	}

	children := n.And
	if n.Or != nil {
		children = n.Or
	}
	subs := make([]query.Query, 0, len(children))
	for _, child := range children {
		q, err := h.buildNode(child)
		if err != nil {
			return nil, err
		}
		subs = append(subs, q)
	}
	if n.Or != nil {
		return query.NewOrQuery(subs...)
	}
	return query.NewAndQuery(subs...)
}

func ids(records []record.Record) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
