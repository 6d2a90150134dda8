package harness

// CaseTrace records what one case did on both search paths.
type CaseTrace struct {
	Name string `json:"name"`

	// SQL and Params are the statement the engine executed.
	SQL    string `json:"sql"`
	Params []any  `json:"params"`

	PostFilter bool `json:"post_filter"`
	PostSort   bool `json:"post_sort"`

	// Compiled are the ids the engine returned, in order.
	Compiled []int64 `json:"compiled"`

	// InMemory are the ids selected by matching every stored record.
	InMemory []int64 `json:"in_memory"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every case met its expectations.
	Pass bool `json:"pass"`

	// Trace holds one entry per case, in scenario order.
	Trace []CaseTrace `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []CaseTrace{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddCaseTrace appends a case to the trace.
func (r *Result) AddCaseTrace(c CaseTrace) {
	r.Trace = append(r.Trace, c)
}
