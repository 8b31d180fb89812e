package harness

import "github.com/roach88/yql/internal/yql"

// CaseResult is what one named query actually compiled to.
type CaseResult struct {
	Query    string        `json:"query"`
	ID       string        `json:"id,omitempty"` // catalog ID, valid queries only
	Kind     string        `json:"kind"`
	Valid    bool          `json:"valid"`
	Render   string        `json:"render,omitempty"`
	Findings []yql.Finding `json:"findings,omitempty"`
	Pass     bool          `json:"pass"`
	Errors   []string      `json:"errors,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every case matched its expectations.
	Pass bool `json:"pass"`

	// RunID identifies the catalog run that recorded the scenario's queries.
	RunID string `json:"run_id"`

	// Cases holds one entry per scenario case, in scenario order.
	Cases []CaseResult `json:"cases"`

	// Errors collects every case error, prefixed with the query name.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddCase appends c and folds its errors into the result.
func (r *Result) AddCase(c CaseResult) {
	r.Cases = append(r.Cases, c)
	for _, err := range c.Errors {
		r.AddError(c.Query + ": " + err)
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
