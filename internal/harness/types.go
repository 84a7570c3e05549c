package harness

// CaseResult is the observed outcome of one query case.
type CaseResult struct {
	Query  string `json:"query"`
	Strict bool   `json:"strict,omitempty"`

	// Filter is the String form of the combined filter, "" when the query
	// bound no clause.
	Filter string `json:"filter"`

	// Text is the residual free text.
	Text string `json:"text"`

	// Error is the parse error message. When set, no other field but Query
	// and Strict is filled.
	Error string `json:"error,omitempty"`

	// Matches holds the ids of matching documents. Nil when the scenario has
	// no documents or the filter cannot run on SQLite.
	Matches []string `json:"matches,omitempty"`

	// MatchError explains why Matches is nil for a scenario with documents.
	MatchError string `json:"match_error,omitempty"`

	// Rendered maps each backend named in the case's expectations to its
	// output or render error.
	Rendered map[string]string `json:"rendered,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every case met its expectations.
	Pass bool `json:"pass"`

	// Cases holds one entry per scenario case, in order.
	Cases []CaseResult `json:"cases"`

	// Errors contains failed expectation messages.
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

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
