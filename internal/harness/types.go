package harness

// Kinds of expressions a scenario can evaluate.
const (
	KindFilter = "filter"
	KindQuery  = "query"
	KindFormat = "format"
)

// Result contains the outcome of running a scenario.
type Result struct {
	// Pass indicates that every expectation held.
	Pass bool `json:"pass"`

	// Output holds the rendered lines, in record order.
	Output []string `json:"output"`

	// Errors lists failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing Result with no output.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Output: []string{},
		Errors: []string{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
