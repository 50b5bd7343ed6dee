package domain

import "context"

// Severity grades a rule violation.
type Severity string

// Violation severities. Blocking violations abort the stratum run.
const (
	SeverityBlock Severity = "block"
	SeverityWarn  Severity = "warn"
	SeverityLog   Severity = "log"
)

// Violation describes a single rule finding for a stratum input.
type Violation struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Stratum  Stratum  `json:"stratum"`
	Message  string   `json:"message"`
}

// Result aggregates violations from rule evaluation.
type Result struct {
	Violations []Violation `json:"violations,omitempty"`
}

// Merge appends the violations of another result.
func (r *Result) Merge(other Result) {
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking reports whether any violation carries SeverityBlock.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// StudyView provides read-only access to one stratum's inputs for rule
// evaluation.
type StudyView interface {
	Stratum() Stratum
	Matrix() ExpressionMatrix
	Design() SampleDesign
	Contrasts() []Contrast
}

// Rule defines a validation executed against a stratum input before fitting.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view StudyView) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, view StudyView) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}
