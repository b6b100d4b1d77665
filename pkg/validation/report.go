package validation

import "context"

// Severity classifies an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single finding attached to an element. ElementID is empty for
// ontology-level findings.
type Issue struct {
	ElementID    string
	ElementLabel string
	Severity     Severity
	Message      string
}

// Suggestion is an optional improvement. Remediation, when set, applies
// the suggestion.
type Suggestion struct {
	Message     string
	Remediation func(ctx context.Context) error
}

// Fixable reports whether s carries a remediation.
func (s Suggestion) Fixable() bool { return s.Remediation != nil }

// Report is the result of one validation run. Findings are ordered by rule
// and then by element order in the ontology.
type Report struct {
	IsValid     bool
	Errors      []Issue
	Warnings    []Issue
	Suggestions []Suggestion
}

// Issues returns errors followed by warnings.
func (r *Report) Issues() []Issue {
	out := make([]Issue, 0, len(r.Errors)+len(r.Warnings))
	out = append(out, r.Errors...)
	return append(out, r.Warnings...)
}
