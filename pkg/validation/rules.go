package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/ontoforge/pkg/ontology"
	"github.com/matzehuels/ontoforge/pkg/vocabulary"
)

// rule inspects an ontology and appends findings to the report.
type rule struct {
	name  string
	check func(o *ontology.Ontology, r *Report, fix Fixer)
}

// Fixer registers custom relationship types on behalf of remediations.
// *vocabulary.Registry implements it.
type Fixer interface {
	Has(token string) bool
	AddCustomRelationshipType(token string) error
}

var rules = []rule{
	// Errors
	{"ontology-name", checkOntologyName},
	{"duplicate-ids", checkDuplicateIDs},
	{"dangling-edges", checkDanglingEdges},
	{"unlabeled-nodes", checkUnlabeledNodes},
	{"untyped-relationships", checkUntypedRelationships},
	{"strength-range", checkStrengthRange},
	{"standard-as-custom", checkStandardAsCustom},

	// Warnings
	{"isolated-entities", checkIsolatedEntities},
	{"duplicate-labels", checkDuplicateLabels},
	{"orphaned-types", checkOrphanedTypes},
	{"self-loops", checkSelfLoops},
	{"empty-notes", checkEmptyNotes},

	// Suggestions
	{"suggest-description", suggestDescription},
	{"suggest-namespace", suggestNamespace},
	{"suggest-register-orphans", suggestRegisterOrphans},
	{"suggest-entity-descriptions", suggestEntityDescriptions},
}

func nodeIssue(n ontology.Node, sev Severity, format string, args ...any) Issue {
	return Issue{ElementID: n.ID, ElementLabel: n.DisplayLabel(), Severity: sev, Message: fmt.Sprintf(format, args...)}
}

func edgeIssue(e ontology.Edge, sev Severity, format string, args ...any) Issue {
	label := e.Data.RelationshipType.Token()
	if label == "" {
		label = e.ID
	}
	return Issue{ElementID: e.ID, ElementLabel: label, Severity: sev, Message: fmt.Sprintf(format, args...)}
}

// =============================================================================
// Errors
// =============================================================================

func checkOntologyName(o *ontology.Ontology, r *Report, _ Fixer) {
	if strings.TrimSpace(o.Name) == "" {
		r.Errors = append(r.Errors, Issue{Severity: SeverityError, Message: "Ontology has no name"})
	}
}

func checkDuplicateIDs(o *ontology.Ontology, r *Report, _ Fixer) {
	seen := make(map[string]bool, len(o.Nodes))
	for _, n := range o.Nodes {
		if seen[n.ID] {
			r.Errors = append(r.Errors, nodeIssue(n, SeverityError, "Duplicate node ID %q", n.ID))
		}
		seen[n.ID] = true
	}
	seen = make(map[string]bool, len(o.Edges))
	for _, e := range o.Edges {
		if seen[e.ID] {
			r.Errors = append(r.Errors, edgeIssue(e, SeverityError, "Duplicate edge ID %q", e.ID))
		}
		seen[e.ID] = true
	}
}

func checkDanglingEdges(o *ontology.Ontology, r *Report, _ Fixer) {
	for _, e := range o.Edges {
		if !o.HasNode(e.Source) {
			r.Errors = append(r.Errors, edgeIssue(e, SeverityError, "Edge source %q does not exist", e.Source))
		}
		if !o.HasNode(e.Target) {
			r.Errors = append(r.Errors, edgeIssue(e, SeverityError, "Edge target %q does not exist", e.Target))
		}
	}
}

func checkUnlabeledNodes(o *ontology.Ontology, r *Report, _ Fixer) {
	for _, n := range o.Nodes {
		if strings.TrimSpace(n.Data.Label) != "" {
			continue
		}
		switch n.Kind {
		case ontology.NodeKindEntity:
			r.Errors = append(r.Errors, nodeIssue(n, SeverityError, "Entity has no label"))
		case ontology.NodeKindDataProperty:
			r.Errors = append(r.Errors, nodeIssue(n, SeverityError, "Data property has no label"))
		}
	}
}

func checkUntypedRelationships(o *ontology.Ontology, r *Report, _ Fixer) {
	for _, e := range o.Edges {
		if e.Kind == ontology.EdgeKindRelationship && e.Data.RelationshipType.IsZero() {
			r.Errors = append(r.Errors, edgeIssue(e, SeverityError, "Relationship has no type"))
		}
	}
}

func checkStrengthRange(o *ontology.Ontology, r *Report, _ Fixer) {
	for _, e := range o.Edges {
		if s := e.Data.Strength; s < 0 || s > 1 {
			r.Errors = append(r.Errors, edgeIssue(e, SeverityError, "Strength %g is outside [0, 1]", s))
		}
	}
}

func checkStandardAsCustom(o *ontology.Ontology, r *Report, _ Fixer) {
	for _, tok := range o.CustomRelationshipTypes {
		if ontology.IsStandardToken(tok) {
			r.Errors = append(r.Errors, Issue{ElementLabel: tok, Severity: SeverityError,
				Message: fmt.Sprintf("Standard relationship type %q is listed as custom", tok)})
		}
	}
}

// =============================================================================
// Warnings
// =============================================================================

func checkIsolatedEntities(o *ontology.Ontology, r *Report, _ Fixer) {
	touched := make(map[string]bool, len(o.Nodes))
	for _, e := range o.Edges {
		touched[e.Source] = true
		touched[e.Target] = true
	}
	for _, n := range o.Nodes {
		if n.Kind == ontology.NodeKindEntity && !touched[n.ID] {
			r.Warnings = append(r.Warnings, nodeIssue(n, SeverityWarning, "Entity is not connected to anything"))
		}
	}
}

func checkDuplicateLabels(o *ontology.Ontology, r *Report, _ Fixer) {
	first := make(map[string]string)
	for _, n := range o.Nodes {
		if n.Kind != ontology.NodeKindEntity || n.Data.Label == "" {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(n.Data.Label))
		if id, ok := first[key]; ok {
			r.Warnings = append(r.Warnings, nodeIssue(n, SeverityWarning, "Entity label duplicates %q", id))
			continue
		}
		first[key] = n.ID
	}
}

func checkOrphanedTypes(o *ontology.Ontology, r *Report, _ Fixer) {
	for _, e := range o.Edges {
		rt := e.Data.RelationshipType
		if rt.IsCustom() && !o.HasCustomRelationshipType(rt.Token()) {
			r.Warnings = append(r.Warnings, edgeIssue(e, SeverityWarning, "Relationship type %q is not registered", rt.Token()))
		}
	}
}

func checkSelfLoops(o *ontology.Ontology, r *Report, _ Fixer) {
	for _, e := range o.Edges {
		if e.Kind == ontology.EdgeKindRelationship && e.Source == e.Target {
			r.Warnings = append(r.Warnings, edgeIssue(e, SeverityWarning, "Relationship points at its own source"))
		}
	}
}

func checkEmptyNotes(o *ontology.Ontology, r *Report, _ Fixer) {
	for _, n := range o.Nodes {
		if n.IsNote() && strings.TrimSpace(n.Data.Content) == "" {
			r.Warnings = append(r.Warnings, nodeIssue(n, SeverityWarning, "Note is empty"))
		}
	}
}

// =============================================================================
// Suggestions
// =============================================================================

func suggestDescription(o *ontology.Ontology, r *Report, _ Fixer) {
	if strings.TrimSpace(o.Description) == "" {
		r.Suggestions = append(r.Suggestions, Suggestion{Message: "Add a description to the ontology"})
	}
}

func suggestNamespace(o *ontology.Ontology, r *Report, _ Fixer) {
	if strings.TrimSpace(o.Namespace) == "" {
		r.Suggestions = append(r.Suggestions, Suggestion{Message: "Set a namespace IRI for the ontology"})
	}
}

func suggestRegisterOrphans(o *ontology.Ontology, r *Report, fix Fixer) {
	orphans := vocabulary.Orphaned(o)
	if len(orphans) == 0 {
		return
	}
	s := Suggestion{Message: fmt.Sprintf("Register custom relationship types: %s", strings.Join(orphans, ", "))}
	if fix != nil {
		s.Remediation = func(ctx context.Context) error {
			for _, tok := range orphans {
				if err := ctx.Err(); err != nil {
					return err
				}
				if fix.Has(tok) {
					continue
				}
				if err := fix.AddCustomRelationshipType(tok); err != nil {
					return err
				}
			}
			return nil
		}
	}
	r.Suggestions = append(r.Suggestions, s)
}

func suggestEntityDescriptions(o *ontology.Ontology, r *Report, _ Fixer) {
	var n int
	for _, node := range o.Nodes {
		if node.Kind == ontology.NodeKindEntity && strings.TrimSpace(node.Data.Description) == "" {
			n++
		}
	}
	switch {
	case n == 1:
		r.Suggestions = append(r.Suggestions, Suggestion{Message: "1 entity has no description"})
	case n > 1:
		r.Suggestions = append(r.Suggestions, Suggestion{Message: fmt.Sprintf("%d entities have no description", n)})
	}
}
