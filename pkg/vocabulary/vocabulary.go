// Package vocabulary describes the standard relationship vocabulary and
// manages an ontology's custom relationship types.
//
// The standard tokens are fixed. Custom tokens live on the ontology itself
// (Ontology.CustomRelationshipTypes) and are edited through a [Registry]
// bound to the ontology's graph store.
package vocabulary

import (
	"strings"
	"unicode"

	"github.com/matzehuels/ontoforge/pkg/ontology"
)

// Style is the visual treatment hosts apply to edges of a relationship type.
type Style struct {
	Dashed bool
	Color  string
}

// Info describes a relationship type for display.
type Info struct {
	Type        ontology.RelationshipType
	Label       string
	Description string
	Style       Style
	Custom      bool
}

var standards = map[ontology.StandardRelationship]Info{
	ontology.RelIsA: {
		Label:       "is a",
		Description: "Subclass relationship: every instance of the source is an instance of the target.",
		Style:       Style{Color: "#2563eb"},
	},
	ontology.RelPartOf: {
		Label:       "part of",
		Description: "The source is a component of the target.",
		Style:       Style{Color: "#059669"},
	},
	ontology.RelHasPart: {
		Label:       "has part",
		Description: "The target is a component of the source.",
		Style:       Style{Color: "#059669"},
	},
	ontology.RelHasProperty: {
		Label:       "has property",
		Description: "The source is described by the target data property.",
		Style:       Style{Color: "#7c3aed"},
	},
	ontology.RelRelatesTo: {
		Label:       "relates to",
		Description: "A general association with no further semantics.",
		Style:       Style{Color: "#64748b"},
	},
	ontology.RelDependsOn: {
		Label:       "depends on",
		Description: "The source requires the target.",
		Style:       Style{Color: "#d97706"},
	},
	ontology.RelInstanceOf: {
		Label:       "instance of",
		Description: "The source is an individual of the target class.",
		Style:       Style{Color: "#0891b2"},
	},
	ontology.RelEquivalentTo: {
		Label:       "equivalent to",
		Description: "Source and target denote the same concept.",
		Style:       Style{Color: "#db2777"},
	},
	ontology.RelDisjointWith: {
		Label:       "disjoint with",
		Description: "No individual can be an instance of both source and target.",
		Style:       Style{Color: "#dc2626"},
	},
	ontology.RelAnnotates: {
		Label:       "annotates",
		Description: "A note attached to the element it comments on.",
		Style:       Style{Dashed: true, Color: "#a3a3a3"},
	},
}

const customColor = "#475569"

// Standards returns display info for every standard relationship type in
// vocabulary order.
func Standards() []Info {
	all := ontology.StandardRelationships()
	out := make([]Info, len(all))
	for i, s := range all {
		out[i] = Describe(ontology.Standard(s))
	}
	return out
}

// Describe returns display info for rt. Custom types get a label derived
// from their token and a neutral style.
func Describe(rt ontology.RelationshipType) Info {
	if s, ok := rt.Standard(); ok {
		info := standards[s]
		info.Type = rt
		return info
	}
	return Info{
		Type:        rt,
		Label:       strings.ReplaceAll(rt.Token(), "_", " "),
		Description: "Custom relationship type.",
		Style:       Style{Color: customColor},
		Custom:      true,
	}
}

// Normalize turns user input into a relationship token: surrounding space
// is trimmed, letters are lower-cased, runs of spaces, hyphens and dots
// become a single underscore, and any other punctuation is dropped.
//
//	Normalize("  Works For ") == "works_for"
//	Normalize("co-author!")   == "co_author"
func Normalize(raw string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
		case r == '_' || r == '-' || r == '.' || unicode.IsSpace(r):
			pendingSep = true
		}
	}
	return b.String()
}
