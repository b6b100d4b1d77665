package render

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/ontoforge/pkg/ontology"
	"github.com/matzehuels/ontoforge/pkg/vocabulary"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds entity types and property keys to node labels.
	Detailed bool
	// UsePositions pins nodes at their canvas coordinates instead of
	// letting Graphviz lay them out.
	UsePositions bool
}

// canvas units per Graphviz inch
const positionScale = 72.0

// ToDOT converts o to Graphviz DOT format.
func ToDOT(o *ontology.Ontology, opts Options) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", o.Name)
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=11];\n")
	buf.WriteString("\n")

	for _, n := range o.Nodes {
		attrs := nodeAttrs(n, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range o.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(o, e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n ontology.Node, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}
	var parts []string
	if n.Data.EntityType != "" {
		parts = append(parts, "type: "+n.Data.EntityType)
	}
	for _, k := range slices.Sorted(maps.Keys(n.Data.Properties)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Data.Properties[k]))
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func nodeAttrs(n ontology.Node, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
	switch n.Kind {
	case ontology.NodeKindEntity:
		attrs = append(attrs, "shape=box", "style=\"rounded,filled\"", "fillcolor=\"#dbeafe\"")
	case ontology.NodeKindDataProperty:
		attrs = append(attrs, "shape=ellipse", "style=filled", "fillcolor=\"#ede9fe\"")
	case ontology.NodeKindNote:
		attrs = append(attrs, "shape=note", "style=filled", "fillcolor=\"#fef9c3\"")
	case ontology.NodeKindExternalReference:
		attrs = append(attrs, "shape=box", "style=\"rounded,dashed\"")
	}
	if opts.UsePositions {
		// Graphviz y grows upwards.
		attrs = append(attrs, fmt.Sprintf("pos=\"%.2f,%.2f!\"",
			n.Position.X/positionScale, -n.Position.Y/positionScale))
	}
	return attrs
}

func edgeAttrs(o *ontology.Ontology, e ontology.Edge) []string {
	rt := e.Data.RelationshipType
	info := vocabulary.Describe(rt)

	var attrs []string
	if e.Kind == ontology.EdgeKindNoteConnection {
		attrs = append(attrs, "style=dashed", "arrowhead=none", "color=\"#a3a3a3\"")
		return attrs
	}

	label := info.Label
	if label == "" {
		label = rt.Token()
	}
	attrs = append(attrs, fmt.Sprintf("label=%q", label))
	if info.Style.Dashed {
		attrs = append(attrs, "style=dashed")
	}
	if info.Style.Color != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", info.Style.Color))
	}
	if rt.IsCustom() && !o.HasCustomRelationshipType(rt.Token()) {
		attrs = append(attrs, "fontcolor=red")
	}
	if e.Data.IsInferred {
		attrs = append(attrs, "style=dotted")
	}
	if e.Data.Strength < 1 {
		attrs = append(attrs, fmt.Sprintf("penwidth=%.2f", 0.5+e.Data.Strength))
	}
	return attrs
}
