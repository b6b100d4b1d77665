package ontology

import "time"

// NodeKind distinguishes the four kinds of ontology elements.
type NodeKind string

const (
	// NodeKindEntity is a class or concept.
	NodeKindEntity NodeKind = "entity"
	// NodeKindDataProperty is a literal-valued attribute.
	NodeKindDataProperty NodeKind = "data_property"
	// NodeKindNote is a free-form annotation.
	NodeKindNote NodeKind = "note"
	// NodeKindExternalReference points at a concept defined outside the ontology.
	NodeKindExternalReference NodeKind = "external_reference"
)

// NodeKinds lists every node kind in palette order.
var NodeKinds = []NodeKind{NodeKindEntity, NodeKindDataProperty, NodeKindNote, NodeKindExternalReference}

// ParseNodeKind returns the node kind named by s.
func ParseNodeKind(s string) (NodeKind, bool) {
	switch k := NodeKind(s); k {
	case NodeKindEntity, NodeKindDataProperty, NodeKindNote, NodeKindExternalReference:
		return k, true
	}
	return "", false
}

// NoteType classifies note nodes.
type NoteType string

const (
	NoteGeneral   NoteType = "general"
	NoteTodo      NoteType = "todo"
	NoteQuestion  NoteType = "question"
	NoteDecision  NoteType = "decision"
	NoteReference NoteType = "reference"
)

// ParseNoteType returns the note type named by s.
func ParseNoteType(s string) (NoteType, bool) {
	switch t := NoteType(s); t {
	case NoteGeneral, NoteTodo, NoteQuestion, NoteDecision, NoteReference:
		return t, true
	}
	return "", false
}

// Position is a canvas-space coordinate.
type Position struct {
	X float64
	Y float64
}

// Node is a vertex of the ontology graph.
//
// The zero value is not usable: ID and Kind must be set before the node is
// added to a store.
type Node struct {
	ID       string
	Kind     NodeKind
	Position Position
	Data     NodeData
}

// NodeData is the kind-dependent payload of a node. Fields that do not apply
// to a node's kind are left at their zero value.
type NodeData struct {
	Label       string
	EntityType  string
	Properties  Properties
	Description string

	// Note-only fields.
	Content  string
	NoteType NoteType
	Author   string
	Created  time.Time
	Modified time.Time

	// External-reference only.
	Source string
}

// IsNote reports whether the node is a note.
func (n Node) IsNote() bool { return n.Kind == NodeKindNote }

// DisplayLabel returns the label if set, the note content for notes, and the
// ID otherwise.
func (n Node) DisplayLabel() string {
	if n.Data.Label != "" {
		return n.Data.Label
	}
	if n.IsNote() && n.Data.Content != "" {
		return n.Data.Content
	}
	return n.ID
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	n.Data.Properties = n.Data.Properties.Clone()
	return n
}
