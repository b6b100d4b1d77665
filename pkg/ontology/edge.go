package ontology

// EdgeKind distinguishes semantic relationships from note attachments.
type EdgeKind string

const (
	// EdgeKindRelationship is a typed relationship between two elements.
	EdgeKindRelationship EdgeKind = "relationship"
	// EdgeKindNoteConnection attaches a note to the element it annotates.
	EdgeKindNoteConnection EdgeKind = "note_connection"
)

// ParseEdgeKind returns the edge kind named by s.
func ParseEdgeKind(s string) (EdgeKind, bool) {
	switch k := EdgeKind(s); k {
	case EdgeKindRelationship, EdgeKindNoteConnection:
		return k, true
	}
	return "", false
}

// DefaultStrength is assigned to edges created without an explicit strength.
const DefaultStrength = 1.0

// Edge is a directed arc between two nodes of the same ontology.
type Edge struct {
	ID     string
	Source string
	Target string
	Kind   EdgeKind
	Data   EdgeData
}

// EdgeData is the payload of an edge.
type EdgeData struct {
	RelationshipType RelationshipType
	Properties       Properties
	Strength         float64 // In [0,1].
	IsInferred       bool
}

// Touches reports whether nodeID is either endpoint of e.
func (e Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

// Clone returns a deep copy of e.
func (e Edge) Clone() Edge {
	e.Data.Properties = e.Data.Properties.Clone()
	return e
}

// ClampStrength bounds s to [0,1].
func ClampStrength(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	}
	return s
}
