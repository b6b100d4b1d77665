package ontology

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	// ErrInvalidNodeID is returned when a node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrInvalidEdgeID is returned when an edge ID is empty.
	ErrInvalidEdgeID = errors.New("edge ID must not be empty")

	// ErrDuplicateNodeID is returned when a node with the same ID already
	// exists in the ontology.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateEdgeID is returned when an edge with the same ID already
	// exists in the ontology.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrRetiredID is returned when an ID that was deleted earlier in the
	// session is added again. IDs are never reused.
	ErrRetiredID = errors.New("ID was deleted and cannot be reused")

	// ErrUnknownSourceNode is returned when an edge's source does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned when an edge's target does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidKind is returned for unknown node or edge kinds.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrStandardTokenAsCustom is returned when a standard vocabulary token
	// is listed among an ontology's custom relationship types.
	ErrStandardTokenAsCustom = errors.New("standard relationship type cannot be registered as custom")
)

// Viewport is the persisted pan/zoom of the diagram.
type Viewport struct {
	X    float64
	Y    float64
	Zoom float64
}

// DefaultViewport is used for new ontologies.
var DefaultViewport = Viewport{Zoom: 1}

// Ontology is the unit of editing and persistence.
type Ontology struct {
	ID           string
	Name         string
	Description  string
	Version      string
	Namespace    string
	Author       string
	Created      time.Time
	LastModified time.Time

	CustomProperties        Properties
	CustomRelationshipTypes []string

	Nodes []Node
	Edges []Edge

	Viewport Viewport
}

// New creates an empty ontology with a generated ID and namespace.
func New(name string, now time.Time) *Ontology {
	id := NewID("ontology")
	return &Ontology{
		ID:               id,
		Name:             name,
		Version:          "1.0.0",
		Namespace:        NewNamespace(id),
		Created:          now,
		LastModified:     now,
		CustomProperties: Properties{},
		Viewport:         DefaultViewport,
	}
}

// Clone returns a deep copy of o. Nested property maps are copied so the
// clone can be mutated without affecting o.
func (o *Ontology) Clone() *Ontology {
	if o == nil {
		return nil
	}
	c := *o
	c.CustomProperties = o.CustomProperties.Clone()
	c.CustomRelationshipTypes = slices.Clone(o.CustomRelationshipTypes)
	if o.Nodes != nil {
		c.Nodes = make([]Node, len(o.Nodes))
		for i, n := range o.Nodes {
			c.Nodes[i] = n.Clone()
		}
	}
	if o.Edges != nil {
		c.Edges = make([]Edge, len(o.Edges))
		for i, e := range o.Edges {
			c.Edges[i] = e.Clone()
		}
	}
	return &c
}

// NodeIndex returns the position of node id in o.Nodes, or -1.
func (o *Ontology) NodeIndex(id string) int {
	return slices.IndexFunc(o.Nodes, func(n Node) bool { return n.ID == id })
}

// EdgeIndex returns the position of edge id in o.Edges, or -1.
func (o *Ontology) EdgeIndex(id string) int {
	return slices.IndexFunc(o.Edges, func(e Edge) bool { return e.ID == id })
}

// Node returns a copy of node id.
func (o *Ontology) Node(id string) (Node, bool) {
	if i := o.NodeIndex(id); i >= 0 {
		return o.Nodes[i].Clone(), true
	}
	return Node{}, false
}

// Edge returns a copy of edge id.
func (o *Ontology) Edge(id string) (Edge, bool) {
	if i := o.EdgeIndex(id); i >= 0 {
		return o.Edges[i].Clone(), true
	}
	return Edge{}, false
}

// HasNode reports whether node id exists.
func (o *Ontology) HasNode(id string) bool { return o.NodeIndex(id) >= 0 }

// HasCustomRelationshipType reports whether token is registered as custom.
func (o *Ontology) HasCustomRelationshipType(token string) bool {
	return slices.Contains(o.CustomRelationshipTypes, token)
}

// IncidentEdges returns copies of every edge touching node id, in order.
func (o *Ontology) IncidentEdges(id string) []Edge {
	var out []Edge
	for _, e := range o.Edges {
		if e.Touches(id) {
			out = append(out, e.Clone())
		}
	}
	return out
}

// CheckIntegrity verifies the structural invariants of o and returns the
// first violation found, wrapped with the offending element:
//
//  1. Node and edge IDs are non-empty and unique.
//  2. Node and edge kinds are known.
//  3. Every edge's source and target name an existing node.
//  4. Custom relationship types are disjoint from the standard vocabulary.
//
// It runs in O(N+E) time.
func (o *Ontology) CheckIntegrity() error {
	nodes := make(map[string]struct{}, len(o.Nodes))
	for _, n := range o.Nodes {
		if n.ID == "" {
			return ErrInvalidNodeID
		}
		if _, dup := nodes[n.ID]; dup {
			return fmt.Errorf("node %s: %w", n.ID, ErrDuplicateNodeID)
		}
		if _, ok := ParseNodeKind(string(n.Kind)); !ok {
			return fmt.Errorf("node %s: %w %q", n.ID, ErrInvalidKind, n.Kind)
		}
		nodes[n.ID] = struct{}{}
	}

	edges := make(map[string]struct{}, len(o.Edges))
	for _, e := range o.Edges {
		if e.ID == "" {
			return ErrInvalidEdgeID
		}
		if _, dup := edges[e.ID]; dup {
			return fmt.Errorf("edge %s: %w", e.ID, ErrDuplicateEdgeID)
		}
		if _, ok := ParseEdgeKind(string(e.Kind)); !ok {
			return fmt.Errorf("edge %s: %w %q", e.ID, ErrInvalidKind, e.Kind)
		}
		if _, ok := nodes[e.Source]; !ok {
			return fmt.Errorf("edge %s: %w %q", e.ID, ErrUnknownSourceNode, e.Source)
		}
		if _, ok := nodes[e.Target]; !ok {
			return fmt.Errorf("edge %s: %w %q", e.ID, ErrUnknownTargetNode, e.Target)
		}
		edges[e.ID] = struct{}{}
	}

	for _, tok := range o.CustomRelationshipTypes {
		if IsStandardToken(tok) {
			return fmt.Errorf("custom type %s: %w", tok, ErrStandardTokenAsCustom)
		}
	}
	return nil
}
