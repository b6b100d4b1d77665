package graphstore

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/ontoforge/pkg/observability"
	"github.com/matzehuels/ontoforge/pkg/ontology"
)

// ErrNoOntology is returned when the store's slot holds no ontology.
var ErrNoOntology = errors.New("no ontology bound to store")

// Operation names reported to observability hooks.
const (
	OpAddNode         = "add_node"
	OpUpdateNode      = "update_node"
	OpDeleteNode      = "delete_node"
	OpAddEdge         = "add_edge"
	OpUpdateEdge      = "update_edge"
	OpDeleteEdge      = "delete_edge"
	OpUpdatePositions = "update_positions"
	OpReplaceGraph    = "replace_graph"
	OpApply           = "apply"
	OpSetProperty     = "set_property"
	OpDeleteProperty  = "delete_property"
	OpUpdateMetadata  = "update_metadata"
	OpSetViewport     = "set_viewport"
)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for LastModified stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store mediates all mutations of the ontology held in its slot.
type Store struct {
	mu      sync.Mutex
	slot    Slot
	now     func() time.Time
	retired map[string]struct{}
}

// New returns a store bound to slot.
func New(slot Slot, opts ...Option) *Store {
	s := &Store{
		slot:    slot,
		now:     time.Now,
		retired: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// transition runs fn against a clone of the current snapshot. The clone is
// published only when fn reports a change and returns no error.
func (s *Store) transition(op string, fn func(o *ontology.Ontology) (bool, error)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.slot.Load()
	if cur == nil {
		observability.Store().OnMutation(op, "", false, ErrNoOntology)
		return false, ErrNoOntology
	}
	next := cur.Clone()
	changed, err := fn(next)
	if err != nil || !changed {
		observability.Store().OnMutation(op, cur.ID, false, err)
		return false, err
	}
	next.LastModified = s.now()
	s.slot.Store(next)
	observability.Store().OnMutation(op, cur.ID, true, nil)
	return true, nil
}

// =============================================================================
// Reads
// =============================================================================

// Snapshot returns the current ontology snapshot, or nil if none is bound.
// The snapshot is shared and must not be mutated.
func (s *Store) Snapshot() *ontology.Ontology { return s.slot.Load() }

// Nodes returns copies of all nodes in insertion order.
func (s *Store) Nodes() []ontology.Node {
	o := s.slot.Load()
	if o == nil {
		return nil
	}
	out := make([]ontology.Node, len(o.Nodes))
	for i, n := range o.Nodes {
		out[i] = n.Clone()
	}
	return out
}

// Edges returns copies of all edges in insertion order.
func (s *Store) Edges() []ontology.Edge {
	o := s.slot.Load()
	if o == nil {
		return nil
	}
	out := make([]ontology.Edge, len(o.Edges))
	for i, e := range o.Edges {
		out[i] = e.Clone()
	}
	return out
}

// Node returns a copy of node id.
func (s *Store) Node(id string) (ontology.Node, bool) {
	if o := s.slot.Load(); o != nil {
		return o.Node(id)
	}
	return ontology.Node{}, false
}

// Edge returns a copy of edge id.
func (s *Store) Edge(id string) (ontology.Edge, bool) {
	if o := s.slot.Load(); o != nil {
		return o.Edge(id)
	}
	return ontology.Edge{}, false
}

// IncidentEdges returns copies of the edges touching node id.
func (s *Store) IncidentEdges(id string) []ontology.Edge {
	if o := s.slot.Load(); o != nil {
		return o.IncidentEdges(id)
	}
	return nil
}

// IsRetired reports whether id belonged to an element deleted through this
// store or dropped by [Store.ReplaceGraph].
func (s *Store) IsRetired(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.retired[id]
	return ok
}

// =============================================================================
// Nodes
// =============================================================================

// AddNode appends node. The ID must be non-empty and not used by a live or
// retired element; the kind must be known. A nil property bag is
// initialised, and note timestamps default to the store clock.
func (s *Store) AddNode(node ontology.Node) error {
	_, err := s.transition(OpAddNode, func(o *ontology.Ontology) (bool, error) {
		if node.ID == "" {
			return false, ontology.ErrInvalidNodeID
		}
		if _, ok := ontology.ParseNodeKind(string(node.Kind)); !ok {
			return false, fmt.Errorf("node %s: %w %q", node.ID, ontology.ErrInvalidKind, node.Kind)
		}
		if o.HasNode(node.ID) {
			return false, fmt.Errorf("node %s: %w", node.ID, ontology.ErrDuplicateNodeID)
		}
		if _, ok := s.retired[node.ID]; ok {
			return false, fmt.Errorf("node %s: %w", node.ID, ontology.ErrRetiredID)
		}
		n := node.Clone()
		if n.Data.Properties == nil {
			n.Data.Properties = ontology.Properties{}
		}
		if n.IsNote() {
			if n.Data.NoteType == "" {
				n.Data.NoteType = ontology.NoteGeneral
			}
			if n.Data.Created.IsZero() {
				n.Data.Created = s.now()
			}
			if n.Data.Modified.IsZero() {
				n.Data.Modified = n.Data.Created
			}
		}
		o.Nodes = append(o.Nodes, n)
		return true, nil
	})
	return err
}

// UpdateNode merges patch into node id. It returns false, leaving the
// snapshot untouched, when id does not exist. An unknown Kind in the patch
// is ignored. Changing a note's content also stamps its Modified time.
func (s *Store) UpdateNode(id string, patch NodePatch) bool {
	ok, _ := s.transition(OpUpdateNode, func(o *ontology.Ontology) (bool, error) {
		i := o.NodeIndex(id)
		if i < 0 {
			return false, nil
		}
		n := &o.Nodes[i]
		if patch.Kind != nil {
			if k, ok := ontology.ParseNodeKind(string(*patch.Kind)); ok {
				n.Kind = k
			}
		}
		if patch.Position != nil {
			n.Position = *patch.Position
		}
		if patch.Data != nil {
			if patch.Data.apply(&n.Data) && n.IsNote() {
				n.Data.Modified = s.now()
			}
		}
		return true, nil
	})
	return ok
}

// UpdateNodeData is shorthand for UpdateNode with only a data patch.
func (s *Store) UpdateNodeData(id string, patch NodeDataPatch) bool {
	return s.UpdateNode(id, NodePatch{Data: &patch})
}

// DeleteNode removes node id and every edge incident to it, retiring all
// removed IDs. It returns false if id does not exist.
func (s *Store) DeleteNode(id string) bool {
	ok, _ := s.transition(OpDeleteNode, func(o *ontology.Ontology) (bool, error) {
		i := o.NodeIndex(id)
		if i < 0 {
			return false, nil
		}
		o.Nodes = slices.Delete(o.Nodes, i, i+1)
		s.retired[id] = struct{}{}
		o.Edges = slices.DeleteFunc(o.Edges, func(e ontology.Edge) bool {
			if e.Touches(id) {
				s.retired[e.ID] = struct{}{}
				return true
			}
			return false
		})
		return true, nil
	})
	return ok
}

// UpdateNodePositions moves every listed node in a single transition and
// returns how many were moved. Unknown IDs are ignored; when none match,
// no transition happens.
func (s *Store) UpdateNodePositions(positions map[string]ontology.Position) int {
	var applied int
	s.transition(OpUpdatePositions, func(o *ontology.Ontology) (bool, error) {
		for i := range o.Nodes {
			if p, ok := positions[o.Nodes[i].ID]; ok {
				o.Nodes[i].Position = p
				applied++
			}
		}
		return applied > 0, nil
	})
	return applied
}

// =============================================================================
// Edges
// =============================================================================

// AddEdge appends edge. Both endpoints must exist. An empty kind means
// relationship and the strength is clamped to [0,1]; zero is a valid
// strength, so callers creating edges without one set
// [ontology.DefaultStrength] themselves. Note connections without a type
// are typed "annotates".
func (s *Store) AddEdge(edge ontology.Edge) error {
	_, err := s.transition(OpAddEdge, func(o *ontology.Ontology) (bool, error) {
		if edge.ID == "" {
			return false, ontology.ErrInvalidEdgeID
		}
		e := edge.Clone()
		if e.Kind == "" {
			e.Kind = ontology.EdgeKindRelationship
		}
		if _, ok := ontology.ParseEdgeKind(string(e.Kind)); !ok {
			return false, fmt.Errorf("edge %s: %w %q", e.ID, ontology.ErrInvalidKind, e.Kind)
		}
		if o.EdgeIndex(e.ID) >= 0 {
			return false, fmt.Errorf("edge %s: %w", e.ID, ontology.ErrDuplicateEdgeID)
		}
		if _, ok := s.retired[e.ID]; ok {
			return false, fmt.Errorf("edge %s: %w", e.ID, ontology.ErrRetiredID)
		}
		if !o.HasNode(e.Source) {
			return false, fmt.Errorf("edge %s: %w %q", e.ID, ontology.ErrUnknownSourceNode, e.Source)
		}
		if !o.HasNode(e.Target) {
			return false, fmt.Errorf("edge %s: %w %q", e.ID, ontology.ErrUnknownTargetNode, e.Target)
		}
		e.Data.Strength = ontology.ClampStrength(e.Data.Strength)
		if e.Data.Properties == nil {
			e.Data.Properties = ontology.Properties{}
		}
		if e.Kind == ontology.EdgeKindNoteConnection && e.Data.RelationshipType.IsZero() {
			e.Data.RelationshipType = ontology.Standard(ontology.RelAnnotates)
		}
		o.Edges = append(o.Edges, e)
		return true, nil
	})
	return err
}

// UpdateEdge merges patch into edge id. It returns false with a nil error
// when id does not exist, and an error when the patch names an endpoint
// that does not exist.
func (s *Store) UpdateEdge(id string, patch EdgePatch) (bool, error) {
	return s.transition(OpUpdateEdge, func(o *ontology.Ontology) (bool, error) {
		i := o.EdgeIndex(id)
		if i < 0 {
			return false, nil
		}
		e := &o.Edges[i]
		if patch.Source != nil {
			if !o.HasNode(*patch.Source) {
				return false, fmt.Errorf("edge %s: %w %q", id, ontology.ErrUnknownSourceNode, *patch.Source)
			}
			e.Source = *patch.Source
		}
		if patch.Target != nil {
			if !o.HasNode(*patch.Target) {
				return false, fmt.Errorf("edge %s: %w %q", id, ontology.ErrUnknownTargetNode, *patch.Target)
			}
			e.Target = *patch.Target
		}
		if patch.Kind != nil {
			k, ok := ontology.ParseEdgeKind(string(*patch.Kind))
			if !ok {
				return false, fmt.Errorf("edge %s: %w %q", id, ontology.ErrInvalidKind, *patch.Kind)
			}
			e.Kind = k
		}
		if patch.Data != nil {
			patch.Data.apply(&e.Data)
		}
		return true, nil
	})
}

// UpdateEdgeData is shorthand for UpdateEdge with only a data patch. Data
// patches cannot fail, so only the applied flag is returned.
func (s *Store) UpdateEdgeData(id string, patch EdgeDataPatch) bool {
	ok, _ := s.UpdateEdge(id, EdgePatch{Data: &patch})
	return ok
}

// DeleteEdge removes edge id and retires its ID. It returns false if id
// does not exist.
func (s *Store) DeleteEdge(id string) bool {
	ok, _ := s.transition(OpDeleteEdge, func(o *ontology.Ontology) (bool, error) {
		i := o.EdgeIndex(id)
		if i < 0 {
			return false, nil
		}
		o.Edges = slices.Delete(o.Edges, i, i+1)
		s.retired[id] = struct{}{}
		return true, nil
	})
	return ok
}

// =============================================================================
// Wholesale transitions
// =============================================================================

// ReplaceGraph swaps the node and edge collections in one transition. When
// customTypes is non-nil it also replaces the custom relationship types.
// The candidate is integrity-checked first; on failure nothing is written.
//
// The retired-ID set is not consulted: the replacement is authoritative.
// IDs present before and absent from the replacement are retired once it
// is published.
func (s *Store) ReplaceGraph(nodes []ontology.Node, edges []ontology.Edge, customTypes []string) error {
	_, err := s.transition(OpReplaceGraph, func(o *ontology.Ontology) (bool, error) {
		dropped := make(map[string]struct{}, len(o.Nodes)+len(o.Edges))
		for _, n := range o.Nodes {
			dropped[n.ID] = struct{}{}
		}
		for _, e := range o.Edges {
			dropped[e.ID] = struct{}{}
		}
		for _, n := range nodes {
			delete(dropped, n.ID)
		}
		for _, e := range edges {
			delete(dropped, e.ID)
		}

		o.Nodes = make([]ontology.Node, len(nodes))
		for i, n := range nodes {
			n = n.Clone()
			if n.Data.Properties == nil {
				n.Data.Properties = ontology.Properties{}
			}
			o.Nodes[i] = n
		}
		o.Edges = make([]ontology.Edge, len(edges))
		for i, e := range edges {
			e = e.Clone()
			if e.Data.Properties == nil {
				e.Data.Properties = ontology.Properties{}
			}
			o.Edges[i] = e
		}
		if customTypes != nil {
			o.CustomRelationshipTypes = slices.Clone(customTypes)
		}
		if err := o.CheckIntegrity(); err != nil {
			return false, err
		}
		for id := range dropped {
			s.retired[id] = struct{}{}
		}
		return true, nil
	})
	return err
}

// Apply runs fn against a copy of the snapshot and publishes the result if
// fn returns nil and the result passes the integrity check. fn must not
// retain the ontology after returning.
func (s *Store) Apply(fn func(o *ontology.Ontology) error) error {
	_, err := s.transition(OpApply, func(o *ontology.Ontology) (bool, error) {
		if err := fn(o); err != nil {
			return false, err
		}
		if err := o.CheckIntegrity(); err != nil {
			return false, err
		}
		return true, nil
	})
	return err
}

// UpdateMetadata merges patch into the ontology's metadata.
func (s *Store) UpdateMetadata(patch MetadataPatch) bool {
	ok, _ := s.transition(OpUpdateMetadata, func(o *ontology.Ontology) (bool, error) {
		patch.apply(o)
		return true, nil
	})
	return ok
}

// SetViewport stores the diagram viewport. A non-positive zoom is replaced
// by the default zoom.
func (s *Store) SetViewport(v ontology.Viewport) bool {
	if v.Zoom <= 0 {
		v.Zoom = ontology.DefaultViewport.Zoom
	}
	ok, _ := s.transition(OpSetViewport, func(o *ontology.Ontology) (bool, error) {
		if o.Viewport == v {
			return false, nil
		}
		o.Viewport = v
		return true, nil
	})
	return ok
}

// CustomRelationshipTypes returns a copy of the registered custom tokens.
func (s *Store) CustomRelationshipTypes() []string {
	if o := s.slot.Load(); o != nil {
		return slices.Clone(o.CustomRelationshipTypes)
	}
	return nil
}

// OntologyProperties returns a copy of the ontology-level property bag.
func (s *Store) OntologyProperties() ontology.Properties {
	if o := s.slot.Load(); o != nil {
		return o.CustomProperties.Clone()
	}
	return nil
}
