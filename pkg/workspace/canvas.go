package workspace

import (
	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/ontology"
)

// PendingConnection is a relationship drawn on the canvas that still needs
// a relationship type.
type PendingConnection struct {
	Source string
	Target string
}

// ConnectResult is the outcome of Connect: either an edge that was created
// right away, or a pending connection.
type ConnectResult struct {
	Edge    *ontology.Edge
	Pending *PendingConnection
}

// DropNode creates a node of the kind named by kindToken at pos, filled
// with the defaults for that kind, and adds it to the active ontology.
func (w *Workspace) DropNode(kindToken string, pos ontology.Position) (ontology.Node, error) {
	e, err := w.requireActive()
	if err != nil {
		return ontology.Node{}, err
	}
	kind, ok := ontology.ParseNodeKind(kindToken)
	if !ok {
		return ontology.Node{}, errs.New(errs.ErrCodeInvalidInput, "unknown node kind %q", kindToken)
	}
	n := w.defaultNode(kind, pos)
	if err := e.store.AddNode(n); err != nil {
		return ontology.Node{}, errs.Wrap(errs.ErrCodeIntegrityViolation, err, "add node")
	}
	added, _ := e.store.Node(n.ID)
	w.logger.Debug("node dropped", "ontology", e.id(), "node", n.ID, "kind", kind)
	return added, nil
}

func (w *Workspace) defaultNode(kind ontology.NodeKind, pos ontology.Position) ontology.Node {
	n := ontology.Node{
		ID:       ontology.NewID(string(kind)),
		Kind:     kind,
		Position: pos,
		Data:     ontology.NodeData{Properties: ontology.Properties{}},
	}
	switch kind {
	case ontology.NodeKindEntity:
		n.Data.Label = "New Entity"
		n.Data.EntityType = "Class"
	case ontology.NodeKindDataProperty:
		n.Data.Label = "New Property"
		n.Data.EntityType = "string"
	case ontology.NodeKindNote:
		now := w.now()
		n.Data.NoteType = ontology.NoteGeneral
		n.Data.Author = w.author
		n.Data.Created = now
		n.Data.Modified = now
	case ontology.NodeKindExternalReference:
		n.Data.Label = "External Reference"
		n.Data.Source = "external"
	}
	return n
}

// Connect handles a connection drawn from source to target. When either
// end is a note, an "annotates" note connection is created immediately.
// Otherwise the connection is returned as pending and must be completed
// with CompleteConnection once the user picks a relationship type.
func (w *Workspace) Connect(source, target string) (ConnectResult, error) {
	e, err := w.requireActive()
	if err != nil {
		return ConnectResult{}, err
	}
	src, ok := e.store.Node(source)
	if !ok {
		return ConnectResult{}, errs.New(errs.ErrCodeNotFound, "source node %s not found", source)
	}
	tgt, ok := e.store.Node(target)
	if !ok {
		return ConnectResult{}, errs.New(errs.ErrCodeNotFound, "target node %s not found", target)
	}
	if !src.IsNote() && !tgt.IsNote() {
		return ConnectResult{Pending: &PendingConnection{Source: source, Target: target}}, nil
	}

	edge := ontology.Edge{
		ID:     ontology.NewID("edge"),
		Source: source,
		Target: target,
		Kind:   ontology.EdgeKindNoteConnection,
		Data: ontology.EdgeData{
			RelationshipType: ontology.Standard(ontology.RelAnnotates),
			Strength:         ontology.DefaultStrength,
		},
	}
	if err := e.store.AddEdge(edge); err != nil {
		return ConnectResult{}, errs.Wrap(errs.ErrCodeIntegrityViolation, err, "connect note")
	}
	added, _ := e.store.Edge(edge.ID)
	return ConnectResult{Edge: &added}, nil
}

// CompleteConnection turns a pending connection into a relationship edge
// of type rt. Custom types that are not registered yet are registered.
func (w *Workspace) CompleteConnection(p PendingConnection, rt ontology.RelationshipType) (ontology.Edge, error) {
	e, err := w.requireActive()
	if err != nil {
		return ontology.Edge{}, err
	}
	if rt.IsZero() {
		return ontology.Edge{}, errs.New(errs.ErrCodeInvalidInput, "relationship type is required")
	}
	if rt.IsCustom() {
		if err := errs.ValidateToken(rt.Token()); err != nil {
			return ontology.Edge{}, err
		}
		if !e.registry.Has(rt.Token()) {
			if err := e.registry.AddCustomRelationshipType(rt.Token()); err != nil {
				return ontology.Edge{}, err
			}
		}
	}
	edge := ontology.Edge{
		ID:     ontology.NewID("edge"),
		Source: p.Source,
		Target: p.Target,
		Kind:   ontology.EdgeKindRelationship,
		Data: ontology.EdgeData{
			RelationshipType: rt,
			Strength:         ontology.DefaultStrength,
		},
	}
	if err := e.store.AddEdge(edge); err != nil {
		return ontology.Edge{}, errs.Wrap(errs.ErrCodeIntegrityViolation, err, "complete connection")
	}
	added, _ := e.store.Edge(edge.ID)
	return added, nil
}

// DeleteElements deletes the given nodes (with their incident edges) and
// edges from the active ontology, then reconciles the selection. It
// returns how many of the listed elements existed.
func (w *Workspace) DeleteElements(nodeIDs, edgeIDs []string) int {
	e := w.activeEntry()
	if e == nil {
		return 0
	}
	var n int
	for _, id := range edgeIDs {
		if e.store.DeleteEdge(id) {
			n++
		}
	}
	for _, id := range nodeIDs {
		if e.store.DeleteNode(id) {
			n++
		}
	}
	w.ReconcileSelection()
	return n
}

// DeleteSelection deletes every selected element.
func (w *Workspace) DeleteSelection() int {
	return w.DeleteElements(w.selection.Nodes(), w.selection.Edges())
}
