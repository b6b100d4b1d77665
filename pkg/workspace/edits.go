package workspace

import (
	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/graphstore"
)

// ScheduleNodeEdit queues patch for node nodeID of the active ontology.
// Edits to the same node within the debounce period are merged and applied
// together. The ontology and node IDs are fixed now, so the edit lands on
// this node even if the selection or the active ontology changes before
// it is applied.
func (w *Workspace) ScheduleNodeEdit(nodeID string, patch graphstore.NodeDataPatch) error {
	e, err := w.requireActive()
	if err != nil {
		return err
	}
	if _, ok := e.store.Node(nodeID); !ok {
		return errs.New(errs.ErrCodeNotFound, "node %s not found", nodeID)
	}
	w.nodeEdits.Trigger(editKey{OntologyID: e.id(), ElementID: nodeID, target: e}, patch)
	return nil
}

// ScheduleEdgeEdit queues patch for edge edgeID of the active ontology.
func (w *Workspace) ScheduleEdgeEdit(edgeID string, patch graphstore.EdgeDataPatch) error {
	e, err := w.requireActive()
	if err != nil {
		return err
	}
	if _, ok := e.store.Edge(edgeID); !ok {
		return errs.New(errs.ErrCodeNotFound, "edge %s not found", edgeID)
	}
	w.edgeEdits.Trigger(editKey{OntologyID: e.id(), ElementID: edgeID, target: e}, patch)
	return nil
}

// FlushEdits applies every scheduled edit now and returns how many were
// pending.
func (w *Workspace) FlushEdits() int {
	return w.nodeEdits.Flush() + w.edgeEdits.Flush()
}

// PendingEdits returns the number of elements with scheduled edits.
func (w *Workspace) PendingEdits() int {
	return w.nodeEdits.Pending() + w.edgeEdits.Pending()
}

// cancelEdits drops every scheduled edit for ontology id and returns how
// many were pending.
func (w *Workspace) cancelEdits(id string) int {
	match := func(k editKey) bool { return k.OntologyID == id }
	return w.nodeEdits.CancelWhere(match) + w.edgeEdits.CancelWhere(match)
}

func (w *Workspace) applyNodeEdit(k editKey, patch graphstore.NodeDataPatch) {
	e := k.target
	if !w.holds(e) {
		w.logger.Debug("dropping edit for removed or replaced ontology", "ontology", k.OntologyID, "node", k.ElementID)
		return
	}
	if !e.store.UpdateNodeData(k.ElementID, patch) {
		w.logger.Debug("dropping edit for removed node", "ontology", k.OntologyID, "node", k.ElementID)
	}
}

func (w *Workspace) applyEdgeEdit(k editKey, patch graphstore.EdgeDataPatch) {
	e := k.target
	if !w.holds(e) {
		w.logger.Debug("dropping edit for removed or replaced ontology", "ontology", k.OntologyID, "edge", k.ElementID)
		return
	}
	if !e.store.UpdateEdgeData(k.ElementID, patch) {
		w.logger.Debug("dropping edit for removed edge", "ontology", k.OntologyID, "edge", k.ElementID)
	}
}
