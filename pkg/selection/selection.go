// Package selection tracks which nodes and edges are selected and derives
// the property-panel mode from them.
package selection

import (
	"slices"
	"sync"

	"github.com/matzehuels/ontoforge/pkg/ontology"
)

// Mode is the element level the property panel edits.
type Mode string

const (
	// ModeOntology edits ontology-level metadata. It applies whenever the
	// selection is empty or contains more than one element.
	ModeOntology Mode = "ontology"
	// ModeNode edits the single selected node.
	ModeNode Mode = "node"
	// ModeEdge edits the single selected edge.
	ModeEdge Mode = "edge"
)

// Controller holds the current selection. It is safe for concurrent use.
// The mode is derived from the selection on every read, so any sequence of
// calls is valid.
type Controller struct {
	mu    sync.RWMutex
	nodes []string
	edges []string
}

// New returns an empty controller.
func New() *Controller { return &Controller{} }

// SetSelectedNodes replaces the selected node IDs. Duplicates are dropped.
func (c *Controller) SetSelectedNodes(ids []string) {
	c.mu.Lock()
	c.nodes = dedupe(ids)
	c.mu.Unlock()
}

// SetSelectedEdges replaces the selected edge IDs. Duplicates are dropped.
func (c *Controller) SetSelectedEdges(ids []string) {
	c.mu.Lock()
	c.edges = dedupe(ids)
	c.mu.Unlock()
}

// Select replaces both lists at once.
func (c *Controller) Select(nodes, edges []string) {
	c.mu.Lock()
	c.nodes = dedupe(nodes)
	c.edges = dedupe(edges)
	c.mu.Unlock()
}

// ClearSelection empties both lists.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	c.nodes, c.edges = nil, nil
	c.mu.Unlock()
}

// Nodes returns the selected node IDs.
func (c *Controller) Nodes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.nodes)
}

// Edges returns the selected edge IDs.
func (c *Controller) Edges() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.edges)
}

// Mode returns ModeNode when exactly one node and no edge is selected,
// ModeEdge when exactly one edge and no node is selected, and ModeOntology
// otherwise.
func (c *Controller) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return modeOf(len(c.nodes), len(c.edges))
}

// SelectedNode returns the node ID edited in ModeNode.
func (c *Controller) SelectedNode() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if modeOf(len(c.nodes), len(c.edges)) != ModeNode {
		return "", false
	}
	return c.nodes[0], true
}

// SelectedEdge returns the edge ID edited in ModeEdge.
func (c *Controller) SelectedEdge() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if modeOf(len(c.nodes), len(c.edges)) != ModeEdge {
		return "", false
	}
	return c.edges[0], true
}

// Reconcile drops selected IDs that no longer exist in o. A nil ontology
// clears the selection. It reports whether anything was dropped.
func (c *Controller) Reconcile(o *ontology.Ontology) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if o == nil {
		changed := len(c.nodes) > 0 || len(c.edges) > 0
		c.nodes, c.edges = nil, nil
		return changed
	}
	n, e := len(c.nodes), len(c.edges)
	c.nodes = slices.DeleteFunc(c.nodes, func(id string) bool { return !o.HasNode(id) })
	c.edges = slices.DeleteFunc(c.edges, func(id string) bool { return o.EdgeIndex(id) < 0 })
	return len(c.nodes) != n || len(c.edges) != e
}

func modeOf(nodes, edges int) Mode {
	switch {
	case nodes == 1 && edges == 0:
		return ModeNode
	case edges == 1 && nodes == 0:
		return ModeEdge
	}
	return ModeOntology
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
