// Package workspace is the entry point of the engine: it owns the
// collection of ontologies, tracks the active one, and wires the graph
// store, vocabulary registry, selection, dual view and validation around
// it.
//
// A Workspace is constructed explicitly and passed to whoever needs it;
// there is no package-level instance.
//
// # Locking
//
// The workspace mutex guards the ontology collection and the active
// pointer. It is never held while calling into a graph store, which
// serializes its own transitions.
package workspace

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ontoforge/pkg/debounce"
	"github.com/matzehuels/ontoforge/pkg/dualview"
	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/graphstore"
	"github.com/matzehuels/ontoforge/pkg/ontology"
	"github.com/matzehuels/ontoforge/pkg/selection"
	"github.com/matzehuels/ontoforge/pkg/storage"
	"github.com/matzehuels/ontoforge/pkg/validation"
	"github.com/matzehuels/ontoforge/pkg/vocabulary"
)

// DefaultOntologyName is the name given to new ontologies.
const DefaultOntologyName = "Untitled Ontology"

// Info describes the workspace itself.
type Info struct {
	ID            string
	Name          string
	Author        string
	Created       time.Time
	Collaborators []storage.Collaborator
}

// entry is one ontology with the components bound to it.
type entry struct {
	slot     *graphstore.MemorySlot
	store    *graphstore.Store
	registry *vocabulary.Registry
}

func (e *entry) id() string { return e.slot.Load().ID }

// editKey addresses a scheduled edit. Both IDs and the entry are fixed when
// the edit is scheduled; an edit whose entry has since been replaced by an
// import or load is dropped.
type editKey struct {
	OntologyID string
	ElementID  string
	target     *entry
}

// Workspace holds every open ontology.
type Workspace struct {
	mu       sync.RWMutex
	info     *Info
	entries  []*entry
	activeID string

	importing atomic.Bool

	logger     *log.Logger
	now        func() time.Time
	storage    storage.Store
	formats    *dualview.Formats
	textFormat string
	debounce   time.Duration
	validator  *validation.Engine
	author     string

	selection *selection.Controller
	dual      *dualview.Synchronizer
	nodeEdits *debounce.Debouncer[editKey, graphstore.NodeDataPatch]
	edgeEdits *debounce.Debouncer[editKey, graphstore.EdgeDataPatch]
}

// New returns an empty workspace.
func New(opts ...Option) *Workspace {
	w := &Workspace{
		logger:    log.Default(),
		now:       time.Now,
		debounce:  debounce.DefaultDelay,
		selection: selection.New(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.validator == nil {
		w.validator = validation.New(validation.WithLogger(w.logger))
	}
	w.dual = dualview.New(w.Graph,
		dualview.WithLogger(w.logger),
		dualview.WithFormats(w.formats),
		dualview.WithTextFormat(w.textFormat),
	)
	w.nodeEdits = debounce.New(w.debounce, w.applyNodeEdit,
		debounce.WithMerge[editKey](graphstore.NodeDataPatch.Merge))
	w.edgeEdits = debounce.New(w.debounce, w.applyEdgeEdit,
		debounce.WithMerge[editKey](graphstore.EdgeDataPatch.Merge))
	return w
}

// Close flushes scheduled edits and stops accepting new ones. It does not
// close the storage.
func (w *Workspace) Close() {
	w.FlushEdits()
	w.nodeEdits.Stop()
	w.edgeEdits.Stop()
}

// EnsureWorkspace initialises the workspace record on first use and
// returns it. Later calls return the same record.
func (w *Workspace) EnsureWorkspace() Info {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ensureInfoLocked()
}

func (w *Workspace) ensureInfoLocked() Info {
	if w.info == nil {
		owner := w.author
		if owner == "" {
			owner = "Local User"
		}
		w.info = &Info{
			ID:      ontology.NewID("workspace"),
			Name:    "My Workspace",
			Author:  w.author,
			Created: w.now(),
			Collaborators: []storage.Collaborator{
				{ID: "user-local", Name: owner, Role: "owner"},
			},
		}
		w.logger.Debug("workspace initialised", "id", w.info.ID)
	}
	info := *w.info
	info.Collaborators = slices.Clone(w.info.Collaborators)
	return info
}

func (w *Workspace) newEntry(o *ontology.Ontology) *entry {
	slot := graphstore.NewMemorySlot(o)
	store := graphstore.New(slot, graphstore.WithClock(w.now))
	return &entry{slot: slot, store: store, registry: vocabulary.NewRegistry(store)}
}

func (w *Workspace) findLocked(id string) (int, *entry) {
	for i, e := range w.entries {
		if e.id() == id {
			return i, e
		}
	}
	return -1, nil
}

func (w *Workspace) activeEntry() *entry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.activeID == "" {
		return nil
	}
	_, e := w.findLocked(w.activeID)
	return e
}

func (w *Workspace) requireActive() (*entry, error) {
	e := w.activeEntry()
	if e == nil {
		return nil, errs.New(errs.ErrCodeNoActiveOntology, "no active ontology")
	}
	return e, nil
}

// holds reports whether e is still part of the workspace.
func (w *Workspace) holds(e *entry) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Contains(w.entries, e)
}

// activeChanged resets the per-ontology view state after the active
// pointer moved.
func (w *Workspace) activeChanged() {
	w.selection.ClearSelection()
	w.dual.Reset()
}

func (w *Workspace) entryByID(id string) *entry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, e := w.findLocked(id)
	return e
}

// appendAndActivate adds o and makes it active.
func (w *Workspace) appendAndActivate(o *ontology.Ontology) {
	e := w.newEntry(o)
	w.mu.Lock()
	w.entries = append(w.entries, e)
	w.activeID = o.ID
	w.mu.Unlock()
	w.activeChanged()
}

// =============================================================================
// Ontology collection
// =============================================================================

// CreateNewOntology adds an empty ontology and activates it.
func (w *Workspace) CreateNewOntology() *ontology.Ontology {
	o := ontology.New(DefaultOntologyName, w.now())
	o.Author = w.author
	w.appendAndActivate(o)
	w.logger.Info("ontology created", "ontology", o.ID)
	return o
}

// DuplicateOntology copies ontology id under a new ID and namespace,
// appends the copy and activates it. An empty newName yields
// "<name> (Copy)".
func (w *Workspace) DuplicateOntology(id, newName string) (*ontology.Ontology, error) {
	src := w.entryByID(id)
	if src == nil {
		return nil, errs.New(errs.ErrCodeOntologyNotFound, "ontology %s not found", id)
	}
	w.FlushEdits()
	cp := src.store.Snapshot().Clone()
	if newName == "" {
		newName = cp.Name + " (Copy)"
	}
	if err := errs.ValidateOntologyName(newName); err != nil {
		return nil, err
	}
	now := w.now()
	cp.ID = ontology.NewID("ontology")
	cp.Namespace = ontology.NewNamespace(cp.ID)
	cp.Name = newName
	cp.Created = now
	cp.LastModified = now
	w.appendAndActivate(cp)
	w.logger.Info("ontology duplicated", "from", id, "ontology", cp.ID)
	return cp, nil
}

// DeleteOntology removes ontology id. If it was active, no ontology is
// active afterwards. It returns false if id does not exist.
func (w *Workspace) DeleteOntology(id string) bool {
	w.mu.Lock()
	i, _ := w.findLocked(id)
	if i < 0 {
		w.mu.Unlock()
		return false
	}
	w.entries = slices.Delete(w.entries, i, i+1)
	wasActive := w.activeID == id
	if wasActive {
		w.activeID = ""
	}
	w.mu.Unlock()

	if wasActive {
		w.activeChanged()
	}
	w.logger.Info("ontology deleted", "ontology", id)
	return true
}

// SetActive makes ontology id the active one.
func (w *Workspace) SetActive(id string) error {
	w.mu.Lock()
	_, e := w.findLocked(id)
	if e == nil {
		w.mu.Unlock()
		return errs.New(errs.ErrCodeOntologyNotFound, "ontology %s not found", id)
	}
	changed := w.activeID != id
	w.activeID = id
	w.mu.Unlock()
	if changed {
		w.activeChanged()
	}
	return nil
}

// ClearActive leaves the workspace without an active ontology.
func (w *Workspace) ClearActive() {
	w.mu.Lock()
	w.activeID = ""
	w.mu.Unlock()
	w.activeChanged()
}

// ActiveID returns the active ontology's ID, or "".
func (w *Workspace) ActiveID() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.activeID
}

// Active returns the active ontology's current snapshot, or nil.
func (w *Workspace) Active() *ontology.Ontology {
	if e := w.activeEntry(); e != nil {
		return e.store.Snapshot()
	}
	return nil
}

// Ontologies returns the current snapshot of every ontology in order.
// Snapshots are shared and must not be mutated.
func (w *Workspace) Ontologies() []*ontology.Ontology {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*ontology.Ontology, len(w.entries))
	for i, e := range w.entries {
		out[i] = e.slot.Load()
	}
	return out
}

// Ontology returns the current snapshot of ontology id.
func (w *Workspace) Ontology(id string) (*ontology.Ontology, bool) {
	if e := w.entryByID(id); e != nil {
		return e.store.Snapshot(), true
	}
	return nil, false
}

// =============================================================================
// Components
// =============================================================================

// Graph returns the graph store of the active ontology, or nil.
func (w *Workspace) Graph() *graphstore.Store {
	if e := w.activeEntry(); e != nil {
		return e.store
	}
	return nil
}

// Vocabulary returns the custom type registry of the active ontology, or
// nil.
func (w *Workspace) Vocabulary() *vocabulary.Registry {
	if e := w.activeEntry(); e != nil {
		return e.registry
	}
	return nil
}

// Selection returns the selection controller.
func (w *Workspace) Selection() *selection.Controller { return w.selection }

// DualView returns the diagram/text synchronizer.
func (w *Workspace) DualView() *dualview.Synchronizer { return w.dual }

// ReconcileSelection drops selected IDs that no longer exist in the active
// ontology.
func (w *Workspace) ReconcileSelection() {
	w.selection.Reconcile(w.Active())
}
