package workspace

import (
	"context"
	"io"
	"os"
	"slices"
	"time"

	"github.com/matzehuels/ontoforge/pkg/codec"
	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/observability"
	"github.com/matzehuels/ontoforge/pkg/ontology"
	"github.com/matzehuels/ontoforge/pkg/storage"
	"github.com/matzehuels/ontoforge/pkg/validation"
)

// =============================================================================
// Import / Export
// =============================================================================

// Import reads an ontology document from r. If an ontology with the same
// ID is open it is replaced, otherwise the import is appended. Either way
// the imported ontology becomes active. Only one import runs at a time; a
// second call while one is in flight fails with CONCURRENT_OPERATION. On
// any failure the workspace is left unchanged.
func (w *Workspace) Import(ctx context.Context, r io.Reader) (*ontology.Ontology, error) {
	if !w.importing.CompareAndSwap(false, true) {
		return nil, errs.New(errs.ErrCodeConcurrentOperation, "an import is already running")
	}
	defer w.importing.Store(false)

	start := time.Now()
	o, err := w.readImport(ctx, r)
	if err != nil {
		observability.Persistence().OnImport(ctx, "", 0, 0, time.Since(start), err)
		w.logger.Warn("import failed", "error", err)
		return nil, err
	}

	e := w.newEntry(o)
	w.mu.Lock()
	if i, _ := w.findLocked(o.ID); i >= 0 {
		w.entries[i] = e
	} else {
		w.entries = append(w.entries, e)
	}
	w.activeID = o.ID
	w.mu.Unlock()
	if n := w.cancelEdits(o.ID); n > 0 {
		w.logger.Debug("dropped edits for replaced ontology", "ontology", o.ID, "edits", n)
	}
	w.activeChanged()

	observability.Persistence().OnImport(ctx, o.ID, len(o.Nodes), len(o.Edges), time.Since(start), nil)
	w.logger.Info("ontology imported", "ontology", o.ID, "nodes", len(o.Nodes), "edges", len(o.Edges))
	return o, nil
}

func (w *Workspace) readImport(ctx context.Context, r io.Reader) (*ontology.Ontology, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "import cancelled")
	}
	o, err := codec.Read(r)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "import cancelled")
	}
	return o, nil
}

// ImportFile imports the document at path.
func (w *Workspace) ImportFile(ctx context.Context, path string) (*ontology.Ontology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return w.Import(ctx, f)
}

// Export writes the active ontology to dst as a JSON document and returns
// the suggested filename. Scheduled edits are applied first.
func (w *Workspace) Export(ctx context.Context, dst io.Writer) (string, error) {
	e, err := w.requireActive()
	if err != nil {
		return "", err
	}
	w.FlushEdits()

	start := time.Now()
	o := e.store.Snapshot()
	data, err := codec.Marshal(o)
	if err == nil {
		_, err = dst.Write(data)
		if err != nil {
			err = errs.Wrap(errs.ErrCodeSerialize, err, "write ontology %s", o.ID)
		}
	}
	observability.Persistence().OnExport(ctx, o.ID, len(data), time.Since(start), err)
	if err != nil {
		return "", err
	}
	return codec.Filename(o), nil
}

// =============================================================================
// Storage
// =============================================================================

// Save writes the workspace record, every ontology and the active pointer
// to the configured storage.
func (w *Workspace) Save(ctx context.Context) error {
	if w.storage == nil {
		return errs.New(errs.ErrCodeUnsupported, "no storage configured")
	}
	w.FlushEdits()

	w.mu.Lock()
	info := w.ensureInfoLocked()
	st := &storage.State{
		Meta: storage.Meta{
			WorkspaceID:   info.ID,
			Name:          info.Name,
			Author:        info.Author,
			Created:       info.Created,
			Collaborators: info.Collaborators,
			ActiveID:      w.activeID,
		},
		Ontologies: make([]*ontology.Ontology, len(w.entries)),
	}
	for i, e := range w.entries {
		st.Ontologies[i] = e.slot.Load()
	}
	w.mu.Unlock()

	if err := w.storage.Save(ctx, st); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "save workspace")
	}
	w.logger.Debug("workspace saved", "ontologies", len(st.Ontologies))
	return nil
}

// Load replaces the open ontologies with those in storage and restores the
// active pointer. It returns false, leaving the workspace untouched, when
// storage holds nothing yet.
func (w *Workspace) Load(ctx context.Context) (bool, error) {
	if w.storage == nil {
		return false, errs.New(errs.ErrCodeUnsupported, "no storage configured")
	}
	st, err := w.storage.Load(ctx)
	if err != nil {
		if errs.GetCode(err) != "" {
			return false, err
		}
		return false, errs.Wrap(errs.ErrCodeInternal, err, "load workspace")
	}
	if st == nil {
		return false, nil
	}

	w.FlushEdits()
	entries := make([]*entry, len(st.Ontologies))
	for i, o := range st.Ontologies {
		entries[i] = w.newEntry(o)
	}

	w.mu.Lock()
	w.info = &Info{
		ID:            st.Meta.WorkspaceID,
		Name:          st.Meta.Name,
		Author:        st.Meta.Author,
		Created:       st.Meta.Created,
		Collaborators: slices.Clone(st.Meta.Collaborators),
	}
	w.entries = entries
	w.activeID = ""
	if i, _ := w.findLocked(st.Meta.ActiveID); i >= 0 {
		w.activeID = st.Meta.ActiveID
	}
	w.mu.Unlock()
	w.activeChanged()

	w.logger.Info("workspace loaded", "ontologies", len(entries), "active", st.Meta.ActiveID)
	return true, nil
}

// =============================================================================
// Validation
// =============================================================================

// ValidateOntology validates the active ontology. Suggestions that register
// orphaned relationship types act on the active ontology's registry.
func (w *Workspace) ValidateOntology(ctx context.Context) (*validation.Report, error) {
	e, err := w.requireActive()
	if err != nil {
		return nil, err
	}
	w.FlushEdits()
	return w.validator.Validate(ctx, e.store.Snapshot(), e.registry)
}
