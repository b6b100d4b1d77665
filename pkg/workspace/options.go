package workspace

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ontoforge/pkg/dualview"
	"github.com/matzehuels/ontoforge/pkg/storage"
	"github.com/matzehuels/ontoforge/pkg/validation"
)

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger shared by the workspace and its components.
func WithLogger(l *log.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithClock sets the time source for timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) {
		if now != nil {
			w.now = now
		}
	}
}

// WithStorage sets the store used by Save and Load.
func WithStorage(s storage.Store) Option {
	return func(w *Workspace) { w.storage = s }
}

// WithFormats sets the text formats offered by the dual view.
func WithFormats(f *dualview.Formats) Option {
	return func(w *Workspace) { w.formats = f }
}

// WithTextFormat sets the initial text format of the dual view.
func WithTextFormat(name string) Option {
	return func(w *Workspace) { w.textFormat = name }
}

// WithDebounce sets the quiet period for scheduled property edits.
func WithDebounce(d time.Duration) Option {
	return func(w *Workspace) { w.debounce = d }
}

// WithValidator sets the validation engine.
func WithValidator(e *validation.Engine) Option {
	return func(w *Workspace) {
		if e != nil {
			w.validator = e
		}
	}
}

// WithAuthor sets the name recorded on new ontologies, notes and the
// workspace owner.
func WithAuthor(name string) Option {
	return func(w *Workspace) { w.author = name }
}
