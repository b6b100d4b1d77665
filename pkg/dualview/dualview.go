// Package dualview coordinates the diagram and text representations of the
// active ontology.
//
// Synchronization is explicit and asymmetric. Switching from diagram to
// text serializes the graph into the text buffer; every other direction
// waits for [Synchronizer.SyncViews]. Edits to the text buffer never parse,
// and edits to the graph never rewrite the text; both simply mark the views
// as out of sync.
//
// The synchronizer remembers the graph snapshot it last agreed with. Any
// later transition of the graph store publishes a new snapshot, so IsSync
// drops to false even when the mutation did not go through this package.
package dualview

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ontoforge/pkg/codec"
	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/graphstore"
	"github.com/matzehuels/ontoforge/pkg/observability"
	"github.com/matzehuels/ontoforge/pkg/ontology"
)

// Mode is the representation currently shown to the user.
type Mode string

const (
	ModeDiagram Mode = "diagram"
	ModeText    Mode = "text"
)

// State is a copy of the synchronizer's state.
type State struct {
	ActiveMode  Mode
	IsSync      bool
	TextContent string
	TextFormat  string
}

// StoreFunc returns the graph store of the active ontology, or nil.
type StoreFunc func() *graphstore.Store

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Synchronizer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFormats sets the text format registry. The default is
// DefaultFormats().
func WithFormats(f *Formats) Option {
	return func(s *Synchronizer) {
		if f != nil {
			s.formats = f
		}
	}
}

// WithTextFormat sets the initial text format. Unknown names fall back to
// JSON.
func WithTextFormat(name string) Option {
	return func(s *Synchronizer) { s.format = name }
}

// Synchronizer owns the dual-view state.
type Synchronizer struct {
	mu      sync.Mutex
	source  StoreFunc
	formats *Formats
	logger  *log.Logger

	mode   Mode
	text   string
	format string

	// synced is the snapshot the text last agreed with; nil means out of
	// sync.
	synced *ontology.Ontology
}

// New returns a synchronizer in diagram mode reading the active graph
// through source.
func New(source StoreFunc, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		source:  source,
		formats: DefaultFormats(),
		logger:  log.Default(),
		mode:    ModeDiagram,
		format:  FormatJSON,
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, ok := s.formats.Get(s.format); !ok {
		s.format = FormatJSON
	}
	return s
}

// Formats returns the format registry.
func (s *Synchronizer) Formats() *Formats { return s.formats }

// State returns a copy of the current state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		ActiveMode:  s.mode,
		IsSync:      s.inSync(),
		TextContent: s.text,
		TextFormat:  s.format,
	}
}

func (s *Synchronizer) inSync() bool {
	if s.synced == nil {
		return false
	}
	store := s.source()
	return store != nil && store.Snapshot() == s.synced
}

// SetViewMode switches the active representation. Switching from diagram
// to text serializes the graph first; if that fails the mode still
// switches, the text is left as it was and the error is returned.
func (s *Synchronizer) SetViewMode(mode Mode) error {
	if mode != ModeDiagram && mode != ModeText {
		return errs.New(errs.ErrCodeInvalidInput, "unknown view mode %q", mode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.mode
	s.mode = mode
	if prev == ModeDiagram && mode == ModeText {
		return s.graphToText()
	}
	return nil
}

// SetTextContent replaces the text buffer without parsing it.
func (s *Synchronizer) SetTextContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = content
	s.synced = nil
}

// SetTextFormat selects the text format. The buffer is not converted: in
// diagram mode it is regenerated on the next switch to text, in text mode
// it is kept as typed. Either way the views are out of sync afterwards.
func (s *Synchronizer) SetTextFormat(name string) error {
	if _, ok := s.formats.Get(name); !ok {
		return errs.New(errs.ErrCodeUnsupported, "unknown text format %q (available: %v)", name, s.formats.Names())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == s.format {
		return nil
	}
	s.format = name
	s.synced = nil
	return nil
}

// Reset returns to diagram mode with an empty buffer. The text format is
// kept. Call it when the store behind the source changes identity.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeDiagram
	s.text = ""
	s.synced = nil
}

// SyncViews reconciles the two views in the direction of the active mode.
// In text mode the buffer is parsed and replaces the graph's nodes, edges
// and custom relationship types; any failure is a PARSE_ERROR and leaves the
// graph untouched. In diagram mode the graph is serialized into the buffer;
// on failure the buffer is left untouched.
func (s *Synchronizer) SyncViews() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeText {
		return s.textToGraph()
	}
	return s.graphToText()
}

func (s *Synchronizer) graphToText() (err error) {
	start := time.Now()
	defer func() {
		observability.Sync().OnSync(observability.DirectionGraphToText, s.format, time.Since(start), err)
	}()

	store := s.source()
	if store == nil || store.Snapshot() == nil {
		return errs.New(errs.ErrCodeNoActiveOntology, "no active ontology")
	}
	snap := store.Snapshot()
	f, _ := s.formats.Get(s.format)
	data, err := f.Marshal(GraphOf(snap))
	if err != nil {
		s.synced = nil
		return errs.Wrap(errs.ErrCodeSerialize, err, "serialize graph as %s", s.format)
	}
	s.text = string(data)
	s.synced = snap
	s.logger.Debug("graph serialized", "format", s.format, "bytes", len(data))
	return nil
}

func (s *Synchronizer) textToGraph() (err error) {
	start := time.Now()
	defer func() {
		observability.Sync().OnSync(observability.DirectionTextToGraph, s.format, time.Since(start), err)
	}()

	store := s.source()
	if store == nil || store.Snapshot() == nil {
		return errs.New(errs.ErrCodeNoActiveOntology, "no active ontology")
	}
	s.synced = nil

	f, _ := s.formats.Get(s.format)
	g, err := f.Unmarshal([]byte(s.text))
	if err != nil {
		return errs.Wrap(errs.ErrCodeParse, err, "parse %s text", s.format)
	}
	if err := codec.Validate(&g); err != nil {
		return errs.Wrap(errs.ErrCodeParse, err, "invalid %s document", s.format)
	}
	if err := store.ReplaceGraph(codec.ToNodes(g.Nodes), codec.ToEdges(g.Edges), g.CustomRelationshipTypes); err != nil {
		return errs.Wrap(errs.ErrCodeParse, err, "apply %s text", s.format)
	}
	s.synced = store.Snapshot()
	s.logger.Debug("text applied to graph", "format", s.format, "nodes", len(g.Nodes), "edges", len(g.Edges))
	return nil
}

// GraphOf returns the text-view document for o.
func GraphOf(o *ontology.Ontology) Graph {
	custom := o.CustomRelationshipTypes
	if custom == nil {
		custom = []string{}
	}
	return Graph{
		Nodes:                   codec.FromNodes(o.Nodes),
		Edges:                   codec.FromEdges(o.Edges),
		CustomRelationshipTypes: custom,
	}
}
