package graphstore

import (
	"sync/atomic"

	"github.com/matzehuels/ontoforge/pkg/ontology"
)

// Slot is the cell holding the current snapshot of one ontology. The store
// reads it before every transition and writes it once per applied
// transition. Published snapshots are treated as immutable.
type Slot interface {
	Load() *ontology.Ontology
	Store(*ontology.Ontology)
}

// MemorySlot is a Slot backed by an atomic pointer.
type MemorySlot struct {
	p atomic.Pointer[ontology.Ontology]
}

// NewMemorySlot returns a slot holding o.
func NewMemorySlot(o *ontology.Ontology) *MemorySlot {
	s := &MemorySlot{}
	s.p.Store(o)
	return s
}

func (s *MemorySlot) Load() *ontology.Ontology   { return s.p.Load() }
func (s *MemorySlot) Store(o *ontology.Ontology) { s.p.Store(o) }
