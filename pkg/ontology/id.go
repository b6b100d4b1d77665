package ontology

import (
	"strings"

	"github.com/google/uuid"
)

// NamespaceBase is the IRI prefix for generated ontology namespaces.
const NamespaceBase = "http://ontoforge.local/ontology/"

// NewID returns a globally unique identifier of the form "<prefix>-<uuid>".
// Generated IDs are never reused, which keeps the no-reuse invariant trivial
// for programmatically created elements.
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// NewNamespace derives a namespace IRI for an ontology ID.
func NewNamespace(ontologyID string) string {
	short := strings.TrimPrefix(ontologyID, "ontology-")
	if i := strings.IndexByte(short, '-'); i > 0 {
		short = short[:i]
	}
	return NamespaceBase + short + "#"
}
