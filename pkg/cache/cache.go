// Package cache stores rendered diagrams so repeated renders of an
// unchanged ontology skip Graphviz.
//
// Keys are derived from the DOT source and the output format with
// [DiagramKey]; any change to the ontology that affects the diagram changes
// the DOT text and therefore the key. Entries never need explicit
// invalidation, only expiry.
//
// Three implementations are provided:
//   - [FileCache] for the CLI, under the user cache directory
//   - [MemoryCache] for the HTTP server, an expiring LRU
//   - [NullCache] when caching is disabled
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long rendered diagrams stay valid.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store keyed by string.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources.
	Close() error
}

// DiagramKey returns the cache key of a diagram rendered from dot in
// format.
func DiagramKey(dot, format string) string {
	return hashKey("diagram", format, dot)
}
