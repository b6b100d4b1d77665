// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about graph mutations, view synchronization,
// validation runs, and import/export.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The engine packages call hooks; only main (or a host such as the HTTP
// server) registers concrete implementations, so library code never imports
// a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetStoreHooks(metrics.New(prometheus.DefaultRegisterer))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Store().OnMutation("add_node", ontologyID, true, nil)
package observability

import (
	"context"
	"sync"
	"time"
)

// Sync directions reported through [SyncHooks].
const (
	DirectionGraphToText = "graph_to_text"
	DirectionTextToGraph = "text_to_graph"
)

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from graph store transitions.
type StoreHooks interface {
	// OnMutation records a mutating call. applied is false for no-ops such as
	// updates addressed to a missing element.
	OnMutation(op, ontologyID string, applied bool, err error)
}

// =============================================================================
// Sync Hooks
// =============================================================================

// SyncHooks receives events from diagram/text synchronization.
type SyncHooks interface {
	OnSync(direction, format string, duration time.Duration, err error)
}

// =============================================================================
// Validation Hooks
// =============================================================================

// ValidationHooks receives events from validation runs.
type ValidationHooks interface {
	OnValidationStart(ctx context.Context, ontologyID string)
	OnValidationComplete(ctx context.Context, ontologyID string, errors, warnings int, duration time.Duration, err error)
	// OnValidationRejected records a run refused because another was in flight.
	OnValidationRejected(ctx context.Context, ontologyID string)
}

// =============================================================================
// Persistence Hooks
// =============================================================================

// PersistenceHooks receives events from import, export and storage.
type PersistenceHooks interface {
	OnImport(ctx context.Context, ontologyID string, nodes, edges int, duration time.Duration, err error)
	OnExport(ctx context.Context, ontologyID string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnMutation(string, string, bool, error) {}

// NoopSyncHooks is a no-op implementation of SyncHooks.
type NoopSyncHooks struct{}

func (NoopSyncHooks) OnSync(string, string, time.Duration, error) {}

// NoopValidationHooks is a no-op implementation of ValidationHooks.
type NoopValidationHooks struct{}

func (NoopValidationHooks) OnValidationStart(context.Context, string) {}
func (NoopValidationHooks) OnValidationComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopValidationHooks) OnValidationRejected(context.Context, string) {}

// NoopPersistenceHooks is a no-op implementation of PersistenceHooks.
type NoopPersistenceHooks struct{}

func (NoopPersistenceHooks) OnImport(context.Context, string, int, int, time.Duration, error) {}
func (NoopPersistenceHooks) OnExport(context.Context, string, int, time.Duration, error)      {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	storeHooks       StoreHooks       = NoopStoreHooks{}
	syncHooks        SyncHooks        = NoopSyncHooks{}
	validationHooks  ValidationHooks  = NoopValidationHooks{}
	persistenceHooks PersistenceHooks = NoopPersistenceHooks{}
	hooksMu          sync.RWMutex
)

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any mutations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetSyncHooks registers custom sync hooks.
func SetSyncHooks(h SyncHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		syncHooks = h
	}
}

// SetValidationHooks registers custom validation hooks.
func SetValidationHooks(h ValidationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		validationHooks = h
	}
}

// SetPersistenceHooks registers custom persistence hooks.
func SetPersistenceHooks(h PersistenceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		persistenceHooks = h
	}
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Sync returns the registered sync hooks.
func Sync() SyncHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return syncHooks
}

// Validation returns the registered validation hooks.
func Validation() ValidationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return validationHooks
}

// Persistence returns the registered persistence hooks.
func Persistence() PersistenceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return persistenceHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	storeHooks = NoopStoreHooks{}
	syncHooks = NoopSyncHooks{}
	validationHooks = NoopValidationHooks{}
	persistenceHooks = NoopPersistenceHooks{}
}
