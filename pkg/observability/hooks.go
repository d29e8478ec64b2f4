// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about document persistence, route computation, and revision
// storage.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDocumentHooks(&myDocumentHooks{})
//	    observability.SetRoutingHooks(&myRoutingHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Document().OnLoadStart(ctx, path)
//	// ... load and validate ...
//	observability.Document().OnLoadComplete(ctx, path, nodeCount, linkCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Document Hooks
// =============================================================================

// DocumentHooks receives events from document load and save operations.
type DocumentHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, path string)
	OnLoadComplete(ctx context.Context, path string, nodeCount, linkCount int, duration time.Duration, err error)

	// Save events
	OnSaveStart(ctx context.Context, path string)
	OnSaveComplete(ctx context.Context, path string, bytes int, duration time.Duration, err error)
}

// =============================================================================
// Routing Hooks
// =============================================================================

// RoutingHooks receives events from wire route computation.
type RoutingHooks interface {
	// OnRouteStart records the start of a full routing pass.
	OnRouteStart(ctx context.Context, linkCount int)

	// OnRouteComplete records a finished routing pass.
	OnRouteComplete(ctx context.Context, linkCount int, duration time.Duration)
}

// =============================================================================
// Revision Hooks
// =============================================================================

// RevisionHooks receives events from the revision store.
type RevisionHooks interface {
	// OnRevisionSaved records an autosaved revision write.
	OnRevisionSaved(ctx context.Context, docID string, size int)

	// OnRevisionPruned records removal of old revisions.
	OnRevisionPruned(ctx context.Context, docID string, removed int)

	// OnStoreError records a revision store failure.
	OnStoreError(ctx context.Context, op string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDocumentHooks is a no-op implementation of DocumentHooks.
type NoopDocumentHooks struct{}

func (NoopDocumentHooks) OnLoadStart(context.Context, string)                                    {}
func (NoopDocumentHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {}
func (NoopDocumentHooks) OnSaveStart(context.Context, string)                                    {}
func (NoopDocumentHooks) OnSaveComplete(context.Context, string, int, time.Duration, error)      {}

// NoopRoutingHooks is a no-op implementation of RoutingHooks.
type NoopRoutingHooks struct{}

func (NoopRoutingHooks) OnRouteStart(context.Context, int)                   {}
func (NoopRoutingHooks) OnRouteComplete(context.Context, int, time.Duration) {}

// NoopRevisionHooks is a no-op implementation of RevisionHooks.
type NoopRevisionHooks struct{}

func (NoopRevisionHooks) OnRevisionSaved(context.Context, string, int)  {}
func (NoopRevisionHooks) OnRevisionPruned(context.Context, string, int) {}
func (NoopRevisionHooks) OnStoreError(context.Context, string, error)   {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	documentHooks DocumentHooks = NoopDocumentHooks{}
	routingHooks  RoutingHooks  = NoopRoutingHooks{}
	revisionHooks RevisionHooks = NoopRevisionHooks{}
	hooksMu       sync.RWMutex
)

// SetDocumentHooks registers custom document hooks.
// This should be called once at application startup before any document operations.
func SetDocumentHooks(h DocumentHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		documentHooks = h
	}
}

// SetRoutingHooks registers custom routing hooks.
// This should be called once at application startup before any routing operations.
func SetRoutingHooks(h RoutingHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		routingHooks = h
	}
}

// SetRevisionHooks registers custom revision hooks.
// This should be called once at application startup before any store operations.
func SetRevisionHooks(h RevisionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		revisionHooks = h
	}
}

// Document returns the registered document hooks.
func Document() DocumentHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return documentHooks
}

// Routing returns the registered routing hooks.
func Routing() RoutingHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return routingHooks
}

// Revision returns the registered revision hooks.
func Revision() RevisionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return revisionHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	documentHooks = NoopDocumentHooks{}
	routingHooks = NoopRoutingHooks{}
	revisionHooks = NoopRevisionHooks{}
}
