// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about document lifecycle, edits, recovery autosaves and
// HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the core packages never
// import a logging or metrics framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDocumentHooks(&myDocumentHooks{})
//	    observability.SetRecoveryHooks(&myRecoveryHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	// ... write the file ...
//	observability.Document().OnSave(ctx, path, nodeCount, edgeCount, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Document Hooks
// =============================================================================

// DocumentHooks receives document lifecycle and edit events.
type DocumentHooks interface {
	// Lifecycle events
	OnNew(ctx context.Context, docID string)
	OnOpen(ctx context.Context, path string, nodeCount, edgeCount int, duration time.Duration, err error)
	OnSave(ctx context.Context, path string, nodeCount, edgeCount int, duration time.Duration, err error)

	// OnEdit records one semantic editor action, such as "node-created".
	OnEdit(ctx context.Context, action string)
}

// =============================================================================
// Recovery Hooks
// =============================================================================

// RecoveryHooks receives events from the recovery store.
type RecoveryHooks interface {
	// OnAutosave records a snapshot write.
	OnAutosave(ctx context.Context, backend string, size int, err error)

	// OnRecover records a recovery lookup and whether it found a snapshot.
	OnRecover(ctx context.Context, backend string, hit bool)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP host.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response sent for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDocumentHooks is a no-op implementation of DocumentHooks.
type NoopDocumentHooks struct{}

func (NoopDocumentHooks) OnNew(context.Context, string) {}
func (NoopDocumentHooks) OnOpen(context.Context, string, int, int, time.Duration, error) {
}
func (NoopDocumentHooks) OnSave(context.Context, string, int, int, time.Duration, error) {
}
func (NoopDocumentHooks) OnEdit(context.Context, string) {}

// NoopRecoveryHooks is a no-op implementation of RecoveryHooks.
type NoopRecoveryHooks struct{}

func (NoopRecoveryHooks) OnAutosave(context.Context, string, int, error) {}
func (NoopRecoveryHooks) OnRecover(context.Context, string, bool)        {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	documentHooks DocumentHooks = NoopDocumentHooks{}
	recoveryHooks RecoveryHooks = NoopRecoveryHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetDocumentHooks registers custom document hooks.
// This should be called once at application startup before any document is opened.
func SetDocumentHooks(h DocumentHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		documentHooks = h
	}
}

// SetRecoveryHooks registers custom recovery hooks.
func SetRecoveryHooks(h RecoveryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		recoveryHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once before the HTTP host starts serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Document returns the registered document hooks.
func Document() DocumentHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return documentHooks
}

// Recovery returns the registered recovery hooks.
func Recovery() RecoveryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return recoveryHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	documentHooks = NoopDocumentHooks{}
	recoveryHooks = NoopRecoveryHooks{}
	httpHooks = NoopHTTPHooks{}
}
