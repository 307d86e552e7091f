// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about pipeline execution and session
// store operations.
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
//   - Allows different backends (Prometheus, OpenTelemetry, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnSynthesizeStart(ctx, nodes, depth)
//	// ... generate graph ...
//	observability.Pipeline().OnSynthesizeComplete(ctx, nodes, depth, edgeCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the synthesize/analyze/render pipeline.
type PipelineHooks interface {
	// Synthesis events
	OnSynthesizeStart(ctx context.Context, nodes, depth int)
	OnSynthesizeComplete(ctx context.Context, nodes, depth, edgeCount int, duration time.Duration, err error)

	// Analysis events
	OnAnalyzeStart(ctx context.Context, issueCount int)
	OnAnalyzeComplete(ctx context.Context, issueCount, candidateCount int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from session store and render cache operations.
type StoreHooks interface {
	// OnCacheHit records a render cache hit.
	OnCacheHit(ctx context.Context, format string)

	// OnCacheMiss records a render cache miss.
	OnCacheMiss(ctx context.Context, format string)

	// OnSessionSave records a session write.
	OnSessionSave(ctx context.Context, backend string)

	// OnSessionLoad records a session read; found reports whether the
	// session existed.
	OnSessionLoad(ctx context.Context, backend string, found bool)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnSynthesizeStart(context.Context, int, int) {}
func (NoopPipelineHooks) OnSynthesizeComplete(context.Context, int, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnAnalyzeStart(context.Context, int)                               {}
func (NoopPipelineHooks) OnAnalyzeComplete(context.Context, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, time.Duration, error)    {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnCacheHit(context.Context, string)          {}
func (NoopStoreHooks) OnCacheMiss(context.Context, string)         {}
func (NoopStoreHooks) OnSessionSave(context.Context, string)       {}
func (NoopStoreHooks) OnSessionLoad(context.Context, string, bool) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	storeHooks    StoreHooks    = NoopStoreHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	storeHooks = NoopStoreHooks{}
}
