// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about catalog scans, planning, rendering, and sink writes.
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
//	    observability.SetDatasetHooks(&myDatasetHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Dataset().OnRenderStart(ctx, total)
//	// ... render ...
//	observability.Dataset().OnRenderComplete(ctx, rendered, failed, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// DatasetHooks receives events from the dataset generation pipeline.
type DatasetHooks interface {
	// Catalog events
	OnCatalogComplete(ctx context.Context, fonts int, duration time.Duration, err error)

	// Segmentation events
	OnSegmentComplete(ctx context.Context, units int, duration time.Duration, err error)

	// Planning events
	OnPlanComplete(ctx context.Context, items int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, total int)
	OnRenderComplete(ctx context.Context, rendered, failed int, duration time.Duration, err error)

	// Sink events
	OnSinkComplete(ctx context.Context, samples int, duration time.Duration, err error)
}

// NoopDatasetHooks is a no-op implementation of DatasetHooks.
type NoopDatasetHooks struct{}

func (NoopDatasetHooks) OnCatalogComplete(context.Context, int, time.Duration, error)    {}
func (NoopDatasetHooks) OnSegmentComplete(context.Context, int, time.Duration, error)    {}
func (NoopDatasetHooks) OnPlanComplete(context.Context, int, time.Duration, error)       {}
func (NoopDatasetHooks) OnRenderStart(context.Context, int)                              {}
func (NoopDatasetHooks) OnRenderComplete(context.Context, int, int, time.Duration, error) {
}
func (NoopDatasetHooks) OnSinkComplete(context.Context, int, time.Duration, error) {}

var (
	datasetHooks DatasetHooks = NoopDatasetHooks{}
	hooksMu      sync.RWMutex
)

// SetDatasetHooks registers custom dataset hooks.
// This should be called once at application startup before any pipeline operations.
func SetDatasetHooks(h DatasetHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		datasetHooks = h
	}
}

// Dataset returns the registered dataset hooks.
func Dataset() DatasetHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return datasetHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	datasetHooks = NoopDatasetHooks{}
}
