// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup
// to receive events about pipeline runs and graph loading.
//
// # Architecture
//
// Hook interfaces cover pipeline runs and graph loading. Both default to
// no-ops; [StageStats] is a ready-made pipeline hook that aggregates stage
// timings per transformer, and [MultiPipelineHooks] fans events out.
//
// Hooks observe; they never change a run's outcome. The structured
// diagnostics of a pipeline result stay the authoritative record.
//
// # Usage
//
// Register hooks at application startup, or around a unit of work:
//
//	stats := observability.NewStageStats()
//	prev := observability.SetPipelineHooks(stats)
//	defer observability.SetPipelineHooks(prev)
//	// ... run pipelines, then read stats.Snapshot()
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnRunStart(ctx, runID, len(stages))
//	// ... run stages ...
//	observability.Pipeline().OnRunComplete(ctx, runID, status, duration, failures)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the transformer pipeline.
type PipelineHooks interface {
	// OnRunStart is called after validation, before the first stage.
	OnRunStart(ctx context.Context, runID string, stages int)

	// OnStageComplete is called after every stage; err is nil on success.
	OnStageComplete(ctx context.Context, runID, transformerID, instanceID string, duration time.Duration, err error)

	// OnRunComplete is called once per run with its final status.
	OnRunComplete(ctx context.Context, runID, status string, duration time.Duration, failures int)
}

// =============================================================================
// Graph Hooks
// =============================================================================

// GraphHooks receives events from graph loading.
type GraphHooks interface {
	// OnGraphLoad records a loaded graph and its dangling edge count.
	OnGraphLoad(ctx context.Context, source string, individuals, dangling int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRunStart(context.Context, string, int) {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, string, string, time.Duration, error) {
}
func (NoopPipelineHooks) OnRunComplete(context.Context, string, string, time.Duration, int) {}

// NoopGraphHooks is a no-op implementation of GraphHooks.
type NoopGraphHooks struct{}

func (NoopGraphHooks) OnGraphLoad(context.Context, string, int, int, time.Duration, error) {}

// =============================================================================
// Fan-out
// =============================================================================

// MultiPipelineHooks forwards every event to each hook in order.
type MultiPipelineHooks []PipelineHooks

func (m MultiPipelineHooks) OnRunStart(ctx context.Context, runID string, stages int) {
	for _, h := range m {
		h.OnRunStart(ctx, runID, stages)
	}
}

func (m MultiPipelineHooks) OnStageComplete(ctx context.Context, runID, transformerID, instanceID string, d time.Duration, err error) {
	for _, h := range m {
		h.OnStageComplete(ctx, runID, transformerID, instanceID, d, err)
	}
}

func (m MultiPipelineHooks) OnRunComplete(ctx context.Context, runID, status string, d time.Duration, failures int) {
	for _, h := range m {
		h.OnRunComplete(ctx, runID, status, d, failures)
	}
}

// =============================================================================
// Global Hook Registry
// =============================================================================

// Registered hooks are boxed so the atomics always store one concrete type.
type (
	pipelineBox struct{ PipelineHooks }
	graphBox    struct{ GraphHooks }
)

var (
	pipelineHooks atomic.Pointer[pipelineBox]
	graphHooks    atomic.Pointer[graphBox]
)

func init() { Reset() }

// SetPipelineHooks registers custom pipeline hooks and returns the previous
// ones so callers can restore them. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) PipelineHooks {
	prev := Pipeline()
	if h != nil {
		pipelineHooks.Store(&pipelineBox{h})
	}
	return prev
}

// SetGraphHooks registers custom graph hooks and returns the previous ones.
// A nil h is ignored.
func SetGraphHooks(h GraphHooks) GraphHooks {
	prev := Graph()
	if h != nil {
		graphHooks.Store(&graphBox{h})
	}
	return prev
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	return pipelineHooks.Load().PipelineHooks
}

// Graph returns the registered graph hooks.
func Graph() GraphHooks {
	return graphHooks.Load().GraphHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	pipelineHooks.Store(&pipelineBox{NoopPipelineHooks{}})
	graphHooks.Store(&graphBox{NoopGraphHooks{}})
}
