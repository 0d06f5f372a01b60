// Package pipeline runs an ordered chain of transformers over a family graph
// and accumulates their visual metadata.
//
// This package is the single entry point used by the CLI and by library
// callers. By centralizing validation, execution and diagnostics here, every
// front end gets the same failure semantics.
//
// # Architecture
//
// A run has two phases:
//
//  1. Validate: the configuration is checked as a whole (non-empty stage
//     list, temperature in [0, 1], positive canvas, known transformer and
//     dimension IDs, bindable parameters). Any problem returns a
//     CONFIG_ERROR and no stage runs.
//  2. Execute: stages run strictly in order. Each sees a snapshot of the
//     metadata accumulated so far; its update is merged on success. A stage
//     that fails, panics or times out records a failure diagnostic and the
//     run continues with the next stage.
//
// After validation [Runner.Execute] never returns an error: the [Result]
// carries the merged metadata, one [Diagnostic] per stage and a [Warning]
// per dangling edge.
//
// # Usage
//
//	cfg, err := pipeline.LoadConfigFile("pipeline.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	runner := pipeline.NewRunner(builtin.Registry(), logger)
//	result, err := runner.Execute(ctx, g, cfg)
//	if err != nil {
//	    log.Fatal(err) // configuration problem
//	}
//	for _, d := range result.Diagnostics {
//	    fmt.Println(d.TransformerID, d.Success, d.ExecutionTime)
//	}
//
// # Superseding runs
//
// Runs that share a [Sequence] supersede each other: a run checks its token
// before merging each stage and stops with [StatusSuperseded] once a newer
// run has started.
package pipeline

import (
	"time"

	"github.com/matzehuels/lineage/pkg/visual"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Library
// =============================================================================

const (
	// DefaultWidth is the default canvas width in renderer units.
	DefaultWidth = 800.0

	// DefaultHeight is the default canvas height in renderer units.
	DefaultHeight = 600.0

	// DefaultTemperature is the default variance temperature.
	DefaultTemperature = 0.5

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = "lineage"
)

// Run statuses.
const (
	StatusComplete   = "complete"
	StatusSuperseded = "superseded"
	StatusCanceled   = "canceled"
)

// =============================================================================
// Result - Pipeline Output
// =============================================================================

// Diagnostic records the outcome of one stage.
type Diagnostic struct {
	TransformerID   string        `json:"transformerId"`
	InstanceID      string        `json:"instanceId"`
	TransformerName string        `json:"transformerName"`
	ExecutionTime   time.Duration `json:"-"`
	ExecutionTimeMs float64       `json:"executionTimeMs"`
	Success         bool          `json:"success"`
	Error           string        `json:"error,omitempty"`
}

// Warning is a non-fatal graph problem found before execution.
type Warning struct {
	Code     string `json:"code"`
	EntityID string `json:"entityId"`
	Message  string `json:"message"`
}

// Result is the output of a pipeline run.
type Result struct {
	RunID  string `json:"runId"`
	Status string `json:"status"`

	// Visual is the merged metadata. It is nil for superseded runs.
	Visual *visual.Complete `json:"visualMetadata,omitempty"`

	Diagnostics []Diagnostic `json:"diagnostics"`
	Warnings    []Warning    `json:"warnings,omitempty"`

	TotalExecutionTime   time.Duration `json:"-"`
	TotalExecutionTimeMs float64       `json:"totalExecutionTimeMs"`
}

// Failures returns the number of failed stages.
func (r *Result) Failures() int {
	n := 0
	for _, d := range r.Diagnostics {
		if !d.Success {
			n++
		}
	}
	return n
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
