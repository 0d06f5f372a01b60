package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/observability"
	"github.com/matzehuels/lineage/pkg/transformer"
	"github.com/matzehuels/lineage/pkg/transformer/builtin"
	"github.com/matzehuels/lineage/pkg/visual"
)

// Runner executes pipeline definitions against a registry.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different graphs and configs.
type Runner struct {
	Registry *transformer.Registry
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil registry selects the built-in
// transformers; a nil logger discards output.
func NewRunner(reg *transformer.Registry, logger *log.Logger) *Runner {
	if reg == nil {
		reg = builtin.Registry()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Registry: reg, Logger: logger}
}

// =============================================================================
// Run Options
// =============================================================================

// ProgressFunc is called after each stage with the 1-based stage number.
type ProgressFunc func(current, total int, transformerName string)

// Option customizes a single run.
type Option func(*runOptions)

type runOptions struct {
	progress     ProgressFunc
	sequence     *Sequence
	stageTimeout time.Duration
	anonymized   *genealogy.Graph
	traversal    genealogy.Traversal
}

// WithProgress reports progress after every stage.
func WithProgress(fn ProgressFunc) Option {
	return func(o *runOptions) { o.progress = fn }
}

// WithSequence makes the run supersedable by later runs on the same sequence.
func WithSequence(s *Sequence) Option {
	return func(o *runOptions) { o.sequence = s }
}

// WithStageTimeout fails any stage that runs longer than d.
func WithStageTimeout(d time.Duration) Option {
	return func(o *runOptions) { o.stageTimeout = d }
}

// WithAnonymized supplies the redacted companion graph. Without it the
// runner derives one with [genealogy.Graph.Anonymize].
func WithAnonymized(g *genealogy.Graph) Option {
	return func(o *runOptions) { o.anonymized = g }
}

// WithTraversal overrides the parent/child relation seen by transformers.
func WithTraversal(t genealogy.Traversal) Option {
	return func(o *runOptions) { o.traversal = t }
}

// Sequence hands out monotonically increasing run tokens. A run holding a
// token older than [Sequence.Current] has been superseded.
type Sequence struct {
	n atomic.Uint64
}

// Next starts a new run and returns its token.
func (s *Sequence) Next() uint64 { return s.n.Add(1) }

// Current returns the token of the newest run.
func (s *Sequence) Current() uint64 { return s.n.Load() }

// =============================================================================
// Execute
// =============================================================================

// Execute validates cfg and runs its stages over g in order.
//
// The only error returned is a CONFIG_ERROR from validation. Stage failures,
// panics and timeouts are recorded as failed diagnostics and the run goes on
// with the next stage.
func (r *Runner) Execute(ctx context.Context, g *genealogy.Graph, cfg Config, opts ...Option) (*Result, error) {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}

	stages, err := Validate(r.Registry, cfg)
	if err != nil {
		return nil, err
	}

	var token uint64
	if o.sequence != nil {
		token = o.sequence.Next()
	}
	superseded := func() bool {
		return o.sequence != nil && o.sequence.Current() != token
	}

	start := time.Now()
	res := &Result{
		RunID:       uuid.NewString(),
		Status:      StatusComplete,
		Diagnostics: make([]Diagnostic, 0, len(stages)),
	}
	canvas := visual.Canvas{Width: cfg.CanvasWidth, Height: cfg.CanvasHeight}
	acc := visual.NewComplete(g, canvas)
	res.Warnings = hideDangling(g, acc)
	for _, w := range res.Warnings {
		r.Logger.Warn("dangling edge", "edge", w.EntityID, "reason", w.Message)
	}

	anon := o.anonymized
	if anon == nil {
		anon = g.Anonymize()
	}

	hooks := observability.Pipeline()
	hooks.OnRunStart(ctx, res.RunID, len(stages))
	r.Logger.Info("pipeline started",
		"run", res.RunID,
		"stages", len(stages),
		"individuals", g.IndividualCount())

	for i, inst := range stages {
		if superseded() {
			res.Status = StatusSuperseded
			break
		}
		if ctx.Err() != nil {
			res.Status = StatusCanceled
			break
		}

		tc := &transformer.Context{
			Graph:               g,
			Traversal:           o.traversal,
			Anonymized:          anon,
			Visual:              acc.Clone(),
			Canvas:              canvas,
			Temperature:         cfg.Temperature,
			Seed:                cfg.Seed,
			PrimaryIndividualID: cfg.PrimaryIndividualID,
			RunID:               res.RunID,
			InstanceID:          inst.InstanceID,
		}

		stageStart := time.Now()
		u, err := runStage(ctx, inst, tc, o.stageTimeout)
		elapsed := time.Since(stageStart)

		if superseded() {
			res.Status = StatusSuperseded
			break
		}

		d := Diagnostic{
			TransformerID:   inst.Config.ID,
			InstanceID:      inst.InstanceID,
			TransformerName: inst.Config.Name,
			ExecutionTime:   elapsed,
			ExecutionTimeMs: millis(elapsed),
			Success:         err == nil,
		}
		if err != nil {
			err = lerrors.Wrap(lerrors.ErrCodeTransformerExecution, err, "%s (%s)", inst.Config.ID, inst.InstanceID)
			d.Error = err.Error()
			r.Logger.Warn("stage failed",
				"transformer", inst.Config.ID,
				"instance", inst.InstanceID,
				"error", lerrors.UserMessage(err))
		} else {
			acc.Apply(u)
			r.Logger.Debug("stage complete",
				"transformer", inst.Config.ID,
				"instance", inst.InstanceID,
				"duration", elapsed)
		}
		res.Diagnostics = append(res.Diagnostics, d)
		hooks.OnStageComplete(ctx, res.RunID, inst.Config.ID, inst.InstanceID, elapsed, err)

		if o.progress != nil {
			o.progress(i+1, len(stages), inst.Config.Name)
		}
		if err != nil && ctx.Err() != nil {
			res.Status = StatusCanceled
			break
		}
	}

	if res.Status != StatusSuperseded {
		res.Visual = acc
	}
	res.TotalExecutionTime = time.Since(start)
	res.TotalExecutionTimeMs = millis(res.TotalExecutionTime)

	hooks.OnRunComplete(ctx, res.RunID, res.Status, res.TotalExecutionTime, res.Failures())
	r.Logger.Info("pipeline finished",
		"run", res.RunID,
		"status", res.Status,
		"failures", res.Failures(),
		"duration", res.TotalExecutionTime)
	return res, nil
}

// runStage runs one instance, converting panics and timeouts into errors.
// The stage works on its own snapshot, so abandoning a hung stage cannot
// corrupt the accumulator.
func runStage(ctx context.Context, inst *transformer.Instance, tc *transformer.Context, timeout time.Duration) (visual.Update, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type outcome struct {
		update visual.Update
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", p)}
			}
		}()
		u, err := inst.Run(ctx, tc)
		done <- outcome{update: u, err: err}
	}()

	var o outcome
	select {
	case o = <-done:
	case <-ctx.Done():
		select {
		case o = <-done:
		default:
			o.err = ctx.Err()
		}
	}
	if o.err != nil && timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return visual.Update{}, fmt.Errorf("timed out after %s", timeout)
	}
	return o.update, o.err
}

// hideDangling hides every edge with an unknown endpoint and returns one
// warning per edge.
func hideDangling(g *genealogy.Graph, acc *visual.Complete) []Warning {
	dangling := g.DanglingEdges()
	if len(dangling) == 0 {
		return nil
	}
	warnings := make([]Warning, 0, len(dangling))
	for _, e := range dangling {
		acc.Edges[e.ID] = acc.Edges[e.ID].Merge(visual.Hide())

		missing := e.SourceID
		if _, ok := g.Individual(e.SourceID); ok {
			missing = e.TargetID
		}
		warnings = append(warnings, Warning{
			Code:     string(lerrors.ErrCodeGraphReference),
			EntityID: e.ID,
			Message:  fmt.Sprintf("edge %s references unknown individual %q", e.ID, missing),
		})
	}
	return warnings
}

// =============================================================================
// Batch Execution
// =============================================================================

// Job is one independent pipeline run in a batch.
type Job struct {
	// ID names the job in results and errors; a nanoid is generated if empty.
	ID      string
	Graph   *genealogy.Graph
	Config  Config
	Options []Option
}

// JobResult pairs a job ID with its run result.
type JobResult struct {
	JobID  string  `json:"jobId"`
	Result *Result `json:"result"`
}

// ExecuteAll runs independent jobs concurrently, at most limit at a time
// (limit <= 0 means unbounded). Every job is validated first; if any config
// is invalid nothing runs. Results are returned in job order.
//
// Jobs share nothing but the registry. Do not give batch jobs a common
// [Sequence]: they would supersede each other.
func (r *Runner) ExecuteAll(ctx context.Context, jobs []Job, limit int) ([]JobResult, error) {
	var errs lerrors.ConfigErrors
	ids := make([]string, len(jobs))
	for i, job := range jobs {
		ids[i] = job.ID
		if ids[i] == "" {
			id, err := gonanoid.New()
			if err != nil {
				return nil, lerrors.Wrap(lerrors.ErrCodeInternal, err, "generate job ID")
			}
			ids[i] = id
		}
		if job.Graph == nil {
			errs = append(errs, lerrors.Config("job %s: no graph", ids[i]))
			continue
		}
		if _, err := Validate(r.Registry, job.Config); err != nil {
			errs = append(errs, lerrors.Config("job %s: %s", ids[i], lerrors.UserMessage(err)))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	results := make([]JobResult, len(jobs))
	var eg errgroup.Group
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for i, job := range jobs {
		eg.Go(func() error {
			res, err := r.Execute(ctx, job.Graph, job.Config, job.Options...)
			if err != nil {
				return fmt.Errorf("job %s: %w", ids[i], err)
			}
			results[i] = JobResult{JobID: ids[i], Result: res}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// =============================================================================
// Graph Loading
// =============================================================================

// LoadGraph reads a graph file and reports the load to the graph hooks.
func LoadGraph(ctx context.Context, path string) (*genealogy.Graph, error) {
	start := time.Now()
	g, err := genealogy.ReadFile(path)
	var individuals, dangling int
	if g != nil {
		individuals = g.IndividualCount()
		dangling = len(g.DanglingEdges())
	}
	observability.Graph().OnGraphLoad(ctx, path, individuals, dangling, time.Since(start), err)
	return g, err
}
