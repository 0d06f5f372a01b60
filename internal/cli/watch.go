package cli

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

const defaultDebounce = 200 * time.Millisecond

type watchOptions struct {
	pipelinePath string
	output       string
	debounce     time.Duration
}

// watchCommand re-runs the pipeline whenever its inputs change.
func (c *CLI) watchCommand() *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch <graph.json>",
		Short: "Re-run the pipeline whenever the graph or pipeline file changes",
		Long: `Watch a graph and a pipeline definition and re-run on every change.

A change that arrives while a run is in progress starts a new run at once; the
older run is superseded and its result discarded.`,
		Example: `  lineage watch family.json -c pipeline.toml -o visual.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(c.settings, cmd, runFlagKeys...); err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.pipelinePath, "pipeline", "c", "", "pipeline definition (.toml, .yaml or .json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write each result to this file instead of stdout")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", defaultDebounce, "quiet period before re-running")
	_ = cmd.MarkFlagRequired("pipeline")
	addRunFlags(cmd)

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, stdout io.Writer, graphPath string, opts watchOptions) error {
	logger := loggerFromContext(ctx)
	seq := &pipeline.Sequence{}

	var (
		runs  runGroup
		outMu sync.Mutex
	)
	trigger := func() {
		if ctx.Err() != nil {
			return
		}
		runs.Go(func() {
			c.watchRun(ctx, seq, &outMu, stdout, graphPath, opts)
		})
	}

	fw, err := newFileWatcher(logger, opts.debounce, trigger, graphPath, opts.pipelinePath)
	if err != nil {
		return err
	}

	printInfo("Watching %s and %s (Ctrl+C to stop)", graphPath, opts.pipelinePath)
	trigger()
	err = fw.Run(ctx)
	runs.Close()
	return err
}

// watchRun performs one run. Load and config errors are reported and the
// watch goes on.
func (c *CLI) watchRun(ctx context.Context, seq *pipeline.Sequence, outMu *sync.Mutex, stdout io.Writer, graphPath string, opts watchOptions) {
	logger := loggerFromContext(ctx)

	g, err := pipeline.LoadGraph(ctx, graphPath)
	if err != nil {
		printError("%s", lerrors.UserMessage(err))
		return
	}
	cfg, err := c.loadPipeline(opts.pipelinePath)
	if err != nil {
		printError("%s", lerrors.UserMessage(err))
		return
	}

	res, err := c.newRunner().Execute(ctx, g, cfg,
		pipeline.WithSequence(seq),
		pipeline.WithStageTimeout(c.settings.GetDuration(keyStageTimeout)))
	if err != nil {
		printError("%s", lerrors.UserMessage(err))
		return
	}
	if res.Status != pipeline.StatusComplete {
		logger.Debug("run discarded", "run", res.RunID, "status", res.Status)
		return
	}

	outMu.Lock()
	defer outMu.Unlock()
	printStats(res, false)
	printDiagnostics(res)
	if err := writeResult(stdout, opts.output, res); err != nil {
		printError("write result: %v", err)
		return
	}
	if opts.output != "" {
		printSuccess("Updated %s", opts.output)
	}
	logger.Info("run complete", "run", res.RunID, "failures", res.Failures())
}
