package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

// errPickCanceled is returned when the ego picker is closed without a choice.
var errPickCanceled = errors.New("no individual selected")

type runOptions struct {
	pipelinePath string
	output       string
	pick         bool
}

// runCommand creates the run command.
func (c *CLI) runCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <graph.json>",
		Short: "Run a transformer pipeline over a family graph",
		Long: `Run a transformer pipeline over a family graph and emit the visual metadata.

The pipeline definition lists transformer instances in order, each with its
dimensions and visual parameters. Flags and LINEAGE_* variables override the
definition's run-wide settings. The result is written as JSON to stdout unless
--output is given.`,
		Example: `  lineage run family.json -c pipeline.toml
  lineage run family.json -c pipeline.yaml --seed demo --temperature 0.8 -o visual.json
  lineage run family.json -c pipeline.toml --pick`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(c.settings, cmd, append(runFlagKeys, keyCache)...); err != nil {
				return err
			}
			return c.runRun(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.pipelinePath, "pipeline", "c", "", "pipeline definition (.toml, .yaml or .json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose the primary individual interactively")
	cmd.Flags().Bool(keyCache, true, "reuse the result of an identical earlier run")
	_ = cmd.MarkFlagRequired("pipeline")
	addRunFlags(cmd)

	return cmd
}

func (c *CLI) runRun(ctx context.Context, stdout io.Writer, graphPath string, opts runOptions) error {
	logger := loggerFromContext(ctx)

	prog := newProgress(logger)
	g, err := pipeline.LoadGraph(ctx, graphPath)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded %d individuals", g.IndividualCount()))

	cfg, err := c.loadPipeline(opts.pipelinePath)
	if err != nil {
		return err
	}
	if opts.pick {
		id, err := pickIndividual(g, cfg.PrimaryIndividualID)
		if err != nil {
			return err
		}
		cfg.PrimaryIndividualID = id
	}

	res, cached, err := c.execute(ctx, g, cfg)
	if err != nil {
		return err
	}

	printStats(res, cached)
	printDiagnostics(res)
	if res.Status == pipeline.StatusCanceled {
		return context.Canceled
	}

	if err := writeResult(stdout, opts.output, res); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if opts.output != "" {
		printSuccess("Generated visual metadata")
		printFile(opts.output)
		printNextStep("Preview", fmt.Sprintf("lineage dot %s -r %s -f svg -o preview.svg", graphPath, opts.output))
	}
	return nil
}

// loadPipeline reads a pipeline definition and applies run settings.
func (c *CLI) loadPipeline(path string) (pipeline.Config, error) {
	cfg, err := pipeline.LoadConfigFile(path)
	if err != nil {
		return pipeline.Config{}, err
	}
	applyOverrides(c.settings, &cfg)
	return cfg, nil
}

// execute runs cfg over g behind a spinner, consulting the result cache
// first. The second return value reports a cache hit.
func (c *CLI) execute(ctx context.Context, g *genealogy.Graph, cfg pipeline.Config) (*pipeline.Result, bool, error) {
	fc := c.openCache()
	var key string
	if fc != nil {
		if data, err := json.Marshal(g.Export()); err == nil {
			key, _ = cache.ResultKey(data, cfg)
		}
	}
	if res := c.cachedResult(ctx, fc, key); res != nil {
		c.Logger.Debug("using cached result", "key", key, "run", res.RunID)
		return res, true, nil
	}

	spinner := newSpinnerWithContext(ctx, "Running pipeline...")
	spinner.Start()
	res, err := c.newRunner().Execute(ctx, g, cfg,
		pipeline.WithProgress(func(current, total int, name string) {
			spinner.SetMessage(fmt.Sprintf("[%d/%d] %s", current, total, name))
		}),
		pipeline.WithStageTimeout(c.settings.GetDuration(keyStageTimeout)))
	spinner.Stop()
	if err != nil {
		return nil, false, err
	}

	c.storeResult(ctx, fc, key, res)
	return res, false, nil
}

// writeResult writes res as JSON to path, or to w when path is empty.
func writeResult(w io.Writer, path string, res *pipeline.Result) error {
	if path != "" {
		return pipeline.WriteResultFile(res, path)
	}
	data, err := pipeline.MarshalResult(res)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
