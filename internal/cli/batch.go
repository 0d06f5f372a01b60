package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/observability"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

type batchOptions struct {
	pipelines []string
	outputDir string
	timings   bool
}

// batchCommand runs several pipeline definitions over one graph.
func (c *CLI) batchCommand() *cobra.Command {
	var opts batchOptions

	cmd := &cobra.Command{
		Use:   "batch <graph.json>",
		Short: "Run several pipelines over the same graph concurrently",
		Long: `Run several pipeline definitions over the same graph.

Every definition is validated before any run starts. Runs are independent and
execute concurrently, at most --concurrency at a time. Each result is written
to <output-dir>/<name>.json, where name is the definition's file name without
its extension.`,
		Example: `  lineage batch family.json -c fan.toml -c tree.yaml -o out/
  lineage batch family.json -c fan.toml -c tree.yaml --timings`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(c.settings, cmd, append(runFlagKeys, keyConcurrency)...); err != nil {
				return err
			}
			return c.runBatch(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.pipelines, "pipeline", "c", nil, "pipeline definition (repeatable)")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", ".", "directory for result files")
	cmd.Flags().Int(keyConcurrency, defaultConcurrency, "maximum concurrent runs (0 for unbounded)")
	cmd.Flags().BoolVar(&opts.timings, "timings", false, "print per-transformer stage timings")
	_ = cmd.MarkFlagRequired("pipeline")
	addRunFlags(cmd)

	return cmd
}

func (c *CLI) runBatch(ctx context.Context, graphPath string, opts batchOptions) error {
	logger := loggerFromContext(ctx)

	g, err := pipeline.LoadGraph(ctx, graphPath)
	if err != nil {
		return err
	}

	names := jobNames(opts.pipelines)
	jobs := make([]pipeline.Job, len(opts.pipelines))
	for i, path := range opts.pipelines {
		cfg, err := c.loadPipeline(path)
		if err != nil {
			return err
		}
		jobs[i] = pipeline.Job{
			ID:      names[i],
			Graph:   g,
			Config:  cfg,
			Options: []pipeline.Option{pipeline.WithStageTimeout(c.settings.GetDuration(keyStageTimeout))},
		}
	}

	stats := observability.NewStageStats()
	prev := observability.SetPipelineHooks(observability.MultiPipelineHooks{observability.Pipeline(), stats})
	defer observability.SetPipelineHooks(prev)

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Running %d pipelines...", len(jobs)))
	spinner.Start()
	results, err := c.newRunner().ExecuteAll(ctx, jobs, c.settings.GetInt(keyConcurrency))
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Ran %d pipelines", len(results)))

	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	paths := make([]string, len(results))
	for i, jr := range results {
		paths[i] = filepath.Join(opts.outputDir, jr.JobID+".json")
		if err := pipeline.WriteResultFile(jr.Result, paths[i]); err != nil {
			return fmt.Errorf("write %s: %w", paths[i], err)
		}
	}

	fmt.Fprintln(uiOut, jobsTable(results, paths))
	if opts.timings {
		fmt.Fprintln(uiOut, timingsTable(stats.Snapshot()))
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// jobNames derives job IDs from file names. Names that collide are left
// empty so the runner generates unique ones.
func jobNames(paths []string) []string {
	names := make([]string, len(paths))
	seen := make(map[string]int, len(paths))
	for i, p := range paths {
		names[i] = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		seen[names[i]]++
	}
	for i, n := range names {
		if seen[n] > 1 {
			names[i] = ""
		}
	}
	return names
}

func jobsTable(results []pipeline.JobResult, paths []string) string {
	rows := make([][]string, len(results))
	for i, jr := range results {
		res := jr.Result
		rows[i] = []string{
			jr.JobID,
			res.Status,
			fmt.Sprintf("%d/%d", len(res.Diagnostics)-res.Failures(), len(res.Diagnostics)),
			fmt.Sprintf("%.1fms", res.TotalExecutionTimeMs),
			paths[i],
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("Job", "Status", "Stages OK", "Time", "Output").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row >= len(results) {
				return base
			}
			res := results[row].Result
			if col == 1 || col == 2 {
				if res.Status == pipeline.StatusComplete && res.Failures() == 0 {
					return base.Foreground(colorGreen)
				}
				return base.Foreground(colorYellow)
			}
			if col == 4 {
				return base.Foreground(colorGray)
			}
			return base
		}).
		Render()
}

func timingsTable(timings []observability.StageTiming) string {
	t := newTable("Transformer", "Stages", "Failed", "Mean", "Max", "Total")
	for _, st := range timings {
		t.Row(
			st.TransformerID,
			fmt.Sprint(st.Runs),
			fmt.Sprint(st.Failures),
			formatMillis(st.Mean()),
			formatMillis(st.Max),
			formatMillis(st.Total),
		)
	}
	return t.Render()
}

func formatMillis(d time.Duration) string {
	return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
}
