package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/pipeline"
	"github.com/matzehuels/lineage/pkg/render/nodelink"
)

// Preview formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"
)

type dotOptions struct {
	resultPath string
	format     string
	output     string
	detailed   bool
	anonymize  bool
	scale      float64
}

// dotCommand previews a graph, optionally styled by a pipeline result.
func (c *CLI) dotCommand() *cobra.Command {
	var opts dotOptions

	cmd := &cobra.Command{
		Use:   "dot <graph.json>",
		Short: "Preview a graph as a Graphviz diagram",
		Long: `Render a family graph as a node-link diagram.

With --result, positions, sizes, colors and edge strokes from a pipeline result
are applied and hidden entities are left out. SVG, PDF and PNG output use the
embedded Graphviz; PDF and PNG additionally need rsvg-convert.`,
		Example: `  lineage dot family.json
  lineage dot family.json -r visual.json -f svg -o preview.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDot(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.resultPath, "result", "r", "", "pipeline result to apply")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatDOT, "output format: dot, svg, pdf or png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "add life years and IDs to labels")
	cmd.Flags().BoolVar(&opts.anonymize, "anonymize", false, "label nodes with redacted names")
	cmd.Flags().Float64Var(&opts.scale, "scale", 2, "PNG resolution multiplier")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{formatDOT, formatSVG, formatPDF, formatPNG}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) runDot(ctx context.Context, stdout io.Writer, graphPath string, opts dotOptions) error {
	g, err := pipeline.LoadGraph(ctx, graphPath)
	if err != nil {
		return err
	}

	ndOpts := nodelink.Options{Detailed: opts.detailed, Anonymize: opts.anonymize}
	var dot string
	if opts.resultPath != "" {
		res, err := pipeline.ReadResultFile(opts.resultPath)
		if err != nil {
			return err
		}
		if res.Visual == nil {
			return fmt.Errorf("result %s has no visual metadata (status %s)", opts.resultPath, res.Status)
		}
		dot = nodelink.ToDOT(g, res.Visual, ndOpts)
	} else {
		dot = nodelink.ToDOT(g, nil, ndOpts)
	}

	var data []byte
	switch opts.format {
	case formatDOT:
		data = []byte(dot)
	case formatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case formatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	case formatPNG:
		data, err = nodelink.RenderPNG(ctx, dot, opts.scale)
	default:
		return fmt.Errorf("unknown format %q (want dot, svg, pdf or png)", opts.format)
	}
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}
	printSuccess("Rendered %s", opts.format)
	printFile(opts.output)
	return nil
}
