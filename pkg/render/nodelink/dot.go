package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/render"
	"github.com/matzehuels/lineage/pkg/visual"
)

// Renderer units are treated as points.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds life years and the individual ID to node labels.
	Detailed bool

	// Anonymize labels nodes with redacted names.
	Anonymize bool
}

// ToDOT converts a graph to Graphviz DOT format. vis may be nil, in which
// case every node uses the renderer defaults.
func ToDOT(g *genealogy.Graph, vis *visual.Complete, opts Options) string {
	labels := g
	if opts.Anonymize {
		labels = g.Anonymize()
	}
	pinned := vis != nil && hasPositions(g, vis)

	var global visual.Metadata
	if vis != nil {
		global = vis.Global
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if pinned {
		buf.WriteString("  layout=neato;\n")
		buf.WriteString("  splines=true;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
		buf.WriteString("  ranksep=0.5;\n")
		buf.WriteString("  nodesep=0.3;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=filled, fontsize=10, fixedsize=false];\n")
	buf.WriteString("\n")

	height := 0.0
	if vis != nil && vis.Tree.Height != nil {
		height = *vis.Tree.Height
	}

	visible := make(map[string]bool, g.IndividualCount())
	for _, ind := range g.Individuals() {
		var m visual.Metadata
		if vis != nil {
			m = vis.Individuals[ind.ID]
		}
		if m.IsHidden() {
			continue
		}
		visible[ind.ID] = true

		label, _ := labels.Individual(ind.ID)
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(label, opts.Detailed))}
		attrs = append(attrs, nodeAttrs(m, global)...)
		if p, ok := m.Position(); ok && pinned {
			// Graphviz puts the origin bottom-left.
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", num(p.X), num(height-p.Y)))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", ind.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.ResolvedEdges() {
		if !visible[e.SourceID] || !visible[e.TargetID] {
			continue
		}
		var m visual.Metadata
		if vis != nil {
			m = vis.Edges[e.ID]
		}
		if m.IsHidden() {
			continue
		}
		attrs := edgeAttrs(e, m, global)
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.SourceID, e.TargetID, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func hasPositions(g *genealogy.Graph, vis *visual.Complete) bool {
	for _, ind := range g.Individuals() {
		m := vis.Individuals[ind.ID]
		if _, ok := m.Position(); ok && !m.IsHidden() {
			return true
		}
	}
	return false
}

func fmtLabel(ind *genealogy.Individual, detailed bool) string {
	name := ind.Name
	if name == "" {
		name = ind.ID
	}
	if !detailed {
		return name
	}

	var years string
	if y, ok := ind.BirthYear(); ok {
		years = strconv.Itoa(y)
	}
	if ind.Death != nil && ind.Death.Year != nil {
		years += "-" + strconv.Itoa(*ind.Death.Year)
	}
	parts := []string{name}
	if years != "" {
		parts = append(parts, years)
	}
	parts = append(parts, ind.ID)
	return strings.Join(parts, "\n")
}

var shapes = map[string]string{
	"circle":   "circle",
	"square":   "box",
	"triangle": "triangle",
	"diamond":  "diamond",
}

func nodeAttrs(m, global visual.Metadata) []string {
	shape := shapes[str(m.Shape, global.Shape, visual.DefaultShape)]
	if shape == "" {
		shape = "circle"
	}
	size := f64(m.Size, global.Size, visual.DefaultSize)
	if m.Scale != nil {
		size *= *m.Scale
	}
	inches := math.Max(size, 1) / pointsPerInch

	color := str(m.Color, global.Color, visual.DefaultColor)
	opacity := f64(m.Opacity, global.Opacity, 1)
	return []string{
		"shape=" + shape,
		fmt.Sprintf("width=%s", num(inches)),
		fmt.Sprintf("height=%s", num(inches)),
		fmt.Sprintf("fillcolor=%q", withAlpha(color, opacity)),
	}
}

func edgeAttrs(e genealogy.Edge, m, global visual.Metadata) []string {
	color := str(m.StrokeColor, global.StrokeColor, visual.DefaultStrokeColor)
	opacity := f64(m.StrokeOpacity, global.StrokeOpacity, visual.DefaultStrokeOpacity)
	attrs := []string{
		fmt.Sprintf("color=%q", withAlpha(color, opacity)),
		fmt.Sprintf("penwidth=%s", num(f64(m.StrokeWeight, global.StrokeWeight, visual.DefaultStrokeWeight))),
	}
	if style := str(m.StrokeStyle, global.StrokeStyle, "solid"); style != "solid" {
		attrs = append(attrs, "style="+style)
	}
	if e.RelationshipType != genealogy.RelParentChild {
		attrs = append(attrs, "dir=none")
	}
	return attrs
}

func str(v, fallback *string, def string) string {
	if v != nil {
		return *v
	}
	if fallback != nil {
		return *fallback
	}
	return def
}

func f64(v, fallback *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	if fallback != nil {
		return *fallback
	}
	return def
}

// withAlpha appends an alpha byte to #rrggbb colours when opacity < 1.
func withAlpha(color string, opacity float64) string {
	if opacity >= 1 || len(color) != 7 {
		return color
	}
	a := int(math.Round(math.Max(opacity, 0) * 255))
	return fmt.Sprintf("%s%02x", color, a)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion. A scale of 2.0
// produces a 2x resolution image.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
