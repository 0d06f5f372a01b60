// Package fanchart implements the radial fan chart layout.
//
// In ancestors mode the ego sits at the centre and every generation g is a
// ring of 2^g slots: slot k's father occupies slot 2k of the next ring and
// its mother slot 2k+1. Missing parents leave empty slots, so one side's
// gaps never shift the other side. In descendants mode each child takes an
// equal share of its parent's angular range, computed top-down.
//
// A person reachable through more than one slot (pedigree collapse, cousin
// marriages) is placed in the first slot that reaches it; the later slots
// stay empty and are not expanded, which also guards against cycles.
package fanchart

import (
	"context"
	"math"
	"strconv"

	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/layout"
	"github.com/matzehuels/lineage/pkg/transformer"
	"github.com/matzehuels/lineage/pkg/visual"
)

// View modes.
const (
	ViewAncestors   = "ancestors"
	ViewDescendants = "descendants"
)

// Lineage values recorded in each placed individual's custom metadata.
const (
	LineageSelf     = "self"
	LineagePaternal = "paternal"
	LineageMaternal = "maternal"
)

// transformerID is the registry ID of Transformer.
const transformerID = "fan-chart"

// Transformer is the fan-chart layout.
var Transformer = &transformer.Config{
	ID:          transformerID,
	Name:        "Fan Chart",
	Description: "Radial ancestor or descendant chart centred on the primary individual",
	Category:    transformer.CategoryLayout,
	Params: []transformer.ParamSpec{
		transformer.Select("viewMode", "View", ViewAncestors, ViewAncestors, ViewDescendants),
		transformer.Integer("maxGenerations", "Generations", 5, 1, 12),
		transformer.Select("spacingMode", "Spacing", SpacingAutoFit, SpacingAutoFit, SpacingManual),
		transformer.Number("generationSpacing", "Ring spacing", 80, 1, 1000),
		transformer.Number("padding", "Padding", 40, 0, 1000),
		transformer.Select("distribution", "Ring distribution", DistributionUniform,
			DistributionUniform, DistributionCompressed, DistributionLogarithmic),
		transformer.Number("spreadDegrees", "Spread", 360, 1, 360),
		transformer.Number("rotation", "Rotation", -90, -360, 360),
		transformer.Number("spiralTwist", "Spiral twist", 0, -180, 180),
		transformer.Boolean("hideUnplaced", "Hide unplaced", true),
	},
	Transform: transform,
}

// Options is the typed form of the transformer's parameters.
type Options struct {
	ViewMode          string
	MaxGenerations    int
	SpacingMode       string
	GenerationSpacing float64
	Padding           float64
	Distribution      string
	SpreadDegrees     float64
	Rotation          float64
	SpiralTwist       float64
	HideUnplaced      bool
}

// OptionsFrom reads Options from bound parameters.
func OptionsFrom(p transformer.Params) Options {
	return Options{
		ViewMode:          p.String("viewMode"),
		MaxGenerations:    p.Int("maxGenerations"),
		SpacingMode:       p.String("spacingMode"),
		GenerationSpacing: p.Number("generationSpacing"),
		Padding:           p.Number("padding"),
		Distribution:      p.String("distribution"),
		SpreadDegrees:     p.Number("spreadDegrees"),
		Rotation:          p.Number("rotation"),
		SpiralTwist:       p.Number("spiralTwist"),
		HideUnplaced:      p.Bool("hideUnplaced"),
	}
}

// MaxRadius returns the outer ring radius for the canvas.
func (o Options) MaxRadius(canvas visual.Canvas) float64 {
	if o.SpacingMode == SpacingManual {
		return o.GenerationSpacing * float64(o.MaxGenerations)
	}
	return math.Max(canvas.Radius()-o.Padding, 0)
}

func (o Options) startAngle() float64 {
	return o.Rotation - o.SpreadDegrees/2
}

// Placement is where the layout put one individual.
type Placement struct {
	Generation int
	Slot       int
	Angle      float64 // degrees
	Lineage    string
	Span       [2]float64 // angular range in degrees, descendants mode only
}

// Chart is a computed fan chart before conversion to visual metadata.
type Chart struct {
	Ego        string
	Placements map[string]Placement
	Radii      []float64

	// Completeness is the fraction of filled slots per generation
	// (ancestors mode only).
	Completeness []float64
}

func transform(ctx context.Context, tc *transformer.Context, p transformer.Params) (visual.Update, error) {
	opts := OptionsFrom(p)
	ego, err := layout.Ego(tc)
	if err != nil {
		return visual.Update{}, err
	}

	var chart *Chart
	if opts.ViewMode == ViewDescendants {
		chart = Descendants(tc, ego, opts)
	} else {
		chart = Ancestors(tc, ego, opts)
	}
	if err := ctx.Err(); err != nil {
		return visual.Update{}, err
	}
	return chart.Update(tc, opts), nil
}

// AncestorSlots expands ego into rings of 2^g slots for g in
// [0, maxGenerations]. Nil entries are empty slots.
func AncestorSlots(tc *transformer.Context, ego *genealogy.Individual, maxGenerations int) [][]*genealogy.Individual {
	slots := make([][]*genealogy.Individual, maxGenerations+1)
	slots[0] = []*genealogy.Individual{ego}
	visited := map[string]bool{ego.ID: true}

	for g := 1; g <= maxGenerations; g++ {
		ring := make([]*genealogy.Individual, 1<<g)
		for k, child := range slots[g-1] {
			if child == nil {
				continue
			}
			father, mother := tc.FatherMother(child.ID)
			for i, parent := range []*genealogy.Individual{father, mother} {
				if parent == nil || visited[parent.ID] {
					continue
				}
				visited[parent.ID] = true
				ring[2*k+i] = parent
			}
		}
		slots[g] = ring
	}
	return slots
}

// Ancestors computes the ancestors-mode chart.
func Ancestors(tc *transformer.Context, ego *genealogy.Individual, opts Options) *Chart {
	slots := AncestorSlots(tc, ego, opts.MaxGenerations)
	chart := &Chart{
		Ego:          ego.ID,
		Placements:   make(map[string]Placement),
		Radii:        CalculateGenerationDistances(opts.SpacingMode, opts.Distribution, opts.MaxGenerations, opts.MaxRadius(tc.Canvas)),
		Completeness: make([]float64, len(slots)),
	}

	start := opts.startAngle()
	for g, ring := range slots {
		width := opts.SpreadDegrees / float64(len(ring))
		filled := 0
		for k, ind := range ring {
			if ind == nil {
				continue
			}
			filled++
			chart.Placements[ind.ID] = Placement{
				Generation: g,
				Slot:       k,
				Angle:      start + (float64(k)+0.5)*width + opts.SpiralTwist*float64(g),
				Lineage:    lineage(g, k),
			}
		}
		chart.Completeness[g] = float64(filled) / float64(len(ring))
	}
	return chart
}

func lineage(g, k int) string {
	switch {
	case g == 0:
		return LineageSelf
	case k < 1<<(g-1):
		return LineagePaternal
	}
	return LineageMaternal
}

// Descendants computes the descendants-mode chart. Ranges are assigned in
// breadth-first order so a parent's range is always final before its
// children subdivide it.
func Descendants(tc *transformer.Context, ego *genealogy.Individual, opts Options) *Chart {
	chart := &Chart{
		Ego:        ego.ID,
		Placements: make(map[string]Placement),
		Radii:      CalculateGenerationDistances(opts.SpacingMode, opts.Distribution, opts.MaxGenerations, opts.MaxRadius(tc.Canvas)),
	}

	start := opts.startAngle()
	root := Placement{Lineage: LineageSelf, Span: [2]float64{start, start + opts.SpreadDegrees}}
	root.Angle = (root.Span[0] + root.Span[1]) / 2
	chart.Placements[ego.ID] = root

	slotsInGen := make([]int, opts.MaxGenerations+1)
	slotsInGen[0] = 1
	queue := []string{ego.ID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		parent := chart.Placements[id]
		if parent.Generation >= opts.MaxGenerations {
			continue
		}

		var kids []*genealogy.Individual
		for _, kid := range tc.Children(id) {
			if _, seen := chart.Placements[kid.ID]; !seen {
				kids = append(kids, kid)
			}
		}
		if len(kids) == 0 {
			continue
		}

		gen := parent.Generation + 1
		width := (parent.Span[1] - parent.Span[0]) / float64(len(kids))
		for i, kid := range kids {
			lo := parent.Span[0] + float64(i)*width
			hi := lo + width
			chart.Placements[kid.ID] = Placement{
				Generation: gen,
				Slot:       slotsInGen[gen],
				Angle:      (lo+hi)/2 + opts.SpiralTwist*float64(gen),
				Lineage:    descendantLineage(parent, i),
				Span:       [2]float64{lo, hi},
			}
			slotsInGen[gen]++
			queue = append(queue, kid.ID)
		}
	}
	return chart
}

// descendantLineage names the branch of the ego's child a descendant
// belongs to.
func descendantLineage(parent Placement, i int) string {
	if parent.Lineage == LineageSelf {
		return "branch-" + strconv.Itoa(i)
	}
	return parent.Lineage
}

// Position returns the canvas coordinates of a placement.
func (c *Chart) Position(pl Placement, center visual.Point) visual.Point {
	r := c.Radii[pl.Generation]
	rad := pl.Angle * math.Pi / 180
	return visual.Point{
		X: center.X + r*math.Cos(rad),
		Y: center.Y + r*math.Sin(rad),
	}
}

// Generations returns the generation of every placed individual.
func (c *Chart) Generations() map[string]int {
	gens := make(map[string]int, len(c.Placements))
	for id, pl := range c.Placements {
		gens[id] = pl.Generation
	}
	return gens
}

// Update converts the chart into visual metadata, hides unplaced individuals
// when requested and runs the edge visibility pass.
func (c *Chart) Update(tc *transformer.Context, opts Options) visual.Update {
	u := visual.NewUpdate()
	center := tc.Canvas.Center()

	for id, pl := range c.Placements {
		m := visual.At(c.Position(pl, center))
		m.Rotation = visual.Ptr(pl.Angle)
		m.Custom = map[string]any{
			"generation": pl.Generation,
			"angle":      pl.Angle,
			"slot":       pl.Slot,
			"lineage":    pl.Lineage,
		}
		if c.Completeness != nil {
			m.Custom["completeness"] = c.Completeness[pl.Generation]
		}
		if opts.ViewMode == ViewDescendants {
			m.Custom["span"] = []float64{pl.Span[0], pl.Span[1]}
		}
		u.SetIndividual(id, m)
	}

	if opts.HideUnplaced {
		layout.HideUnplaced(&u, tc.Graph, c.Placements)
	}
	layout.HideEdges(&u, tc.Graph, c.Generations(), 1)

	tree := map[string]any{
		"layout":   transformerID,
		"ego":      c.Ego,
		"viewMode": opts.ViewMode,
	}
	radii := make([]float64, len(c.Radii))
	copy(radii, c.Radii)
	tree["radii"] = radii
	if c.Completeness != nil {
		completeness := make(map[string]any, len(c.Completeness))
		for g, v := range c.Completeness {
			completeness[strconv.Itoa(g)] = v
		}
		tree["completeness"] = completeness
	}
	u.SetTree(visual.Metadata{Custom: tree})
	return u
}
