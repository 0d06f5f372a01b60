// Package simple lays individuals out in rows by depth.
//
// Row 0 holds everyone without parents. Each later row is sorted by the mean
// horizontal position of its members' parents (the barycenter heuristic),
// with birth order and ID breaking ties, then spread evenly across the
// canvas.
package simple

import (
	"cmp"
	"context"
	"math"
	"slices"

	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/layout"
	"github.com/matzehuels/lineage/pkg/transformer"
	"github.com/matzehuels/lineage/pkg/visual"
)

// transformerID is the registry ID of Transformer.
const transformerID = "simple-tree"

// Transformer is the simple-tree layout.
var Transformer = &transformer.Config{
	ID:          transformerID,
	Name:        "Simple Tree",
	Description: "Generation rows ordered to keep children under their parents",
	Category:    transformer.CategoryLayout,
	Params: []transformer.ParamSpec{
		transformer.Select("orientation", "Orientation", layout.TopDown, layout.TopDown, layout.LeftRight),
		transformer.Number("padding", "Padding", 40, 0, 1000),
	},
	Transform: transform,
}

// Rows returns the individuals of each depth in layout order.
func Rows(tc *transformer.Context) ([][]string, map[string]int) {
	g := tc.Graph
	depth := layout.Depths(g, tc.Parents)
	rows := layout.Rows(g, depth)

	// frac is each placed individual's position within its row in [0, 1].
	frac := make(map[string]float64, len(depth))
	for r, row := range rows {
		bary := make(map[string]float64, len(row))
		for _, id := range row {
			bary[id] = barycenter(tc.Parents(id), frac)
		}
		slices.SortStableFunc(row, func(a, b string) int {
			if r > 0 {
				if c := cmp.Compare(bary[a], bary[b]); c != 0 {
					return c
				}
			}
			ia, _ := g.Individual(a)
			ib, _ := g.Individual(b)
			return genealogy.CompareSiblings(ia, ib)
		})
		for i, id := range row {
			frac[id] = slot(i, len(row))
		}
	}
	return rows, depth
}

// barycenter is the mean row position of the already placed parents, or
// +Inf when none is placed so orphans sort last.
func barycenter(parents []*genealogy.Individual, frac map[string]float64) float64 {
	var sum float64
	n := 0
	for _, p := range parents {
		if f, ok := frac[p.ID]; ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return math.Inf(1)
	}
	return sum / float64(n)
}

// slot centres n items in [0, 1].
func slot(i, n int) float64 {
	return (float64(i) + 0.5) / float64(n)
}

func transform(ctx context.Context, tc *transformer.Context, p transformer.Params) (visual.Update, error) {
	orientation := p.String("orientation")
	padding := p.Number("padding")

	rows, depth := Rows(tc)
	if err := ctx.Err(); err != nil {
		return visual.Update{}, err
	}

	availW := math.Max(tc.Canvas.Width-2*padding, 0)
	availH := math.Max(tc.Canvas.Height-2*padding, 0)
	points := make(map[string]visual.Point, len(depth))
	for r, row := range rows {
		v := slot(r, len(rows))
		for i, id := range row {
			pt := layout.Orient(visual.Point{X: slot(i, len(row)), Y: v}, orientation)
			points[id] = visual.Point{X: padding + pt.X*availW, Y: padding + pt.Y*availH}
		}
	}

	u := visual.NewUpdate()
	layout.Place(&u, points)
	for r, row := range rows {
		for i, id := range row {
			u.SetIndividual(id, visual.Metadata{Custom: map[string]any{"row": r, "index": i}})
		}
	}
	layout.HideEdges(&u, tc.Graph, depth, -1)
	u.SetTree(visual.Metadata{Custom: map[string]any{
		"layout":      transformerID,
		"orientation": orientation,
		"rows":        len(rows),
	}})
	return u, nil
}
