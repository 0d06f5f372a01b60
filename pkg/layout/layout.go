// Package layout holds helpers shared by the layout transformers: ego
// selection, row depths, fitting coordinates to the canvas and the edge
// visibility pass.
//
// The transformers themselves live in subpackages:
//   - [github.com/matzehuels/lineage/pkg/layout/fanchart]: radial ancestor
//     and descendant charts
//   - [github.com/matzehuels/lineage/pkg/layout/walker]: tidy trees using
//     Buchheim's linear-time variant of Walker's algorithm
//   - [github.com/matzehuels/lineage/pkg/layout/simple]: generation rows
//     ordered by parent barycenter
package layout

import (
	"maps"
	"math"
	"slices"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/transformer"
	"github.com/matzehuels/lineage/pkg/visual"
)

const eps = 1e-9

// Orientations for tree layouts.
const (
	TopDown   = "top-down"
	LeftRight = "left-right"
)

// Ego returns the individual a layout is centred on: the context's primary
// individual, or else the first individual of the lowest known generation,
// or else the first individual. An unknown primary ID is an error.
func Ego(tc *transformer.Context) (*genealogy.Individual, error) {
	g := tc.Graph
	if id := tc.PrimaryIndividualID; id != "" {
		ind, ok := g.Individual(id)
		if !ok {
			return nil, lerrors.New(lerrors.ErrCodeNotFound, "primary individual %q not in graph", id)
		}
		return ind, nil
	}

	inds := g.Individuals()
	if len(inds) == 0 {
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "graph has no individuals")
	}
	var best *genealogy.Individual
	for _, ind := range inds {
		gen := ind.Metadata.Generation
		if gen == nil {
			continue
		}
		if best == nil || *gen < *best.Metadata.Generation {
			best = ind
		}
	}
	if best == nil {
		best = inds[0]
	}
	return best, nil
}

// Depths assigns each individual a row: individuals without parents are 0,
// everyone else sits one below their deepest parent. Parent links that close
// a cycle are ignored.
func Depths(g *genealogy.Graph, parents func(id string) []*genealogy.Individual) map[string]int {
	depth := make(map[string]int, g.IndividualCount())
	visiting := make(map[string]bool)

	var visit func(id string) int
	visit = func(id string) int {
		if d, ok := depth[id]; ok {
			return d
		}
		visiting[id] = true
		d := 0
		for _, p := range parents(id) {
			if visiting[p.ID] {
				continue
			}
			d = max(d, visit(p.ID)+1)
		}
		delete(visiting, id)
		depth[id] = d
		return d
	}

	for _, ind := range g.Individuals() {
		visit(ind.ID)
	}
	return depth
}

// Rows groups individuals by depth in graph order.
func Rows(g *genealogy.Graph, depth map[string]int) [][]string {
	var rows [][]string
	for _, ind := range g.Individuals() {
		d, ok := depth[ind.ID]
		if !ok {
			continue
		}
		for len(rows) <= d {
			rows = append(rows, nil)
		}
		rows[d] = append(rows[d], ind.ID)
	}
	return rows
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// BoundsOf returns the bounding box of points. ok is false when empty.
func BoundsOf(points map[string]visual.Point) (b Bounds, ok bool) {
	b = Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, p := range points {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
		ok = true
	}
	return b, ok
}

// Fit scales and translates points uniformly so their bounding box fits the
// canvas inset by padding, centred. A degenerate axis is centred without
// scaling. Points are modified in place.
func Fit(points map[string]visual.Point, canvas visual.Canvas, padding float64) {
	b, ok := BoundsOf(points)
	if !ok {
		return
	}
	availW := math.Max(canvas.Width-2*padding, 0)
	availH := math.Max(canvas.Height-2*padding, 0)
	spanX, spanY := b.MaxX-b.MinX, b.MaxY-b.MinY

	scale := math.Inf(1)
	if spanX > eps {
		scale = math.Min(scale, availW/spanX)
	}
	if spanY > eps {
		scale = math.Min(scale, availH/spanY)
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}

	center := canvas.Center()
	midX, midY := (b.MinX+b.MaxX)/2, (b.MinY+b.MaxY)/2
	for id, p := range points {
		points[id] = visual.Point{
			X: center.X + (p.X-midX)*scale,
			Y: center.Y + (p.Y-midY)*scale,
		}
	}
}

// Orient maps a top-down coordinate to the requested orientation.
func Orient(p visual.Point, orientation string) visual.Point {
	if orientation == LeftRight {
		return visual.Point{X: p.Y, Y: p.X}
	}
	return p
}

// Place writes positions into u in a stable order.
func Place(u *visual.Update, points map[string]visual.Point) {
	for _, id := range slices.Sorted(maps.Keys(points)) {
		u.SetIndividual(id, visual.At(points[id]))
	}
}

// HideUnplaced hides every individual of g missing from placed.
func HideUnplaced[V any](u *visual.Update, g *genealogy.Graph, placed map[string]V) {
	for _, ind := range g.Individuals() {
		if _, ok := placed[ind.ID]; !ok {
			u.SetIndividual(ind.ID, visual.Hide())
		}
	}
}

// HideEdges runs the edge visibility pass over g's resolved edges. An edge
// is hidden when an endpoint has no generation in gens or, when maxGap is
// non-negative, the endpoints' generations differ by more than maxGap.
// Visible edges are left out of the update so earlier metadata survives.
func HideEdges(u *visual.Update, g *genealogy.Graph, gens map[string]int, maxGap int) {
	for _, e := range g.ResolvedEdges() {
		if EdgeHidden(e, gens, maxGap) {
			u.SetEdge(e.ID, visual.Hide())
		}
	}
}

// EdgeHidden reports whether the visibility pass hides e.
func EdgeHidden(e genealogy.Edge, gens map[string]int, maxGap int) bool {
	gs, okS := gens[e.SourceID]
	gt, okT := gens[e.TargetID]
	if !okS || !okT {
		return true
	}
	gap := gs - gt
	if gap < 0 {
		gap = -gap
	}
	return maxGap >= 0 && gap > maxGap
}
