package walker

import (
	"context"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/genealogy/genealogytest"
	"github.com/matzehuels/lineage/pkg/layout"
	"github.com/matzehuels/lineage/pkg/transformer"
	"github.com/matzehuels/lineage/pkg/visual"
)

const eps = 1e-9

var canvas = visual.Canvas{Width: 1000, Height: 800}

func defaultOptions(t *testing.T, values map[string]any) Options {
	t.Helper()
	p, err := Transformer.Bind(transformer.Dimensions{}, values)
	require.NoError(t, err)
	return OptionsFrom(p)
}

// tree builds a graph from a parent -> children adjacency list.
func tree(edges map[string][]string, order ...string) *genealogy.Graph {
	parents := map[string][]string{}
	for p, kids := range edges {
		for _, k := range kids {
			parents[k] = append(parents[k], p)
		}
	}
	var d genealogy.Data
	for i, id := range order {
		ind := genealogy.Individual{ID: id, Children: edges[id], Parents: parents[id]}
		ind.Metadata.BirthOrder = genealogytest.Int(i)
		d.Individuals = append(d.Individuals, ind)
	}
	return genealogy.MustNew(d)
}

// unbalanced has small subtrees squeezed between two wide ones, which
// forces apportion to spread shifts.
func unbalanced() *genealogy.Graph {
	return tree(map[string][]string{
		"r":  {"a", "b", "c", "d"},
		"a":  {"a1", "a2", "a3"},
		"d":  {"d1", "d2", "d3"},
		"a3": {"a31", "a32"},
		"d1": {"d11", "d12"},
	}, "r", "a", "b", "c", "d", "a1", "a2", "a3", "d1", "d2", "d3", "a31", "a32", "d11", "d12")
}

func compute(t *testing.T, g *genealogy.Graph, primary string, opts Options) *Tree {
	t.Helper()
	tr, err := Compute(&transformer.Context{Graph: g, Canvas: canvas, PrimaryIndividualID: primary}, opts)
	require.NoError(t, err)
	return tr
}

func checkTidy(t *testing.T, tr *Tree, opts Options) {
	t.Helper()

	for parent, kids := range tr.Children {
		first := tr.Positions[kids[0]].X
		last := tr.Positions[kids[len(kids)-1]].X
		assert.InDelta(t, (first+last)/2, tr.Positions[parent].X, eps, "%s centred over children", parent)
		for i := 1; i < len(kids); i++ {
			gap := tr.Positions[kids[i]].X - tr.Positions[kids[i-1]].X
			assert.GreaterOrEqual(t, gap, opts.SiblingSeparation-eps, "siblings %s, %s", kids[i-1], kids[i])
		}
	}

	byDepth := map[int][]float64{}
	for id, d := range tr.Depths {
		byDepth[d] = append(byDepth[d], tr.Positions[id].X)
		assert.InDelta(t, float64(d)*opts.LevelSeparation, tr.Positions[id].Y, eps)
	}
	minSep := math.Min(opts.SiblingSeparation, opts.SubtreeSeparation)
	for d, xs := range byDepth {
		slices.Sort(xs)
		for i := 1; i < len(xs); i++ {
			assert.GreaterOrEqual(t, xs[i]-xs[i-1], minSep-eps, "overlap at depth %d", d)
		}
	}
}

func TestSingleParentChildren(t *testing.T) {
	opts := defaultOptions(t, nil)
	tr := compute(t, genealogytest.Descendants([]int{3}), "d", opts)

	assert.Equal(t, []string{"d.0", "d.1", "d.2"}, tr.Children["d"])
	assert.InDelta(t, opts.SiblingSeparation, tr.Positions["d.1"].X-tr.Positions["d.0"].X, eps)
	assert.InDelta(t, tr.Positions["d.1"].X, tr.Positions["d"].X, eps)
	checkTidy(t, tr, opts)
}

func TestTidyProperties(t *testing.T) {
	graphs := map[string]*genealogy.Graph{
		"balanced":   genealogytest.Descendants([]int{2, 3, 2}),
		"unbalanced": unbalanced(),
		"chain":      genealogytest.Descendants([]int{1, 1, 1}),
	}
	root := map[string]string{"balanced": "d", "unbalanced": "r", "chain": "d"}

	for name, g := range graphs {
		t.Run(name, func(t *testing.T) {
			opts := defaultOptions(t, nil)
			tr := compute(t, g, root[name], opts)
			assert.Len(t, tr.Positions, g.IndividualCount())
			checkTidy(t, tr, opts)
		})
	}
}

func TestSubtreeSeparation(t *testing.T) {
	opts := defaultOptions(t, map[string]any{"siblingSeparation": 10, "subtreeSeparation": 100})
	tr := compute(t, unbalanced(), "r", opts)

	// a3's children and d1's children are cousins at depth 3.
	gap := tr.Positions["d11"].X - tr.Positions["a32"].X
	assert.GreaterOrEqual(t, gap, 100-eps)
	checkTidy(t, tr, opts)
}

func TestForest(t *testing.T) {
	g := tree(map[string][]string{
		"x": {"x1", "x2"},
		"y": {"y1"},
	}, "x", "y", "x1", "x2", "y1")
	opts := defaultOptions(t, nil)

	tr := compute(t, g, "", opts)
	assert.Equal(t, []string{"x", "y"}, tr.Roots)
	assert.GreaterOrEqual(t, tr.Positions["y1"].X-tr.Positions["x2"].X, opts.SubtreeSeparation-eps)
	checkTidy(t, tr, opts)
}

func TestCyclesTerminate(t *testing.T) {
	g := genealogytest.CousinMarriage()
	tr := compute(t, g, "", defaultOptions(t, nil))

	assert.NotEmpty(t, tr.Roots)
	assert.LessOrEqual(t, len(tr.Positions), g.IndividualCount())
}

func TestTransformFitsCanvas(t *testing.T) {
	g := unbalanced()
	tests := []struct {
		orientation string
	}{
		{layout.TopDown},
		{layout.LeftRight},
	}

	for _, tt := range tests {
		t.Run(tt.orientation, func(t *testing.T) {
			inst, err := Transformer.NewInstance("w", transformer.Dimensions{}, map[string]any{"orientation": tt.orientation})
			require.NoError(t, err)
			u, err := inst.Run(context.Background(), &transformer.Context{Graph: g, Canvas: canvas, PrimaryIndividualID: "r"})
			require.NoError(t, err)

			for _, ind := range g.Individuals() {
				p, ok := u.Individuals[ind.ID].Position()
				require.True(t, ok, ind.ID)
				assert.GreaterOrEqual(t, p.X, 40-eps)
				assert.LessOrEqual(t, p.X, canvas.Width-40+eps)
				assert.GreaterOrEqual(t, p.Y, 40-eps)
				assert.LessOrEqual(t, p.Y, canvas.Height-40+eps)
			}

			root, _ := u.Individuals["r"].Position()
			leaf, _ := u.Individuals["a31"].Position()
			if tt.orientation == layout.TopDown {
				assert.Less(t, root.Y, leaf.Y)
			} else {
				assert.Less(t, root.X, leaf.X)
			}
		})
	}
}

func TestTransformHidesOutsideSubtree(t *testing.T) {
	g := unbalanced()
	inst, err := Transformer.NewInstance("w", transformer.Dimensions{}, nil)
	require.NoError(t, err)
	u, err := inst.Run(context.Background(), &transformer.Context{Graph: g, Canvas: canvas, PrimaryIndividualID: "a"})
	require.NoError(t, err)

	assert.True(t, u.Individuals["r"].IsHidden())
	assert.True(t, u.Individuals["d1"].IsHidden())
	_, ok := u.Individuals["a31"].Position()
	assert.True(t, ok)
}
