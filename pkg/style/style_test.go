package style

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/genealogy/genealogytest"
	"github.com/matzehuels/lineage/pkg/transformer"
	"github.com/matzehuels/lineage/pkg/visual"
)

var canvas = visual.Canvas{Width: 400, Height: 400}

func run(t *testing.T, cfg *transformer.Config, tc *transformer.Context, dims transformer.Dimensions, values map[string]any) visual.Update {
	t.Helper()
	inst, err := cfg.NewInstance(cfg.ID, dims, values)
	require.NoError(t, err)
	u, err := inst.Run(context.Background(), tc)
	require.NoError(t, err)
	return u
}

func nuclear() *transformer.Context {
	g := genealogytest.NuclearFamily()
	return &transformer.Context{Graph: g, Canvas: canvas, Visual: visual.NewComplete(g, canvas), Seed: "seed"}
}

func TestNodeSize(t *testing.T) {
	tc := nuclear()
	u := run(t, NodeSize, tc, transformer.Dimensions{Primary: "birth-year"}, map[string]any{"minSize": 10, "maxSize": 20})

	// birth-year alone: 1950 -> 0, 1952 -> 1/15, 1980 -> 1.
	assert.InDelta(t, 10, *u.Individuals["father"].Size, 1e-9)
	assert.InDelta(t, 10+10.0/15, *u.Individuals["mother"].Size, 1e-9)
	assert.InDelta(t, 20, *u.Individuals["ego"].Size, 1e-9)
}

func TestNodeColorEndpoints(t *testing.T) {
	tc := nuclear()
	u := run(t, NodeColor, tc, transformer.Dimensions{Primary: "birth-year"}, map[string]any{
		"startColor": "#000000",
		"endColor":   "#ffffff",
		"opacity":    0.5,
	})

	assert.Equal(t, "#000000", *u.Individuals["father"].Color)
	assert.Equal(t, "#ffffff", *u.Individuals["ego"].Color)
	assert.Equal(t, 0.5, *u.Individuals["mother"].Opacity)
}

func TestNodeColorRejectsBadHex(t *testing.T) {
	_, err := NodeColor.NewInstance("c", transformer.Dimensions{}, map[string]any{"startColor": "blue"})
	require.Error(t, err)
}

func TestBucket(t *testing.T) {
	tests := []struct {
		v    float64
		n    int
		want int
	}{
		{0, 4, 0},
		{0.24, 4, 0},
		{0.25, 4, 1},
		{0.99, 4, 3},
		{1, 4, 3},
		{0.5, 1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Bucket(tt.v, tt.n), "Bucket(%v, %d)", tt.v, tt.n)
	}
}

func TestNodeShape(t *testing.T) {
	tc := nuclear()
	u := run(t, NodeShape, tc, transformer.Dimensions{Primary: "birth-year"}, map[string]any{"shapes": " circle, ,square "})

	assert.Equal(t, "circle", *u.Individuals["father"].Shape)
	assert.Equal(t, "square", *u.Individuals["ego"].Shape)

	inst, err := NodeShape.NewInstance("s", transformer.Dimensions{}, map[string]any{"shapes": " , "})
	require.NoError(t, err)
	_, err = inst.Run(context.Background(), tc)
	require.Error(t, err)
}

func TestStylesSkipHidden(t *testing.T) {
	tc := nuclear()
	hide := visual.NewUpdate()
	hide.SetIndividual("mother", visual.Hide())
	hide.SetEdge("father=mother", visual.Hide())
	tc.Visual.Apply(hide)

	for _, cfg := range []*transformer.Config{NodeSize, NodeColor, NodeShape} {
		u := run(t, cfg, tc, transformer.Dimensions{}, nil)
		assert.NotContains(t, u.Individuals, "mother", cfg.ID)
		assert.Contains(t, u.Individuals, "ego", cfg.ID)
	}
	u := run(t, EdgeStroke, tc, transformer.Dimensions{}, nil)
	assert.NotContains(t, u.Edges, "father=mother")
	assert.Contains(t, u.Edges, "father->ego")
}

func TestEdgeStroke(t *testing.T) {
	tc := nuclear()
	u := run(t, EdgeStroke, tc, transformer.Dimensions{Primary: "relationship-type"}, map[string]any{
		"minWeight": 1,
		"maxWeight": 3,
	})

	// relationship-type is used as-is: parent-child 1, spouse 0.5.
	assert.InDelta(t, 3, *u.Edges["father->ego"].StrokeWeight, 1e-9)
	assert.InDelta(t, 2, *u.Edges["father=mother"].StrokeWeight, 1e-9)
	assert.Equal(t, StrokeSolid, *u.Edges["father->ego"].StrokeStyle)
	assert.Equal(t, StrokeDashed, *u.Edges["father=mother"].StrokeStyle)
}

func TestStrokeStyleFor(t *testing.T) {
	assert.Equal(t, StrokeSolid, StrokeStyleFor(genealogy.RelParentChild, true))
	assert.Equal(t, StrokeDashed, StrokeStyleFor(genealogy.RelSpouse, true))
	assert.Equal(t, StrokeSolid, StrokeStyleFor(genealogy.RelSpouse, false))
	assert.Equal(t, StrokeDotted, StrokeStyleFor(genealogy.RelSibling, false))
}

func positionedContext(temperature float64) *transformer.Context {
	tc := nuclear()
	tc.Temperature = temperature
	tc.InstanceID = "v1"
	u := visual.NewUpdate()
	for i, id := range []string{"ego", "father", "mother"} {
		m := visual.At(visual.Point{X: float64(100 * i), Y: 50})
		m.Size = visual.Ptr(10.0)
		u.SetIndividual(id, m)
	}
	tc.Visual.Apply(u)
	return tc
}

func TestVarianceDeterministic(t *testing.T) {
	a := run(t, Variance, positionedContext(1), transformer.Dimensions{}, nil)
	b := run(t, Variance, positionedContext(1), transformer.Dimensions{}, nil)
	assert.Equal(t, a, b)

	for _, id := range []string{"ego", "father", "mother"} {
		m := a.Individuals[id]
		require.NotNil(t, m.X, id)
		assert.InDelta(t, 50, *m.Y, 10, id)
		assert.InDelta(t, 10, *m.Size, 2, id)
	}

	other := positionedContext(1)
	other.Seed = "other"
	c := run(t, Variance, other, transformer.Dimensions{}, nil)
	assert.NotEqual(t, a, c)
}

func TestVarianceTemperature(t *testing.T) {
	u := run(t, Variance, positionedContext(0), transformer.Dimensions{}, nil)
	assert.True(t, u.IsEmpty())

	tc := positionedContext(0.5)
	hide := visual.NewUpdate()
	hide.SetIndividual("father", visual.Hide())
	tc.Visual.Apply(hide)
	u = run(t, Variance, tc, transformer.Dimensions{}, map[string]any{"positionJitter": 20})
	assert.NotContains(t, u.Individuals, "father")
	assert.InDelta(t, 50, *u.Individuals["ego"].Y, 10)
}

func TestVarianceIsMultiInstance(t *testing.T) {
	assert.True(t, Variance.MultiInstance)
	for _, cfg := range Transformers[:4] {
		assert.False(t, cfg.MultiInstance, cfg.ID)
	}
}
