package visual

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lineage/pkg/genealogy/genealogytest"
)

func baseComplete() *Complete {
	c := NewComplete(genealogytest.NuclearFamily(), Canvas{Width: 800, Height: 600})
	c.Individuals["ego"] = Metadata{
		X:      Ptr(400.0),
		Y:      Ptr(300.0),
		Color:  Ptr("#ff0000"),
		Custom: map[string]any{"generation": 0, "layout": map[string]any{"ring": 0, "slot": 0}},
	}
	c.Edges["father->ego"] = Metadata{CurveType: Ptr(CurveBezier)}
	return c
}

func sampleUpdates() map[string]Update {
	return map[string]Update{
		"empty": {},
		"position": {
			Individuals: map[string]Metadata{
				"father": {X: Ptr(10.0), Y: Ptr(20.0)},
				"ego":    {X: Ptr(1.0)},
			},
		},
		"nested custom": {
			Individuals: map[string]Metadata{
				"ego": {Custom: map[string]any{"layout": map[string]any{"slot": 3, "angle": 45.0}}},
			},
		},
		"edges and tree": {
			Edges: map[string]Metadata{
				"father->ego": {ControlPoints: []Point{{X: 1, Y: 2}}, Hidden: Ptr(false)},
				"new-edge":    {Opacity: Ptr(0.5)},
			},
			Tree:   &Metadata{Custom: map[string]any{"completeness": map[string]any{"1": 1.0}}},
			Global: &Metadata{Color: Ptr("#000000")},
		},
	}
}

func TestMergeFieldWise(t *testing.T) {
	base := Metadata{X: Ptr(1.0), Y: Ptr(2.0), Color: Ptr("#111111")}
	got := base.Merge(Metadata{Y: Ptr(5.0), Size: Ptr(3.0)})

	assert.Equal(t, Metadata{X: Ptr(1.0), Y: Ptr(5.0), Color: Ptr("#111111"), Size: Ptr(3.0)}, got)
}

func TestMergeZeroIsExplicit(t *testing.T) {
	base := Metadata{Opacity: Ptr(1.0)}
	got := base.Merge(Metadata{Opacity: Ptr(0.0)})

	require.NotNil(t, got.Opacity)
	assert.Equal(t, 0.0, *got.Opacity)
	assert.True(t, got.IsHidden())
}

func TestMergeCustomRecursive(t *testing.T) {
	base := Metadata{Custom: map[string]any{
		"a":      1,
		"nested": map[string]any{"x": 1, "y": 2},
		"scalar": map[string]any{"k": "v"},
	}}
	got := base.Merge(Metadata{Custom: map[string]any{
		"b":      2,
		"nested": map[string]any{"y": 3, "z": 4},
		"scalar": "replaced",
	}})

	assert.Equal(t, map[string]any{
		"a":      1,
		"b":      2,
		"nested": map[string]any{"x": 1, "y": 3, "z": 4},
		"scalar": "replaced",
	}, got.Custom)
}

func TestMergeShallowReplacesNestedMaps(t *testing.T) {
	base := Metadata{Custom: map[string]any{"completeness": map[string]any{"1": 1.0, "2": 0.5}}}
	got := base.MergeShallow(Metadata{Custom: map[string]any{"completeness": map[string]any{"1": 0.25}}})

	assert.Equal(t, map[string]any{"completeness": map[string]any{"1": 0.25}}, got.Custom)
}

func TestMergeDoesNotAlias(t *testing.T) {
	nested := map[string]any{"x": 1}
	update := Metadata{X: Ptr(1.0), ControlPoints: []Point{{X: 1}}, Custom: map[string]any{"n": nested}}
	got := Metadata{}.Merge(update)

	*update.X = 99
	update.ControlPoints[0].X = 99
	nested["x"] = 99

	assert.Equal(t, 1.0, *got.X)
	assert.Equal(t, 1.0, got.ControlPoints[0].X)
	assert.Equal(t, 1, got.Custom["n"].(map[string]any)["x"])
}

func TestMergeIdempotent(t *testing.T) {
	for name, u := range sampleUpdates() {
		t.Run(name, func(t *testing.T) {
			once := Merge(baseComplete(), u)
			twice := Merge(once, u)
			assert.Equal(t, once, twice)
		})
	}
}

func TestMergeEmptyIsIdentity(t *testing.T) {
	base := baseComplete()
	assert.Equal(t, base, Merge(base, Update{}))
	assert.Equal(t, base, Merge(base, NewUpdate()))
}

func TestMergeIsPure(t *testing.T) {
	base := baseComplete()
	snapshot := base.Clone()
	for _, u := range sampleUpdates() {
		_ = Merge(base, u)
	}
	assert.Equal(t, snapshot, base)
}

func TestMergeAssociative(t *testing.T) {
	updates := sampleUpdates()
	names := []string{"empty", "position", "nested custom", "edges and tree"}

	for _, a := range names {
		for _, b := range names {
			t.Run(a+" then "+b, func(t *testing.T) {
				sequential := Merge(Merge(baseComplete(), updates[a]), updates[b])
				composed := Merge(baseComplete(), Compose(updates[a], updates[b]))
				assert.Equal(t, sequential, composed)
			})
		}
	}
}

func TestMergeOrderSensitive(t *testing.T) {
	a := Update{Individuals: map[string]Metadata{"ego": {Color: Ptr("#aaaaaa")}}}
	b := Update{Individuals: map[string]Metadata{"ego": {Color: Ptr("#bbbbbb")}}}

	ab := Merge(Merge(baseComplete(), a), b)
	ba := Merge(Merge(baseComplete(), b), a)

	assert.Equal(t, "#bbbbbb", *ab.Individuals["ego"].Color)
	assert.Equal(t, "#aaaaaa", *ba.Individuals["ego"].Color)
}

func TestApplyAddsNewEntities(t *testing.T) {
	c := baseComplete()
	c.Apply(Update{Families: map[string]Metadata{"F9": {Group: Ptr("late")}}})

	assert.Contains(t, c.Families, "F1")
	assert.Equal(t, "late", *c.Families["F9"].Group)
}

func TestNewCompleteRegistersEverything(t *testing.T) {
	g := genealogytest.Dangling()
	c := NewComplete(g, Canvas{Width: 100, Height: 50})

	assert.Len(t, c.Individuals, 2)
	assert.Contains(t, c.Edges, "ghost->b")
	assert.Equal(t, 100.0, *c.Tree.Width)
	assert.Equal(t, 50.0, *c.Tree.Height)
	assert.Equal(t, DefaultColor, *c.Global.Color)
	for id, m := range c.Individuals {
		assert.True(t, m.IsEmpty(), id)
	}
}

func TestUpdateSetters(t *testing.T) {
	var u Update
	u.SetIndividual("a", Metadata{X: Ptr(1.0)})
	u.SetIndividual("a", Metadata{Y: Ptr(2.0)})
	u.SetEdge("e", Hide())
	u.SetTree(Metadata{Custom: map[string]any{"k": 1}})
	u.SetTree(Metadata{Custom: map[string]any{"j": 2}})

	p, ok := u.Individuals["a"].Position()
	require.True(t, ok)
	assert.Equal(t, Point{X: 1, Y: 2}, p)
	assert.True(t, u.Edges["e"].IsHidden())
	assert.Equal(t, map[string]any{"k": 1, "j": 2}, u.Tree.Custom)
	assert.False(t, u.IsEmpty())
	assert.True(t, Update{}.IsEmpty())
}
