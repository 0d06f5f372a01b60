package dimension

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/genealogy/genealogytest"
)

func TestNormalizeRange(t *testing.T) {
	g := genealogytest.Pedigree(3)

	for _, dim := range List() {
		t.Run(dim.ID, func(t *testing.T) {
			values := Normalize(dim, g)
			require.Len(t, values, g.IndividualCount())
			for id, v := range values {
				assert.GreaterOrEqual(t, v, 0.0, id)
				assert.LessOrEqual(t, v, 1.0, id)
			}
		})
	}
}

func TestNormalizeExtremes(t *testing.T) {
	g := genealogytest.Pedigree(2)
	dim, err := Lookup("birth-year")
	require.NoError(t, err)

	values := Normalize(dim, g)

	// Pedigree births run from 2000 (ego) back 25 years per generation.
	assert.Equal(t, 1.0, values["p0.0"])
	assert.Equal(t, 0.5, values["p1.0"])
	assert.Equal(t, 0.0, values["p2.0"])
	assert.Equal(t, values["p2.0"], values["p2.3"], "ties normalize equally")
}

func TestNormalizeFlat(t *testing.T) {
	g := genealogy.MustNew(genealogy.Data{Individuals: []genealogy.Individual{
		genealogytest.Person("a", genealogy.SexMale, 2, 1900),
		genealogytest.Person("b", genealogy.SexMale, 2, 1950),
	}})
	dim, err := Lookup("generation")
	require.NoError(t, err)

	values := Normalize(dim, g)
	assert.Equal(t, map[string]float64{"a": 0.5, "b": 0.5}, values)
}

func TestNormalizeMissingUsesDefault(t *testing.T) {
	g := genealogy.MustNew(genealogy.Data{Individuals: []genealogy.Individual{
		genealogytest.Person("g1", genealogy.SexMale, 1, 1900),
		genealogytest.Person("g2", genealogy.SexMale, 2, 1925),
		genealogytest.Person("g3", genealogy.SexMale, 3, 1950),
		{ID: "unknown"},
	}})
	dim, err := Lookup("generation")
	require.NoError(t, err)

	scale := NewScale(dim, g)
	assert.Equal(t, Scale{Min: 0, Max: 3}, scale, "the default joins the range")

	values := Normalize(dim, g)
	assert.Equal(t, 0.0, values["unknown"])
	assert.InDelta(t, 1.0/3, values["g1"], 1e-9)
	assert.InDelta(t, 2.0/3, values["g2"], 1e-9)
	assert.Equal(t, 1.0, values["g3"])
}

func TestNormalizeAllMissingIsFlat(t *testing.T) {
	g := genealogy.MustNew(genealogy.Data{Individuals: []genealogy.Individual{{ID: "a"}, {ID: "b"}}})
	dim, err := Lookup("lifespan")
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"a": 0.5, "b": 0.5}, Normalize(dim, g))
}

func TestNewScaleEmptyGraph(t *testing.T) {
	dim, err := Lookup("generation")
	require.NoError(t, err)

	scale := NewScale(dim, genealogy.MustNew(genealogy.Data{}))
	assert.True(t, scale.Empty)
	assert.Equal(t, 0.5, scale.Normalize(7))
}

func TestScaleNormalize(t *testing.T) {
	tests := []struct {
		name  string
		scale Scale
		raw   float64
		want  float64
	}{
		{"min", Scale{Min: 10, Max: 20}, 10, 0},
		{"max", Scale{Min: 10, Max: 20}, 20, 1},
		{"mid", Scale{Min: 10, Max: 20}, 15, 0.5},
		{"below clamps", Scale{Min: 10, Max: 20}, 0, 0},
		{"above clamps", Scale{Min: 10, Max: 20}, 30, 1},
		{"flat", Scale{Min: 5, Max: 5}, 5, 0.5},
		{"empty", Scale{Empty: true}, 3, 0.5},
		{"nan", Scale{Min: 0, Max: 1}, math.NaN(), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.scale.Normalize(tt.raw), 1e-12)
		})
	}
}

func TestLifespanFallsBackToYears(t *testing.T) {
	ind := &genealogy.Individual{
		ID:    "x",
		Birth: &genealogy.Event{Year: genealogytest.Int(1900)},
		Death: &genealogy.Event{Year: genealogytest.Int(1975)},
	}
	v, ok := lifespan(ind, nil)
	assert.True(t, ok)
	assert.Equal(t, 75.0, v)
}

func TestBlend(t *testing.T) {
	assert.InDelta(t, 0.7, Blend(1, 0), 1e-12)
	assert.InDelta(t, 0.3, Blend(0, 1), 1e-12)
	assert.InDelta(t, 0.5, Blend(0.5, 0.5), 1e-12)
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("shoe-size")
	assert.True(t, lerrors.Is(err, lerrors.ErrCodeConfig))

	_, err = LookupEdge("shoe-size")
	assert.True(t, lerrors.Is(err, lerrors.ErrCodeConfig))

	_, err = NewBlender(genealogytest.NuclearFamily(), "generation", "shoe-size")
	assert.True(t, lerrors.Is(err, lerrors.ErrCodeConfig))
}

func TestBlender(t *testing.T) {
	g := genealogytest.NuclearFamily()
	b, err := NewBlender(g, "generation", "lifespan")
	require.NoError(t, err)

	// ego: generation 0 -> 0, lifespan 40 -> 0
	// father: generation 1 -> 1, lifespan 70 -> 1
	assert.InDelta(t, 0.0, b.Value("ego"), 1e-12)
	assert.InDelta(t, 1.0, b.Value("father"), 1e-12)
	assert.InDelta(t, Blend(1, 25.0/30), b.Value("mother"), 1e-12)
	assert.Equal(t, 0.5, b.Value("stranger"))

	same, err := NewBlender(g, "generation", "")
	require.NoError(t, err)
	assert.Equal(t, same.Primary("father"), same.Secondary("father"))
}

func TestEdgeDimensions(t *testing.T) {
	g := genealogytest.Pedigree(3)

	tests := []struct {
		dim  string
		edge string
		want float64
	}{
		{"generation-distance", "p1.0->p0.0", 0},
		{"generation-distance", "skip", 1},
		{"relationship-type", "p1.0->p0.0", 1},
		// 1/(1+0.5) for ego's parents, 1/(1+1) further out
		{"children-count", "p1.0->p0.0", 1},
		{"children-count", "p2.0->p1.0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.dim+"/"+tt.edge, func(t *testing.T) {
			dim, err := LookupEdge(tt.dim)
			require.NoError(t, err)
			values := NormalizeEdges(dim, g)
			assert.InDelta(t, tt.want, values[tt.edge], 1e-12)
		})
	}
}

func TestEdgeDimensionsSkipDangling(t *testing.T) {
	g := genealogytest.Dangling()
	for _, dim := range ListEdges() {
		values := NormalizeEdges(dim, g)
		assert.NotContains(t, values, "ghost->b", dim.ID)
		assert.Contains(t, values, "a->b", dim.ID)
	}
}

func TestRelationshipTypeIsBounded(t *testing.T) {
	g := genealogytest.NuclearFamily()
	dim, err := LookupEdge("relationship-type")
	require.NoError(t, err)

	values := NormalizeEdges(dim, g)
	assert.Equal(t, 1.0, values["father->ego"])
	assert.Equal(t, 0.5, values["father=mother"])
}
