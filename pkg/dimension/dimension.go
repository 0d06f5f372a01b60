// Package dimension maps genealogical properties onto continuous [0, 1]
// parameters for transformers.
//
// A [Dimension] extracts a raw number from an individual. [NewScale] computes
// the dataset's range once and [Scale.Normalize] maps raw values into it with
// min-max normalization. Edge dimensions work the same way over resolved
// edges. Missing data never fails: an unavailable value falls back to the
// dimension's default raw value.
package dimension

import (
	"math"
	"slices"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/genealogy"
)

// Category groups dimensions for listing.
type Category string

const (
	CategoryStructural   Category = "structural"
	CategoryTemporal     Category = "temporal"
	CategoryBiographical Category = "biographical"
	CategoryRelational   Category = "relational"
)

// Dimension is a named numeric property of an individual.
type Dimension struct {
	ID          string
	Name        string
	Category    Category
	Description string

	// Extract returns the raw value and whether the individual has it.
	Extract func(ind *genealogy.Individual, g *genealogy.Graph) (float64, bool)

	// Default is the raw value used when Extract reports no value.
	Default float64
}

// Raw returns the individual's raw value, substituting the default.
func (d Dimension) Raw(ind *genealogy.Individual, g *genealogy.Graph) float64 {
	if v, ok := d.Extract(ind, g); ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return v
	}
	return d.Default
}

// Blend weights for primary and secondary dimension values.
const (
	PrimaryWeight   = 0.7
	SecondaryWeight = 0.3
)

// Blend combines normalized primary and secondary values.
func Blend(primary, secondary float64) float64 {
	return primary*PrimaryWeight + secondary*SecondaryWeight
}

// Scale is the observed range of a dimension over a dataset.
type Scale struct {
	Min, Max float64
	// Empty is set when the graph has no individuals; everything normalizes to 0.5.
	Empty bool
}

// NewScale computes the range of dim over every individual of g. Individuals
// without a value contribute the dimension default.
func NewScale(dim Dimension, g *genealogy.Graph) Scale {
	s := Scale{Min: math.Inf(1), Max: math.Inf(-1), Empty: true}
	for _, ind := range g.Individuals() {
		s.observe(dim.Raw(ind, g))
	}
	return s
}

func (s *Scale) observe(v float64) {
	s.Empty = false
	s.Min = math.Min(s.Min, v)
	s.Max = math.Max(s.Max, v)
}

// Normalize maps raw into [0, 1]. A flat or empty range yields 0.5.
func (s Scale) Normalize(raw float64) float64 {
	if s.Empty || s.Max == s.Min {
		return 0.5
	}
	return clamp01((raw - s.Min) / (s.Max - s.Min))
}

// Normalize returns the normalized value of dim for every individual of g.
func Normalize(dim Dimension, g *genealogy.Graph) map[string]float64 {
	s := NewScale(dim, g)
	out := make(map[string]float64, g.IndividualCount())
	for _, ind := range g.Individuals() {
		out[ind.ID] = s.Normalize(dim.Raw(ind, g))
	}
	return out
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0.5
	}
	return math.Max(0, math.Min(1, v))
}

var builtins = []Dimension{
	{
		ID:          "generation",
		Name:        "Generation",
		Category:    CategoryStructural,
		Description: "Generation number precomputed by the loader",
		Extract: func(ind *genealogy.Individual, _ *genealogy.Graph) (float64, bool) {
			return optionalInt(ind.Metadata.Generation)
		},
	},
	{
		ID:          "birth-year",
		Name:        "Birth year",
		Category:    CategoryTemporal,
		Description: "Year of birth",
		Extract: func(ind *genealogy.Individual, _ *genealogy.Graph) (float64, bool) {
			y, ok := ind.BirthYear()
			return float64(y), ok
		},
	},
	{
		ID:          "lifespan",
		Name:        "Lifespan",
		Category:    CategoryBiographical,
		Description: "Age at death in years",
		Extract:     lifespan,
	},
	{
		ID:          "children-count",
		Name:        "Children",
		Category:    CategoryRelational,
		Description: "Number of children",
		Extract: func(ind *genealogy.Individual, g *genealogy.Graph) (float64, bool) {
			return float64(len(g.Children(ind.ID))), true
		},
	},
	{
		ID:          "birth-order",
		Name:        "Birth order",
		Category:    CategoryStructural,
		Description: "Position among siblings, 0 for the eldest",
		Extract: func(ind *genealogy.Individual, _ *genealogy.Graph) (float64, bool) {
			return optionalInt(ind.Metadata.BirthOrder)
		},
	},
	{
		ID:          "spouse-count",
		Name:        "Spouses",
		Category:    CategoryRelational,
		Description: "Number of spouses",
		Extract: func(ind *genealogy.Individual, g *genealogy.Graph) (float64, bool) {
			return float64(len(g.Spouses(ind.ID))), true
		},
	},
}

func optionalInt(p *int) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return float64(*p), true
}

// lifespan prefers the loader's precomputed value and falls back to the
// difference between death and birth years.
func lifespan(ind *genealogy.Individual, _ *genealogy.Graph) (float64, bool) {
	if ind.Metadata.Lifespan != nil {
		return *ind.Metadata.Lifespan, true
	}
	birth, ok := ind.BirthYear()
	if !ok || ind.Death == nil || ind.Death.Year == nil {
		return 0, false
	}
	return float64(*ind.Death.Year - birth), true
}

// Lookup returns the built-in individual dimension with the given ID.
func Lookup(id string) (Dimension, error) {
	for _, d := range builtins {
		if d.ID == id {
			return d, nil
		}
	}
	return Dimension{}, lerrors.Config("unknown dimension: %q", id)
}

// List returns the built-in individual dimensions.
func List() []Dimension {
	return slices.Clone(builtins)
}

// Blender evaluates a primary/secondary dimension pair over one graph.
type Blender struct {
	primary, secondary map[string]float64
}

// NewBlender normalizes both dimensions over g. An empty secondary ID reuses
// the primary.
func NewBlender(g *genealogy.Graph, primaryID, secondaryID string) (*Blender, error) {
	p, err := Lookup(primaryID)
	if err != nil {
		return nil, err
	}
	b := &Blender{primary: Normalize(p, g)}
	if secondaryID == "" || secondaryID == primaryID {
		b.secondary = b.primary
		return b, nil
	}
	s, err := Lookup(secondaryID)
	if err != nil {
		return nil, err
	}
	b.secondary = Normalize(s, g)
	return b, nil
}

// Primary returns the normalized primary value for id.
func (b *Blender) Primary(id string) float64 { return valueOr(b.primary, id) }

// Secondary returns the normalized secondary value for id.
func (b *Blender) Secondary(id string) float64 { return valueOr(b.secondary, id) }

// Value returns the blended value for id.
func (b *Blender) Value(id string) float64 {
	return Blend(b.Primary(id), b.Secondary(id))
}

func valueOr(m map[string]float64, id string) float64 {
	if v, ok := m[id]; ok {
		return v
	}
	return 0.5
}
