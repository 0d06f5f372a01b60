package dimension

import (
	"math"
	"slices"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/genealogy"
)

// EdgeDimension is a named numeric property of an edge.
type EdgeDimension struct {
	ID          string
	Name        string
	Description string

	Extract func(e genealogy.Edge, g *genealogy.Graph) float64

	// Bounded dimensions already produce values in [0, 1] and are used as-is
	// instead of being normalized over the dataset.
	Bounded bool
}

// Relationship constants for the relationship-type edge dimension.
var relationshipWeights = map[string]float64{
	genealogy.RelParentChild: 1.0,
	genealogy.RelSpouse:      0.5,
	genealogy.RelSibling:     0.25,
}

var edgeBuiltins = []EdgeDimension{
	{
		ID:          "generation-distance",
		Name:        "Generation distance",
		Description: "Absolute generation difference between the endpoints",
		Extract: func(e genealogy.Edge, g *genealogy.Graph) float64 {
			return math.Abs(generationOf(g, e.SourceID) - generationOf(g, e.TargetID))
		},
	},
	{
		ID:          "children-count",
		Name:        "Children (inverse)",
		Description: "1/(1+mean children of the endpoints); large families flatten",
		Extract: func(e genealogy.Edge, g *genealogy.Graph) float64 {
			mean := float64(len(g.Children(e.SourceID))+len(g.Children(e.TargetID))) / 2
			return 1 / (1 + mean)
		},
	},
	{
		ID:          "lifespan-average",
		Name:        "Average lifespan",
		Description: "Mean lifespan of the endpoints that have one",
		Extract: func(e genealogy.Edge, g *genealogy.Graph) float64 {
			var sum, n float64
			for _, id := range []string{e.SourceID, e.TargetID} {
				ind, ok := g.Individual(id)
				if !ok {
					continue
				}
				if v, ok := lifespan(ind, g); ok {
					sum += v
					n++
				}
			}
			if n == 0 {
				return 0
			}
			return sum / n
		},
	},
	{
		ID:          "relationship-type",
		Name:        "Relationship type",
		Description: "Fixed weight per relationship: parent-child 1, spouse 0.5, sibling 0.25",
		Bounded:     true,
		Extract: func(e genealogy.Edge, _ *genealogy.Graph) float64 {
			return relationshipWeights[e.RelationshipType]
		},
	},
}

func generationOf(g *genealogy.Graph, id string) float64 {
	ind, ok := g.Individual(id)
	if !ok || ind.Metadata.Generation == nil {
		return 0
	}
	return float64(*ind.Metadata.Generation)
}

// NewEdgeScale computes the range of dim over g's resolved edges.
func NewEdgeScale(dim EdgeDimension, g *genealogy.Graph) Scale {
	s := Scale{Min: math.Inf(1), Max: math.Inf(-1), Empty: true}
	for _, e := range g.ResolvedEdges() {
		v := dim.Extract(e, g)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		s.observe(v)
	}
	return s
}

// NormalizeEdges returns the normalized value of dim for every resolved edge.
func NormalizeEdges(dim EdgeDimension, g *genealogy.Graph) map[string]float64 {
	out := make(map[string]float64, len(g.ResolvedEdges()))
	if dim.Bounded {
		for _, e := range g.ResolvedEdges() {
			out[e.ID] = clamp01(dim.Extract(e, g))
		}
		return out
	}
	s := NewEdgeScale(dim, g)
	for _, e := range g.ResolvedEdges() {
		out[e.ID] = s.Normalize(dim.Extract(e, g))
	}
	return out
}

// LookupEdge returns the built-in edge dimension with the given ID.
func LookupEdge(id string) (EdgeDimension, error) {
	for _, d := range edgeBuiltins {
		if d.ID == id {
			return d, nil
		}
	}
	return EdgeDimension{}, lerrors.Config("unknown edge dimension: %q", id)
}

// ListEdges returns the built-in edge dimensions.
func ListEdges() []EdgeDimension {
	return slices.Clone(edgeBuiltins)
}

// NewEdgeBlender normalizes a primary/secondary edge dimension pair over g.
// An empty secondary ID reuses the primary.
func NewEdgeBlender(g *genealogy.Graph, primaryID, secondaryID string) (*Blender, error) {
	p, err := LookupEdge(primaryID)
	if err != nil {
		return nil, err
	}
	b := &Blender{primary: NormalizeEdges(p, g)}
	if secondaryID == "" || secondaryID == primaryID {
		b.secondary = b.primary
		return b, nil
	}
	s, err := LookupEdge(secondaryID)
	if err != nil {
		return nil, err
	}
	b.secondary = NormalizeEdges(s, g)
	return b, nil
}
