// Package curve resolves edge geometry.
//
// Each visible edge gets a curve type and an intensity. The intensity blends
// the edge's primary and secondary dimensions (70/30), scales it by a
// strategy factor and by the curveIntensity parameter. Edges whose endpoints
// were positioned by an earlier layout stage also get control points (and an
// arc radius for arcs) computed from those positions.
package curve

import (
	"context"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/lineage/pkg/dimension"
	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/transformer"
	"github.com/matzehuels/lineage/pkg/visual"
)

// Strategies for the intensity factor.
const (
	StrategyMidpoint  = "midpoint"
	StrategyWeighted  = "weighted"
	StrategySymmetric = "symmetric"
	StrategyOrganic   = "organic"
)

// Transformer is the edge-curve geometry resolver.
var Transformer = &transformer.Config{
	ID:          "edge-curve",
	Name:        "Edge Curves",
	Description: "Curve type, intensity and control points per edge",
	Category:    transformer.CategoryGeometry,
	Params: []transformer.ParamSpec{
		transformer.Select("curveType", "Curve type", visual.CurveBezier,
			visual.CurveStraight, visual.CurveQuadratic, visual.CurveBezier, visual.CurveArc,
			visual.CurveCatenary, visual.CurveStep, visual.CurveSCurve),
		transformer.Number("curveIntensity", "Intensity", 0.5, 0, 2),
		transformer.Select("strategy", "Strategy", StrategyMidpoint,
			StrategyMidpoint, StrategyWeighted, StrategySymmetric, StrategyOrganic),
		transformer.Boolean("relationshipCurves", "Curve by relationship", true),
	},
	DefaultDimensions: transformer.Dimensions{Primary: "generation-distance", Secondary: "lifespan-average"},
	EdgeDimensions:    true,
	Transform:         transform,
}

// relationshipCurves overrides the curve type per relationship.
var relationshipCurves = map[string]string{
	genealogy.RelParentChild: visual.CurveBezier,
	genealogy.RelSpouse:      visual.CurveArc,
	genealogy.RelSibling:     visual.CurveStep,
}

// TypeFor returns the curve type of e.
func TypeFor(e genealogy.Edge, curveType string, byRelationship bool) string {
	if byRelationship {
		if t, ok := relationshipCurves[e.RelationshipType]; ok {
			return t
		}
	}
	return curveType
}

// Factor returns the strategy multiplier for e. src and dst are the endpoint
// positions when known.
func Factor(strategy string, e genealogy.Edge, g *genealogy.Graph, src, dst *visual.Point) float64 {
	switch strategy {
	case StrategyWeighted:
		cs := float64(len(g.Children(e.SourceID)))
		ct := float64(len(g.Children(e.TargetID)))
		return (cs + 1) / (cs + ct + 2)
	case StrategySymmetric:
		if src != nil && dst != nil && dst.X < src.X {
			return -0.7
		}
		return 0.7
	case StrategyOrganic:
		return 0.25 + 0.75*unit(e.ID)
	}
	return 0.5
}

// unit maps s to a deterministic value in [0, 1).
func unit(s string) float64 {
	return float64(xxhash.Sum64String(s)>>11) / (1 << 53)
}

func transform(ctx context.Context, tc *transformer.Context, p transformer.Params) (visual.Update, error) {
	g := tc.Graph
	blender, err := dimension.NewEdgeBlender(g, p.Dimensions.Primary, p.Dimensions.Secondary)
	if err != nil {
		return visual.Update{}, err
	}
	curveType := p.String("curveType")
	base := p.Number("curveIntensity")
	strategy := p.String("strategy")
	byRelationship := p.Bool("relationshipCurves")

	u := visual.NewUpdate()
	for _, e := range g.ResolvedEdges() {
		if err := ctx.Err(); err != nil {
			return visual.Update{}, err
		}
		if tc.Visual != nil && tc.Visual.Edges[e.ID].IsHidden() {
			continue
		}

		src, srcOK := tc.Entity(e.SourceID).Position()
		dst, dstOK := tc.Entity(e.TargetID).Position()
		placed := srcOK && dstOK

		var factor float64
		if placed {
			factor = Factor(strategy, e, g, &src, &dst)
		} else {
			factor = Factor(strategy, e, g, nil, nil)
		}
		intensity := blender.Value(e.ID) * factor * base
		if math.IsNaN(intensity) || math.IsInf(intensity, 0) {
			intensity = 0
		}
		t := TypeFor(e, curveType, byRelationship)

		m := visual.Metadata{CurveType: &t, CurveIntensity: &intensity}
		if placed {
			geo := Resolve(t, src, dst, intensity)
			m.ControlPoints = geo.ControlPoints
			m.ArcRadius = geo.ArcRadius
		}
		u.SetEdge(e.ID, m)
	}
	return u, nil
}
