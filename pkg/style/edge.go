package style

import (
	"context"

	"github.com/matzehuels/lineage/pkg/dimension"
	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/transformer"
	"github.com/matzehuels/lineage/pkg/visual"
)

// Stroke styles.
const (
	StrokeSolid  = "solid"
	StrokeDashed = "dashed"
	StrokeDotted = "dotted"
)

// EdgeStroke sets stroke weight, color, opacity and style per edge.
var EdgeStroke = &transformer.Config{
	ID:          "edge-stroke",
	Name:        "Edge Stroke",
	Description: "Stroke weight and color from an edge dimension",
	Category:    transformer.CategoryStyle,
	Params: []transformer.ParamSpec{
		transformer.Number("minWeight", "Minimum weight", 0.5, 0, 50),
		transformer.Number("maxWeight", "Maximum weight", 3, 0, 50),
		transformer.Color("strokeColor", "Light color", visual.DefaultStrokeColor),
		transformer.Color("strokeColorEnd", "Heavy color", "#2d3748"),
		transformer.Number("strokeOpacity", "Opacity", visual.DefaultStrokeOpacity, 0, 1),
		transformer.Boolean("dashSpouses", "Dash spouse edges", true),
	},
	DefaultDimensions: transformer.Dimensions{Primary: "relationship-type", Secondary: "generation-distance"},
	EdgeDimensions:    true,
	Transform:         edgeStroke,
}

// StrokeStyleFor returns the stroke style of a relationship.
func StrokeStyleFor(relationship string, dashSpouses bool) string {
	switch relationship {
	case genealogy.RelSpouse:
		if dashSpouses {
			return StrokeDashed
		}
	case genealogy.RelSibling:
		return StrokeDotted
	}
	return StrokeSolid
}

func edgeStroke(ctx context.Context, tc *transformer.Context, p transformer.Params) (visual.Update, error) {
	blender, err := dimension.NewEdgeBlender(tc.Graph, p.Dimensions.Primary, p.Dimensions.Secondary)
	if err != nil {
		return visual.Update{}, err
	}
	grad, err := NewGradient(p.String("strokeColor"), p.String("strokeColorEnd"))
	if err != nil {
		return visual.Update{}, err
	}
	lo, hi := p.Number("minWeight"), p.Number("maxWeight")
	opacity := p.Number("strokeOpacity")
	dash := p.Bool("dashSpouses")

	u := visual.NewUpdate()
	for _, e := range tc.Graph.ResolvedEdges() {
		if err := ctx.Err(); err != nil {
			return visual.Update{}, err
		}
		if tc.Visual != nil && tc.Visual.Edges[e.ID].IsHidden() {
			continue
		}
		v := blender.Value(e.ID)
		u.SetEdge(e.ID, visual.Metadata{
			StrokeWeight:  visual.Ptr(lerp(lo, hi, v)),
			StrokeColor:   visual.Ptr(grad.At(v)),
			StrokeOpacity: visual.Ptr(opacity),
			StrokeStyle:   visual.Ptr(StrokeStyleFor(e.RelationshipType, dash)),
		})
	}
	return u, nil
}
