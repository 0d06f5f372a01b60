package style

import (
	"context"
	"strings"

	"github.com/matzehuels/lineage/pkg/dimension"
	lerrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/transformer"
	"github.com/matzehuels/lineage/pkg/visual"
)

// NodeSize scales individuals between minSize and maxSize.
var NodeSize = &transformer.Config{
	ID:          "node-size",
	Name:        "Node Size",
	Description: "Node size from a blended dimension",
	Category:    transformer.CategoryStyle,
	Params: []transformer.ParamSpec{
		transformer.Number("minSize", "Minimum size", 4, 0, 200),
		transformer.Number("maxSize", "Maximum size", 24, 0, 200),
	},
	DefaultDimensions: transformer.Dimensions{Primary: "children-count", Secondary: "lifespan"},
	Transform:         nodeSize,
}

func nodeSize(ctx context.Context, tc *transformer.Context, p transformer.Params) (visual.Update, error) {
	lo, hi := p.Number("minSize"), p.Number("maxSize")
	return eachIndividual(ctx, tc, p, func(v float64) visual.Metadata {
		return visual.Metadata{Size: visual.Ptr(lerp(lo, hi, v))}
	})
}

// NodeColor colors individuals along an HCL gradient.
var NodeColor = &transformer.Config{
	ID:          "node-color",
	Name:        "Node Color",
	Description: "Node fill color from a blended dimension",
	Category:    transformer.CategoryStyle,
	Params: []transformer.ParamSpec{
		transformer.Color("startColor", "Start color", "#2b6cb0"),
		transformer.Color("endColor", "End color", "#dd6b20"),
		transformer.Number("opacity", "Opacity", 1, 0, 1),
	},
	DefaultDimensions: transformer.Dimensions{Primary: "generation", Secondary: "birth-year"},
	Transform:         nodeColor,
}

func nodeColor(ctx context.Context, tc *transformer.Context, p transformer.Params) (visual.Update, error) {
	grad, err := NewGradient(p.String("startColor"), p.String("endColor"))
	if err != nil {
		return visual.Update{}, err
	}
	opacity := p.Number("opacity")
	return eachIndividual(ctx, tc, p, func(v float64) visual.Metadata {
		return visual.Metadata{Color: visual.Ptr(grad.At(v)), Opacity: visual.Ptr(opacity)}
	})
}

// NodeShape buckets individuals over a list of shapes.
var NodeShape = &transformer.Config{
	ID:          "node-shape",
	Name:        "Node Shape",
	Description: "Node shape chosen by bucketing a blended dimension",
	Category:    transformer.CategoryStyle,
	Params: []transformer.ParamSpec{
		transformer.String("shapes", "Shapes", "circle,square,triangle,diamond"),
	},
	DefaultDimensions: transformer.Dimensions{Primary: "spouse-count", Secondary: "children-count"},
	Transform:         nodeShape,
}

// ParseShapes splits a comma-separated shape list, dropping blanks.
func ParseShapes(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Bucket returns the index of v in [0, 1] among n equal buckets.
func Bucket(v float64, n int) int {
	return min(max(int(v*float64(n)), 0), n-1)
}

func nodeShape(ctx context.Context, tc *transformer.Context, p transformer.Params) (visual.Update, error) {
	shapes := ParseShapes(p.String("shapes"))
	if len(shapes) == 0 {
		return visual.Update{}, lerrors.New(lerrors.ErrCodeInvalidInput, "no shapes given")
	}
	return eachIndividual(ctx, tc, p, func(v float64) visual.Metadata {
		return visual.Metadata{Shape: visual.Ptr(shapes[Bucket(v, len(shapes))])}
	})
}

// eachIndividual applies fn to the blended value of every visible individual.
func eachIndividual(ctx context.Context, tc *transformer.Context, p transformer.Params, fn func(v float64) visual.Metadata) (visual.Update, error) {
	blender, err := dimension.NewBlender(tc.Graph, p.Dimensions.Primary, p.Dimensions.Secondary)
	if err != nil {
		return visual.Update{}, err
	}
	u := visual.NewUpdate()
	for _, ind := range visibleIndividuals(tc) {
		if err := ctx.Err(); err != nil {
			return visual.Update{}, err
		}
		u.SetIndividual(ind.ID, fn(blender.Value(ind.ID)))
	}
	return u, nil
}
