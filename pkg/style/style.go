// Package style provides the appearance transformers: node size, node
// color, node shape, edge stroke and seeded variance.
//
// Each maps a blended dimension value in [0, 1] onto one visual attribute
// and leaves positions and geometry alone. Hidden entities are skipped so a
// style stage never revives something a layout hid.
package style

import (
	"github.com/lucasb-eyer/go-colorful"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/transformer"
)

// Transformers lists every style transformer in registration order.
var Transformers = []*transformer.Config{NodeSize, NodeColor, NodeShape, EdgeStroke, Variance}

// lerp maps t in [0, 1] onto [lo, hi].
func lerp(lo, hi, t float64) float64 {
	return lo + t*(hi-lo)
}

// Gradient blends two hex colors in HCL space.
type Gradient struct {
	start, end colorful.Color
}

// NewGradient parses the two endpoint colors.
func NewGradient(start, end string) (Gradient, error) {
	s, err := colorful.Hex(start)
	if err != nil {
		return Gradient{}, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "start color %q", start)
	}
	e, err := colorful.Hex(end)
	if err != nil {
		return Gradient{}, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "end color %q", end)
	}
	return Gradient{start: s, end: e}, nil
}

// At returns the hex color at t in [0, 1].
func (g Gradient) At(t float64) string {
	return g.start.BlendHcl(g.end, t).Clamped().Hex()
}

// visibleIndividuals returns the individuals earlier stages left visible.
func visibleIndividuals(tc *transformer.Context) []*genealogy.Individual {
	var out []*genealogy.Individual
	for _, ind := range tc.Graph.Individuals() {
		if !tc.Entity(ind.ID).IsHidden() {
			out = append(out, ind)
		}
	}
	return out
}
