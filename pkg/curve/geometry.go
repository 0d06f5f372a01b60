package curve

import (
	"math"

	"github.com/matzehuels/lineage/pkg/visual"
)

const eps = 1e-9

// offsetScale converts intensity into a perpendicular offset as a fraction of
// the chord length.
const offsetScale = 0.5

// Geometry is the precomputed shape of one edge.
type Geometry struct {
	ControlPoints []visual.Point
	ArcRadius     *float64
}

// Resolve computes control points for curveType between src and dst.
// Catenary, step, s-curve and straight edges are drawn from the intensity
// alone and have no precomputed points. Every returned value is finite, even
// when src and dst coincide.
func Resolve(curveType string, src, dst visual.Point, intensity float64) Geometry {
	dx, dy := dst.X-src.X, dst.Y-src.Y
	length := math.Hypot(dx, dy)
	offset := intensity * length * offsetScale

	// Unit normal to the chord, zero for a degenerate chord.
	var nx, ny float64
	if length > eps {
		nx, ny = -dy/length, dx/length
	}
	along := func(t float64) visual.Point {
		return visual.Point{X: src.X + dx*t + nx*offset, Y: src.Y + dy*t + ny*offset}
	}

	switch curveType {
	case visual.CurveQuadratic:
		return Geometry{ControlPoints: []visual.Point{along(0.5)}}
	case visual.CurveBezier:
		return Geometry{ControlPoints: []visual.Point{along(1.0 / 3), along(2.0 / 3)}}
	case visual.CurveArc:
		r := arcRadius(length, offset)
		return Geometry{ControlPoints: []visual.Point{along(0.5)}, ArcRadius: &r}
	}
	return Geometry{}
}

// arcRadius returns the radius of the circle through both chord endpoints
// whose apex sits sagitta away from the chord midpoint. The chord subtends a
// central angle of 4·atan(2h/L); a flat arc reports radius 0.
func arcRadius(length, sagitta float64) float64 {
	h := math.Abs(sagitta)
	theta := 4 * math.Atan2(2*h, length)
	s := math.Sin(theta / 2)
	if s < eps {
		return 0
	}
	return length / (2 * s)
}
