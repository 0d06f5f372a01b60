package style

import (
	"context"
	"math"

	"github.com/matzehuels/lineage/pkg/transformer"
	"github.com/matzehuels/lineage/pkg/visual"
)

// Variance jitters positions and sizes with the pipeline's seeded generator.
// The jitter scales with the pipeline temperature, so temperature 0 leaves
// everything in place. It may appear several times in one pipeline; each
// instance draws from its own stream.
var Variance = &transformer.Config{
	ID:          "variance",
	Name:        "Variance",
	Description: "Seeded jitter of positions and sizes scaled by temperature",
	Category:    transformer.CategoryVariance,
	Params: []transformer.ParamSpec{
		transformer.Number("positionJitter", "Position jitter", 10, 0, 200),
		transformer.Number("sizeJitter", "Size jitter", 0.2, 0, 1),
	},
	MultiInstance: true,
	Transform:     variance,
}

func variance(ctx context.Context, tc *transformer.Context, p transformer.Params) (visual.Update, error) {
	u := visual.NewUpdate()
	if tc.Temperature == 0 {
		return u, nil
	}
	posJitter := p.Number("positionJitter") * tc.Temperature
	sizeJitter := p.Number("sizeJitter") * tc.Temperature
	rng := tc.Rand("variance")

	for _, ind := range tc.Graph.Individuals() {
		if err := ctx.Err(); err != nil {
			return visual.Update{}, err
		}
		// Draw for every individual so one entity's state never shifts the
		// stream seen by the others.
		dx, dy, ds := rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1

		m := tc.Entity(ind.ID)
		if m.IsHidden() {
			continue
		}
		var out visual.Metadata
		if pos, ok := m.Position(); ok && posJitter > 0 {
			out.X = visual.Ptr(pos.X + dx*posJitter)
			out.Y = visual.Ptr(pos.Y + dy*posJitter)
		}
		if m.Size != nil && sizeJitter > 0 {
			out.Size = visual.Ptr(math.Max(*m.Size*(1+ds*sizeJitter), 0))
		}
		if !out.IsEmpty() {
			u.SetIndividual(ind.ID, out)
		}
	}
	return u, nil
}
