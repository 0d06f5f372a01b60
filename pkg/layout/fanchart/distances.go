package fanchart

import "math"

// Spacing modes.
const (
	SpacingAutoFit = "auto-fit"
	SpacingManual  = "manual"
)

// Ring distributions.
const (
	DistributionUniform     = "uniform"
	DistributionCompressed  = "compressed"
	DistributionLogarithmic = "logarithmic"
)

// compressionRatio is the ratio between consecutive ring widths in the
// compressed distribution.
const compressionRatio = 0.85

// CalculateGenerationDistances returns the ring radius of every generation
// from 0 (the centre, always 0) to maxGenerations.
//
// Uniform rings are evenly spaced. Compressed rings shrink geometrically
// outwards. Logarithmic rings follow log(g+2)/log(maxGenerations+2). In
// auto-fit mode every distribution ends exactly at maxRadius; in manual mode
// maxRadius is generationSpacing·maxGenerations and compressed rings keep
// their raw widths, so the outer ring falls inside it.
func CalculateGenerationDistances(spacingMode, distribution string, maxGenerations int, maxRadius float64) []float64 {
	if maxGenerations < 0 {
		maxGenerations = 0
	}
	radii := make([]float64, maxGenerations+1)
	if maxGenerations == 0 || !(maxRadius > 0) {
		return radii
	}
	n := float64(maxGenerations)

	switch distribution {
	case DistributionCompressed:
		step := maxRadius / n
		var total float64
		for g := 1; g <= maxGenerations; g++ {
			total += step * math.Pow(compressionRatio, float64(g-1))
			radii[g] = total
		}
		if spacingMode != SpacingManual {
			scale := maxRadius / total
			for g := range radii {
				radii[g] *= scale
			}
		}
	case DistributionLogarithmic:
		// log(n+2) rather than log(n+1): the outer ring g=n must land on
		// maxRadius, and log(n+2)/log(n+1) would overshoot it.
		denom := math.Log(n + 2)
		for g := 1; g <= maxGenerations; g++ {
			radii[g] = maxRadius * math.Log(float64(g)+2) / denom
		}
	default:
		for g := 1; g <= maxGenerations; g++ {
			radii[g] = maxRadius * float64(g) / n
		}
	}
	return radii
}
