package survey

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// spacingEstimator implements the SpacingEstimator interface
type spacingEstimator struct{}

// NewSpacingEstimator creates a SpacingEstimator using the arithmetic mean depth
func NewSpacingEstimator() SpacingEstimator {
	return spacingEstimator{}
}

// EstimateSpacing returns |coverageMultiplier x mean elevation| with no outlier rejection.
// An empty sample set yields FallbackSpacing.
func (spacingEstimator) EstimateSpacing(samples []DepthSample, coverageMultiplier float64) SpacingEstimate {
	if len(samples) == 0 {
		return SpacingEstimate{Spacing: FallbackSpacing, Fallback: true}
	}

	elevations := make([]float64, len(samples))
	for i, s := range samples {
		elevations[i] = s.ElevationMetres
	}
	mean := stat.Mean(elevations, nil)

	return SpacingEstimate{
		Spacing:       math.Abs(coverageMultiplier * mean),
		MeanElevation: mean,
		Samples:       len(samples),
	}
}
