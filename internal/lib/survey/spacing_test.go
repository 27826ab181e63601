package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dpup/surveyplan/internal/lib/geodetic"
)

func depthSamples(elevations ...float64) []DepthSample {
	samples := make([]DepthSample, len(elevations))
	for i, e := range elevations {
		samples[i] = DepthSample{Coordinate: geodetic.NewPlanar(float64(i), 0), ElevationMetres: e}
	}
	return samples
}

func TestSpacingEstimator_EmptySamples(t *testing.T) {
	estimate := NewSpacingEstimator().EstimateSpacing(nil, 4)

	assert.Equal(t, 1000.0, estimate.Spacing)
	assert.True(t, estimate.Fallback)
	assert.Equal(t, 0, estimate.Samples)
}

func TestSpacingEstimator_MeanDepth(t *testing.T) {
	estimate := NewSpacingEstimator().EstimateSpacing(depthSamples(-20, -40, -30), 4)

	assert.InDelta(t, 120.0, estimate.Spacing, 1e-9)
	assert.InDelta(t, -30.0, estimate.MeanElevation, 1e-9)
	assert.Equal(t, 3, estimate.Samples)
	assert.False(t, estimate.Fallback)
}

func TestSpacingEstimator_AbsoluteValue(t *testing.T) {
	// No outlier rejection: land heights pull the mean up
	estimate := NewSpacingEstimator().EstimateSpacing(depthSamples(-10, 50), 2)
	assert.InDelta(t, 40.0, estimate.Spacing, 1e-9)

	estimate = NewSpacingEstimator().EstimateSpacing(depthSamples(-10, -30), -3)
	assert.InDelta(t, 60.0, estimate.Spacing, 1e-9)
}
