package survey

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dpup/surveyplan/internal/lib/geodetic"
)

// MockDepthSource for testing
type MockDepthSource struct {
	mock.Mock
}

func (m *MockDepthSource) Samples(ctx context.Context, extent BoundingExtent) ([]DepthSample, error) {
	args := m.Called(ctx, extent)
	samples, _ := args.Get(0).([]DepthSample)
	return samples, args.Error(1)
}

// MockEngine for testing
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Direct(origin geodetic.Coordinate, bearingDeg, rangeMetres float64) (geodetic.Coordinate, error) {
	args := m.Called(origin, bearingDeg, rangeMetres)
	return args.Get(0).(geodetic.Coordinate), args.Error(1)
}

func (m *MockEngine) Inverse(p1, p2 geodetic.Coordinate) (float64, float64, error) {
	args := m.Called(p1, p2)
	return args.Get(0).(float64), args.Get(1).(float64), args.Error(2)
}

func (m *MockEngine) Ellipsoid() geodetic.Ellipsoid {
	return geodetic.WGS84
}

// MockHeadingOptimizer for testing
type MockHeadingOptimizer struct {
	mock.Mock
}

func (m *MockHeadingOptimizer) OptimalHeading(polygon Polygon) HeadingEstimate {
	args := m.Called(polygon)
	return args.Get(0).(HeadingEstimate)
}

func square(system geodetic.CoordSystem, half float64) Polygon {
	return NewPolygon(system, [2]float64{-half, -half}, [2]float64{half, -half}, [2]float64{half, half}, [2]float64{-half, half})
}
