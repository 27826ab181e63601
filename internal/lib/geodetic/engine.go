package geodetic

import (
	"fmt"
	"math"
)

// engine implements the Engine interface
type engine struct {
	ellipsoid Ellipsoid
}

// NewEngine creates an Engine that solves geographic problems on the given ellipsoid
func NewEngine(ellipsoid Ellipsoid) Engine {
	return &engine{ellipsoid: ellipsoid}
}

// Ellipsoid returns the ellipsoid used for geographic solutions
func (g *engine) Ellipsoid() Ellipsoid {
	return g.ellipsoid
}

// Direct projects origin along bearingDeg for rangeMetres
func (g *engine) Direct(origin Coordinate, bearingDeg, rangeMetres float64) (Coordinate, error) {
	if err := validateCoordinate(origin); err != nil {
		return Coordinate{}, err
	}
	if !isFinite(bearingDeg) || !isFinite(rangeMetres) {
		return Coordinate{}, fmt.Errorf("%w: bearing %v, range %v", ErrInvalidCoordinate, bearingDeg, rangeMetres)
	}

	switch origin.System {
	case Planar:
		return planarDirect(origin, bearingDeg, rangeMetres), nil
	default:
		solution, err := g.ellipsoid.Direct(origin.Latitude(), origin.Longitude(), bearingDeg, rangeMetres)
		if err != nil {
			return Coordinate{}, err
		}
		return NewGeographic(solution.Longitude, solution.Latitude), nil
	}
}

// Inverse returns the range and forward bearing from p1 to p2
func (g *engine) Inverse(p1, p2 Coordinate) (float64, float64, error) {
	if p1.System != p2.System {
		return 0, 0, fmt.Errorf("%w: %s and %s", ErrMixedCoordinateSystems, p1.System, p2.System)
	}
	if err := validateCoordinate(p1); err != nil {
		return 0, 0, err
	}
	if err := validateCoordinate(p2); err != nil {
		return 0, 0, err
	}

	switch p1.System {
	case Planar:
		r, b := planarInverse(p1, p2)
		return r, b, nil
	default:
		solution, err := g.ellipsoid.Inverse(p1.Latitude(), p1.Longitude(), p2.Latitude(), p2.Longitude())
		if err != nil {
			return 0, 0, err
		}
		return solution.Distance, solution.ForwardAzimuth, nil
	}
}

// validateCoordinate rejects NaN and infinite values, and latitudes beyond the poles
func validateCoordinate(c Coordinate) error {
	if !isFinite(c.X) || !isFinite(c.Y) {
		return fmt.Errorf("%w: (%v, %v)", ErrInvalidCoordinate, c.X, c.Y)
	}
	if c.System == Geographic && math.Abs(c.Latitude()) > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidCoordinate, c.Latitude())
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
