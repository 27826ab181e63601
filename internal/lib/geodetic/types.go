package geodetic

import "fmt"

// CoordSystem tags a Coordinate with the system its values are expressed in
type CoordSystem int

const (
	// Geographic coordinates carry longitude in X and latitude in Y, in degrees
	Geographic CoordSystem = iota
	// Planar coordinates carry easting in X and northing in Y, in project units
	Planar
)

// String returns the lower-case name of the coordinate system
func (s CoordSystem) String() string {
	switch s {
	case Geographic:
		return "geographic"
	case Planar:
		return "planar"
	default:
		return fmt.Sprintf("coordsystem(%d)", int(s))
	}
}

// ParseCoordSystem converts a configuration value into a CoordSystem
func ParseCoordSystem(name string) (CoordSystem, error) {
	switch name {
	case "geographic", "geo", "wgs84":
		return Geographic, nil
	case "planar", "grid", "projected":
		return Planar, nil
	default:
		return Geographic, fmt.Errorf("unknown coordinate system %q", name)
	}
}

// Coordinate is a position tagged with its coordinate system
type Coordinate struct {
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	System CoordSystem `json:"system"`
}

// NewGeographic builds a Geographic coordinate from longitude and latitude in degrees
func NewGeographic(lon, lat float64) Coordinate {
	return Coordinate{X: lon, Y: lat, System: Geographic}
}

// NewPlanar builds a Planar coordinate from easting and northing
func NewPlanar(x, y float64) Coordinate {
	return Coordinate{X: x, Y: y, System: Planar}
}

// Longitude returns X; only meaningful for Geographic coordinates
func (c Coordinate) Longitude() float64 { return c.X }

// Latitude returns Y; only meaningful for Geographic coordinates
func (c Coordinate) Latitude() float64 { return c.Y }

// InverseSolution is the full result of a Vincenty inverse computation
type InverseSolution struct {
	Distance       float64 `json:"distance_m"`
	ForwardAzimuth float64 `json:"forward_azimuth"`
	ReverseAzimuth float64 `json:"reverse_azimuth"`
	Iterations     int     `json:"iterations"`
}

// DirectSolution is the full result of a Vincenty direct computation
type DirectSolution struct {
	Latitude       float64 `json:"lat"`
	Longitude      float64 `json:"lon"`
	ReverseAzimuth float64 `json:"reverse_azimuth"`
	Iterations     int     `json:"iterations"`
}

// Engine solves the direct and inverse problems for either coordinate system
type Engine interface {
	// Project a point from origin along bearing (degrees clockwise from north) for rangeMetres
	Direct(origin Coordinate, bearingDeg, rangeMetres float64) (Coordinate, error)

	// Range and forward bearing from p1 to p2. Planar bearings are not normalized.
	Inverse(p1, p2 Coordinate) (rangeMetres, bearingDeg float64, err error)

	// Ellipsoid used for geographic solutions
	Ellipsoid() Ellipsoid
}
