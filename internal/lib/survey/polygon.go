package survey

import (
	"math"

	"github.com/ctessum/geom"

	"github.com/dpup/surveyplan/internal/lib/geodetic"
)

// NewPolygon builds a single-ring polygon from x, y pairs in the given system
func NewPolygon(system geodetic.CoordSystem, xy ...[2]float64) Polygon {
	outer := make([]geodetic.Coordinate, len(xy))
	for i, p := range xy {
		outer[i] = geodetic.Coordinate{X: p[0], Y: p[1], System: system}
	}
	return Polygon{Outer: outer, System: system}
}

// Ring returns the outer ring without a repeated closing vertex
func (p Polygon) Ring() []geodetic.Coordinate {
	n := len(p.Outer)
	if n > 1 && p.Outer[0].X == p.Outer[n-1].X && p.Outer[0].Y == p.Outer[n-1].Y {
		return p.Outer[:n-1]
	}
	return p.Outer
}

// Edges returns consecutive outer-ring vertex pairs, closing the ring when it has at least
// three vertices
func (p Polygon) Edges() [][2]geodetic.Coordinate {
	ring := p.Ring()
	if len(ring) < 2 {
		return nil
	}
	edges := make([][2]geodetic.Coordinate, 0, len(ring))
	for i := 1; i < len(ring); i++ {
		edges = append(edges, [2]geodetic.Coordinate{ring[i-1], ring[i]})
	}
	if len(ring) >= 3 {
		edges = append(edges, [2]geodetic.Coordinate{ring[len(ring)-1], ring[0]})
	}
	return edges
}

// Extent returns the bounding extent of the outer ring
func (p Polygon) Extent() BoundingExtent {
	b := geom.Polygon{toPoints(p.Ring())}.Bounds()
	return BoundingExtent{
		MinX:   b.Min.X,
		MinY:   b.Min.Y,
		MaxX:   b.Max.X,
		MaxY:   b.Max.Y,
		System: p.System,
	}
}

// Centroid returns the area centroid of the outer ring, or the extent centre when the
// ring encloses no area
func (p Polygon) Centroid() geodetic.Coordinate {
	ring := p.Ring()
	if len(ring) >= 3 {
		c := geom.Polygon{closed(toPoints(ring))}.Centroid()
		if !math.IsNaN(c.X) && !math.IsNaN(c.Y) && !math.IsInf(c.X, 0) && !math.IsInf(c.Y, 0) {
			return geodetic.Coordinate{X: c.X, Y: c.Y, System: p.System}
		}
	}
	return p.Extent().Center()
}

// Contains reports whether c lies inside the polygon or on its boundary. Holes are excluded.
func (p Polygon) Contains(c geodetic.Coordinate) bool {
	return geom.Point{X: c.X, Y: c.Y}.Within(p.asGeom()) != geom.Outside
}

// asGeom converts every ring into a closed geom.Polygon
func (p Polygon) asGeom() geom.Polygon {
	rings := make(geom.Polygon, 0, 1+len(p.Holes))
	rings = append(rings, closed(toPoints(p.Ring())))
	for _, hole := range p.Holes {
		if len(hole) >= 3 {
			rings = append(rings, closed(toPoints(hole)))
		}
	}
	return rings
}

func toPoints(coords []geodetic.Coordinate) []geom.Point {
	points := make([]geom.Point, len(coords))
	for i, c := range coords {
		points[i] = geom.Point{X: c.X, Y: c.Y}
	}
	return points
}

func closed(points []geom.Point) []geom.Point {
	if len(points) > 0 && points[0] != points[len(points)-1] {
		out := make([]geom.Point, len(points), len(points)+1)
		copy(out, points)
		return append(out, points[0])
	}
	return points
}

// Width returns MaxX - MinX
func (e BoundingExtent) Width() float64 { return e.MaxX - e.MinX }

// Height returns MaxY - MinY
func (e BoundingExtent) Height() float64 { return e.MaxY - e.MinY }

// Center returns the midpoint of the extent
func (e BoundingExtent) Center() geodetic.Coordinate {
	return geodetic.Coordinate{X: (e.MinX + e.MaxX) / 2, Y: (e.MinY + e.MaxY) / 2, System: e.System}
}

// HalfDiagonal returns half the extent diagonal in metres. Geographic extents are
// converted at 1852 m per arc minute.
func (e BoundingExtent) HalfDiagonal() float64 {
	d := math.Hypot(e.Width(), e.Height()) / 2
	if e.System == geodetic.Geographic {
		return geodetic.DegreesToMetres(d)
	}
	return d
}

// Contains reports whether c lies within the extent
func (e BoundingExtent) Contains(c geodetic.Coordinate) bool {
	return c.X >= e.MinX && c.X <= e.MaxX && c.Y >= e.MinY && c.Y <= e.MaxY
}
