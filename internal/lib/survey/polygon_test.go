package survey

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dpup/surveyplan/internal/lib/geodetic"
)

func TestPolygon_RingAndEdges(t *testing.T) {
	closedRing := NewPolygon(geodetic.Planar, [2]float64{0, 0}, [2]float64{10, 0}, [2]float64{10, 10}, [2]float64{0, 0})
	assert.Len(t, closedRing.Ring(), 3, "repeated closing vertex is dropped")
	assert.Len(t, closedRing.Edges(), 3, "closing edge is added back once")

	open := NewPolygon(geodetic.Planar, [2]float64{0, 0}, [2]float64{10, 0}, [2]float64{10, 10})
	edges := open.Edges()
	assert.Len(t, edges, 3)
	assert.Equal(t, open.Outer[2], edges[2][0])
	assert.Equal(t, open.Outer[0], edges[2][1])

	line := NewPolygon(geodetic.Planar, [2]float64{0, 0}, [2]float64{10, 0})
	assert.Len(t, line.Edges(), 1, "two vertices make a single edge")
}

func TestPolygon_ExtentAndCentroid(t *testing.T) {
	p := NewPolygon(geodetic.Planar, [2]float64{0, 0}, [2]float64{400, 0}, [2]float64{400, 300}, [2]float64{0, 300})

	extent := p.Extent()
	assert.Equal(t, BoundingExtent{MinX: 0, MinY: 0, MaxX: 400, MaxY: 300, System: geodetic.Planar}, extent)
	assert.Equal(t, 400.0, extent.Width())
	assert.Equal(t, 300.0, extent.Height())
	assert.InDelta(t, 250.0, extent.HalfDiagonal(), 1e-9)

	c := p.Centroid()
	assert.InDelta(t, 200.0, c.X, 1e-9)
	assert.InDelta(t, 150.0, c.Y, 1e-9)
	assert.Equal(t, geodetic.Planar, c.System)
}

func TestPolygon_CentroidOfCollinearRing(t *testing.T) {
	p := NewPolygon(geodetic.Planar, [2]float64{0, 0}, [2]float64{10, 0}, [2]float64{20, 0})
	c := p.Centroid()
	assert.False(t, math.IsNaN(c.X))
	assert.Equal(t, 10.0, c.X, "zero-area rings use the extent centre")
	assert.Equal(t, 0.0, c.Y)
}

func TestPolygon_HolesIgnoredByExtent(t *testing.T) {
	p := square(geodetic.Planar, 100)
	p.Holes = [][]geodetic.Coordinate{{
		geodetic.NewPlanar(-500, -500), geodetic.NewPlanar(500, -500), geodetic.NewPlanar(0, 500),
	}}
	assert.Equal(t, 200.0, p.Extent().Width())
}

func TestPolygon_Contains(t *testing.T) {
	p := square(geodetic.Planar, 100)
	p.Holes = [][]geodetic.Coordinate{{
		geodetic.NewPlanar(-10, -10), geodetic.NewPlanar(10, -10), geodetic.NewPlanar(10, 10), geodetic.NewPlanar(-10, 10),
	}}

	assert.True(t, p.Contains(geodetic.NewPlanar(50, 50)))
	assert.False(t, p.Contains(geodetic.NewPlanar(150, 50)))
	assert.False(t, p.Contains(geodetic.NewPlanar(0, 0)), "points in holes are outside")
}

func TestBoundingExtent_GeographicHalfDiagonal(t *testing.T) {
	e := BoundingExtent{MinX: 144, MinY: -38, MaxX: 144.03, MaxY: -37.96, System: geodetic.Geographic}
	// hypot(0.03, 0.04) / 2 = 0.025 degrees, at 1852 m per arc minute
	assert.InDelta(t, 0.025*1852*60, e.HalfDiagonal(), 1e-6)
	assert.True(t, e.Contains(geodetic.NewGeographic(144.01, -37.99)))
	assert.False(t, e.Contains(geodetic.NewGeographic(145, -37.99)))
}
