package survey

import (
	"fmt"
	"sort"

	"github.com/dpup/surveyplan/internal/lib/geodetic"
)

// parameters closer than this along a segment are treated as one crossing
const clipTolerance = 1e-12

// polygonClipper implements the Clipper interface
type polygonClipper struct {
	engine geodetic.Engine
}

// NewClipper creates a Clipper that measures clipped lengths with engine
func NewClipper(engine geodetic.Engine) Clipper {
	return &polygonClipper{engine: engine}
}

// Clip cuts each segment at every ring crossing and keeps the pieces whose midpoints lie
// inside the polygon. Pieces keep the name of their segment; a line crossing a concave
// boundary yields several pieces and a line missing the polygon yields none. Geographic
// segments are cut in longitude/latitude space.
func (c *polygonClipper) Clip(polygon Polygon, segments []LineSegment) ([]LineSegment, error) {
	rings := [][]geodetic.Coordinate{polygon.Ring()}
	rings = append(rings, polygon.Holes...)

	var out []LineSegment
	for _, segment := range segments {
		if segment.Start.System != polygon.System || segment.End.System != polygon.System {
			return nil, fmt.Errorf("%w: segment %s and polygon", geodetic.ErrMixedCoordinateSystems, segment.Name)
		}

		for _, span := range insideSpans(polygon, rings, segment.Start, segment.End) {
			start := interpolate(segment.Start, segment.End, span[0])
			end := interpolate(segment.Start, segment.End, span[1])
			length, _, err := c.engine.Inverse(start, end)
			if err != nil {
				return nil, fmt.Errorf("failed to measure clipped %s: %w", segment.Name, err)
			}

			piece := segment
			piece.Start = start
			piece.End = end
			piece.LengthMetres = length
			out = append(out, piece)
		}
	}
	return out, nil
}

// insideSpans returns the parameter intervals of a->b that lie inside the polygon
func insideSpans(polygon Polygon, rings [][]geodetic.Coordinate, a, b geodetic.Coordinate) [][2]float64 {
	params := []float64{0, 1}
	for _, ring := range rings {
		n := len(ring)
		for i := 0; i < n; i++ {
			if t, ok := crossing(a, b, ring[i], ring[(i+1)%n]); ok {
				params = append(params, t)
			}
		}
	}
	sort.Float64s(params)

	var spans [][2]float64
	for i := 0; i+1 < len(params); i++ {
		t0, t1 := params[i], params[i+1]
		if t1-t0 < clipTolerance {
			continue
		}
		if !polygon.Contains(interpolate(a, b, (t0+t1)/2)) {
			continue
		}
		// Merge with the previous span when split at a vertex touch
		if len(spans) > 0 && t0-spans[len(spans)-1][1] < clipTolerance {
			spans[len(spans)-1][1] = t1
			continue
		}
		spans = append(spans, [2]float64{t0, t1})
	}
	return spans
}

// crossing returns the parameter along a->b where it meets p->q
func crossing(a, b, p, q geodetic.Coordinate) (float64, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	ex, ey := q.X-p.X, q.Y-p.Y

	denom := dx*ey - dy*ex
	if denom == 0 {
		return 0, false
	}

	fx, fy := p.X-a.X, p.Y-a.Y
	t := (fx*ey - fy*ex) / denom
	u := (fx*dy - fy*dx) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return 0, false
	}
	return t, true
}

func interpolate(a, b geodetic.Coordinate, t float64) geodetic.Coordinate {
	return geodetic.Coordinate{
		X:      a.X + (b.X-a.X)*t,
		Y:      a.Y + (b.Y-a.Y)*t,
		System: a.System,
	}
}
