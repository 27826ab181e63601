package survey

import (
	"math"

	"github.com/dhconnelly/rtreego"
)

// rtree rectangles need non-zero sides and touching rectangles do not intersect,
// so every rectangle is padded by a margin that survives float rounding
const minRectSide = 1e-9

// DepthIndex is an R-tree over depth samples for polygon clipping
type DepthIndex struct {
	tree *rtreego.Rtree
}

// indexedSample adapts a DepthSample to rtreego.Spatial
type indexedSample struct {
	DepthSample
}

// Bounds implements rtreego.Spatial interface.
func (s indexedSample) Bounds() rtreego.Rect {
	return rect(s.Coordinate.X, s.Coordinate.Y, s.Coordinate.X, s.Coordinate.Y)
}

// NewDepthIndex indexes samples
func NewDepthIndex(samples []DepthSample) *DepthIndex {
	tree := rtreego.NewTree(2, 25, 50)
	for _, s := range samples {
		tree.Insert(indexedSample{s})
	}
	return &DepthIndex{tree: tree}
}

// Size returns the number of indexed samples
func (idx *DepthIndex) Size() int {
	return idx.tree.Size()
}

// Within returns the samples inside polygon, boundary included
func (idx *DepthIndex) Within(polygon Polygon) []DepthSample {
	extent := polygon.Extent()
	candidates := idx.tree.SearchIntersect(rect(
		extent.MinX-margin(extent.MinX), extent.MinY-margin(extent.MinY),
		extent.MaxX+margin(extent.MaxX), extent.MaxY+margin(extent.MaxY)))

	var inside []DepthSample
	for _, candidate := range candidates {
		sample := candidate.(indexedSample).DepthSample
		if polygon.Contains(sample.Coordinate) {
			inside = append(inside, sample)
		}
	}
	return inside
}

func rect(minX, minY, maxX, maxY float64) rtreego.Rect {
	lengths := []float64{
		math.Max(maxX-minX, margin(maxX)),
		math.Max(maxY-minY, margin(maxY)),
	}
	r, _ := rtreego.NewRect(rtreego.Point{minX, minY}, lengths)
	return r
}

func margin(v float64) float64 {
	return math.Max(minRectSide, math.Abs(v)*1e-12)
}
