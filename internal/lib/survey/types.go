package survey

import (
	"context"

	"github.com/dpup/surveyplan/internal/lib/geodetic"
)

// Sentinels accepted in place of an explicit heading or spacing
const (
	AutoHeading = -1.0
	AutoSpacing = -1.0
)

// FallbackSpacing is used when no depth samples fall inside the polygon
const FallbackSpacing = 1000.0

// Polygon is a survey area. Only the outer ring drives planning; holes are carried for
// completeness and ignored by heading, centroid and extent computations.
type Polygon struct {
	Outer  []geodetic.Coordinate   `json:"outer"`
	Holes  [][]geodetic.Coordinate `json:"holes,omitempty"`
	System geodetic.CoordSystem    `json:"system"`
}

// BoundingExtent is the axis-aligned extent of a polygon's outer ring
type BoundingExtent struct {
	MinX   float64              `json:"min_x"`
	MinY   float64              `json:"min_y"`
	MaxX   float64              `json:"max_x"`
	MaxY   float64              `json:"max_y"`
	System geodetic.CoordSystem `json:"system"`
}

// LineSpec describes one family of parallel lines
type LineSpec struct {
	Spacing     float64 `json:"spacing"`
	Heading     float64 `json:"heading"`
	Prefix      string  `json:"prefix"`
	IsCrossLine bool    `json:"is_cross_line"`
}

// LineSegment is a named survey line. SpacingUsed is the spacing of the family that
// produced it, so cross-lines carry the multiplied spacing.
type LineSegment struct {
	Name         string              `json:"name"`
	Prefix       string              `json:"prefix"`
	Start        geodetic.Coordinate `json:"start"`
	End          geodetic.Coordinate `json:"end"`
	Heading      float64             `json:"heading"`
	SpacingUsed  float64             `json:"spacing_used"`
	LengthMetres float64             `json:"length_m"`
	IsCrossLine  bool                `json:"is_cross_line"`
}

// DepthSample is one elevation observation; depths are negative elevations
type DepthSample struct {
	Coordinate      geodetic.Coordinate `json:"coordinate"`
	ElevationMetres float64             `json:"elevation_m"`
}

// HeadingSource records how the plan heading was chosen
type HeadingSource string

const (
	HeadingExplicit HeadingSource = "explicit"
	HeadingOptimal  HeadingSource = "optimal"
	HeadingFallback HeadingSource = "fallback"
)

// HeadingEstimate is the result of an optimal heading search. Fallback is set when the
// search failed and Degrees was forced to 0.
type HeadingEstimate struct {
	Degrees    float64 `json:"degrees"`
	EdgeIndex  int     `json:"edge_index"`
	EdgeLength float64 `json:"edge_length"`
	Fallback   bool    `json:"fallback"`
	Cause      error   `json:"-"`
}

// SpacingEstimate is the result of deriving line spacing from depth samples
type SpacingEstimate struct {
	Spacing       float64 `json:"spacing"`
	MeanElevation float64 `json:"mean_elevation"`
	Samples       int     `json:"samples"`
	Fallback      bool    `json:"fallback"`
}

// PlanRequest holds everything needed to generate a line plan
type PlanRequest struct {
	Polygon             Polygon
	Spacing             float64 // AutoSpacing derives spacing from Depths
	Heading             float64 // AutoHeading selects the longest polygon edge
	Prefix              string
	CrossLineMultiplier float64
	CoverageMultiplier  float64
	Depths              DepthSource

	// Progress, if set, is called every 25 emitted lines with the running count
	Progress func(emitted int)
}

// Plan is a generated line plan with the values resolved along the way
type Plan struct {
	Segments        []LineSegment        `json:"segments"`
	Heading         float64              `json:"heading"`
	HeadingSource   HeadingSource        `json:"heading_source"`
	HeadingEstimate *HeadingEstimate     `json:"heading_estimate,omitempty"`
	Spacing         float64              `json:"spacing"`
	SpacingEstimate *SpacingEstimate     `json:"spacing_estimate,omitempty"`
	Center          geodetic.Coordinate  `json:"center"`
	Extent          BoundingExtent       `json:"extent"`
	HalfDiagonal    float64              `json:"half_diagonal_m"`
	Specs           []LineSpec           `json:"specs"`
	System          geodetic.CoordSystem `json:"system"`
}

// Generator builds line plans
type Generator interface {
	// Resolve heading and spacing, then emit centreline, starboard, port and cross-lines
	Generate(ctx context.Context, req PlanRequest) (*Plan, error)
}

// HeadingOptimizer picks a survey heading from polygon geometry
type HeadingOptimizer interface {
	// Bearing of the longest outer-ring edge, falling back to 0 on any failure
	OptimalHeading(polygon Polygon) HeadingEstimate
}

// SpacingEstimator derives line spacing from depth samples
type SpacingEstimator interface {
	// |coverageMultiplier x mean elevation|, FallbackSpacing when samples is empty
	EstimateSpacing(samples []DepthSample, coverageMultiplier float64) SpacingEstimate
}

// DepthSource supplies depth samples covering an extent
type DepthSource interface {
	Samples(ctx context.Context, extent BoundingExtent) ([]DepthSample, error)
}

// LineSink consumes generated segments
type LineSink interface {
	WriteSegments(ctx context.Context, segments []LineSegment) error
}

// Clipper trims full-length segments to a polygon
type Clipper interface {
	Clip(polygon Polygon, segments []LineSegment) ([]LineSegment, error)
}
