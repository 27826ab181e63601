package survey

import (
	"errors"
	"fmt"
	"math"

	"github.com/dpup/surveyplan/internal/lib/geodetic"
)

// headingOptimizer implements the HeadingOptimizer interface
type headingOptimizer struct {
	engine geodetic.Engine
}

// NewHeadingOptimizer creates a HeadingOptimizer measuring edges with engine
func NewHeadingOptimizer(engine geodetic.Engine) HeadingOptimizer {
	return &headingOptimizer{engine: engine}
}

// OptimalHeading returns the bearing of the longest outer-ring edge. The first edge wins
// ties. Failures never propagate: the estimate falls back to 0 degrees with Fallback set.
func (h *headingOptimizer) OptimalHeading(polygon Polygon) HeadingEstimate {
	ring := polygon.Ring()
	if len(ring) < 3 {
		return headingFallback(invalid("polygon", len(ring), "need at least 3 vertices to choose a heading"))
	}

	best := HeadingEstimate{EdgeIndex: -1}
	for i, edge := range polygon.Edges() {
		r, bearing, err := h.engine.Inverse(edge[0], edge[1])
		if err != nil {
			return headingFallback(fmt.Errorf("edge %d: %w", i, err))
		}
		if math.IsNaN(r) || math.IsNaN(bearing) {
			return headingFallback(fmt.Errorf("edge %d: range or bearing is NaN", i))
		}
		if r > best.EdgeLength {
			best = HeadingEstimate{
				Degrees:    geodetic.Normalize360(bearing),
				EdgeIndex:  i,
				EdgeLength: r,
			}
		}
	}

	if best.EdgeIndex < 0 {
		return headingFallback(errors.New("every polygon edge has zero length"))
	}
	return best
}

func headingFallback(cause error) HeadingEstimate {
	return HeadingEstimate{Degrees: 0, EdgeIndex: -1, Fallback: true, Cause: cause}
}
