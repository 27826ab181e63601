package gebco

import (
	"context"
	"fmt"

	"github.com/dpup/prefab/logging"

	"github.com/dpup/surveyplan/internal/lib/geodetic"
	"github.com/dpup/surveyplan/internal/lib/survey"
)

// DepthSource feeds decimated grid samples to the line planner
type DepthSource struct {
	grid *Grid
	step int
}

// NewDepthSource samples grid every step native cells
func NewDepthSource(grid *Grid, step int) *DepthSource {
	return &DepthSource{grid: grid, step: step}
}

// Samples implements survey.DepthSource. Only geographic extents can be sampled.
func (d *DepthSource) Samples(ctx context.Context, extent survey.BoundingExtent) ([]survey.DepthSample, error) {
	if extent.System != geodetic.Geographic {
		return nil, fmt.Errorf("%w: raster sampling needs geographic coordinates, got %s",
			geodetic.ErrMixedCoordinateSystems, extent.System)
	}

	extraction, err := d.grid.LoadBoundingBoxElevations(BoundingBox{
		West:  extent.MinX,
		South: extent.MinY,
		East:  extent.MaxX,
		North: extent.MaxY,
	}, d.step)
	if err != nil {
		return nil, err
	}

	samples := make([]survey.DepthSample, 0, extraction.Size())
	rows := extraction.Rows()
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := rows.Row()
		for j, z := range row.Elevations {
			samples = append(samples, survey.DepthSample{
				Coordinate:      geodetic.NewGeographic(extraction.Longitudes[j], row.Latitude),
				ElevationMetres: float64(z),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logging.Debugw(ctx, "Sampled GEBCO raster",
		"rows", len(extraction.Latitudes), "cols", len(extraction.Longitudes), "step", d.step)
	return samples, nil
}
