package gebco

import (
	"fmt"
	"math"
)

// Extraction is a decimated view of a grid over a bounding box. Latitudes run south to
// north and longitudes west to east; rows are produced lazily and can be iterated any
// number of times.
type Extraction struct {
	Latitudes  []float64 `json:"latitudes"`
	Longitudes []float64 `json:"longitudes"`

	// OnRow, if set, is called after each row is produced with the rows done so far
	OnRow func(done, total int) `json:"-"`

	grid *Grid
}

// LoadBoundingBoxElevations samples the grid every stepMultiplier native cells inside box
func (g *Grid) LoadBoundingBoxElevations(box BoundingBox, stepMultiplier int) (*Extraction, error) {
	if stepMultiplier < 1 {
		return nil, fmt.Errorf("step multiplier must be at least 1, got %d", stepMultiplier)
	}
	if !(box.North > box.South) || !(box.East > box.West) {
		return nil, fmt.Errorf("invalid bounding box %+v", box)
	}

	latStep := g.header.Spacing[1] * float64(stepMultiplier)
	lonStep := g.header.Spacing[0] * float64(stepMultiplier)

	return &Extraction{
		Latitudes:  arange(box.South, box.North, latStep),
		Longitudes: arange(box.West, box.East, lonStep),
		grid:       g,
	}, nil
}

// Rows returns a fresh iterator over the extraction
func (x *Extraction) Rows() *RowIterator {
	return &RowIterator{extraction: x}
}

// Materialize reads every row into a row-major array aligned with Latitudes and Longitudes
func (x *Extraction) Materialize() ([][]int16, error) {
	out := make([][]int16, 0, len(x.Latitudes))
	rows := x.Rows()
	for rows.Next() {
		out = append(out, rows.Row().Elevations)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Size returns the number of samples the extraction produces
func (x *Extraction) Size() int {
	return len(x.Latitudes) * len(x.Longitudes)
}

// RowIterator walks an extraction one latitude at a time
type RowIterator struct {
	extraction *Extraction
	next       int
	row        ElevationRow
	err        error
}

// Next reads the next row, returning false when done or on error
func (it *RowIterator) Next() bool {
	x := it.extraction
	if it.err != nil || it.next >= len(x.Latitudes) {
		return false
	}

	lat := x.Latitudes[it.next]
	elevations := make([]int16, len(x.Longitudes))
	for j, lon := range x.Longitudes {
		z, err := x.grid.Elevation(lat, lon)
		if err != nil {
			it.err = fmt.Errorf("reading elevation at (%v, %v): %w", lat, lon, err)
			return false
		}
		elevations[j] = z
	}

	it.row = ElevationRow{Index: it.next, Latitude: lat, Elevations: elevations}
	it.next++
	if x.OnRow != nil {
		x.OnRow(it.next, len(x.Latitudes))
	}
	return true
}

// Row returns the row read by the last call to Next
func (it *RowIterator) Row() ElevationRow {
	return it.row
}

// Err returns the first error encountered
func (it *RowIterator) Err() error {
	return it.err
}

// arange returns start, start+step, ... up to but excluding stop
func arange(start, stop, step float64) []float64 {
	n := int(math.Ceil((stop - start) / step))
	if n <= 0 {
		return nil
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = start + float64(i)*step
	}
	return values
}
