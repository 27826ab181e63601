package gebco

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// Grid samples a fixed-resolution raster by nearest cell. Cells are pixel-centre
// registered and no interpolation is attempted, so a sample can be up to half a
// cell away from the stored value's position.
type Grid struct {
	header Header
	store  ElevationStore
	closer io.Closer
}

// NewGrid validates the header against the store
func NewGrid(header Header, store ElevationStore) (*Grid, error) {
	if header.Spacing[0] <= 0 || header.Spacing[1] <= 0 {
		return nil, fmt.Errorf("invalid grid spacing %v", header.Spacing)
	}
	if header.Rows() <= 0 || header.Cols() <= 0 {
		return nil, fmt.Errorf("invalid grid dimension %v", header.Dimension)
	}
	if store == nil {
		return nil, errors.New("grid has no elevation store")
	}
	if store.Len() != header.Rows()*header.Cols() {
		return nil, fmt.Errorf("elevation count %d does not match %d rows x %d cols",
			store.Len(), header.Rows(), header.Cols())
	}
	return &Grid{header: header, store: store}, nil
}

// Header returns the grid header
func (g *Grid) Header() Header {
	return g.header
}

// CoordinateToIndex maps a position to the flat index of its nearest cell.
// Out of range positions are clamped into the grid rather than rejected; near the
// poles and the antimeridian this aliases onto distant cells.
func (g *Grid) CoordinateToIndex(lat, lon float64) int {
	north := g.header.YRange[1]
	west := g.header.XRange[0]

	row := math.Round((north - lat) / g.header.Spacing[1])
	col := math.Round((lon - west) / g.header.Spacing[0])

	// Clamp in floating point so NaN and huge inputs cannot overflow
	index := row*float64(g.header.Cols()) + col
	last := g.header.Rows()*g.header.Cols() - 1
	if !(index >= 0) {
		return 0
	}
	if index > float64(last) {
		return last
	}
	return int(index)
}

// Elevation returns the stored value of the cell nearest to the position
func (g *Grid) Elevation(lat, lon float64) (int16, error) {
	return g.store.At(g.CoordinateToIndex(lat, lon))
}

// Close drops cached rows and releases the backing file, if any
func (g *Grid) Close() error {
	if store, ok := g.store.(*netcdfStore); ok {
		store.rows.Clear()
	}
	if g.closer == nil {
		return nil
	}
	return g.closer.Close()
}
