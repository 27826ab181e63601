package gebco

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"github.com/dpup/prefab/logging"

	"github.com/dpup/surveyplan/internal/cache"
)

// Variable names of the GEBCO one-dimensional NetCDF layout
const (
	varXRange    = "x_range"
	varYRange    = "y_range"
	varZRange    = "z_range"
	varSpacing   = "spacing"
	varDimension = "dimension"
	varZ         = "z"

	dimSide   = "side"
	dimXYSize = "xysize"
)

// DefaultCachedRows holds a few hundred GEBCO rows (roughly 85 KB each)
const DefaultCachedRows = 256

// netcdfStore reads elevations from a NetCDF file one raster row at a time
type netcdfStore struct {
	file *cdf.File
	cols int
	size int
	rows *cache.Cache[int, []int16]
}

// OpenNetCDF opens a GEBCO one-dimensional NetCDF grid. Elevations are read on demand and
// up to cachedRows rows are kept in memory. Close the returned grid to release the file.
func OpenNetCDF(ctx context.Context, path string, cachedRows int) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raster: %w", err)
	}

	grid, err := openNetCDF(f, cachedRows)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read raster %s: %w", path, err)
	}
	grid.closer = f

	h := grid.Header()
	logging.Infow(ctx, "Opened GEBCO raster",
		"path", path, "rows", h.Rows(), "cols", h.Cols(),
		"spacing_lon", h.Spacing[0], "spacing_lat", h.Spacing[1], "cached_rows", cachedRows)
	return grid, nil
}

func openNetCDF(rw cdf.ReaderWriterAt, cachedRows int) (*Grid, error) {
	file, err := cdf.Open(rw)
	if err != nil {
		return nil, err
	}

	var header Header
	for name, dst := range map[string]*[2]float64{
		varXRange:  &header.XRange,
		varYRange:  &header.YRange,
		varZRange:  &header.ZRange,
		varSpacing: &header.Spacing,
	} {
		values, err := readPair(file, name)
		if err != nil {
			return nil, err
		}
		*dst = values
	}

	dimension, err := readPair(file, varDimension)
	if err != nil {
		return nil, err
	}
	header.Dimension = [2]int{int(dimension[0]), int(dimension[1])}

	lengths := file.Header.Lengths(varZ)
	if len(lengths) != 1 {
		return nil, fmt.Errorf("variable %q must be one-dimensional, got %v", varZ, lengths)
	}
	if _, ok := file.Header.ZeroValue(varZ, 0).([]int16); !ok {
		return nil, fmt.Errorf("variable %q must be 16-bit integers", varZ)
	}

	store := &netcdfStore{
		file: file,
		cols: header.Cols(),
		size: lengths[0],
		rows: cache.NewCache[int, []int16](cachedRows),
	}
	return NewGrid(header, store)
}

// readPair reads a two-element header variable of any numeric type as float64
func readPair(file *cdf.File, name string) ([2]float64, error) {
	var out [2]float64
	lengths := file.Header.Lengths(name)
	if len(lengths) != 1 || lengths[0] != 2 {
		return out, fmt.Errorf("variable %q missing or not a pair", name)
	}

	r := file.Reader(name, nil, nil)
	buf := r.Zero(2)
	if _, err := r.Read(buf); err != nil {
		return out, fmt.Errorf("reading %q: %w", name, err)
	}

	switch values := buf.(type) {
	case []float64:
		out[0], out[1] = values[0], values[1]
	case []float32:
		out[0], out[1] = float64(values[0]), float64(values[1])
	case []int32:
		out[0], out[1] = float64(values[0]), float64(values[1])
	case []int16:
		out[0], out[1] = float64(values[0]), float64(values[1])
	default:
		return out, fmt.Errorf("variable %q has unsupported type %T", name, buf)
	}
	return out, nil
}

// At returns the elevation at a flat index, loading its row on a cache miss
func (s *netcdfStore) At(index int) (int16, error) {
	row := index / s.cols
	values, err := s.rows.GetOrLoad(row, func() ([]int16, error) {
		return s.readRow(row)
	})
	if err != nil {
		return 0, err
	}
	return values[index%s.cols], nil
}

// Len returns the number of stored elevations
func (s *netcdfStore) Len() int {
	return s.size
}

func (s *netcdfStore) readRow(row int) ([]int16, error) {
	begin := row * s.cols
	last := begin + s.cols - 1
	if begin < 0 || last >= s.size {
		return nil, fmt.Errorf("row %d outside raster of %d values", row, s.size)
	}

	// End indices are inclusive
	r := s.file.Reader(varZ, []int{begin}, []int{last})
	buf := r.Zero(s.cols)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("reading row %d: %w", row, err)
	}
	values, ok := buf.([]int16)
	if !ok {
		return nil, errors.New("unexpected elevation type")
	}
	return values, nil
}

// CacheStats reports row cache usage of a NetCDF backed grid
func (g *Grid) CacheStats() (cache.CacheStats, bool) {
	store, ok := g.store.(*netcdfStore)
	if !ok {
		return cache.CacheStats{}, false
	}
	return store.rows.Stats(), true
}

// WriteNetCDF writes a grid in the GEBCO one-dimensional layout
func WriteNetCDF(path string, header Header, elevations []int16) error {
	if len(elevations) != header.Rows()*header.Cols() {
		return fmt.Errorf("elevation count %d does not match %d rows x %d cols",
			len(elevations), header.Rows(), header.Cols())
	}

	h := cdf.NewHeader([]string{dimSide, dimXYSize}, []int{2, len(elevations)})
	for _, name := range []string{varXRange, varYRange, varZRange, varSpacing} {
		h.AddVariable(name, []string{dimSide}, []float64{0})
	}
	h.AddVariable(varDimension, []string{dimSide}, []int32{0})
	h.AddVariable(varZ, []string{dimXYSize}, []int16{0})
	h.AddAttribute(varZ, "units", "meters")
	h.AddAttribute("", "title", "GEBCO one-dimensional grid")
	h.Define()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create raster: %w", err)
	}
	defer f.Close()

	file, err := cdf.Create(f, h)
	if err != nil {
		return fmt.Errorf("failed to write raster header: %w", err)
	}

	writes := []struct {
		name   string
		values interface{}
	}{
		{varXRange, header.XRange[:]},
		{varYRange, header.YRange[:]},
		{varZRange, header.ZRange[:]},
		{varSpacing, header.Spacing[:]},
		{varDimension, []int32{int32(header.Dimension[0]), int32(header.Dimension[1])}},
		{varZ, elevations},
	}
	for _, w := range writes {
		if _, err := file.Writer(w.name, nil, nil).Write(w.values); err != nil {
			return fmt.Errorf("failed to write %q: %w", w.name, err)
		}
	}
	return f.Sync()
}
