package gebco

// Header describes a regular global raster in the GEBCO one-dimensional layout
type Header struct {
	XRange    [2]float64 `json:"x_range"`
	YRange    [2]float64 `json:"y_range"`
	ZRange    [2]float64 `json:"z_range"`
	Spacing   [2]float64 `json:"spacing"`   // lon, lat
	Dimension [2]int     `json:"dimension"` // cols, rows
}

// Cols returns the number of cells per row
func (h Header) Cols() int { return h.Dimension[0] }

// Rows returns the number of rows
func (h Header) Rows() int { return h.Dimension[1] }

// GlobalHeader returns the header of a whole-earth grid at the given spacing in degrees
func GlobalHeader(spacingDeg float64) Header {
	cols := int(360/spacingDeg + 0.5)
	rows := int(180/spacingDeg + 0.5)
	return Header{
		XRange:    [2]float64{-180, 180},
		YRange:    [2]float64{-90, 90},
		Spacing:   [2]float64{spacingDeg, spacingDeg},
		Dimension: [2]int{cols, rows},
	}
}

// ThirtyArcSecond is the native GEBCO 2014 cell size in degrees
const ThirtyArcSecond = 30.0 / 3600.0

// BoundingBox is a lon/lat rectangle in degrees
type BoundingBox struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// ElevationStore holds the flat row-major elevation array of a grid
type ElevationStore interface {
	// Elevation stored at a flat index
	At(index int) (int16, error)

	// Number of stored values
	Len() int
}

// ElevationRow is one latitude of a bounding box extraction
type ElevationRow struct {
	Index      int     `json:"index"`
	Latitude   float64 `json:"lat"`
	Elevations []int16 `json:"elevations"`
}
