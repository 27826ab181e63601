package boundary

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/twpayne/go-polyline"

	"github.com/dpup/surveyplan/internal/lib/geodetic"
	"github.com/dpup/surveyplan/internal/lib/survey"
)

var (
	// ErrUnsupportedFormat is returned for unknown boundary file extensions
	ErrUnsupportedFormat = errors.New("unsupported boundary format")

	// ErrNoPolygon is returned when a boundary file holds no polygon
	ErrNoPolygon = errors.New("no polygon found")
)

// Load reads a survey polygon, choosing the decoder by file extension.
// Encoded polylines and KML are always geographic; other formats take the given system.
func Load(path string, system geodetic.CoordSystem) (survey.Polygon, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return LoadGeoJSON(path, system)
	case ".shp":
		return LoadShapefile(path, system)
	case ".txt", ".polyline":
		return LoadPolyline(path)
	case ".kml":
		return LoadKML(path)
	default:
		return survey.Polygon{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// featureDocument covers the Feature and FeatureCollection wrappers around a geometry
type featureDocument struct {
	Type     string            `json:"type"`
	Geometry *geojson.Geometry `json:"geometry"`
	Features []featureDocument `json:"features"`
}

// LoadGeoJSON reads a GeoJSON Polygon geometry, Feature or FeatureCollection
func LoadGeoJSON(path string, system geodetic.CoordSystem) (survey.Polygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return survey.Polygon{}, fmt.Errorf("failed to read boundary: %w", err)
	}
	return DecodeGeoJSON(data, system)
}

// DecodeGeoJSON decodes the first polygon in a GeoJSON document
func DecodeGeoJSON(data []byte, system geodetic.CoordSystem) (survey.Polygon, error) {
	var doc featureDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return survey.Polygon{}, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}

	switch doc.Type {
	case "FeatureCollection":
		for _, feature := range doc.Features {
			if feature.Geometry != nil && feature.Geometry.Type == "Polygon" {
				return fromGeoJSON(feature.Geometry, system)
			}
		}
		return survey.Polygon{}, fmt.Errorf("%w in %d features", ErrNoPolygon, len(doc.Features))
	case "Feature":
		if doc.Geometry == nil {
			return survey.Polygon{}, fmt.Errorf("%w: feature has no geometry", ErrNoPolygon)
		}
		return fromGeoJSON(doc.Geometry, system)
	default:
		g, err := geojson.Decode(data)
		if err != nil {
			return survey.Polygon{}, fmt.Errorf("failed to decode GeoJSON geometry: %w", err)
		}
		return fromGeom(g, system)
	}
}

func fromGeoJSON(g *geojson.Geometry, system geodetic.CoordSystem) (survey.Polygon, error) {
	decoded, err := geojson.FromGeoJSON(g)
	if err != nil {
		return survey.Polygon{}, fmt.Errorf("failed to decode GeoJSON geometry: %w", err)
	}
	return fromGeom(decoded, system)
}

// shapeRecord receives one shapefile row
type shapeRecord struct {
	Geometry geom.Geom
}

// LoadShapefile reads the first polygon record of a shapefile
func LoadShapefile(path string, system geodetic.CoordSystem) (survey.Polygon, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return survey.Polygon{}, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer d.Close()

	var rec shapeRecord
	for d.DecodeRow(&rec) {
		if _, ok := rec.Geometry.(geom.Polygonal); ok {
			return fromGeom(rec.Geometry, system)
		}
	}
	if err := d.Error(); err != nil {
		return survey.Polygon{}, fmt.Errorf("failed to read shapefile: %w", err)
	}
	return survey.Polygon{}, fmt.Errorf("%w in %s", ErrNoPolygon, path)
}

// LoadPolyline reads a file holding one encoded polyline
func LoadPolyline(path string) (survey.Polygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return survey.Polygon{}, fmt.Errorf("failed to read boundary: %w", err)
	}
	return DecodePolyline(strings.TrimSpace(string(data)))
}

// DecodePolyline decodes a Google encoded polyline into a geographic polygon
func DecodePolyline(encoded string) (survey.Polygon, error) {
	if encoded == "" {
		return survey.Polygon{}, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return survey.Polygon{}, fmt.Errorf("failed to decode polyline: %w", err)
	}

	outer := make([]geodetic.Coordinate, len(coords))
	for i, c := range coords {
		lat, lon := c[0], c[1]
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return survey.Polygon{}, fmt.Errorf("%w: polyline vertex %d (%v, %v)", geodetic.ErrInvalidCoordinate, i, lat, lon)
		}
		outer[i] = geodetic.NewGeographic(lon, lat)
	}
	return survey.Polygon{Outer: outer, System: geodetic.Geographic}, nil
}

// fromGeom converts the first polygon of a geometry. The first ring is the outer ring.
func fromGeom(g geom.Geom, system geodetic.CoordSystem) (survey.Polygon, error) {
	var rings geom.Polygon
	switch v := g.(type) {
	case geom.Polygon:
		rings = v
	case geom.MultiPolygon:
		if len(v) > 0 {
			rings = v[0]
		}
	default:
		return survey.Polygon{}, fmt.Errorf("%w: got %T", ErrNoPolygon, g)
	}
	if len(rings) == 0 || len(rings[0]) == 0 {
		return survey.Polygon{}, fmt.Errorf("%w: polygon has no rings", ErrNoPolygon)
	}

	polygon := survey.Polygon{Outer: toCoordinates(rings[0], system), System: system}
	for _, hole := range rings[1:] {
		polygon.Holes = append(polygon.Holes, toCoordinates(hole, system))
	}
	return polygon, nil
}

func toCoordinates(points []geom.Point, system geodetic.CoordSystem) []geodetic.Coordinate {
	coords := make([]geodetic.Coordinate, len(points))
	for i, p := range points {
		coords[i] = geodetic.Coordinate{X: p.X, Y: p.Y, System: system}
	}
	return coords
}
