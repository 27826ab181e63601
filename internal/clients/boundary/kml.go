package boundary

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dpup/surveyplan/internal/lib/geodetic"
	"github.com/dpup/surveyplan/internal/lib/survey"
)

// kmlRing holds the coordinates text of one LinearRing
type kmlRing struct {
	Coordinates string `xml:"LinearRing>coordinates"`
}

// kmlPolygon is the part of a KML Polygon needed for a survey boundary
type kmlPolygon struct {
	Outer kmlRing   `xml:"outerBoundaryIs"`
	Inner []kmlRing `xml:"innerBoundaryIs"`
}

// LoadKML reads the first Polygon in a KML document. KML coordinates are always geographic.
func LoadKML(path string) (survey.Polygon, error) {
	f, err := os.Open(path)
	if err != nil {
		return survey.Polygon{}, fmt.Errorf("failed to read boundary: %w", err)
	}
	defer f.Close()

	polygon, err := DecodeKML(f)
	if err != nil {
		return survey.Polygon{}, fmt.Errorf("%s: %w", path, err)
	}
	return polygon, nil
}

// DecodeKML walks the document, including folders and multi-geometries, until it finds a
// Polygon element
func DecodeKML(r io.Reader) (survey.Polygon, error) {
	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return survey.Polygon{}, ErrNoPolygon
		}
		if err != nil {
			return survey.Polygon{}, fmt.Errorf("failed to parse KML: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Polygon" {
			continue
		}

		var p kmlPolygon
		if err := d.DecodeElement(&p, &start); err != nil {
			return survey.Polygon{}, fmt.Errorf("failed to parse KML polygon: %w", err)
		}
		return p.toPolygon()
	}
}

func (p kmlPolygon) toPolygon() (survey.Polygon, error) {
	outer, err := parseKMLCoordinates(p.Outer.Coordinates)
	if err != nil {
		return survey.Polygon{}, fmt.Errorf("outer boundary: %w", err)
	}
	if len(outer) == 0 {
		return survey.Polygon{}, fmt.Errorf("%w: outer boundary is empty", ErrNoPolygon)
	}

	polygon := survey.Polygon{Outer: outer, System: geodetic.Geographic}
	for i, ring := range p.Inner {
		hole, err := parseKMLCoordinates(ring.Coordinates)
		if err != nil {
			return survey.Polygon{}, fmt.Errorf("inner boundary %d: %w", i, err)
		}
		polygon.Holes = append(polygon.Holes, hole)
	}
	return polygon, nil
}

// parseKMLCoordinates reads whitespace separated lon,lat[,alt] tuples
func parseKMLCoordinates(text string) ([]geodetic.Coordinate, error) {
	fields := strings.Fields(text)
	coords := make([]geodetic.Coordinate, 0, len(fields))
	for i, tuple := range fields {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			return nil, fmt.Errorf("%w: tuple %d %q", geodetic.ErrInvalidCoordinate, i, tuple)
		}
		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: tuple %d: %v", geodetic.ErrInvalidCoordinate, i, err)
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: tuple %d: %v", geodetic.ErrInvalidCoordinate, i, err)
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return nil, fmt.Errorf("%w: tuple %d (%v, %v)", geodetic.ErrInvalidCoordinate, i, lon, lat)
		}
		coords = append(coords, geodetic.NewGeographic(lon, lat))
	}
	return coords, nil
}
