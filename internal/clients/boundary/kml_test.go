package boundary

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-kml"

	"github.com/dpup/surveyplan/internal/lib/geodetic"
)

func TestDecodeKML(t *testing.T) {
	doc := kml.KML(
		kml.Document(
			kml.Name("Survey areas"),
			kml.Folder(
				kml.Placemark(kml.Name("marker"), kml.Point(kml.Coordinates(kml.Coordinate{Lon: 1, Lat: 2}))),
				kml.Placemark(
					kml.Name("Block 7"),
					kml.MultiGeometry(
						kml.Polygon(
							kml.OuterBoundaryIs(kml.LinearRing(kml.Coordinates(
								kml.Coordinate{Lon: 144.0, Lat: -38.0},
								kml.Coordinate{Lon: 144.1, Lat: -38.0},
								kml.Coordinate{Lon: 144.1, Lat: -37.9, Alt: 12},
								kml.Coordinate{Lon: 144.0, Lat: -37.9},
								kml.Coordinate{Lon: 144.0, Lat: -38.0},
							))),
							kml.InnerBoundaryIs(kml.LinearRing(kml.Coordinates(
								kml.Coordinate{Lon: 144.04, Lat: -37.96},
								kml.Coordinate{Lon: 144.06, Lat: -37.96},
								kml.Coordinate{Lon: 144.06, Lat: -37.94},
							))),
						),
					),
				),
			),
		),
	)
	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))

	p, err := DecodeKML(&buf)
	require.NoError(t, err)
	assert.Equal(t, geodetic.Geographic, p.System)
	require.Len(t, p.Outer, 5)
	assert.Equal(t, geodetic.NewGeographic(144.1, -37.9), p.Outer[2])
	require.Len(t, p.Holes, 1)
	assert.Len(t, p.Holes[0], 3)
}

func TestDecodeKML_Errors(t *testing.T) {
	_, err := DecodeKML(strings.NewReader(`<kml><Document><Placemark><Point><coordinates>1,2</coordinates></Point></Placemark></Document></kml>`))
	assert.ErrorIs(t, err, ErrNoPolygon)

	_, err = DecodeKML(strings.NewReader(`<kml><Polygon><outerBoundaryIs><LinearRing><coordinates>144,-38 north,-37</coordinates></LinearRing></outerBoundaryIs></Polygon></kml>`))
	assert.ErrorIs(t, err, geodetic.ErrInvalidCoordinate)

	_, err = DecodeKML(strings.NewReader(`<kml><Polygon><outerBoundaryIs><LinearRing><coordinates>144</coordinates></LinearRing></outerBoundaryIs></Polygon></kml>`))
	assert.ErrorIs(t, err, geodetic.ErrInvalidCoordinate)

	_, err = DecodeKML(strings.NewReader(`<kml><Polygon></Polygon></kml>`))
	assert.ErrorIs(t, err, ErrNoPolygon)

	_, err = DecodeKML(strings.NewReader(`<kml><Polygon>`))
	assert.Error(t, err)
}

func TestLoad_KML(t *testing.T) {
	path := writeFile(t, "area.kml", `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Placemark>
    <Polygon>
      <outerBoundaryIs><LinearRing><coordinates>
        144.0,-38.0,0 144.1,-38.0,0 144.1,-37.9,0 144.0,-37.9,0
      </coordinates></LinearRing></outerBoundaryIs>
    </Polygon>
  </Placemark>
</kml>`)

	p, err := Load(path, geodetic.Planar)
	require.NoError(t, err)
	assert.Equal(t, geodetic.Geographic, p.System, "KML is always geographic")
	assert.Len(t, p.Outer, 4)
}
