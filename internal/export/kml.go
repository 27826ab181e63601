package export

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"sync"

	"github.com/dpup/prefab/logging"
	"github.com/twpayne/go-kml"

	"github.com/dpup/surveyplan/internal/lib/geodetic"
	"github.com/dpup/surveyplan/internal/lib/survey"
)

// ErrNotGeographic is returned when planar segments are written to a KML sink
var ErrNotGeographic = errors.New("KML export needs geographic coordinates")

var (
	mainLineColor  = color.RGBA{R: 0, G: 90, B: 255, A: 255}
	crossLineColor = color.RGBA{R: 255, G: 60, B: 0, A: 255}
)

// KMLSink buffers segments and writes them as one KML document on Flush.
// Segments are grouped into a folder per line prefix.
type KMLSink struct {
	w        io.Writer
	name     string
	mutex    sync.Mutex
	segments []survey.LineSegment
}

// NewKMLSink creates a sink writing a document called name to w
func NewKMLSink(w io.Writer, name string) *KMLSink {
	return &KMLSink{w: w, name: name}
}

// WriteSegments buffers geographic segments
func (s *KMLSink) WriteSegments(ctx context.Context, segments []survey.LineSegment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, segment := range segments {
		if segment.Start.System != geodetic.Geographic || segment.End.System != geodetic.Geographic {
			return fmt.Errorf("%w: %s is %s", ErrNotGeographic, segment.Name, segment.Start.System)
		}
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.segments = append(s.segments, segments...)
	return nil
}

// Flush writes every buffered segment
func (s *KMLSink) Flush(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	mainStyle := kml.SharedStyle("main-line", kml.LineStyle(kml.Color(mainLineColor), kml.Width(2)))
	crossStyle := kml.SharedStyle("cross-line", kml.LineStyle(kml.Color(crossLineColor), kml.Width(2)))

	folders := make(map[string]*kml.CompoundElement)
	var order []string
	for _, segment := range s.segments {
		folder, ok := folders[segment.Prefix]
		if !ok {
			folder = kml.Folder(kml.Name(segment.Prefix))
			folders[segment.Prefix] = folder
			order = append(order, segment.Prefix)
		}

		style := mainStyle
		if segment.IsCrossLine {
			style = crossStyle
		}
		folder.Add(kml.Placemark(
			kml.Name(segment.Name),
			kml.Description(fmt.Sprintf("Spacing %.1f m, heading %.1f, length %.0f m",
				segment.SpacingUsed, segment.Heading, segment.LengthMetres)),
			kml.StyleURL(style.URL()),
			kml.LineString(
				kml.Tessellate(true),
				kml.Coordinates(
					kml.Coordinate{Lon: segment.Start.Longitude(), Lat: segment.Start.Latitude()},
					kml.Coordinate{Lon: segment.End.Longitude(), Lat: segment.End.Latitude()},
				),
			),
		))
	}

	doc := kml.Document(kml.Name(s.name), mainStyle, crossStyle)
	for _, prefix := range order {
		doc.Add(folders[prefix])
	}

	if err := kml.KML(doc).WriteIndent(s.w, "", "  "); err != nil {
		return fmt.Errorf("failed to write KML: %w", err)
	}
	logging.Infow(ctx, "Wrote KML line plan", "document", s.name, "lines", len(s.segments), "folders", len(order))
	return nil
}
