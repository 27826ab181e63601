package survey

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/surveyplan/internal/lib/geodetic"
)

func TestMemorySink(t *testing.T) {
	sink := NewMemorySink()
	ctx := context.Background()

	require.NoError(t, sink.WriteSegments(ctx, []LineSegment{{Name: "A_Centreline", Prefix: "A"}, {Name: "A_X_Centreline", Prefix: "A_X"}}))
	require.NoError(t, sink.WriteSegments(ctx, []LineSegment{{Name: "B_Centreline", Prefix: "B"}}))

	segments := sink.Segments()
	require.Len(t, segments, 3)
	segments[0].Name = "changed"
	assert.Equal(t, "A_Centreline", sink.Segments()[0].Name, "Segments returns a copy")

	assert.Equal(t, 2, sink.DeletePrefix("A"))
	remaining := sink.Segments()
	require.Len(t, remaining, 1)
	assert.Equal(t, "B", remaining[0].Prefix)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, sink.WriteSegments(cancelled, nil), context.Canceled)
}

func TestStaticDepths(t *testing.T) {
	depths := StaticDepths{
		{Coordinate: geodetic.NewGeographic(144.5, -38.5), ElevationMetres: -40},
		{Coordinate: geodetic.NewGeographic(150, -38.5), ElevationMetres: -90},
		{Coordinate: geodetic.NewPlanar(144.5, -38.5), ElevationMetres: -10},
	}
	extent := BoundingExtent{MinX: 144, MinY: -39, MaxX: 145, MaxY: -38, System: geodetic.Geographic}

	samples, err := depths.Samples(context.Background(), extent)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, -40.0, samples[0].ElevationMetres)
}
