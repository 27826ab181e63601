package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/surveyplan/internal/lib/geodetic"
)

// 3.5 nautical miles, one hour at 3.5 knots
const hourAtThreePointFive = 3.5 * 1852

func reportSegment(name, prefix string, spacing float64) LineSegment {
	return LineSegment{
		Name:         name,
		Prefix:       prefix,
		Start:        geodetic.NewPlanar(0, 0),
		End:          geodetic.NewPlanar(0, hourAtThreePointFive),
		Heading:      0,
		SpacingUsed:  spacing,
		LengthMetres: hourAtThreePointFive,
	}
}

func TestBuildReport(t *testing.T) {
	segments := []LineSegment{
		reportSegment("A_Centreline", "A", 100),
		reportSegment("A_X_Centreline", "A_X", 300),
		reportSegment("B_Centreline", "B", 100),
	}
	vessel := VesselParams{SpeedKnots: 3.5, TurnDurationHours: 0.5}

	report, err := BuildReport(segments, vessel, "A")
	require.NoError(t, err)
	require.Len(t, report.Rows, 3)

	row := report.Rows[0]
	assert.Equal(t, "A_Centreline", row.LineName)
	assert.Equal(t, 100.0, row.LineSpacing)
	assert.InDelta(t, 3.5*1852/3600, row.SpeedMetresPerSec, 1e-12)
	assert.InDelta(t, 1.0, row.DurationHours, 1e-12)
	assert.Equal(t, 0.5, row.TurnDurationHours)
	assert.InDelta(t, 1.5, row.TotalDurationHours, 1e-12)
	assert.Equal(t, hourAtThreePointFive, row.EndY)

	assert.Equal(t, 2, report.Current.LineCount, "prefix match is a substring match")
	assert.InDelta(t, 3.0, report.Current.DurationHours, 1e-9)
	assert.Equal(t, 3, report.Entire.LineCount)
	assert.InDelta(t, 3*hourAtThreePointFive/1000, report.Entire.LengthKm, 1e-9)
	assert.InDelta(t, 4.5, report.Entire.DurationHours, 1e-9)
	assert.InDelta(t, 4.5/24, report.Entire.DurationDays, 1e-12)

	require.Len(t, report.BySpacing, 2)
	assert.Equal(t, 100.0, report.BySpacing[0].Spacing)
	assert.Equal(t, 2, report.BySpacing[0].LineCount)
	assert.Equal(t, 300.0, report.BySpacing[1].Spacing)
	assert.Equal(t, 1, report.BySpacing[1].LineCount)
}

func TestBuildReport_Empty(t *testing.T) {
	report, err := BuildReport(nil, VesselParams{SpeedKnots: 5}, "Main")
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
	assert.Equal(t, Totals{}, report.Entire)
}

func TestVesselParams_Validate(t *testing.T) {
	assert.NoError(t, VesselParams{SpeedKnots: 3.5, TurnDurationHours: 0}.Validate())

	err := VesselParams{SpeedKnots: 0, TurnDurationHours: -1}.Validate()
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorContains(t, err, "speed")
	assert.ErrorContains(t, err, "turn_duration")

	_, err = BuildReport([]LineSegment{reportSegment("x", "x", 1)}, VesselParams{SpeedKnots: -3}, "x")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
