package survey

import (
	"errors"
	"math"
	"sort"
	"strings"
)

const (
	metresPerNauticalMile = 1852.0
	secondsPerHour        = 3600.0
)

// VesselParams describes the survey vessel
type VesselParams struct {
	SpeedKnots        float64 `json:"speed_kts" yaml:"speed_kts"`
	TurnDurationHours float64 `json:"turn_duration_h" yaml:"turn_duration_h"`
}

// Validate rejects non-positive speeds and negative turn durations
func (v VesselParams) Validate() error {
	var errs []error
	if !(v.SpeedKnots > 0) || math.IsInf(v.SpeedKnots, 0) {
		errs = append(errs, invalid("speed", v.SpeedKnots, "must be greater than 0 knots"))
	}
	if !(v.TurnDurationHours >= 0) || math.IsInf(v.TurnDurationHours, 0) {
		errs = append(errs, invalid("turn_duration", v.TurnDurationHours, "must be 0 or more hours"))
	}
	return errors.Join(errs...)
}

// SpeedMetresPerSecond converts the vessel speed from knots
func (v VesselParams) SpeedMetresPerSecond() float64 {
	return v.SpeedKnots * metresPerNauticalMile / secondsPerHour
}

// SailingHours is the time taken to run a line of the given length
func (v VesselParams) SailingHours(lengthMetres float64) float64 {
	return lengthMetres / v.SpeedMetresPerSecond() / secondsPerHour
}

// ReportRow is one line of a survey report
type ReportRow struct {
	LineName           string  `json:"line_name"`
	LineSpacing        float64 `json:"line_spacing"`
	StartX             float64 `json:"start_x"`
	StartY             float64 `json:"start_y"`
	EndX               float64 `json:"end_x"`
	EndY               float64 `json:"end_y"`
	LengthMetres       float64 `json:"length_m"`
	Heading            float64 `json:"heading"`
	SpeedKnots         float64 `json:"speed_kts"`
	SpeedMetresPerSec  float64 `json:"speed_ms"`
	DurationHours      float64 `json:"duration_h"`
	TurnDurationHours  float64 `json:"turn_duration_h"`
	TotalDurationHours float64 `json:"total_duration_h"`
}

// Totals summarises a set of report rows
type Totals struct {
	LineCount     int     `json:"line_count"`
	LengthKm      float64 `json:"length_km"`
	DurationHours float64 `json:"duration_h"`
	DurationDays  float64 `json:"duration_days"`
}

func (t *Totals) add(row ReportRow) {
	t.LineCount++
	t.LengthKm += row.LengthMetres / 1000
	t.DurationHours += row.TotalDurationHours
	t.DurationDays = t.DurationHours / 24
}

// SpacingGroup totals the lines run at one spacing
type SpacingGroup struct {
	Spacing float64 `json:"spacing"`
	Totals
}

// Report is a per-line duration estimate with summaries. Current covers lines whose prefix
// contains the requested prefix, Entire covers every line.
type Report struct {
	Prefix    string         `json:"prefix"`
	Vessel    VesselParams   `json:"vessel"`
	Rows      []ReportRow    `json:"rows"`
	Current   Totals         `json:"current"`
	Entire    Totals         `json:"entire"`
	BySpacing []SpacingGroup `json:"by_spacing"`
}

// BuildReport estimates the time to run each segment. Each row's total duration includes
// one turn.
func BuildReport(segments []LineSegment, vessel VesselParams, currentPrefix string) (*Report, error) {
	if err := vessel.Validate(); err != nil {
		return nil, err
	}

	report := &Report{
		Prefix: currentPrefix,
		Vessel: vessel,
		Rows:   make([]ReportRow, 0, len(segments)),
	}
	groups := make(map[float64]*SpacingGroup)

	for _, s := range segments {
		sailing := vessel.SailingHours(s.LengthMetres)
		row := ReportRow{
			LineName:           s.Name,
			LineSpacing:        s.SpacingUsed,
			StartX:             s.Start.X,
			StartY:             s.Start.Y,
			EndX:               s.End.X,
			EndY:               s.End.Y,
			LengthMetres:       s.LengthMetres,
			Heading:            s.Heading,
			SpeedKnots:         vessel.SpeedKnots,
			SpeedMetresPerSec:  vessel.SpeedMetresPerSecond(),
			DurationHours:      sailing,
			TurnDurationHours:  vessel.TurnDurationHours,
			TotalDurationHours: sailing + vessel.TurnDurationHours,
		}
		report.Rows = append(report.Rows, row)

		report.Entire.add(row)
		if strings.Contains(s.Prefix, currentPrefix) {
			report.Current.add(row)
		}

		group, ok := groups[s.SpacingUsed]
		if !ok {
			group = &SpacingGroup{Spacing: s.SpacingUsed}
			groups[s.SpacingUsed] = group
		}
		group.add(row)
	}

	for _, g := range groups {
		report.BySpacing = append(report.BySpacing, *g)
	}
	sort.Slice(report.BySpacing, func(i, j int) bool {
		return report.BySpacing[i].Spacing < report.BySpacing[j].Spacing
	})

	return report, nil
}
