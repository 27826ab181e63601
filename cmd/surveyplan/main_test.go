package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/surveyplan/internal/lib/gebco"
)

func run(t *testing.T, args ...string) (map[string]interface{}, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		return nil, err
	}
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded), out.String())
	return decoded, nil
}

func writeSquare(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "area.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[-1000,-1000],[1000,-1000],[1000,1000],[-1000,1000],[-1000,-1000]]]}}`), 0o644))
	return path
}

func TestInverseCommand(t *testing.T) {
	// Flinders Peak to Buninyong
	out, err := run(t, "inverse", "--", "-37.95103342", "144.42486789", "-37.65282114", "143.92649554")
	require.NoError(t, err)
	assert.InDelta(t, 54972.271, out["distance_m"], 1e-3)
	assert.InDelta(t, 306.86816, out["forward_azimuth"], 1e-4)

	out, err = run(t, "inverse", "--estimate", "--", "-37.95103342", "144.42486789", "-37.65282114", "143.92649554")
	require.NoError(t, err)
	assert.InDelta(t, 54972.271, out["distance_m"], 550)

	out, err = run(t, "inverse", "--planar", "0", "0", "30", "40")
	require.NoError(t, err)
	assert.InDelta(t, 50.0, out["distance"], 1e-9)
}

func TestDirectCommand(t *testing.T) {
	out, err := run(t, "direct", "--", "-37.95103342", "144.42486789", "306.86816", "54972.271")
	require.NoError(t, err)
	assert.InDelta(t, -37.65282114, out["lat"], 1e-6)
	assert.InDelta(t, 143.92649554, out["lon"], 1e-6)

	// Planar bearings run toward 270 - bearing
	out, err = run(t, "direct", "--planar", "0", "0", "90", "100")
	require.NoError(t, err)
	assert.InDelta(t, -100.0, out["x"], 1e-9)
	assert.InDelta(t, 0.0, out["y"], 1e-9)
}

func TestPlanCommand(t *testing.T) {
	boundary := writeSquare(t)
	report := filepath.Join(t.TempDir(), "report.json")

	out, err := run(t, "plan", boundary,
		"--system", "planar", "--spacing", "300", "--heading", "0", "--cross", "0",
		"--prefix", "Alpha", "--turn", "6m", "--report", report)
	require.NoError(t, err)

	assert.Equal(t, "Alpha", out["prefix"])
	assert.Equal(t, "explicit", out["heading_source"])
	assert.Equal(t, 300.0, out["spacing"])
	assert.Equal(t, report, out["report_path"])
	assert.Nil(t, out["segments"])

	// Lines are clipped by default, so the two outermost offsets miss the square
	assert.Equal(t, 7.0, out["lines"])

	raw, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"turn_duration_h": 0.1`)

	out, err = run(t, "plan", boundary,
		"--system", "planar", "--spacing", "300", "--heading", "0", "--cross", "0", "--clip=false")
	require.NoError(t, err)
	assert.Equal(t, 9.0, out["lines"])
}

func TestPlanCommand_ConfigFile(t *testing.T) {
	boundary := writeSquare(t)
	cfg := filepath.Join(t.TempDir(), "surveyplan.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
plan:
  spacing: 600
  heading: 0
  cross_line_multiplier: 0
  coordinate_system: planar
  clip: true
`), 0o644))

	out, err := run(t, "plan", boundary, "--config", cfg, "--segments")
	require.NoError(t, err)
	assert.Equal(t, 600.0, out["spacing"])
	assert.Equal(t, "MainLine", out["prefix"])

	// Offsets 600 stay inside the square, 1200 is clipped away
	assert.Equal(t, 3.0, out["lines"])
	segments, ok := out["segments"].([]interface{})
	require.True(t, ok)
	assert.Len(t, segments, 3)
}

func TestPlanCommand_Errors(t *testing.T) {
	boundary := writeSquare(t)

	_, err := run(t, "plan", boundary, "--system", "planar", "--spacing", "0")
	assert.Error(t, err)

	_, err = run(t, "plan", filepath.Join(t.TempDir(), "missing.geojson"), "--system", "planar")
	assert.Error(t, err)

	_, err = run(t, "plan")
	assert.Error(t, err)
}

func TestHeadingCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strip.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"Polygon","coordinates":[[[0,0],[2000,0],[2000,500],[0,500]]]}`), 0o644))

	out, err := run(t, "heading", "--system", "planar", path)
	require.NoError(t, err)
	assert.Equal(t, 90.0, out["degrees"])
	assert.Equal(t, 0.0, out["edge_index"])
	assert.Equal(t, false, out["fallback"])
}

func TestDepthCommand(t *testing.T) {
	header := gebco.GlobalHeader(30)
	elevations := make([]int16, header.Rows()*header.Cols())
	for i := range elevations {
		elevations[i] = int16(-i)
	}
	path := filepath.Join(t.TempDir(), "gebco.nc")
	require.NoError(t, gebco.WriteNetCDF(path, header, elevations))

	out, err := run(t, "depth", path, "--", "-30", "-90")
	require.NoError(t, err)

	// Row (90+30)/30=4, col (180-90)/30=3
	assert.Equal(t, 51.0, out["index"])
	assert.Equal(t, -51.0, out["elevation_m"])

	_, err = run(t, "depth", path, "north", "0")
	assert.Error(t, err)
}
