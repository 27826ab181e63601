package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/surveyplan/internal/lib/geodetic"
	"github.com/dpup/surveyplan/internal/lib/survey"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "surveyplan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1000.0, cfg.Plan.Spacing)
	assert.Equal(t, survey.AutoHeading, cfg.Plan.Heading)
	assert.Equal(t, "MainLine", cfg.Plan.Prefix)
	assert.Equal(t, 15.0, cfg.Plan.CrossLineMultiplier)
	assert.True(t, cfg.Plan.Clip, "lines are clipped unless disabled")
	assert.Equal(t, 4.0, cfg.Depth.CoverageMultiplier)
	assert.Equal(t, 10, cfg.Depth.Decimation)

	params := cfg.Vessel.Params()
	assert.Equal(t, 3.5, params.SpeedKnots)
	assert.InDelta(t, 1.0/6, params.TurnDurationHours, 1e-12)

	system, err := cfg.Plan.System()
	require.NoError(t, err)
	assert.Equal(t, geodetic.Geographic, system)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
plan:
  spacing: 250
  prefix: Block7
  coordinate_system: planar
vessel:
  turn_duration: 15m
depth:
  gebco_path: /data/GEBCO_2014_1D.nc
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 250.0, cfg.Plan.Spacing)
	assert.Equal(t, "Block7", cfg.Plan.Prefix)
	assert.Equal(t, "planar", cfg.Plan.CoordinateSystem)
	assert.Equal(t, 15*time.Minute, cfg.Vessel.TurnDuration)
	assert.Equal(t, "/data/GEBCO_2014_1D.nc", cfg.Depth.GEBCOPath)

	// Untouched keys keep their defaults
	assert.Equal(t, 3.5, cfg.Vessel.SpeedKnots)
	assert.Equal(t, 15.0, cfg.Plan.CrossLineMultiplier)
	assert.Equal(t, 10, cfg.Depth.Decimation)
}

func TestLoad_Layering(t *testing.T) {
	path := writeConfig(t, `
plan:
  spacing: 250
  heading: 10
vessel:
  speed_knots: 4
`)
	t.Setenv("SURVEYPLAN_PLAN__SPACING", "500")
	t.Setenv("SURVEYPLAN_PLAN__CROSS_LINE_MULTIPLIER", "0")
	t.Setenv("SURVEYPLAN_OUTPUT__OVERWRITE", "true")

	cfg, err := Load(path, map[string]interface{}{
		"plan.heading": 45.0,
	})
	require.NoError(t, err)

	assert.Equal(t, 500.0, cfg.Plan.Spacing, "environment beats file")
	assert.Equal(t, 45.0, cfg.Plan.Heading, "overrides beat file")
	assert.Equal(t, 0.0, cfg.Plan.CrossLineMultiplier)
	assert.True(t, cfg.Output.Overwrite)
	assert.Equal(t, 4.0, cfg.Vessel.SpeedKnots)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	path := writeConfig(t, "plan: [not, a, map")
	_, err = Load(path, nil)
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "plan.cross_line_multiplier", envKey("SURVEYPLAN_PLAN__CROSS_LINE_MULTIPLIER"))
	assert.Equal(t, "depth.gebco_path", envKey("SURVEYPLAN_DEPTH__GEBCO_PATH"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero spacing", func(c *Config) { c.Plan.Spacing = 0 }, "plan.spacing"},
		{"heading out of range", func(c *Config) { c.Plan.Heading = 360 }, "plan.heading"},
		{"empty prefix", func(c *Config) { c.Plan.Prefix = "" }, "plan.prefix"},
		{"negative cross multiplier", func(c *Config) { c.Plan.CrossLineMultiplier = -1 }, "plan.cross_line_multiplier"},
		{"unknown system", func(c *Config) { c.Plan.CoordinateSystem = "polar" }, "plan.coordinate_system"},
		{"no segments", func(c *Config) { c.Plan.MaxSegments = 0 }, "plan.max_segments"},
		{"stopped vessel", func(c *Config) { c.Vessel.SpeedKnots = 0 }, "vessel"},
		{"zero coverage", func(c *Config) { c.Depth.CoverageMultiplier = 0 }, "depth.coverage_multiplier"},
		{"zero decimation", func(c *Config) { c.Depth.Decimation = 0 }, "depth.decimation"},
		{"zero cached rows", func(c *Config) { c.Depth.CachedRows = 0 }, "depth.cached_rows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_AutoSpacingWithoutRaster(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Plan.Spacing = survey.AutoSpacing
	assert.NoError(t, cfg.Validate(), "planning falls back to the default spacing")
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Plan.Prefix = ""
	cfg.Vessel.SpeedKnots = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan.prefix")
	assert.True(t, errors.Is(err, survey.ErrInvalidInput), "vessel errors keep their sentinel")
}
