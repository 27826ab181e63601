package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dpup/surveyplan/internal/lib/gebco"
	"github.com/dpup/surveyplan/internal/lib/geodetic"
	"github.com/dpup/surveyplan/internal/lib/survey"
)

// EnvPrefix marks environment variables read by Load. Nested keys are separated by a
// double underscore, e.g. SURVEYPLAN_PLAN__SPACING=250.
const EnvPrefix = "SURVEYPLAN_"

// Config represents the complete planner configuration
type Config struct {
	Plan   PlanConfig   `yaml:"plan"`
	Vessel VesselConfig `yaml:"vessel"`
	Depth  DepthConfig  `yaml:"depth"`
	Output OutputConfig `yaml:"output"`
}

// PlanConfig holds line generation settings
type PlanConfig struct {
	Spacing             float64 `yaml:"spacing"`
	Heading             float64 `yaml:"heading"`
	Prefix              string  `yaml:"prefix"`
	CrossLineMultiplier float64 `yaml:"cross_line_multiplier"`
	CoordinateSystem    string  `yaml:"coordinate_system"`
	MaxSegments         int     `yaml:"max_segments"`
	Clip                bool    `yaml:"clip"`
}

// VesselConfig holds the survey vessel parameters used for reporting
type VesselConfig struct {
	SpeedKnots   float64       `yaml:"speed_knots"`
	TurnDuration time.Duration `yaml:"turn_duration"`
}

// DepthConfig holds GEBCO raster settings
type DepthConfig struct {
	GEBCOPath          string  `yaml:"gebco_path"`
	CoverageMultiplier float64 `yaml:"coverage_multiplier"`
	Decimation         int     `yaml:"decimation"`
	CachedRows         int     `yaml:"cached_rows"`
}

// OutputConfig holds export destinations
type OutputConfig struct {
	KMLPath    string `yaml:"kml_path"`
	ReportPath string `yaml:"report_path"`
	Overwrite  bool   `yaml:"overwrite"`
}

// Params converts the vessel settings into report parameters
func (v VesselConfig) Params() survey.VesselParams {
	return survey.VesselParams{
		SpeedKnots:        v.SpeedKnots,
		TurnDurationHours: v.TurnDuration.Hours(),
	}
}

// System parses the configured coordinate system
func (p PlanConfig) System() (geodetic.CoordSystem, error) {
	return geodetic.ParseCoordSystem(strings.ToLower(p.CoordinateSystem))
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Plan: PlanConfig{
			Spacing:             1000,
			Heading:             survey.AutoHeading,
			Prefix:              "MainLine",
			CrossLineMultiplier: 15,
			CoordinateSystem:    "geographic",
			MaxSegments:         survey.DefaultMaxSegments,
			Clip:                true,
		},
		Vessel: VesselConfig{
			SpeedKnots:   3.5,
			TurnDuration: 10 * time.Minute,
		},
		Depth: DepthConfig{
			CoverageMultiplier: 4,
			Decimation:         10,
			CachedRows:         gebco.DefaultCachedRows,
		},
	}
}

// Load builds a configuration from the defaults, then the YAML file at path (skipped when
// empty), then SURVEYPLAN_ environment variables, then overrides keyed by dotted path.
func Load(path string, overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to apply overrides: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// envKey maps SURVEYPLAN_PLAN__CROSS_LINE_MULTIPLIER to plan.cross_line_multiplier
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// Validate reports every invalid setting
func (c *Config) Validate() error {
	var errs []error

	p := c.Plan
	if p.Spacing != survey.AutoSpacing && !(p.Spacing > 0) {
		errs = append(errs, fmt.Errorf("plan.spacing must be positive or -1, got %v", p.Spacing))
	}
	if p.Heading != survey.AutoHeading && (p.Heading < 0 || p.Heading >= 360) {
		errs = append(errs, fmt.Errorf("plan.heading must be in [0, 360) or -1, got %v", p.Heading))
	}
	if p.Prefix == "" {
		errs = append(errs, errors.New("plan.prefix is required"))
	}
	if p.CrossLineMultiplier < 0 {
		errs = append(errs, fmt.Errorf("plan.cross_line_multiplier must not be negative, got %v", p.CrossLineMultiplier))
	}
	if _, err := p.System(); err != nil {
		errs = append(errs, fmt.Errorf("plan.coordinate_system: %w", err))
	}
	if p.MaxSegments <= 0 {
		errs = append(errs, fmt.Errorf("plan.max_segments must be positive, got %d", p.MaxSegments))
	}

	if err := c.Vessel.Params().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("vessel: %w", err))
	}

	d := c.Depth
	if !(d.CoverageMultiplier > 0) {
		errs = append(errs, fmt.Errorf("depth.coverage_multiplier must be positive, got %v", d.CoverageMultiplier))
	}
	if d.Decimation < 1 {
		errs = append(errs, fmt.Errorf("depth.decimation must be at least 1, got %d", d.Decimation))
	}
	if d.CachedRows < 1 {
		errs = append(errs, fmt.Errorf("depth.cached_rows must be at least 1, got %d", d.CachedRows))
	}

	return errors.Join(errs...)
}
