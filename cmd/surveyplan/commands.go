package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dpup/surveyplan/internal/clients/boundary"
	"github.com/dpup/surveyplan/internal/config"
	"github.com/dpup/surveyplan/internal/lib/gebco"
	"github.com/dpup/surveyplan/internal/lib/geodetic"
	"github.com/dpup/surveyplan/internal/lib/survey"
	"github.com/dpup/surveyplan/internal/services"
)

// planFlags maps plan command flags onto configuration keys
var planFlags = []struct {
	flag string
	key  string
}{
	{"spacing", "plan.spacing"},
	{"heading", "plan.heading"},
	{"prefix", "plan.prefix"},
	{"cross", "plan.cross_line_multiplier"},
	{"system", "plan.coordinate_system"},
	{"max-segments", "plan.max_segments"},
	{"clip", "plan.clip"},
	{"speed", "vessel.speed_knots"},
	{"turn", "vessel.turn_duration"},
	{"gebco", "depth.gebco_path"},
	{"coverage", "depth.coverage_multiplier"},
	{"decimation", "depth.decimation"},
	{"kml", "output.kml_path"},
	{"report", "output.report_path"},
	{"overwrite", "output.overwrite"},
}

// planSummary is printed by the plan command
type planSummary struct {
	Prefix        string               `json:"prefix"`
	Heading       float64              `json:"heading"`
	HeadingSource survey.HeadingSource `json:"heading_source"`
	Spacing       float64              `json:"spacing"`
	Lines         int                  `json:"lines"`
	Current       survey.Totals        `json:"current"`
	Entire        survey.Totals        `json:"entire"`
	KMLPath       string               `json:"kml_path,omitempty"`
	ReportPath    string               `json:"report_path,omitempty"`
	Segments      []survey.LineSegment `json:"segments,omitempty"`
}

func newPlanCommand() *cobra.Command {
	var configPath string
	var withSegments bool

	cmd := &cobra.Command{
		Use:   "plan <boundary>",
		Short: "Generate survey lines over a GeoJSON, shapefile or encoded polyline boundary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, flagOverrides(cmd.Flags()))
			if err != nil {
				return err
			}
			svc, err := services.NewSurveyService(cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			result, err := svc.PlanFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			summary := planSummary{
				Prefix:        cfg.Plan.Prefix,
				Heading:       result.Plan.Heading,
				HeadingSource: result.Plan.HeadingSource,
				Spacing:       result.Plan.Spacing,
				Lines:         len(result.Segments),
				Current:       result.Report.Current,
				Entire:        result.Report.Entire,
				KMLPath:       result.KMLPath,
				ReportPath:    result.ReportPath,
			}
			if withSegments {
				summary.Segments = result.Segments
			}
			return writeJSON(cmd.OutOrStdout(), summary)
		},
	}

	defaults := config.DefaultConfig()
	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	flags.BoolVar(&withSegments, "segments", false, "include every segment in the output")
	flags.Float64("spacing", defaults.Plan.Spacing, "line spacing in metres, -1 derives it from depth")
	flags.Float64("heading", defaults.Plan.Heading, "line heading in degrees, -1 follows the longest edge")
	flags.String("prefix", defaults.Plan.Prefix, "line name prefix")
	flags.Float64("cross", defaults.Plan.CrossLineMultiplier, "cross-line spacing multiplier, 0 disables cross-lines")
	flags.String("system", defaults.Plan.CoordinateSystem, "boundary coordinate system: geographic or planar")
	flags.Int("max-segments", defaults.Plan.MaxSegments, "largest plan allowed")
	flags.Bool("clip", defaults.Plan.Clip, "clip lines to the boundary, --clip=false keeps full-length lines")
	flags.Float64("speed", defaults.Vessel.SpeedKnots, "vessel speed in knots")
	flags.Duration("turn", defaults.Vessel.TurnDuration, "time to turn between lines")
	flags.String("gebco", "", "GEBCO one-dimensional NetCDF raster")
	flags.Float64("coverage", defaults.Depth.CoverageMultiplier, "spacing as a multiple of mean depth")
	flags.Int("decimation", defaults.Depth.Decimation, "raster cells per depth sample")
	flags.String("kml", "", "write the lines to this KML file")
	flags.String("report", "", "write the duration report to this JSON file")
	flags.Bool("overwrite", false, "replace existing output files")
	return cmd
}

// flagOverrides returns the configuration keys of flags set on the command line
func flagOverrides(flags *pflag.FlagSet) map[string]interface{} {
	overrides := make(map[string]interface{})
	for _, f := range planFlags {
		if flags.Changed(f.flag) {
			overrides[f.key] = flags.Lookup(f.flag).Value.String()
		}
	}
	return overrides
}

func newInverseCommand() *cobra.Command {
	var planar, estimate bool

	cmd := &cobra.Command{
		Use:   "inverse <lat1|y1> <lon1|x1> <lat2|y2> <lon2|x2>",
		Short: "Distance and bearing between two points",
		Long:  "Distance and bearing between two points. Separate negative coordinates from flags with --.",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}

			if planar {
				engine := geodetic.NewEngine(geodetic.WGS84)
				distance, bearing, err := engine.Inverse(geodetic.NewPlanar(v[1], v[0]), geodetic.NewPlanar(v[3], v[2]))
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]float64{"distance": distance, "bearing": bearing})
			}

			if estimate {
				return writeJSON(cmd.OutOrStdout(), map[string]float64{
					"distance_m": geodetic.EstimateDistance(v[0], v[1], v[2], v[3]),
				})
			}

			solution, err := geodetic.WGS84.Inverse(v[0], v[1], v[2], v[3])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), solution)
		},
	}
	cmd.Flags().BoolVar(&planar, "planar", false, "treat arguments as planar y x pairs")
	cmd.Flags().BoolVar(&estimate, "estimate", false, "quick flat-earth estimate instead of Vincenty")
	return cmd
}

func newDirectCommand() *cobra.Command {
	var planar bool

	cmd := &cobra.Command{
		Use:   "direct <lat|y> <lon|x> <bearing> <range>",
		Short: "Project a point along a bearing",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}

			if planar {
				engine := geodetic.NewEngine(geodetic.WGS84)
				c, err := engine.Direct(geodetic.NewPlanar(v[1], v[0]), v[2], v[3])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]float64{"x": c.X, "y": c.Y})
			}

			solution, err := geodetic.WGS84.Direct(v[0], v[1], v[2], v[3])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), solution)
		},
	}
	cmd.Flags().BoolVar(&planar, "planar", false, "treat the origin as a planar y x pair")
	return cmd
}

// headingResult is printed by the heading command
type headingResult struct {
	survey.HeadingEstimate
	Cause string `json:"cause,omitempty"`
}

func newHeadingCommand() *cobra.Command {
	var system string

	cmd := &cobra.Command{
		Use:   "heading <boundary>",
		Short: "Bearing of the longest boundary edge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := geodetic.ParseCoordSystem(system)
			if err != nil {
				return err
			}
			polygon, err := boundary.Load(args[0], cs)
			if err != nil {
				return err
			}

			estimate := survey.NewHeadingOptimizer(geodetic.NewEngine(geodetic.WGS84)).OptimalHeading(polygon)
			result := headingResult{HeadingEstimate: estimate}
			if estimate.Cause != nil {
				result.Cause = estimate.Cause.Error()
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&system, "system", "geographic", "boundary coordinate system: geographic or planar")
	return cmd
}

// depthResult is printed by the depth command
type depthResult struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Index     int     `json:"index"`
	Elevation int16   `json:"elevation_m"`
}

func newDepthCommand() *cobra.Command {
	var cachedRows int

	cmd := &cobra.Command{
		Use:   "depth <gebco.nc> <lat> <lon>",
		Short: "Nearest GEBCO elevation at a point",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloats(args[1:])
			if err != nil {
				return err
			}

			grid, err := gebco.OpenNetCDF(cmd.Context(), args[0], cachedRows)
			if err != nil {
				return err
			}
			defer grid.Close()

			elevation, err := grid.Elevation(v[0], v[1])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), depthResult{
				Latitude:  v[0],
				Longitude: v[1],
				Index:     grid.CoordinateToIndex(v[0], v[1]),
				Elevation: elevation,
			})
		},
	}
	cmd.Flags().IntVar(&cachedRows, "cached-rows", 4, "raster rows kept in memory")
	return cmd
}

func parseFloats(args []string) ([]float64, error) {
	values := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		values[i] = v
	}
	return values, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
