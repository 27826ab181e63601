package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dpup/prefab/logging"

	"github.com/dpup/surveyplan/internal/clients/boundary"
	"github.com/dpup/surveyplan/internal/config"
	"github.com/dpup/surveyplan/internal/export"
	"github.com/dpup/surveyplan/internal/lib/gebco"
	"github.com/dpup/surveyplan/internal/lib/geodetic"
	"github.com/dpup/surveyplan/internal/lib/survey"
)

// SurveyService plans survey lines for a boundary and writes the results. Lines from
// every run are kept so the report can total the entire survey, and re-running a prefix
// replaces its earlier lines.
type SurveyService struct {
	config    *config.Config
	engine    geodetic.Engine
	generator survey.Generator
	clipper   survey.Clipper
	store     *survey.MemorySink
	sinks     []survey.LineSink

	// Raster opened on first use and shared by later runs
	rasterMutex sync.Mutex
	raster      *gebco.Grid
	depths      survey.DepthSource
	injected    bool
}

// PlanResult is the outcome of one planning run
type PlanResult struct {
	Plan       *survey.Plan         `json:"plan"`
	Segments   []survey.LineSegment `json:"segments"`
	Report     *survey.Report       `json:"report"`
	KMLPath    string               `json:"kml_path,omitempty"`
	ReportPath string               `json:"report_path,omitempty"`
}

// ServiceOption customizes a SurveyService
type ServiceOption func(*SurveyService)

// WithSinks adds sinks receiving every run's segments
func WithSinks(sinks ...survey.LineSink) ServiceOption {
	return func(s *SurveyService) { s.sinks = append(s.sinks, sinks...) }
}

// WithDepthSource replaces the configured GEBCO raster
func WithDepthSource(depths survey.DepthSource) ServiceOption {
	return func(s *SurveyService) {
		s.depths = depths
		s.injected = true
	}
}

// NewSurveyService validates cfg and creates a SurveyService
func NewSurveyService(cfg *config.Config, opts ...ServiceOption) (*SurveyService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	engine := geodetic.NewEngine(geodetic.WGS84)
	s := &SurveyService{
		config:    cfg,
		engine:    engine,
		generator: survey.NewGenerator(engine, survey.WithMaxSegments(cfg.Plan.MaxSegments)),
		clipper:   survey.NewClipper(engine),
		store:     survey.NewMemorySink(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Engine returns the geodetic engine used for planning
func (s *SurveyService) Engine() geodetic.Engine {
	return s.engine
}

// PlanFile loads the boundary at path and plans it
func (s *SurveyService) PlanFile(ctx context.Context, path string) (*PlanResult, error) {
	system, err := s.config.Plan.System()
	if err != nil {
		return nil, err
	}
	polygon, err := boundary.Load(path, system)
	if err != nil {
		return nil, err
	}
	logging.Infow(ctx, "Loaded survey boundary",
		"path", path, "vertices", len(polygon.Outer), "holes", len(polygon.Holes), "system", polygon.System)
	return s.Plan(ctx, polygon)
}

// Plan generates lines over polygon, clips them when configured, then writes them to the
// sinks and output files
func (s *SurveyService) Plan(ctx context.Context, polygon survey.Polygon) (*PlanResult, error) {
	pc := s.config.Plan
	req := survey.PlanRequest{
		Polygon:             polygon,
		Spacing:             pc.Spacing,
		Heading:             pc.Heading,
		Prefix:              pc.Prefix,
		CrossLineMultiplier: pc.CrossLineMultiplier,
		CoverageMultiplier:  s.config.Depth.CoverageMultiplier,
		Progress: func(emitted int) {
			logging.Debugw(ctx, "Line generation progress", "prefix", pc.Prefix, "emitted", emitted)
		},
	}
	if pc.Spacing == survey.AutoSpacing {
		req.Depths = s.depthSource(ctx, polygon.System)
	}

	plan, err := s.generator.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate plan %s: %w", pc.Prefix, err)
	}

	segments := plan.Segments
	if pc.Clip {
		segments, err = s.clipper.Clip(polygon, segments)
		if err != nil {
			return nil, fmt.Errorf("failed to clip plan %s: %w", pc.Prefix, err)
		}
		logging.Infow(ctx, "Clipped line plan", "prefix", pc.Prefix,
			"generated", len(plan.Segments), "clipped", len(segments))
	}

	if removed := s.store.DeletePrefix(pc.Prefix); removed > 0 {
		logging.Infow(ctx, "Replaced earlier lines", "prefix", pc.Prefix, "removed", removed)
	}
	if err := s.store.WriteSegments(ctx, segments); err != nil {
		return nil, err
	}
	for _, sink := range s.sinks {
		if err := sink.WriteSegments(ctx, segments); err != nil {
			return nil, fmt.Errorf("failed to write segments: %w", err)
		}
	}

	report, err := survey.BuildReport(s.store.Segments(), s.config.Vessel.Params(), pc.Prefix)
	if err != nil {
		return nil, err
	}

	result := &PlanResult{Plan: plan, Segments: segments, Report: report}
	if s.config.Output.KMLPath != "" {
		result.KMLPath, err = s.writeOutput(ctx, s.config.Output.KMLPath, func(w io.Writer) error {
			sink := export.NewKMLSink(w, pc.Prefix)
			if err := sink.WriteSegments(ctx, s.store.Segments()); err != nil {
				return err
			}
			return sink.Flush(ctx)
		})
		if err != nil {
			return nil, err
		}
	}
	if s.config.Output.ReportPath != "" {
		result.ReportPath, err = s.writeOutput(ctx, s.config.Output.ReportPath, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		})
		if err != nil {
			return nil, err
		}
	}

	logging.Infow(ctx, "Survey plan complete",
		"prefix", pc.Prefix, "lines", len(segments),
		"current_km", report.Current.LengthKm, "current_days", report.Current.DurationDays,
		"entire_km", report.Entire.LengthKm, "entire_days", report.Entire.DurationDays)
	return result, nil
}

// Segments returns every line planned by this service so far
func (s *SurveyService) Segments() []survey.LineSegment {
	return s.store.Segments()
}

// Close releases the raster if one was opened
func (s *SurveyService) Close() error {
	s.rasterMutex.Lock()
	defer s.rasterMutex.Unlock()

	if s.raster == nil {
		return nil
	}
	err := s.raster.Close()
	s.raster = nil
	s.depths = nil
	return err
}

// depthSource returns the injected source or the GEBCO raster. It returns nil, so planning
// uses the fallback spacing, when no raster is configured, the raster cannot be opened or
// the boundary is planar.
func (s *SurveyService) depthSource(ctx context.Context, system geodetic.CoordSystem) survey.DepthSource {
	s.rasterMutex.Lock()
	defer s.rasterMutex.Unlock()

	if s.injected {
		return s.depths
	}

	dc := s.config.Depth
	if system != geodetic.Geographic {
		logging.Warnw(ctx, "GEBCO raster needs a geographic boundary, using fallback spacing",
			"system", system, "spacing", survey.FallbackSpacing)
		return nil
	}
	if s.depths != nil {
		return s.depths
	}
	if dc.GEBCOPath == "" {
		logging.Warnw(ctx, "No GEBCO raster configured, using fallback spacing", "spacing", survey.FallbackSpacing)
		return nil
	}

	grid, err := gebco.OpenNetCDF(ctx, dc.GEBCOPath, dc.CachedRows)
	if err != nil {
		logging.Warnw(ctx, "GEBCO raster unavailable, using fallback spacing",
			"path", dc.GEBCOPath, "error", err, "spacing", survey.FallbackSpacing)
		return nil
	}
	s.raster = grid
	s.depths = gebco.NewDepthSource(grid, dc.Decimation)
	return s.depths
}

// writeOutput writes to path, or to the next free numbered name unless overwriting
func (s *SurveyService) writeOutput(ctx context.Context, path string, write func(io.Writer) error) (string, error) {
	if !s.config.Output.Overwrite {
		next, err := export.NextAvailablePath(path)
		if err != nil {
			return "", err
		}
		path = next
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	logging.Infow(ctx, "Wrote output", "path", path)
	return path, nil
}
