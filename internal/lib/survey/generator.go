package survey

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/dpup/prefab/logging"

	"github.com/dpup/surveyplan/internal/lib/geodetic"
)

const progressInterval = 25

// DefaultMaxSegments bounds the number of lines a single plan may emit
const DefaultMaxSegments = 100000

// generator implements the Generator interface
type generator struct {
	engine      geodetic.Engine
	heading     HeadingOptimizer
	spacing     SpacingEstimator
	maxSegments int
}

// GeneratorOption customizes a Generator
type GeneratorOption func(*generator)

// WithHeadingOptimizer replaces the default longest-edge optimizer
func WithHeadingOptimizer(h HeadingOptimizer) GeneratorOption {
	return func(g *generator) { g.heading = h }
}

// WithSpacingEstimator replaces the default mean-depth estimator
func WithSpacingEstimator(s SpacingEstimator) GeneratorOption {
	return func(g *generator) { g.spacing = s }
}

// WithMaxSegments changes the plan size limit
func WithMaxSegments(n int) GeneratorOption {
	return func(g *generator) { g.maxSegments = n }
}

// NewGenerator creates a Generator computing geometry with engine
func NewGenerator(engine geodetic.Engine, opts ...GeneratorOption) Generator {
	g := &generator{
		engine:      engine,
		heading:     NewHeadingOptimizer(engine),
		spacing:     NewSpacingEstimator(),
		maxSegments: DefaultMaxSegments,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Validate checks a request before any computation and reports every problem found
func (r PlanRequest) Validate() error {
	var errs []error

	ring := r.Polygon.Ring()
	if len(ring) < 3 {
		errs = append(errs, invalid("polygon", len(ring), "need at least 3 outer ring vertices"))
	}
	for i, c := range r.Polygon.Outer {
		if c.System != r.Polygon.System {
			errs = append(errs, invalid("polygon", i, "vertex coordinate system differs from polygon"))
			break
		}
		if !isFinite(c.X) || !isFinite(c.Y) {
			errs = append(errs, invalid("polygon", i, "vertex is not finite"))
			break
		}
	}

	if math.IsNaN(r.Spacing) || r.Spacing == 0 || r.Spacing < AutoSpacing || math.IsInf(r.Spacing, 0) {
		errs = append(errs, invalid("spacing", r.Spacing, "must be positive or -1 for automatic"))
	}
	if !isFinite(r.Heading) {
		errs = append(errs, invalid("heading", r.Heading, "must be finite or -1 for automatic"))
	}
	if !isFinite(r.CrossLineMultiplier) || r.CrossLineMultiplier < 0 {
		errs = append(errs, invalid("cross_line_multiplier", r.CrossLineMultiplier, "must be zero or positive"))
	}
	if r.Spacing == AutoSpacing && !isFinite(r.CoverageMultiplier) {
		errs = append(errs, invalid("coverage_multiplier", r.CoverageMultiplier, "must be finite"))
	}

	return errors.Join(errs...)
}

// Generate resolves heading, then spacing, then emits every line family. Any geometry
// failure aborts the whole plan.
func (g *generator) Generate(ctx context.Context, req PlanRequest) (*Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	plan := &Plan{
		System: req.Polygon.System,
		Extent: req.Polygon.Extent(),
		Center: req.Polygon.Centroid(),
	}
	plan.HalfDiagonal = plan.Extent.HalfDiagonal()

	g.resolveHeading(ctx, req, plan)
	if err := g.resolveSpacing(ctx, req, plan); err != nil {
		return nil, err
	}

	plan.Specs = []LineSpec{{Spacing: plan.Spacing, Heading: plan.Heading, Prefix: req.Prefix}}
	if req.CrossLineMultiplier > 0 {
		plan.Specs = append(plan.Specs, LineSpec{
			Spacing:     plan.Spacing * req.CrossLineMultiplier,
			Heading:     geodetic.Normalize360(plan.Heading + 90),
			Prefix:      req.Prefix + "_X",
			IsCrossLine: true,
		})
	}

	expected := 0
	for _, spec := range plan.Specs {
		expected += 1 + 2*int(math.Ceil(plan.HalfDiagonal/spec.Spacing))
	}
	if expected > g.maxSegments {
		return nil, invalid("spacing", plan.Spacing,
			fmt.Sprintf("would produce about %d lines, limit is %d", expected, g.maxSegments))
	}

	e := &emitter{engine: g.engine, halfLength: plan.HalfDiagonal, progress: req.Progress}
	for _, spec := range plan.Specs {
		if err := e.family(ctx, plan.Center, spec); err != nil {
			return nil, err
		}
	}
	plan.Segments = e.segments

	logging.Infow(ctx, "Generated line plan",
		"prefix", req.Prefix, "lines", len(plan.Segments), "heading", plan.Heading,
		"heading_source", plan.HeadingSource, "spacing", plan.Spacing, "half_diagonal_m", plan.HalfDiagonal)
	return plan, nil
}

func (g *generator) resolveHeading(ctx context.Context, req PlanRequest, plan *Plan) {
	if req.Heading != AutoHeading {
		plan.Heading = req.Heading
		plan.HeadingSource = HeadingExplicit
		return
	}

	estimate := g.heading.OptimalHeading(req.Polygon)
	plan.HeadingEstimate = &estimate
	plan.Heading = estimate.Degrees
	if estimate.Fallback {
		plan.HeadingSource = HeadingFallback
		logging.Warnw(ctx, "Optimal heading failed, using 0 degrees", "error", estimate.Cause)
		return
	}
	plan.HeadingSource = HeadingOptimal
	logging.Infow(ctx, "Optimal heading selected",
		"heading", estimate.Degrees, "edge", estimate.EdgeIndex, "edge_length_m", estimate.EdgeLength)
}

func (g *generator) resolveSpacing(ctx context.Context, req PlanRequest, plan *Plan) error {
	if req.Spacing != AutoSpacing {
		plan.Spacing = req.Spacing
		return nil
	}

	var samples []DepthSample
	if req.Depths == nil {
		logging.Warnw(ctx, "No depth source configured, using fallback spacing", "spacing", FallbackSpacing)
	} else {
		all, err := req.Depths.Samples(ctx, plan.Extent)
		if err != nil {
			return fmt.Errorf("failed to load depth samples: %w", err)
		}
		samples = NewDepthIndex(all).Within(req.Polygon)
		logging.Debugw(ctx, "Clipped depth samples to polygon", "available", len(all), "inside", len(samples))
	}

	estimate := g.spacing.EstimateSpacing(samples, req.CoverageMultiplier)
	plan.SpacingEstimate = &estimate
	if !(estimate.Spacing > 0) || math.IsInf(estimate.Spacing, 0) {
		return invalid("spacing", estimate.Spacing, "derived spacing must be positive")
	}
	plan.Spacing = estimate.Spacing

	if estimate.Fallback {
		logging.Warnw(ctx, "No depth samples inside polygon, using fallback spacing", "spacing", estimate.Spacing)
	} else {
		logging.Infow(ctx, "Derived line spacing from depth",
			"mean_elevation_m", estimate.MeanElevation, "samples", estimate.Samples,
			"coverage_multiplier", req.CoverageMultiplier, "spacing", estimate.Spacing)
	}
	return nil
}

// emitter accumulates the segments of one plan
type emitter struct {
	engine     geodetic.Engine
	halfLength float64
	progress   func(int)
	segments   []LineSegment
}

// family emits the centreline then starboard then port lines of one spec
func (e *emitter) family(ctx context.Context, center geodetic.Coordinate, spec LineSpec) error {
	if err := e.line(ctx, center, spec, spec.Prefix+"_Centreline"); err != nil {
		return err
	}

	for offset := spec.Spacing; offset < e.halfLength; offset += spec.Spacing {
		if err := e.offsetLine(ctx, center, spec, offset, fmt.Sprintf("%s_S%.1f", spec.Prefix, offset)); err != nil {
			return err
		}
	}

	for offset := -spec.Spacing; offset > -e.halfLength; offset -= spec.Spacing {
		if err := e.offsetLine(ctx, center, spec, offset, fmt.Sprintf("%s_P%.1f", spec.Prefix, offset)); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) offsetLine(ctx context.Context, center geodetic.Coordinate, spec LineSpec, offset float64, name string) error {
	through, err := e.engine.Direct(center, spec.Heading-90, offset)
	if err != nil {
		return fmt.Errorf("failed to offset %s: %w", name, err)
	}
	return e.line(ctx, through, spec, name)
}

// line emits a segment through a point spanning halfLength either side
func (e *emitter) line(ctx context.Context, through geodetic.Coordinate, spec LineSpec, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start, err := e.engine.Direct(through, spec.Heading, e.halfLength)
	if err != nil {
		return fmt.Errorf("failed to compute start of %s: %w", name, err)
	}
	end, err := e.engine.Direct(through, spec.Heading, -e.halfLength)
	if err != nil {
		return fmt.Errorf("failed to compute end of %s: %w", name, err)
	}

	e.segments = append(e.segments, LineSegment{
		Name:         name,
		Prefix:       spec.Prefix,
		Start:        start,
		End:          end,
		Heading:      spec.Heading,
		SpacingUsed:  spec.Spacing,
		LengthMetres: 2 * e.halfLength,
		IsCrossLine:  spec.IsCrossLine,
	})

	if e.progress != nil && len(e.segments)%progressInterval == 0 {
		e.progress(len(e.segments))
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
