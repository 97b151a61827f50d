package validation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/theoremus-urban-solutions/gtfs-shape-validator/geometry"
	"github.com/theoremus-urban-solutions/gtfs-shape-validator/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-shape-validator/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfs-shape-validator/projection"
	"github.com/theoremus-urban-solutions/gtfs-shape-validator/tracking"
)

// Options configures a Validator. Zero values get defaults.
type Options struct {
	// Workers bounds the number of shapes assembled concurrently (default 4).
	Workers int

	// SinglePoint decides whether one-point shapes are findings (default reject).
	SinglePoint geometry.SinglePointPolicy

	// MaxDistortionRatio is the tolerated relative difference between projected
	// and ellipsoidal geodesic shape length (default 0.005).
	MaxDistortionRatio float64

	// MaxVehicleOffsetMeters is how far a vehicle may be from its shape (default 100).
	MaxVehicleOffsetMeters float64

	// Registry resolves zone definitions (default projection.DefaultRegistry).
	Registry projection.Registry

	Logger  zerolog.Logger
	Metrics *Metrics
}

// Validator runs geometry validation over GTFS feeds.
type Validator struct {
	opts Options
}

// NewValidator creates a validator.
func NewValidator(opts Options) *Validator {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.MaxDistortionRatio <= 0 {
		opts.MaxDistortionRatio = 0.005
	}
	if opts.MaxVehicleOffsetMeters <= 0 {
		opts.MaxVehicleOffsetMeters = 100
	}
	return &Validator{opts: opts}
}

// Session is the state of one validation run: its results, its transform
// cache and the lines it assembled.
type Session struct {
	ID        string
	Results   *FeedValidationResults
	Projector *projection.Projector

	feed  *gtfs.Feed
	lines map[string]*geometry.LineGeometry
}

// Line returns the assembled line for a shape.
func (s *Session) Line(shapeID string) (*geometry.LineGeometry, bool) {
	l, ok := s.lines[shapeID]
	return l, ok
}

// TripShapeID returns the shape of a trip in the validated feed.
func (s *Session) TripShapeID(tripID string) string {
	if s.feed == nil {
		return ""
	}
	return s.feed.TripShapeID(tripID)
}

// Lines returns every assembled line ordered by shape id.
func (s *Session) Lines() []*geometry.LineGeometry {
	out := make([]*geometry.LineGeometry, 0, len(s.lines))
	for _, l := range s.lines {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShapeID < out[j].ShapeID })
	return out
}

// ValidateFile loads and validates a GTFS zip on disk. A feed that cannot be
// read yields a FAILURE load status, not an error.
func (v *Validator) ValidateFile(ctx context.Context, path string) (*Session, error) {
	feed, err := gtfs.NewFeedFromFile(path)
	if err != nil {
		return v.failedLoad(path, err), nil
	}
	return v.Run(ctx, path, feed)
}

// ValidateBytes loads and validates a GTFS zip held in memory.
func (v *Validator) ValidateBytes(ctx context.Context, name string, data []byte) (*Session, error) {
	feed, err := gtfs.NewFeedFromBytes(data)
	if err != nil {
		return v.failedLoad(name, err), nil
	}
	return v.Run(ctx, name, feed)
}

func (v *Validator) failedLoad(name string, err error) *Session {
	v.opts.Logger.Error().Err(err).Str("feed", name).Msg("failed to load feed")
	return &Session{
		ID: uuid.NewString(),
		Results: &FeedValidationResults{
			LoadStatus:        LoadFailure,
			LoadFailureReason: err.Error(),
			FeedFileName:      name,
		},
		lines: map[string]*geometry.LineGeometry{},
	}
}

// Run validates a loaded feed. Each run owns a fresh transform cache shared by
// its shape workers, so a cancelled run can simply be repeated.
func (v *Validator) Run(ctx context.Context, name string, feed *gtfs.Feed) (*Session, error) {
	started := time.Now()
	cache := projection.NewTransformCache()
	if m := v.opts.Metrics; m != nil {
		cache.OnBuild(func(z projection.ZoneID) {
			m.TransformsBuilt.WithLabelValues(strconv.Itoa(int(z))).Inc()
		})
	}
	projector := projection.NewProjector(cache, v.opts.Registry)
	s := &Session{
		ID:        uuid.NewString(),
		Results:   newResults(name, feed),
		Projector: projector,
		feed:      feed,
		lines:     map[string]*geometry.LineGeometry{},
	}

	if err := v.validateShapes(ctx, s); err != nil {
		return nil, err
	}
	v.validateTrips(s)
	v.validateStops(s)

	for _, z := range cache.Zones() {
		s.Results.Zones = append(s.Results.Zones, int(z))
	}
	if v.opts.Metrics != nil {
		v.opts.Metrics.RunDuration.Observe(time.Since(started).Seconds())
	}
	v.opts.Logger.Info().
		Str("run_id", s.ID).
		Str("feed", name).
		Int("shapes", s.Results.ShapeCount).
		Int("invalid", s.Results.TotalInvalid()).
		Ints("zones", s.Results.Zones).
		Dur("elapsed", time.Since(started)).
		Msg("feed validated")
	return s, nil
}

func newResults(name string, feed *gtfs.Feed) *FeedValidationResults {
	r := &FeedValidationResults{
		LoadStatus:     LoadSuccess,
		FeedFileName:   name,
		Agencies:       feed.AgencyIDs(),
		AgencyCount:    len(feed.Agencies()),
		RouteCount:     feed.RouteCount(),
		TripCount:      feed.TripCount(),
		StopTimesCount: feed.StopTimesCount(),
		ShapeCount:     len(feed.ShapeIDs()),
	}
	if start, end, ok := feed.ServiceDateRange(); ok {
		r.StartDate = &start
		r.EndDate = &end
	}
	return r
}

type shapeOutcome struct {
	line     *geometry.LineGeometry
	geodesic float64
	findings []InvalidValue
}

func (v *Validator) validateShapes(ctx context.Context, s *Session) error {
	assembler := geometry.NewAssembler(s.Projector,
		geometry.WithSinglePointPolicy(v.opts.SinglePoint),
		geometry.WithLogger(v.opts.Logger),
	)
	shapeIDs := s.feed.ShapeIDs()
	outcomes := make([]shapeOutcome, len(shapeIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.opts.Workers)
	for i, shapeID := range shapeIDs {
		i, shapeID := i, shapeID
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = v.checkShape(assembler, s.feed, shapeID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("shape validation aborted: %w", err)
	}

	for i, out := range outcomes {
		outcome := "valid"
		if out.line == nil {
			outcome = "invalid"
		}
		if v.opts.Metrics != nil {
			v.opts.Metrics.ShapesValidated.WithLabelValues(outcome).Inc()
		}
		for _, f := range out.findings {
			s.Results.Shapes.Add(f)
		}
		if out.line == nil {
			continue
		}
		s.lines[shapeIDs[i]] = out.line
		s.Results.ShapeStats = append(s.Results.ShapeStats, ShapeStat{
			ShapeID:        shapeIDs[i],
			Vertices:       len(out.line.Vertices),
			Zone:           int(out.line.Zone()),
			LengthMeters:   out.line.Length(),
			GeodesicMeters: out.geodesic,
		})
	}
	return nil
}

func (v *Validator) checkShape(assembler *geometry.Assembler, feed *gtfs.Feed, shapeID string) shapeOutcome {
	var out shapeOutcome
	for _, row := range feed.ShapePoints(shapeID) {
		if !row.Parsed {
			out.findings = append(out.findings, InvalidValue{
				AffectedEntity:     "Shape",
				AffectedField:      "shape_pt_lat,shape_pt_lon,shape_pt_sequence",
				AffectedEntityID:   shapeID,
				Problem:            ProblemUnparsableShapePoint,
				ProblemDescription: fmt.Sprintf("point %s could not be parsed", row.ID),
				Priority:           PriorityHigh,
			})
		}
	}
	if len(out.findings) > 0 {
		return out
	}

	points := feed.GeometryPoints(shapeID)
	line, err := assembler.BuildLine(points)
	if err != nil {
		out.findings = append(out.findings, shapeFinding(shapeID, err))
		v.opts.Logger.Debug().Err(err).Str("shape_id", shapeID).Msg("shape rejected")
		return out
	}
	out.line = line
	out.geodesic = gtfs.GeodesicLength(points)

	if out.geodesic > 0 {
		ratio := math.Abs(line.Length()-out.geodesic) / out.geodesic
		if ratio > v.opts.MaxDistortionRatio {
			out.findings = append(out.findings, InvalidValue{
				AffectedEntity:   "Shape",
				AffectedField:    "shape_pt_lon",
				AffectedEntityID: shapeID,
				Problem:          ProblemShapeDistortion,
				ProblemDescription: fmt.Sprintf("projected length %.1fm differs from geodesic length %.1fm by %.2f%% in zone EPSG:%d",
					line.Length(), out.geodesic, ratio*100, int(line.Zone())),
				Priority: PriorityLow,
			})
		}
	}
	return out
}

func shapeFinding(shapeID string, err error) InvalidValue {
	f := InvalidValue{
		AffectedEntity:     "Shape",
		AffectedEntityID:   shapeID,
		ProblemDescription: err.Error(),
		Priority:           PriorityHigh,
	}
	var pointErr *geometry.InvalidPointError
	switch {
	case errors.As(err, &pointErr):
		f.AffectedField = "shape_pt_lat,shape_pt_lon"
		f.Problem = ProblemInvalidShapePoint
	case errors.Is(err, geometry.ErrInsufficientPoints):
		f.AffectedField = "shape_pt_sequence"
		f.Problem = ProblemInsufficientShapePoints
		f.Priority = PriorityMedium
	case errors.Is(err, projection.ErrUnsupportedZone):
		f.AffectedField = "shape_pt_lon"
		f.Problem = ProblemUnsupportedZone
	default:
		f.Problem = ProblemInvalidShapePoint
	}
	return f
}

func (v *Validator) validateTrips(s *Session) {
	for _, tripID := range s.feed.TripIDs() {
		shapeID := s.feed.TripShapeID(tripID)
		if shapeID == "" || s.feed.HasShape(shapeID) {
			continue
		}
		s.Results.Trips.Add(InvalidValue{
			AffectedEntity:     "Trip",
			AffectedField:      "shape_id",
			AffectedEntityID:   tripID,
			Problem:            ProblemMissingShape,
			ProblemDescription: fmt.Sprintf("trip references shape %s which is not in shapes.txt", shapeID),
			Priority:           PriorityMedium,
		})
	}
}

func (v *Validator) validateStops(s *Session) {
	for _, stop := range s.feed.Stops() {
		if !stop.Parsed {
			s.Results.Stops.Add(InvalidValue{
				AffectedEntity:     "Stop",
				AffectedField:      "stop_lat,stop_lon",
				AffectedEntityID:   stop.ID,
				Problem:            ProblemUnparsableStop,
				ProblemDescription: "stop coordinates could not be parsed",
				Priority:           PriorityHigh,
			})
			continue
		}
		if _, err := s.Projector.Project(stop.Coordinate()); err != nil {
			s.Results.Stops.Add(InvalidValue{
				AffectedEntity:     "Stop",
				AffectedField:      "stop_lat,stop_lon",
				AffectedEntityID:   stop.ID,
				Problem:            ProblemInvalidStopCoordinate,
				ProblemDescription: err.Error(),
				Priority:           PriorityHigh,
			})
		}
	}
}

// CheckVehicles places realtime vehicles on the session's shapes and records
// the resulting findings in the session results.
func (v *Validator) CheckVehicles(s *Session, snap *gtfsrt.Snapshot) []tracking.Result {
	results, findings := v.PlaceVehicles(s, snap)
	for _, f := range findings.InvalidValues {
		s.Results.Vehicles.Add(f)
	}
	return results
}

// PlaceVehicles places realtime vehicles on the session's shapes without
// touching the session. Vehicles farther than MaxVehicleOffsetMeters, or with
// unusable positions, become findings.
func (v *Validator) PlaceVehicles(s *Session, snap *gtfsrt.Snapshot) ([]tracking.Result, ValidationResult) {
	var findings ValidationResult
	if s.Projector == nil {
		return nil, findings
	}
	tracker := tracking.NewTracker(s.Projector, s, v.opts.Logger)
	results := tracker.PlaceAll(snap)
	for _, res := range results {
		if v.opts.Metrics != nil {
			v.opts.Metrics.VehiclesChecked.WithLabelValues(string(res.Outcome)).Inc()
		}
		id := res.Offset.Vehicle.VehicleID
		if id == "" {
			id = res.Offset.Vehicle.EntityID
		}
		switch res.Outcome {
		case tracking.OutcomeInvalidPosition:
			findings.Add(InvalidValue{
				AffectedEntity:     "Vehicle",
				AffectedField:      "position",
				AffectedEntityID:   id,
				Problem:            ProblemVehiclePosition,
				ProblemDescription: res.Err.Error(),
				Priority:           PriorityMedium,
			})
		case tracking.OutcomePlaced:
			if res.Offset.OffsetMeters <= v.opts.MaxVehicleOffsetMeters {
				continue
			}
			findings.Add(InvalidValue{
				AffectedEntity:   "Vehicle",
				AffectedField:    "position",
				AffectedEntityID: id,
				Problem:          ProblemVehicleOffShape,
				ProblemDescription: fmt.Sprintf("vehicle on trip %s is %.0fm from shape %s",
					res.Offset.Vehicle.TripID, res.Offset.OffsetMeters, res.Offset.ShapeID),
				Priority: PriorityLow,
			})
		}
	}
	return results, findings
}
