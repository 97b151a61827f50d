package tracking

import (
	"github.com/ctessum/geom"
	"github.com/rs/zerolog"

	"github.com/theoremus-urban-solutions/gtfs-shape-validator/geometry"
	"github.com/theoremus-urban-solutions/gtfs-shape-validator/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfs-shape-validator/projection"
)

// ShapeSource resolves trips to assembled shape lines.
type ShapeSource interface {
	TripShapeID(tripID string) string
	Line(shapeID string) (*geometry.LineGeometry, bool)
}

// VehicleOffset is the placement of one vehicle relative to its trip's shape.
type VehicleOffset struct {
	Vehicle       gtfsrt.VehiclePosition
	ShapeID       string
	Zone          projection.ZoneID
	OffsetMeters  float64
	DistanceAlong float64
	Segment       int
	Snapped       projection.GeographicCoordinate
}

// Outcome classifies a vehicle that could not be placed on a shape.
type Outcome string

const (
	OutcomePlaced          Outcome = "PLACED"
	OutcomeNoShape         Outcome = "NO_SHAPE"
	OutcomeInvalidPosition Outcome = "INVALID_POSITION"
)

// Result is the outcome for one vehicle.
type Result struct {
	Outcome Outcome
	Offset  VehicleOffset
	Err     error
}

// Tracker places vehicles on shapes.
type Tracker struct {
	projector *projection.Projector
	shapes    ShapeSource
	logger    zerolog.Logger
}

// NewTracker creates a tracker. The projector should share the session cache
// used to assemble the shapes.
func NewTracker(projector *projection.Projector, shapes ShapeSource, logger zerolog.Logger) *Tracker {
	return &Tracker{projector: projector, shapes: shapes, logger: logger}
}

// Place snaps one vehicle onto its trip's shape.
func (t *Tracker) Place(v gtfsrt.VehiclePosition) Result {
	shapeID := t.shapes.TripShapeID(v.TripID)
	line, ok := t.shapes.Line(shapeID)
	if shapeID == "" || !ok || len(line.Vertices) < 2 {
		return Result{Outcome: OutcomeNoShape, Offset: VehicleOffset{Vehicle: v, ShapeID: shapeID}}
	}

	pc, err := t.projector.ProjectWith(line.Transform(), v.Coordinate)
	if err != nil {
		return Result{Outcome: OutcomeInvalidPosition, Offset: VehicleOffset{Vehicle: v, ShapeID: shapeID}, Err: err}
	}
	snap, _ := line.NearestSegment(geom.Point{X: pc.X, Y: pc.Y})

	snapped, err := t.projector.Unproject(line.Transform(), snap.Point.X, snap.Point.Y)
	if err != nil {
		return Result{Outcome: OutcomeInvalidPosition, Offset: VehicleOffset{Vehicle: v, ShapeID: shapeID}, Err: err}
	}

	off := VehicleOffset{
		Vehicle:       v,
		ShapeID:       shapeID,
		Zone:          line.Zone(),
		OffsetMeters:  snap.OffsetMeters,
		DistanceAlong: snap.DistanceAlong,
		Segment:       snap.Segment,
		Snapped:       snapped,
	}
	t.logger.Debug().
		Str("vehicle_id", v.VehicleID).
		Str("trip_id", v.TripID).
		Str("shape_id", shapeID).
		Float64("offset_m", off.OffsetMeters).
		Msg("placed vehicle on shape")
	return Result{Outcome: OutcomePlaced, Offset: off}
}

// PlaceAll places every vehicle in a snapshot, in feed order.
func (t *Tracker) PlaceAll(snap *gtfsrt.Snapshot) []Result {
	out := make([]Result, 0, len(snap.Vehicles))
	for _, v := range snap.Vehicles {
		out = append(out, t.Place(v))
	}
	return out
}
