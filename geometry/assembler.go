package geometry

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/theoremus-urban-solutions/gtfs-shape-validator/projection"
)

// SinglePointPolicy decides what BuildLine does with a one-point shape.
type SinglePointPolicy int

const (
	// SinglePointReject fails one-point shapes with InsufficientPointsError.
	SinglePointReject SinglePointPolicy = iota
	// SinglePointAllow returns a one-vertex geometry with zero length.
	SinglePointAllow
)

// ParseSinglePointPolicy maps "reject" and "allow" to a policy; anything else rejects.
func ParseSinglePointPolicy(s string) SinglePointPolicy {
	if s == "allow" {
		return SinglePointAllow
	}
	return SinglePointReject
}

func (p SinglePointPolicy) String() string {
	if p == SinglePointAllow {
		return "allow"
	}
	return "reject"
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithSinglePointPolicy sets the degenerate-shape policy.
func WithSinglePointPolicy(p SinglePointPolicy) Option {
	return func(a *Assembler) { a.singlePoint = p }
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Assembler) { a.logger = l }
}

// Assembler builds projected lines from shape points.
type Assembler struct {
	projector   *projection.Projector
	singlePoint SinglePointPolicy
	logger      zerolog.Logger
}

// NewAssembler creates an assembler that projects through projector.
func NewAssembler(projector *projection.Projector, opts ...Option) *Assembler {
	a := &Assembler{
		projector: projector,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SortBySequence returns a copy of points ordered by Sequence. Points sharing a
// sequence keep their input order and are all retained.
func SortBySequence(points []ShapePoint) []ShapePoint {
	ordered := make([]ShapePoint, len(points))
	copy(ordered, points)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Sequence < ordered[j].Sequence
	})
	return ordered
}

// BuildLine orders points by sequence and projects them all into the zone of
// the first one. Any invalid point aborts the whole line.
func (a *Assembler) BuildLine(points []ShapePoint) (*LineGeometry, error) {
	shapeID := ""
	if len(points) > 0 {
		shapeID = points[0].ShapeID
	}
	need := 2
	if a.singlePoint == SinglePointAllow {
		need = 1
	}
	if len(points) < need {
		return nil, &InsufficientPointsError{ShapeID: shapeID, Got: len(points), Need: need}
	}

	ordered := SortBySequence(points)
	ref := ordered[0]
	zone, err := a.projector.ZoneIdentifierFor(ref.Coordinate)
	if err != nil {
		return nil, &InvalidPointError{PointID: ref.ID, ShapeID: ref.ShapeID, Err: err}
	}
	transform, err := a.projector.TransformFor(zone)
	if err != nil {
		return nil, err
	}

	vertices := make([]projection.ProjectedCoordinate, 0, len(ordered))
	for _, pt := range ordered {
		pc, err := a.projector.ProjectWith(transform, pt.Coordinate)
		if err != nil {
			return nil, &InvalidPointError{PointID: pt.ID, ShapeID: pt.ShapeID, Err: err}
		}
		if !pc.Finite() {
			return nil, &InvalidPointError{PointID: pt.ID, ShapeID: pt.ShapeID}
		}
		vertices = append(vertices, pc)
	}

	a.logger.Debug().
		Str("shape_id", shapeID).
		Int("vertices", len(vertices)).
		Int("zone", int(zone)).
		Msg("assembled shape line")

	return &LineGeometry{ShapeID: shapeID, Vertices: vertices, transform: transform}, nil
}
