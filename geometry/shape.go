package geometry

import (
	"math"

	"github.com/ctessum/geom"

	"github.com/theoremus-urban-solutions/gtfs-shape-validator/projection"
)

// ShapePoint is one row of a shape as supplied by the feed loader.
type ShapePoint struct {
	ID         string
	ShapeID    string
	Coordinate projection.GeographicCoordinate
	Sequence   int
}

// LineGeometry is an ordered path whose vertices all share one zone transform.
type LineGeometry struct {
	ShapeID  string
	Vertices []projection.ProjectedCoordinate

	transform *projection.ZoneTransform
}

// Transform returns the single transform used for every vertex.
func (l *LineGeometry) Transform() *projection.ZoneTransform { return l.transform }

// Zone returns the EPSG code of the line's frame.
func (l *LineGeometry) Zone() projection.ZoneID { return l.transform.Zone() }

// LineString returns the vertices as a planar geom.LineString.
func (l *LineGeometry) LineString() geom.LineString {
	ls := make(geom.LineString, len(l.Vertices))
	for i, v := range l.Vertices {
		ls[i] = geom.Point{X: v.X, Y: v.Y}
	}
	return ls
}

// Length returns the path length in meters.
func (l *LineGeometry) Length() float64 {
	if len(l.Vertices) < 2 {
		return 0
	}
	return l.LineString().Length()
}

// Bounds returns the planar extent in meters.
func (l *LineGeometry) Bounds() *geom.Bounds {
	return l.LineString().Bounds()
}

// Geographic returns the source coordinates of the vertices, in line order.
func (l *LineGeometry) Geographic() []projection.GeographicCoordinate {
	out := make([]projection.GeographicCoordinate, len(l.Vertices))
	for i, v := range l.Vertices {
		out[i] = v.Origin
	}
	return out
}

// Snap is the result of projecting a point onto the nearest line segment.
type Snap struct {
	Segment       int        // index i of segment Vertices[i]..Vertices[i+1]
	T             float64    // clamped position along the segment, 0..1
	Point         geom.Point // snapped location
	OffsetMeters  float64    // distance from the query point to Point
	DistanceAlong float64    // meters from the first vertex to Point
}

// NearestSegment snaps p onto the line. p must be in the line's frame.
// ok is false for lines with fewer than two vertices.
func (l *LineGeometry) NearestSegment(p geom.Point) (Snap, bool) {
	if len(l.Vertices) < 2 {
		return Snap{}, false
	}
	best := Snap{Segment: -1, OffsetMeters: math.MaxFloat64}
	along := 0.0
	for i := 0; i+1 < len(l.Vertices); i++ {
		ax, ay := l.Vertices[i].X, l.Vertices[i].Y
		bx, by := l.Vertices[i+1].X, l.Vertices[i+1].Y
		vx, vy := bx-ax, by-ay
		wx, wy := p.X-ax, p.Y-ay
		segLen := math.Hypot(vx, vy)
		denom := vx*vx + vy*vy
		t := 0.0
		if denom > 0 {
			t = (wx*vx + wy*vy) / denom
		}
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
		sx, sy := ax+t*vx, ay+t*vy
		d := math.Hypot(p.X-sx, p.Y-sy)
		if d < best.OffsetMeters {
			best = Snap{
				Segment:       i,
				T:             t,
				Point:         geom.Point{X: sx, Y: sy},
				OffsetMeters:  d,
				DistanceAlong: along + t*segLen,
			}
		}
		along += segLen
	}
	return best, true
}
