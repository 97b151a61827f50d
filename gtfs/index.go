package gtfs

import (
	"sort"
	"time"

	"github.com/theoremus-urban-solutions/gtfs-shape-validator/geometry"
)

// Feed stores the GTFS static data used for geometry validation.
type Feed struct {
	agencies       []Agency
	routes         map[string]struct{}           // route existence set
	tripShapeID    map[string]string             // trip_id -> shape_id
	stops          []Stop                        // stops.txt order
	shapePoints    map[string][]ShapePointRecord // shape_id -> rows in file order
	shapeOrder     []string                      // shape_ids in first-seen order
	stopTimesCount int
	serviceStart   time.Time
	serviceEnd     time.Time
}

func newFeed() *Feed {
	return &Feed{
		routes:      map[string]struct{}{},
		tripShapeID: map[string]string{},
		shapePoints: map[string][]ShapePointRecord{},
	}
}

// Agencies returns the agencies in file order.
func (g *Feed) Agencies() []Agency { return g.agencies }

// AgencyIDs returns agency ids, falling back to names for single-agency feeds
// that omit agency_id.
func (g *Feed) AgencyIDs() []string {
	out := make([]string, 0, len(g.agencies))
	for _, a := range g.agencies {
		if a.ID != "" {
			out = append(out, a.ID)
		} else {
			out = append(out, a.Name)
		}
	}
	return out
}

func (g *Feed) RouteCount() int     { return len(g.routes) }
func (g *Feed) TripCount() int      { return len(g.tripShapeID) }
func (g *Feed) StopTimesCount() int { return g.stopTimesCount }

// TripIDs returns all trip ids, sorted.
func (g *Feed) TripIDs() []string {
	ids := make([]string, 0, len(g.tripShapeID))
	for id := range g.tripShapeID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasShape reports whether shapes.txt defines shapeID.
func (g *Feed) HasShape(shapeID string) bool {
	_, ok := g.shapePoints[shapeID]
	return ok
}

// Stops returns the stops in file order.
func (g *Feed) Stops() []Stop { return g.stops }

// TripShapeID returns the shape of a trip, or "" if it has none.
func (g *Feed) TripShapeID(tripID string) string { return g.tripShapeID[tripID] }

// ShapeIDs returns all shape ids, sorted.
func (g *Feed) ShapeIDs() []string {
	ids := make([]string, len(g.shapeOrder))
	copy(ids, g.shapeOrder)
	sort.Strings(ids)
	return ids
}

// ShapePoints returns a shape's rows in file order.
func (g *Feed) ShapePoints(shapeID string) []ShapePointRecord {
	return g.shapePoints[shapeID]
}

// GeometryPoints returns a shape's parsed rows for the geometry assembler.
func (g *Feed) GeometryPoints(shapeID string) []geometry.ShapePoint {
	rows := g.shapePoints[shapeID]
	out := make([]geometry.ShapePoint, 0, len(rows))
	for _, r := range rows {
		if r.Parsed {
			out = append(out, r.ShapePoint())
		}
	}
	return out
}

// ServiceDateRange returns the first and last service dates. ok is false when
// neither calendar.txt nor calendar_dates.txt define any service.
func (g *Feed) ServiceDateRange() (start, end time.Time, ok bool) {
	if g.serviceStart.IsZero() {
		return time.Time{}, time.Time{}, false
	}
	return g.serviceStart, g.serviceEnd, true
}

func (g *Feed) extendServiceRange(d time.Time) {
	if g.serviceStart.IsZero() || d.Before(g.serviceStart) {
		g.serviceStart = d
	}
	if g.serviceEnd.IsZero() || d.After(g.serviceEnd) {
		g.serviceEnd = d
	}
}
