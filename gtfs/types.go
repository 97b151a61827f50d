package gtfs

import (
	"github.com/theoremus-urban-solutions/gtfs-shape-validator/geometry"
	"github.com/theoremus-urban-solutions/gtfs-shape-validator/projection"
)

// ShapePointRecord is one row of shapes.txt.
type ShapePointRecord struct {
	ID       string // <shape_id>#<row>, row is 1-based in the data section
	ShapeID  string
	Lat      float64
	Lon      float64
	Sequence int
	Parsed   bool // false when lat, lon or sequence failed to parse
}

// Coordinate returns the record's position.
func (r ShapePointRecord) Coordinate() projection.GeographicCoordinate {
	return projection.GeographicCoordinate{Lat: r.Lat, Lon: r.Lon}
}

// ShapePoint converts the record for the geometry assembler.
func (r ShapePointRecord) ShapePoint() geometry.ShapePoint {
	return geometry.ShapePoint{
		ID:         r.ID,
		ShapeID:    r.ShapeID,
		Coordinate: r.Coordinate(),
		Sequence:   r.Sequence,
	}
}

// Stop is one row of stops.txt.
type Stop struct {
	ID     string
	Name   string
	Lat    float64
	Lon    float64
	Parsed bool
}

// Coordinate returns the stop's position.
func (s Stop) Coordinate() projection.GeographicCoordinate {
	return projection.GeographicCoordinate{Lat: s.Lat, Lon: s.Lon}
}

// Agency is one row of agency.txt.
type Agency struct {
	ID       string
	Name     string
	Timezone string
}
