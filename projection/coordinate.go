package projection

import (
	"fmt"
	"math"
)

// GeographicCoordinate is a WGS84 point in decimal degrees.
type GeographicCoordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Validate reports an OutOfRangeError when the coordinate is not a point on Earth.
func (c GeographicCoordinate) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return &OutOfRangeError{Field: "latitude", Value: c.Lat}
	}
	if math.IsNaN(c.Lon) || c.Lon < -180 || c.Lon > 180 {
		return &OutOfRangeError{Field: "longitude", Value: c.Lon}
	}
	return nil
}

func (c GeographicCoordinate) String() string {
	return fmt.Sprintf("(%.7f, %.7f)", c.Lat, c.Lon)
}

// ProjectedCoordinate is a point in a zone's planar frame, in meters.
// It is only meaningful relative to Transform.
type ProjectedCoordinate struct {
	X         float64
	Y         float64
	Transform *ZoneTransform
	Origin    GeographicCoordinate
}

// Finite reports whether both ordinates are usable numbers.
func (p ProjectedCoordinate) Finite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// Zone returns the zone of the transform that produced p, or 0 if none.
func (p ProjectedCoordinate) Zone() ZoneID {
	if p.Transform == nil {
		return 0
	}
	return p.Transform.Zone()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// toLibraryOrder is the single point where geographic order becomes the
// transform library's (lon, lat) order.
func toLibraryOrder(c GeographicCoordinate) (x, y float64) {
	return c.Lon, c.Lat
}

// fromLibraryOrder is the inverse of toLibraryOrder.
func fromLibraryOrder(x, y float64) GeographicCoordinate {
	return GeographicCoordinate{Lat: y, Lon: x}
}
