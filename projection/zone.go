package projection

import "math"

// ZoneID is the EPSG code of a WGS84 / UTM zone, e.g. 32618 for zone 18 north.
type ZoneID int

const (
	// GeographicCode is the EPSG code of the WGS84 geographic frame.
	GeographicCode = 4326

	northBaseCode = 32600
	southOffset   = 100
	zoneCount     = 60
	zoneWidthDeg  = 6.0
)

// ZoneNumber returns the 1-60 longitude band.
func (z ZoneID) ZoneNumber() int {
	return int(z) % southOffset
}

// South reports whether z is a southern hemisphere zone.
func (z ZoneID) South() bool {
	return int(z)-northBaseCode >= southOffset
}

// Valid reports whether z belongs to the 120 WGS84 / UTM codes.
func (z ZoneID) Valid() bool {
	n := z.ZoneNumber()
	base := int(z) - n
	return n >= 1 && n <= zoneCount && (base == northBaseCode || base == northBaseCode+southOffset)
}

// UTMZoneForLongitude returns the 1-60 longitude band of lon.
// A longitude of exactly 180 belongs to zone 60.
func UTMZoneForLongitude(lon float64) (int, error) {
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return 0, &OutOfRangeError{Field: "longitude", Value: lon}
	}
	zone := int(math.Floor((lon + 180) / zoneWidthDeg))
	if zone == zoneCount {
		zone--
	}
	return zone + 1, nil
}

// ZoneIdentifierFor returns the zone that is local to c.
func ZoneIdentifierFor(c GeographicCoordinate) (ZoneID, error) {
	number, err := UTMZoneForLongitude(c.Lon)
	if err != nil {
		return 0, err
	}
	code := northBaseCode
	if c.Lat < 0 {
		code += southOffset
	}
	return ZoneID(code + number), nil
}
