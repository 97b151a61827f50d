package gtfs

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/theoremus-urban-solutions/gtfs-shape-validator/geometry"
)

// WGS84 ellipsoid.
const (
	wgs84A = 6378137.0
	wgs84F = 1 / 298.257223563
	wgs84B = wgs84A * (1 - wgs84F)
)

// EllipsoidalMeters returns the WGS84 geodesic distance between two points
// (Vincenty inverse). Nearly antipodal pairs, where the iteration does not
// converge, fall back to the haversine distance.
func EllipsoidalMeters(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	L := (lon2 - lon1) * rad
	u1 := math.Atan((1 - wgs84F) * math.Tan(lat1*rad))
	u2 := math.Atan((1 - wgs84F) * math.Tan(lat2*rad))
	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	lambda := L
	var sinSigma, cosSigma, sigma, cos2Alpha, cos2SigmaM float64
	converged := false
	for i := 0; i < 200; i++ {
		sinL, cosL := math.Sincos(lambda)
		sinSigma = math.Hypot(cosU2*sinL, cosU1*sinU2-sinU1*cosU2*cosL)
		if sinSigma == 0 {
			return 0
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosL
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha := cosU1 * cosU2 * sinL / sinSigma
		cos2Alpha = 1 - sinAlpha*sinAlpha
		cos2SigmaM = 0
		if cos2Alpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cos2Alpha
		}
		c := wgs84F / 16 * cos2Alpha * (4 + wgs84F*(4-3*cos2Alpha))
		prev := lambda
		lambda = L + (1-c)*wgs84F*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		if math.Abs(lambda-prev) < 1e-12 {
			converged = true
			break
		}
	}
	if !converged {
		return geo.DistanceHaversine(orb.Point{lon1, lat1}, orb.Point{lon2, lat2})
	}

	uSq := cos2Alpha * (wgs84A*wgs84A - wgs84B*wgs84B) / (wgs84B * wgs84B)
	a := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	b := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := b * sinSigma * (cos2SigmaM + b/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		b/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
	return wgs84B * a * (sigma - deltaSigma)
}

// GeodesicLength sums ellipsoidal distances along points in sequence order.
// It is the ground-truth cross-check for a projected line length.
func GeodesicLength(points []geometry.ShapePoint) float64 {
	ordered := geometry.SortBySequence(points)
	total := 0.0
	for i := 1; i < len(ordered); i++ {
		a, b := ordered[i-1].Coordinate, ordered[i].Coordinate
		total += EllipsoidalMeters(a.Lat, a.Lon, b.Lat, b.Lon)
	}
	return total
}
