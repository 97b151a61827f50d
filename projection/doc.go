/*
Package projection converts WGS84 geographic coordinates into the UTM zone that
is local to them, so that distance, length and area can be computed with plain
Euclidean arithmetic.

# Axis order

Every exported API in this package, and every package that uses it, deals in
(latitude, longitude) order through GeographicCoordinate. The underlying
transform library works in (longitude, latitude) order. The swap between the two
happens in exactly one place per direction (toLibraryOrder and
fromLibraryOrder); callers must never pre-swap coordinates.

# Sessions

Building a zone transform is comparatively expensive. A TransformCache holds the
transforms built during one processing session (for example one feed validation
run). It is owned by the caller and passed to NewProjector; there is no
package-level cache.

	cache := projection.NewTransformCache()
	p := projection.NewProjector(cache, nil)

	pc, err := p.Project(projection.GeographicCoordinate{Lat: 40.7128, Lon: -74.0060})
	if err != nil {
	    return err
	}
	// pc.Transform.Zone() == 32618

The cache is safe for concurrent use: each zone is built once under a lock and
shared read-only afterwards.
*/
package projection
