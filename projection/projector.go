package projection

import "fmt"

// Projector converts coordinates between WGS84 and UTM zone frames.
type Projector struct {
	cache    *TransformCache
	registry Registry
}

// NewProjector creates a projector over a caller-owned session cache.
// A nil cache gets a fresh one; a nil registry uses DefaultRegistry.
func NewProjector(cache *TransformCache, registry Registry) *Projector {
	if cache == nil {
		cache = NewTransformCache()
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Projector{cache: cache, registry: registry}
}

// Cache returns the session cache the projector writes to.
func (p *Projector) Cache() *TransformCache { return p.cache }

// ZoneIdentifierFor returns the zone that is local to c.
func (p *Projector) ZoneIdentifierFor(c GeographicCoordinate) (ZoneID, error) {
	return ZoneIdentifierFor(c)
}

// TransformFor returns the session's transform for zone, building it on first use.
func (p *Projector) TransformFor(zone ZoneID) (*ZoneTransform, error) {
	return p.cache.getOrBuild(zone, p.registry)
}

// Project converts c using the zone local to c.
func (p *Projector) Project(c GeographicCoordinate) (ProjectedCoordinate, error) {
	if err := c.Validate(); err != nil {
		return ProjectedCoordinate{}, err
	}
	zone, err := ZoneIdentifierFor(c)
	if err != nil {
		return ProjectedCoordinate{}, err
	}
	t, err := p.TransformFor(zone)
	if err != nil {
		return ProjectedCoordinate{}, err
	}
	return p.ProjectWith(t, c)
}

// ProjectWith converts c using t, regardless of which zone c falls in.
func (p *Projector) ProjectWith(t *ZoneTransform, c GeographicCoordinate) (ProjectedCoordinate, error) {
	if err := c.Validate(); err != nil {
		return ProjectedCoordinate{}, err
	}
	lx, ly := toLibraryOrder(c)
	x, y, err := t.forward(lx, ly)
	if err != nil {
		return ProjectedCoordinate{}, fmt.Errorf("project into EPSG:%d: %w", int(t.zone), err)
	}
	if !isFinite(x) || !isFinite(y) {
		return ProjectedCoordinate{}, &NonFiniteError{Zone: t.zone, X: x, Y: y}
	}
	return ProjectedCoordinate{X: x, Y: y, Transform: t, Origin: c}, nil
}

// Unproject converts planar (x, y) in t's frame back to WGS84.
func (p *Projector) Unproject(t *ZoneTransform, x, y float64) (GeographicCoordinate, error) {
	if !isFinite(x) || !isFinite(y) {
		return GeographicCoordinate{}, &NonFiniteError{Zone: t.zone, X: x, Y: y}
	}
	lx, ly, err := t.inverse(x, y)
	if err != nil {
		return GeographicCoordinate{}, fmt.Errorf("unproject from EPSG:%d: %w", int(t.zone), err)
	}
	if !isFinite(lx) || !isFinite(ly) {
		return GeographicCoordinate{}, &NonFiniteError{Zone: t.zone, X: lx, Y: ly}
	}
	return fromLibraryOrder(lx, ly), nil
}
