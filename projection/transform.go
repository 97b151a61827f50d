package projection

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ctessum/geom/proj"
)

// ZoneTransform maps between WGS84 and one zone's planar frame.
// It is immutable once built and safe to share.
type ZoneTransform struct {
	zone    ZoneID
	forward proj.Transformer
	inverse proj.Transformer
}

// Zone returns the EPSG code of the planar frame.
func (t *ZoneTransform) Zone() ZoneID { return t.zone }

// Forward exposes the library-order transform, for use with geom.Geom.Transform.
func (t *ZoneTransform) Forward() proj.Transformer { return t.forward }

// Inverse exposes the library-order inverse transform.
func (t *ZoneTransform) Inverse() proj.Transformer { return t.inverse }

func newZoneTransform(zone ZoneID, registry Registry) (*ZoneTransform, error) {
	geoDef, ok := registry.Definition(GeographicCode)
	if !ok {
		return nil, &UnsupportedZoneError{Zone: zone, Err: errors.New("registry has no geographic frame")}
	}
	zoneDef, ok := registry.Definition(int(zone))
	if !ok {
		return nil, &UnsupportedZoneError{Zone: zone}
	}
	geoSR, err := proj.Parse(geoDef)
	if err != nil {
		return nil, &UnsupportedZoneError{Zone: zone, Err: err}
	}
	zoneSR, err := proj.Parse(zoneDef)
	if err != nil {
		return nil, &UnsupportedZoneError{Zone: zone, Err: err}
	}
	forward, err := geoSR.NewTransform(zoneSR)
	if err != nil {
		return nil, &UnsupportedZoneError{Zone: zone, Err: err}
	}
	inverse, err := zoneSR.NewTransform(geoSR)
	if err != nil {
		return nil, &UnsupportedZoneError{Zone: zone, Err: err}
	}
	t := &ZoneTransform{zone: zone, forward: forward, inverse: inverse}
	if err := t.selfCheck(); err != nil {
		return nil, &UnsupportedZoneError{Zone: zone, Err: err}
	}
	return t, nil
}

// selfCheck round-trips the zone's central meridian on the equator. Some
// definitions parse cleanly but only fail once a point is transformed.
func (t *ZoneTransform) selfCheck() error {
	lon0 := float64(t.zone.ZoneNumber()*6 - 183)
	x, y, err := t.forward(lon0, 0)
	if err != nil {
		return fmt.Errorf("forward transform: %w", err)
	}
	if !isFinite(x) || !isFinite(y) {
		return fmt.Errorf("forward transform of central meridian gave (%v, %v)", x, y)
	}
	lx, ly, err := t.inverse(x, y)
	if err != nil {
		return fmt.Errorf("inverse transform: %w", err)
	}
	if !isFinite(lx) || !isFinite(ly) {
		return fmt.Errorf("inverse transform of central meridian gave (%v, %v)", lx, ly)
	}
	return nil
}

// TransformCache holds the transforms built during one processing session.
type TransformCache struct {
	mu         sync.Mutex
	transforms map[ZoneID]*ZoneTransform
	onBuild    func(ZoneID)
}

// NewTransformCache creates an empty session cache.
func NewTransformCache() *TransformCache {
	return &TransformCache{transforms: map[ZoneID]*ZoneTransform{}}
}

// OnBuild registers a hook called (under the cache lock) whenever a new zone
// transform is constructed. Intended for metrics.
func (c *TransformCache) OnBuild(fn func(ZoneID)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onBuild = fn
}

// Len returns the number of zones built so far.
func (c *TransformCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.transforms)
}

// Zones returns the cached zones in ascending order.
func (c *TransformCache) Zones() []ZoneID {
	c.mu.Lock()
	defer c.mu.Unlock()
	zones := make([]ZoneID, 0, len(c.transforms))
	for z := range c.transforms {
		zones = append(zones, z)
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i] < zones[j] })
	return zones
}

// getOrBuild holds the lock for the whole construction so a zone is only
// ever built once per session. Failures are not cached.
func (c *TransformCache) getOrBuild(zone ZoneID, registry Registry) (*ZoneTransform, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.transforms[zone]; ok {
		return t, nil
	}
	t, err := newZoneTransform(zone, registry)
	if err != nil {
		return nil, err
	}
	c.transforms[zone] = t
	if c.onBuild != nil {
		c.onBuild(zone)
	}
	return t, nil
}
