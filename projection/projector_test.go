package projection

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference values computed with the Krüger series for WGS84.
func TestProject_KnownPoints(t *testing.T) {
	tests := []struct {
		name     string
		coord    GeographicCoordinate
		wantZone ZoneID
		wantX    float64
		wantY    float64
	}{
		{"new york", GeographicCoordinate{Lat: 40.7128, Lon: -74.0060}, 32618, 583959.37, 4507351.00},
		{"sydney", GeographicCoordinate{Lat: -33.8688, Lon: 151.2093}, 32756, 334368.63, 6250948.35},
	}
	p := NewProjector(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc, err := p.Project(tt.coord)
			require.NoError(t, err)
			assert.Equal(t, tt.wantZone, pc.Zone())
			assert.InDelta(t, tt.wantX, pc.X, 1.0)
			assert.InDelta(t, tt.wantY, pc.Y, 1.0)
			assert.Equal(t, tt.coord, pc.Origin)
			assert.True(t, pc.Finite())
		})
	}
}

func TestProject_RoundTrip(t *testing.T) {
	coords := []GeographicCoordinate{
		{Lat: 40.7128, Lon: -74.0060},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 42.6977, Lon: 23.3219},
		{Lat: 0, Lon: 0},
		{Lat: -0.5, Lon: -179.9},
		{Lat: 64.1466, Lon: -21.9426},
		{Lat: -54.8019, Lon: -68.3030},
		{Lat: 1.3521, Lon: 103.8198},
	}
	p := NewProjector(NewTransformCache(), nil)
	for _, c := range coords {
		t.Run(c.String(), func(t *testing.T) {
			pc, err := p.Project(c)
			require.NoError(t, err)

			zone, err := p.ZoneIdentifierFor(c)
			require.NoError(t, err)
			tr, err := p.TransformFor(zone)
			require.NoError(t, err)
			assert.Same(t, tr, pc.Transform)

			back, err := p.Unproject(tr, pc.X, pc.Y)
			require.NoError(t, err)
			assert.InDelta(t, c.Lat, back.Lat, 1e-6)
			assert.InDelta(t, c.Lon, back.Lon, 1e-6)
		})
	}
}

func TestProject_OutOfRange(t *testing.T) {
	p := NewProjector(nil, nil)
	for _, c := range []GeographicCoordinate{
		{Lat: 10, Lon: 181},
		{Lat: 10, Lon: -200},
		{Lat: 91, Lon: 10},
		{Lat: math.NaN(), Lon: 10},
	} {
		_, err := p.Project(c)
		assert.ErrorIs(t, err, ErrOutOfRange, c.String())
	}
	assert.Zero(t, p.Cache().Len())
}

func TestProjectWith_UsesGivenZone(t *testing.T) {
	p := NewProjector(nil, nil)
	zone18, err := p.TransformFor(32618)
	require.NoError(t, err)

	// -71.99 lies in zone 19 but must be expressed in zone 18.
	pc, err := p.ProjectWith(zone18, GeographicCoordinate{Lat: 41, Lon: -71.99})
	require.NoError(t, err)
	assert.Equal(t, ZoneID(32618), pc.Zone())
	assert.InDelta(t, 753162.03, pc.X, 1.0)
	assert.InDelta(t, 4543121.92, pc.Y, 1.0)
}

func TestUnproject_NonFinite(t *testing.T) {
	p := NewProjector(nil, nil)
	tr, err := p.TransformFor(32618)
	require.NoError(t, err)

	_, err = p.Unproject(tr, math.NaN(), 0)
	assert.ErrorIs(t, err, ErrNonFinite)
	_, err = p.Unproject(tr, 0, math.Inf(1))
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestTransformFor_UnsupportedZone(t *testing.T) {
	registry := MapRegistry{
		GeographicCode: DefaultRegistry().(MapRegistry)[GeographicCode],
	}
	p := NewProjector(nil, registry)

	_, err := p.TransformFor(32618)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedZone))

	var zoneErr *UnsupportedZoneError
	require.True(t, errors.As(err, &zoneErr))
	assert.Equal(t, ZoneID(32618), zoneErr.Zone)

	_, err = p.Project(GeographicCoordinate{Lat: 40.7128, Lon: -74.0060})
	assert.ErrorIs(t, err, ErrUnsupportedZone)
	assert.Zero(t, p.Cache().Len(), "failures must not be cached")
}

func TestTransformFor_MissingGeographicFrame(t *testing.T) {
	p := NewProjector(nil, MapRegistry{})
	_, err := p.TransformFor(32618)
	assert.ErrorIs(t, err, ErrUnsupportedZone)
}

func TestTransformFor_BadDefinition(t *testing.T) {
	registry := MapRegistry{
		GeographicCode: "+proj=longlat +datum=WGS84 +no_defs",
		32618:          "+proj=not-a-projection",
	}
	p := NewProjector(nil, registry)
	_, err := p.TransformFor(32618)
	assert.ErrorIs(t, err, ErrUnsupportedZone)
	assert.Equal(t, 0, p.Cache().Len(), "failed transform must not be cached")

	_, err = p.Project(GeographicCoordinate{Lat: 40.7128, Lon: -74.0060})
	assert.ErrorIs(t, err, ErrUnsupportedZone)
	assert.Equal(t, 0, p.Cache().Len())
}

func TestDefaultRegistry_CoversAllZones(t *testing.T) {
	reg := DefaultRegistry()
	_, ok := reg.Definition(GeographicCode)
	assert.True(t, ok)
	for zone := 1; zone <= 60; zone++ {
		_, north := reg.Definition(32600 + zone)
		_, south := reg.Definition(32700 + zone)
		assert.True(t, north && south, "zone %d", zone)
	}
	_, ok = reg.Definition(32661)
	assert.False(t, ok)
}

func TestTransformCache_SessionScoped(t *testing.T) {
	first := NewTransformCache()
	second := NewTransformCache()

	a, err := NewProjector(first, nil).TransformFor(32618)
	require.NoError(t, err)
	again, err := NewProjector(first, nil).TransformFor(32618)
	require.NoError(t, err)
	other, err := NewProjector(second, nil).TransformFor(32618)
	require.NoError(t, err)

	assert.Same(t, a, again)
	assert.NotSame(t, a, other)
	assert.Equal(t, 1, first.Len())
	assert.Equal(t, 1, second.Len())
}

func TestTransformCache_ConcurrentBuildOnce(t *testing.T) {
	cache := NewTransformCache()
	var builds int
	cache.OnBuild(func(ZoneID) { builds++ })
	p := NewProjector(cache, nil)

	var wg sync.WaitGroup
	results := make([]*ZoneTransform, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tr, err := p.TransformFor(32756)
			if err == nil {
				results[i] = tr
			}
		}(i)
	}
	wg.Wait()

	for _, tr := range results {
		assert.Same(t, results[0], tr)
	}
	assert.Equal(t, 1, builds)
	assert.Equal(t, []ZoneID{32756}, cache.Zones())
}
