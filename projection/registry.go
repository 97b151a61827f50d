package projection

import "fmt"

// Registry resolves EPSG codes to PROJ.4 definitions.
type Registry interface {
	Definition(code int) (string, bool)
}

// MapRegistry is a Registry backed by a fixed map.
type MapRegistry map[int]string

// Definition implements Registry.
func (m MapRegistry) Definition(code int) (string, bool) {
	def, ok := m[code]
	return def, ok
}

var defaultRegistry = buildDefaultRegistry()

// DefaultRegistry returns the WGS84 geographic frame plus all 120 WGS84 / UTM zones.
// The returned registry is read-only and shared.
func DefaultRegistry() Registry {
	return defaultRegistry
}

func buildDefaultRegistry() MapRegistry {
	m := MapRegistry{
		GeographicCode: "+proj=longlat +datum=WGS84 +no_defs",
	}
	for zone := 1; zone <= zoneCount; zone++ {
		m[northBaseCode+zone] = fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", zone)
		m[northBaseCode+southOffset+zone] = fmt.Sprintf("+proj=utm +zone=%d +south +datum=WGS84 +units=m +no_defs", zone)
	}
	return m
}
