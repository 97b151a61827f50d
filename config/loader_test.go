package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
logging:
  level: debug
  format: json
validation:
  workers: 8
  singlePointPolicy: allow
feeds:
  - name: sofia
    gtfs:
      path: feeds/sofia.zip
    gtfsrt:
      vehiclePositionsURL: https://example.org/vp.pb
  - name: nyc
    gtfs:
      staticURL: https://example.org/nyc.zip
`

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 8, cfg.Validation.Workers)
	assert.Equal(t, "allow", cfg.Validation.SinglePointPolicy)
	assert.Equal(t, 0.005, cfg.Validation.MaxDistortionRatio)
	assert.Equal(t, 100.0, cfg.Validation.MaxVehicleOffsetMeters)
	require.Len(t, cfg.Feeds, 2)
	assert.Equal(t, 10000, cfg.Feeds[0].GTFSRT.TimeoutMS)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 16181, cfg.Server.Port)
	assert.Equal(t, "reject", cfg.Validation.SinglePointPolicy)
	assert.Empty(t, cfg.Feeds)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "invalid: yaml: content: [[["},
		{"bad policy", "validation:\n  singlePointPolicy: merge\n"},
		{"bad level", "logging:\n  level: loud\n"},
		{"negative workers", "validation:\n  workers: -1\n"},
		{"feed without name", "feeds:\n  - gtfs:\n      path: a.zip\n"},
		{"bad port", "server:\n  port: 70000\n"},
		{"bad url", "feeds:\n  - name: x\n    gtfs:\n      staticURL: not a url\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestSelectFeed(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	f, ok := cfg.SelectFeed("nyc")
	require.True(t, ok)
	assert.Equal(t, "https://example.org/nyc.zip", f.GTFS.StaticURL)

	f, ok = cfg.SelectFeed("")
	require.True(t, ok)
	assert.Equal(t, "sofia", f.Name)

	_, ok = cfg.SelectFeed("paris")
	assert.False(t, ok)

	_, ok = (&AppConfig{}).SelectFeed("")
	assert.False(t, ok)
}

func TestLoadAppConfig(t *testing.T) {
	orig, origPaths := Config, DefaultPaths
	defer func() { Config, DefaultPaths = orig, origPaths }()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	DefaultPaths = []string{filepath.Join(dir, "missing.yml"), path}
	require.NoError(t, LoadAppConfig())
	assert.Len(t, Config.Feeds, 2)

	DefaultPaths = []string{filepath.Join(dir, "missing.yml")}
	assert.ErrorIs(t, LoadAppConfig(), os.ErrNotExist)
}
