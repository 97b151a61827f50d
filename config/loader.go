package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPaths are searched in order by LoadAppConfig.
var DefaultPaths = []string{"config.yml", "./config/config.yml"}

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads the first readable file from DefaultPaths into Config.
func LoadAppConfig() error {
	var lastErr error
	for _, p := range DefaultPaths {
		cfg, err := Load(p)
		if errors.Is(err, os.ErrNotExist) {
			lastErr = err
			continue
		}
		if err != nil {
			return err
		}
		Config = *cfg
		return nil
	}
	return lastErr
}

// Load reads, defaults and validates one configuration file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates it.
func Parse(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.applyDefaults()
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 16181
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Validation.Workers == 0 {
		c.Validation.Workers = 4
	}
	if c.Validation.SinglePointPolicy == "" {
		c.Validation.SinglePointPolicy = "reject"
	}
	if c.Validation.MaxDistortionRatio == 0 {
		c.Validation.MaxDistortionRatio = 0.005
	}
	if c.Validation.MaxVehicleOffsetMeters == 0 {
		c.Validation.MaxVehicleOffsetMeters = 100
	}
	for i := range c.Feeds {
		if c.Feeds[i].GTFSRT.TimeoutMS == 0 {
			c.Feeds[i].GTFSRT.TimeoutMS = 10000
		}
	}
}

// SelectFeed chooses a feed by name, falling back to the first one.
func (c *AppConfig) SelectFeed(name string) (Feed, bool) {
	if name != "" {
		for _, f := range c.Feeds {
			if f.Name == name {
				return f, true
			}
		}
		return Feed{}, false
	}
	if len(c.Feeds) > 0 {
		return c.Feeds[0], true
	}
	return Feed{}, false
}
