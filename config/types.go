package config

// ServerConfig contains server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0,lte=65535"`
}

// LoggingConfig controls the zerolog output.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=json console"`
}

// ValidationConfig tunes the validation run
type ValidationConfig struct {
	Workers                int     `yaml:"workers" validate:"gte=0,lte=256"`
	SinglePointPolicy      string  `yaml:"singlePointPolicy" validate:"omitempty,oneof=reject allow"`
	MaxDistortionRatio     float64 `yaml:"maxDistortionRatio" validate:"gte=0,lt=1"`
	MaxVehicleOffsetMeters float64 `yaml:"maxVehicleOffsetMeters" validate:"gte=0"`
}

// GTFSConfig contains GTFS static feed configuration
type GTFSConfig struct {
	Path      string `yaml:"path" validate:"omitempty"`
	StaticURL string `yaml:"staticURL" validate:"omitempty,url"`
}

// GTFSRTConfig contains GTFS-Realtime feed configuration
type GTFSRTConfig struct {
	VehiclePositionsURL string `yaml:"vehiclePositionsURL" validate:"omitempty,url"`
	TimeoutMS           int    `yaml:"timeoutMS" validate:"gte=0"`
}

// Feed represents a single GTFS feed configuration
type Feed struct {
	Name   string       `yaml:"name" validate:"required"`
	GTFS   GTFSConfig   `yaml:"gtfs"`
	GTFSRT GTFSRTConfig `yaml:"gtfsrt"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Validation ValidationConfig `yaml:"validation"`
	Feeds      []Feed           `yaml:"feeds" validate:"dive"`
}
