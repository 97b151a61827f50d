package formatter

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/theoremus-urban-solutions/gtfs-shape-validator/validation"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatGeoJSON Format = "geojson"
)

// ParseFormat accepts json, yaml or geojson.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatYAML, FormatGeoJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// BuildJSON serializes validation results to indented JSON
func BuildJSON(res *validation.FeedValidationResults) ([]byte, error) {
	return json.MarshalIndent(res, "", "  ")
}

// BuildYAML serializes validation results to YAML
func BuildYAML(res *validation.FeedValidationResults) ([]byte, error) {
	return yaml.Marshal(res)
}
