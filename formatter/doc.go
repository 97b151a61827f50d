// Package formatter renders validation results.
//
// This package is organized into:
// - json.go: JSON and YAML serialization of FeedValidationResults
// - geojson.go: GeoJSON export of assembled shapes and placed vehicles
package formatter
