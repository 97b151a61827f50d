// Package server exposes the latest validation run over HTTP.
//
// Endpoints:
//   - /api/health
//   - /api/validation.json, /api/validation.yaml
//   - /api/shapes.geojson
//   - /api/vehicles.geojson (live VehiclePositions placed on shapes)
//   - /api/refresh (POST, reruns validation)
//   - /metrics
package server
