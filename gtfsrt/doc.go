// Package gtfsrt decodes GTFS-Realtime VehiclePositions feeds.
//
// Only what is needed to check vehicles against their trip's shape is kept:
// vehicle id, trip id, position and timestamp. Decoding takes raw protobuf
// bytes; Client fetches them over HTTP, retrying transient failures.
package gtfsrt
