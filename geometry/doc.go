// Package geometry assembles GTFS shape points into a single line in one UTM
// zone's planar frame.
//
// The zone is chosen once per shape from its first point in sequence order; all
// vertices are expressed in that zone even if the shape crosses a zone boundary,
// so lengths and offsets computed on the result are directly comparable.
package geometry
