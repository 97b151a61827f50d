// Package tracking checks realtime vehicle positions against the shape of the
// trip they report.
//
// Each vehicle is projected with its shape's own zone transform, never its own
// local zone, and snapped onto the shape line. The result gives the planar
// offset from the shape and the distance travelled along it, both in meters.
package tracking
