package formatter

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/theoremus-urban-solutions/gtfs-shape-validator/geometry"
	"github.com/theoremus-urban-solutions/gtfs-shape-validator/tracking"
	"github.com/theoremus-urban-solutions/gtfs-shape-validator/validation"
)

// BuildGeoJSON exports every assembled shape as a LineString feature and every
// placed vehicle as a Point feature. Shape vertices are converted back from
// their projected zone, so the output shows what validation actually measured.
func BuildGeoJSON(s *validation.Session, vehicles []tracking.Result) ([]byte, error) {
	fc, err := FeatureCollection(s, vehicles)
	if err != nil {
		return nil, err
	}
	return fc.MarshalJSON()
}

// FeatureCollection builds the collection serialized by BuildGeoJSON.
func FeatureCollection(s *validation.Session, vehicles []tracking.Result) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for _, line := range s.Lines() {
		f, err := shapeFeature(s, line)
		if err != nil {
			return nil, err
		}
		fc.Append(f)
	}
	for _, r := range vehicles {
		if r.Outcome != tracking.OutcomePlaced {
			continue
		}
		v := r.Offset.Vehicle
		f := geojson.NewFeature(orb.Point{v.Coordinate.Lon, v.Coordinate.Lat})
		f.Properties["kind"] = "vehicle"
		f.Properties["vehicle_id"] = v.VehicleID
		f.Properties["trip_id"] = v.TripID
		f.Properties["shape_id"] = r.Offset.ShapeID
		f.Properties["offset_m"] = r.Offset.OffsetMeters
		f.Properties["distance_along_m"] = r.Offset.DistanceAlong
		fc.Append(f)
	}
	return fc, nil
}

func shapeFeature(s *validation.Session, line *geometry.LineGeometry) (*geojson.Feature, error) {
	ls := make(orb.LineString, 0, len(line.Vertices))
	for _, v := range line.Vertices {
		c, err := s.Projector.Unproject(line.Transform(), v.X, v.Y)
		if err != nil {
			return nil, fmt.Errorf("shape %s: %w", line.ShapeID, err)
		}
		ls = append(ls, orb.Point{c.Lon, c.Lat})
	}
	var g orb.Geometry = ls
	if len(ls) == 1 {
		g = ls[0]
	}
	f := geojson.NewFeature(g)
	f.ID = line.ShapeID
	f.Properties["kind"] = "shape"
	f.Properties["shape_id"] = line.ShapeID
	f.Properties["epsg"] = int(line.Zone())
	f.Properties["length_m"] = line.Length()
	f.Properties["vertices"] = len(line.Vertices)
	return f, nil
}
