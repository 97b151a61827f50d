package gtfsrt

import (
	"fmt"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/gtfs-shape-validator/projection"
)

// VehiclePosition is one vehicle entity from a VehiclePositions feed.
type VehiclePosition struct {
	EntityID   string
	VehicleID  string
	TripID     string
	Coordinate projection.GeographicCoordinate
	Timestamp  time.Time // zero when the feed omits it
}

// Snapshot is the decoded content of one VehiclePositions message.
type Snapshot struct {
	HeaderTimestamp time.Time
	Vehicles        []VehiclePosition
}

// ParseVehiclePositions decodes a FeedMessage and keeps entities that carry
// both a trip and a position.
func ParseVehiclePositions(data []byte) (*Snapshot, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("failed to decode GTFS-RT feed: %w", err)
	}
	snap := &Snapshot{}
	if ts := fm.GetHeader().GetTimestamp(); ts > 0 {
		snap.HeaderTimestamp = time.Unix(int64(ts), 0).UTC()
	}
	for _, e := range fm.GetEntity() {
		v := e.GetVehicle()
		if v == nil || v.GetPosition() == nil || v.GetTrip().GetTripId() == "" {
			continue
		}
		vp := VehiclePosition{
			EntityID:  e.GetId(),
			VehicleID: v.GetVehicle().GetId(),
			TripID:    v.GetTrip().GetTripId(),
			Coordinate: projection.GeographicCoordinate{
				Lat: float64(v.GetPosition().GetLatitude()),
				Lon: float64(v.GetPosition().GetLongitude()),
			},
		}
		if ts := v.GetTimestamp(); ts > 0 {
			vp.Timestamp = time.Unix(int64(ts), 0).UTC()
		}
		snap.Vehicles = append(snap.Vehicles, vp)
	}
	return snap, nil
}
