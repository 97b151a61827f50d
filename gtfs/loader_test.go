package gtfs

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

var sofiaFiles = map[string]string{
	"agency.txt": "\ufeffagency_id,agency_name,agency_url,agency_timezone\n" +
		"SOFIA,Sofia Urban Mobility,https://sofiatraffic.bg,Europe/Sofia\n",
	"routes.txt": "route_id,route_short_name,route_type\nR1,1,0\nR2,2,3\n",
	"trips.txt": "route_id,service_id,trip_id,shape_id\n" +
		"R1,WK,T1,S1\nR1,WK,T2,S1\nR2,WK,T3,\n",
	"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
		"A,Alpha,42.6977,23.3219\nB,Beta,42.7000,23.3300\nC,Broken,,23.33\n",
	"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
		"T1,08:00:00,08:00:00,A,1\nT1,08:05:00,08:05:00,B,2\nT2,09:00:00,09:00:00,A,1\n",
	"shapes.txt": "shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence\n" +
		"S1,42.7000,23.3300,2\nS1,42.6977,23.3219,1\nS1,42.7010,23.3350,3\n" +
		"S2,42.6900,23.3100,1\nS2,bad,23.3200,2\n",
	"calendar.txt": "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
		"WK,1,1,1,1,1,0,0,20240101,20241231\n",
	"calendar_dates.txt": "service_id,date,exception_type\n" +
		"WK,20250105,1\nWK,20231201,2\n",
	"feed_info.txt": "feed_publisher_name\nignored\n",
}

func TestNewFeedFromBytes_LoadsFeed(t *testing.T) {
	feed, err := NewFeedFromBytes(buildZip(t, sofiaFiles))
	require.NoError(t, err)

	require.Len(t, feed.Agencies(), 1)
	assert.Equal(t, "SOFIA", feed.Agencies()[0].ID)
	assert.Equal(t, "Europe/Sofia", feed.Agencies()[0].Timezone)
	assert.Equal(t, []string{"SOFIA"}, feed.AgencyIDs())
	assert.Equal(t, 2, feed.RouteCount())
	assert.Equal(t, 3, feed.TripCount())
	assert.Equal(t, 3, feed.StopTimesCount())
	assert.Equal(t, "S1", feed.TripShapeID("T1"))
	assert.Equal(t, "", feed.TripShapeID("T3"))
}

func TestNewFeedFromBytes_ShapePointsKeepFileOrder(t *testing.T) {
	feed, err := NewFeedFromBytes(buildZip(t, sofiaFiles))
	require.NoError(t, err)

	assert.Equal(t, []string{"S1", "S2"}, feed.ShapeIDs())

	rows := feed.ShapePoints("S1")
	require.Len(t, rows, 3)
	assert.Equal(t, []int{2, 1, 3}, []int{rows[0].Sequence, rows[1].Sequence, rows[2].Sequence})
	assert.Equal(t, "S1#1", rows[0].ID)
	assert.True(t, rows[0].Parsed)

	s2 := feed.ShapePoints("S2")
	require.Len(t, s2, 2)
	assert.False(t, s2[1].Parsed)
	assert.Len(t, feed.GeometryPoints("S2"), 1)
}

func TestNewFeedFromBytes_Stops(t *testing.T) {
	feed, err := NewFeedFromBytes(buildZip(t, sofiaFiles))
	require.NoError(t, err)

	stops := feed.Stops()
	require.Len(t, stops, 3)
	assert.Equal(t, "Alpha", stops[0].Name)
	assert.InDelta(t, 42.6977, stops[0].Coordinate().Lat, 1e-9)
	assert.True(t, stops[0].Parsed)
	assert.False(t, stops[2].Parsed)
}

func TestNewFeedFromBytes_ServiceDateRange(t *testing.T) {
	feed, err := NewFeedFromBytes(buildZip(t, sofiaFiles))
	require.NoError(t, err)

	start, end, ok := feed.ServiceDateRange()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), end)
}

func TestNewFeedFromBytes_NoCalendar(t *testing.T) {
	feed, err := NewFeedFromBytes(buildZip(t, map[string]string{
		"agency.txt": "agency_name\nOnly\n",
	}))
	require.NoError(t, err)
	_, _, ok := feed.ServiceDateRange()
	assert.False(t, ok)
	assert.Equal(t, []string{"Only"}, feed.AgencyIDs())
	assert.Empty(t, feed.ShapeIDs())
}

func TestNewFeedFromBytes_NestedDirectory(t *testing.T) {
	feed, err := NewFeedFromBytes(buildZip(t, map[string]string{
		"gtfs/shapes.txt": "shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence\nX,1,2,1\n",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, feed.ShapeIDs())
}

func TestNewFeedFromBytes_NotAZip(t *testing.T) {
	_, err := NewFeedFromBytes([]byte("definitely not a zip"))
	assert.Error(t, err)
}

func TestNewFeedFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.zip")
	require.NoError(t, os.WriteFile(path, buildZip(t, sofiaFiles), 0o644))

	feed, err := NewFeedFromFile(path)
	require.NoError(t, err)
	assert.Len(t, feed.ShapeIDs(), 2)

	_, err = NewFeedFromFile(filepath.Join(t.TempDir(), "missing.zip"))
	assert.Error(t, err)
}

func TestGeodesicLength(t *testing.T) {
	feed, err := NewFeedFromBytes(buildZip(t, sofiaFiles))
	require.NoError(t, err)

	points := feed.GeometryPoints("S1")
	want := EllipsoidalMeters(42.6977, 23.3219, 42.7000, 23.3300) +
		EllipsoidalMeters(42.7000, 23.3300, 42.7010, 23.3350)
	assert.InDelta(t, want, GeodesicLength(points), 1e-6)
}

func TestEllipsoidalMeters(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want, delta            float64
	}{
		{"one degree of meridian at the equator", 0, 0, 1, 0, 110574.4, 0.5},
		{"one degree of equator", 0, 0, 0, 1, 111319.5, 0.5},
		{"one degree of meridian at 45N", 44.5, 10, 45.5, 10, 111132.0, 1},
		{"same point", 12.3, 45.6, 12.3, 45.6, 0, 0},
		{"antipodal points on the equator", 0, 0, 0, 180, 20015086.8, 50000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EllipsoidalMeters(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.want, got, tt.delta)
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("20240229")
	require.NoError(t, err)
	assert.Equal(t, time.February, d.Month())

	_, err = ParseDate("2024-02-29")
	assert.Error(t, err)
}
