package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var consumedFiles = map[string]bool{
	"agency.txt":         true,
	"routes.txt":         true,
	"trips.txt":          true,
	"stops.txt":          true,
	"stop_times.txt":     true,
	"shapes.txt":         true,
	"calendar.txt":       true,
	"calendar_dates.txt": true,
}

// NewFeedFromBytes parses a GTFS zip held in memory.
func NewFeedFromBytes(data []byte) (*Feed, error) {
	return NewFeedFromReader(bytes.NewReader(data), int64(len(data)))
}

// NewFeedFromReader parses a GTFS zip from any io.ReaderAt.
func NewFeedFromReader(r io.ReaderAt, size int64) (*Feed, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open GTFS zip: %w", err)
	}
	return loadZip(zr.File)
}

// NewFeedFromFile opens a local GTFS zip file.
func NewFeedFromFile(path string) (*Feed, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open GTFS zip %s: %w", path, err)
	}
	defer zr.Close()
	return loadZip(zr.File)
}

func loadZip(files []*zip.File) (*Feed, error) {
	g := newFeed()
	for _, f := range files {
		name := strings.ToLower(baseName(f.Name))
		if !consumedFiles[name] {
			continue
		}
		if err := g.consumeCSV(name, f); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return g, nil
}

// baseName strips a leading directory, as produced by zipping a folder.
func baseName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func (g *Feed) consumeCSV(name string, f *zip.File) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	rec, err := csvr.ReadAll()
	if err != nil {
		return err
	}
	if len(rec) == 0 {
		return nil
	}
	head := rec[0]
	if len(head) > 0 {
		head[0] = strings.TrimPrefix(head[0], "\ufeff")
	}
	idx := func(col string) int {
		for i, h := range head {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				return i
			}
		}
		return -1
	}
	field := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	switch name {
	case "agency.txt":
		agID := idx("agency_id")
		agName := idx("agency_name")
		agTZ := idx("agency_timezone")
		for _, row := range rec[1:] {
			g.agencies = append(g.agencies, Agency{
				ID:       field(row, agID),
				Name:     field(row, agName),
				Timezone: field(row, agTZ),
			})
		}
	case "routes.txt":
		rID := idx("route_id")
		for _, row := range rec[1:] {
			if id := field(row, rID); id != "" {
				g.routes[id] = struct{}{}
			}
		}
	case "trips.txt":
		tID := idx("trip_id")
		sh := idx("shape_id")
		for _, row := range rec[1:] {
			if id := field(row, tID); id != "" {
				g.tripShapeID[id] = field(row, sh)
			}
		}
	case "stops.txt":
		sID := idx("stop_id")
		sN := idx("stop_name")
		sLat := idx("stop_lat")
		sLon := idx("stop_lon")
		for _, row := range rec[1:] {
			lat, errLat := strconv.ParseFloat(field(row, sLat), 64)
			lon, errLon := strconv.ParseFloat(field(row, sLon), 64)
			g.stops = append(g.stops, Stop{
				ID:     field(row, sID),
				Name:   field(row, sN),
				Lat:    lat,
				Lon:    lon,
				Parsed: errLat == nil && errLon == nil,
			})
		}
	case "stop_times.txt":
		g.stopTimesCount += len(rec) - 1
	case "shapes.txt":
		sh := idx("shape_id")
		latIdx := idx("shape_pt_lat")
		lonIdx := idx("shape_pt_lon")
		seqIdx := idx("shape_pt_sequence")
		if sh < 0 {
			return nil
		}
		for i, row := range rec[1:] {
			shapeID := field(row, sh)
			lat, errLat := strconv.ParseFloat(field(row, latIdx), 64)
			lon, errLon := strconv.ParseFloat(field(row, lonIdx), 64)
			seq, errSeq := strconv.Atoi(field(row, seqIdx))
			if _, seen := g.shapePoints[shapeID]; !seen {
				g.shapeOrder = append(g.shapeOrder, shapeID)
			}
			g.shapePoints[shapeID] = append(g.shapePoints[shapeID], ShapePointRecord{
				ID:       shapeID + "#" + strconv.Itoa(i+1),
				ShapeID:  shapeID,
				Lat:      lat,
				Lon:      lon,
				Sequence: seq,
				Parsed:   errLat == nil && errLon == nil && errSeq == nil,
			})
		}
	case "calendar.txt":
		startIdx := idx("start_date")
		endIdx := idx("end_date")
		for _, row := range rec[1:] {
			if d, err := ParseDate(field(row, startIdx)); err == nil {
				g.extendServiceRange(d)
			}
			if d, err := ParseDate(field(row, endIdx)); err == nil {
				g.extendServiceRange(d)
			}
		}
	case "calendar_dates.txt":
		dateIdx := idx("date")
		exIdx := idx("exception_type")
		for _, row := range rec[1:] {
			// exception_type 2 removes service and cannot widen the range
			if field(row, exIdx) != "1" {
				continue
			}
			if d, err := ParseDate(field(row, dateIdx)); err == nil {
				g.extendServiceRange(d)
			}
		}
	}
	return nil
}

// ParseDate parses a GTFS YYYYMMDD service date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("20060102", s)
}
