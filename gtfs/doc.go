/*
Package gtfs loads the parts of a GTFS static feed needed for shape and stop
geometry validation.

This package is data-source agnostic - it accepts raw zip bytes, an io.ReaderAt
or a local path and builds an in-memory Feed. It does NOT handle HTTP downloads.

# Basic Usage

	feed, err := gtfs.NewFeedFromFile("sofia-static.zip")
	if err != nil {
	    log.Fatal(err)
	}

	for _, shapeID := range feed.ShapeIDs() {
	    points := feed.ShapePoints(shapeID) // file order, not sorted
	    ...
	}

# Shape Points

Shape points are returned in the order they appear in shapes.txt. Ordering by
shape_pt_sequence, and the handling of duplicate sequence numbers, belongs to
the geometry package. Rows whose coordinates could not be parsed are kept with
Parsed set to false so they surface as findings instead of disappearing.

# Statistics

The loader records the counts and the service date range reported by the
validation results: agencies, routes, trips, stop_times rows, and the first and
last service dates from calendar.txt and calendar_dates.txt.
*/
package gtfs
