// Package validation runs the geometry checks over one GTFS feed and collects
// the findings and statistics into a FeedValidationResults.
//
// A run owns one projection.TransformCache, shared by all workers, so every zone
// transform is built at most once per feed and nothing leaks between runs.
// Failures for a single shape or stop become findings; only a cancelled context
// aborts a run, and re-running with the same inputs yields the same results.
package validation
