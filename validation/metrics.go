package validation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus collectors updated by validation runs.
type Metrics struct {
	ShapesValidated *prometheus.CounterVec
	TransformsBuilt *prometheus.CounterVec
	VehiclesChecked *prometheus.CounterVec
	RunDuration     prometheus.Histogram
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ShapesValidated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gtfs_shape_validator",
			Subsystem: "shapes",
			Name:      "validated_total",
			Help:      "Shapes processed, by outcome",
		}, []string{"outcome"}),
		TransformsBuilt: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gtfs_shape_validator",
			Subsystem: "projection",
			Name:      "transforms_built_total",
			Help:      "Zone transforms constructed, by zone",
		}, []string{"zone"}),
		VehiclesChecked: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gtfs_shape_validator",
			Subsystem: "vehicles",
			Name:      "checked_total",
			Help:      "Realtime vehicles checked against shapes, by outcome",
		}, []string{"outcome"}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gtfs_shape_validator",
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Duration of feed validation runs",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
	}
}
