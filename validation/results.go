package validation

import "time"

// LoadStatus tells whether the feed could be read at all.
type LoadStatus string

const (
	LoadSuccess LoadStatus = "SUCCESS"
	LoadFailure LoadStatus = "FAILURE"
)

// Priority ranks findings.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Problem types reported by this package.
const (
	ProblemInvalidShapePoint       = "InvalidShapePoint"
	ProblemUnparsableShapePoint    = "UnparsableShapePoint"
	ProblemInsufficientShapePoints = "InsufficientShapePoints"
	ProblemUnsupportedZone         = "UnsupportedZone"
	ProblemShapeDistortion         = "ShapeProjectionDistortion"
	ProblemInvalidStopCoordinate   = "InvalidStopCoordinate"
	ProblemUnparsableStop          = "UnparsableStopCoordinate"
	ProblemMissingShape            = "MissingShape"
	ProblemVehicleOffShape         = "VehicleOffShape"
	ProblemVehiclePosition         = "InvalidVehiclePosition"
)

// InvalidValue is one finding.
type InvalidValue struct {
	AffectedEntity     string   `json:"affectedEntity" yaml:"affectedEntity"`
	AffectedField      string   `json:"affectedField" yaml:"affectedField"`
	AffectedEntityID   string   `json:"affectedEntityId" yaml:"affectedEntityId"`
	Problem            string   `json:"problem" yaml:"problem"`
	ProblemDescription string   `json:"problemDescription" yaml:"problemDescription"`
	Priority           Priority `json:"priority" yaml:"priority"`
}

// ValidationResult holds all findings for one entity type.
type ValidationResult struct {
	InvalidValues []InvalidValue `json:"invalidValues" yaml:"invalidValues"`
}

// Add appends a finding.
func (r *ValidationResult) Add(v InvalidValue) {
	r.InvalidValues = append(r.InvalidValues, v)
}

// Len returns the number of findings.
func (r *ValidationResult) Len() int { return len(r.InvalidValues) }

// ShapeStat describes one successfully assembled shape.
type ShapeStat struct {
	ShapeID        string  `json:"shapeId" yaml:"shapeId"`
	Vertices       int     `json:"vertices" yaml:"vertices"`
	Zone           int     `json:"zone" yaml:"zone"`
	LengthMeters   float64 `json:"lengthMeters" yaml:"lengthMeters"`
	GeodesicMeters float64 `json:"geodesicMeters" yaml:"geodesicMeters"`
}

// FeedValidationResults holds everything found while validating one feed.
type FeedValidationResults struct {
	LoadStatus        LoadStatus `json:"loadStatus" yaml:"loadStatus"`
	LoadFailureReason string     `json:"loadFailureReason,omitempty" yaml:"loadFailureReason,omitempty"`
	FeedFileName      string     `json:"feedFileName" yaml:"feedFileName"`
	Agencies          []string   `json:"agencies" yaml:"agencies"`

	Routes   ValidationResult `json:"routes" yaml:"routes"`
	Stops    ValidationResult `json:"stops" yaml:"stops"`
	Trips    ValidationResult `json:"trips" yaml:"trips"`
	Shapes   ValidationResult `json:"shapes" yaml:"shapes"`
	Vehicles ValidationResult `json:"vehicles" yaml:"vehicles"`

	AgencyCount    int `json:"agencyCount" yaml:"agencyCount"`
	RouteCount     int `json:"routeCount" yaml:"routeCount"`
	TripCount      int `json:"tripCount" yaml:"tripCount"`
	StopTimesCount int `json:"stopTimesCount" yaml:"stopTimesCount"`
	ShapeCount     int `json:"shapeCount" yaml:"shapeCount"`

	// StartDate and EndDate are the first and last service dates from
	// calendar.txt or calendar_dates.txt.
	StartDate *time.Time `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty" yaml:"endDate,omitempty"`

	ShapeStats []ShapeStat `json:"shapeStats" yaml:"shapeStats"`
	Zones      []int       `json:"zones" yaml:"zones"`
}

// TotalInvalid returns the number of findings across all entity types.
func (r *FeedValidationResults) TotalInvalid() int {
	return r.Routes.Len() + r.Stops.Len() + r.Trips.Len() + r.Shapes.Len() + r.Vehicles.Len()
}
