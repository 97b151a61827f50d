package geometry

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPoint       = errors.New("invalid shape point")
	ErrInsufficientPoints = errors.New("insufficient shape points")
)

// InvalidPointError names the point that could not be converted. Err holds
// the underlying projection failure when there is one.
type InvalidPointError struct {
	PointID string
	ShapeID string
	Err     error
}

func (e *InvalidPointError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("point %s on shape %s: %v", e.PointID, e.ShapeID, e.Err)
	}
	return fmt.Sprintf("point %s on shape %s has a non-finite projected ordinate", e.PointID, e.ShapeID)
}

func (e *InvalidPointError) Is(target error) bool { return target == ErrInvalidPoint }

func (e *InvalidPointError) Unwrap() error { return e.Err }

// InsufficientPointsError is returned when there are too few points for a line.
type InsufficientPointsError struct {
	ShapeID string
	Got     int
	Need    int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("shape %s has %d point(s), need at least %d", e.ShapeID, e.Got, e.Need)
}

func (e *InsufficientPointsError) Is(target error) bool { return target == ErrInsufficientPoints }
