package projection

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched with errors.Is against the typed errors below.
var (
	ErrOutOfRange      = errors.New("coordinate out of range")
	ErrUnsupportedZone = errors.New("unsupported zone")
	ErrNonFinite       = errors.New("non-finite projected ordinate")
)

// OutOfRangeError is returned for a latitude or longitude outside its domain.
type OutOfRangeError struct {
	Field string
	Value float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s %v outside valid range", e.Field, e.Value)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrOutOfRange }

// UnsupportedZoneError is returned when the registry cannot resolve a zone's
// reference frame, or the transform between frames cannot be derived.
type UnsupportedZoneError struct {
	Zone ZoneID
	Err  error
}

func (e *UnsupportedZoneError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("zone EPSG:%d: %v", int(e.Zone), e.Err)
	}
	return fmt.Sprintf("zone EPSG:%d has no registry definition", int(e.Zone))
}

func (e *UnsupportedZoneError) Is(target error) bool { return target == ErrUnsupportedZone }

func (e *UnsupportedZoneError) Unwrap() error { return e.Err }

// NonFiniteError is returned when a transform produced NaN or Inf.
type NonFiniteError struct {
	Zone ZoneID
	X, Y float64
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("zone EPSG:%d produced non-finite result (%v, %v)", int(e.Zone), e.X, e.Y)
}

func (e *NonFiniteError) Is(target error) bool { return target == ErrNonFinite }
