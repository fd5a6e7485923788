package models

import (
	"errors"
	"fmt"
	"math"
)

// Valid degree bounds, inclusive on both ends.
const (
	MinLongitude = -180.0
	MaxLongitude = 180.0
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
)

// ErrOutOfRange is returned when a position is built from degrees outside the valid bounds.
var ErrOutOfRange = errors.New("coordinate out of range")

// Position represents a geographical point defined by its longitude and latitude in degrees.
// The zero value is the point (0, 0). Positions are immutable once built.
type Position struct {
	longitude float64 // Longitude of the geographical point, degrees.
	latitude  float64 // Latitude of the geographical point, degrees.
}

// NewPosition validates the given degrees and returns a Position.
// Longitude must lie in [-180, 180] and latitude in [-90, 90].
func NewPosition(longitude, latitude float64) (Position, error) {
	if math.IsNaN(longitude) || longitude < MinLongitude || longitude > MaxLongitude {
		return Position{}, fmt.Errorf("%w: longitude %v outside [%v, %v]", ErrOutOfRange, longitude, MinLongitude, MaxLongitude)
	}
	if math.IsNaN(latitude) || latitude < MinLatitude || latitude > MaxLatitude {
		return Position{}, fmt.Errorf("%w: latitude %v outside [%v, %v]", ErrOutOfRange, latitude, MinLatitude, MaxLatitude)
	}

	return Position{longitude: longitude, latitude: latitude}, nil
}

// MustPosition is like NewPosition but panics on invalid input.
// Intended for constants and tests.
func MustPosition(longitude, latitude float64) Position {
	pos, err := NewPosition(longitude, latitude)
	if err != nil {
		panic(err)
	}
	return pos
}

func (p Position) LongitudeDegrees() float64 { return p.longitude }
func (p Position) LatitudeDegrees() float64  { return p.latitude }

// LongitudeRadians returns the longitude converted to radians.
func (p Position) LongitudeRadians() float64 { return DegreesToRadians(p.longitude) }

// LatitudeRadians returns the latitude converted to radians.
func (p Position) LatitudeRadians() float64 { return DegreesToRadians(p.latitude) }

func (p Position) String() string {
	return fmt.Sprintf("(%g, %g)", p.longitude, p.latitude)
}

// DegreesToRadians converts an angle from degrees to radians.
func DegreesToRadians(deg float64) float64 { return deg * math.Pi / 180 }

// RadiansToDegrees converts an angle from radians to degrees.
func RadiansToDegrees(rad float64) float64 { return rad * 180 / math.Pi }
