// Package zone partitions the globe into fixed-size equirectangular cells and
// accumulates the agents living in each of them.
package zone

import (
	"fmt"
	"math"

	"github.com/UnknownOlympus/zones/internal/models"
)

// EarthRadiusKm is the mean Earth radius used for the flat area approximation.
const EarthRadiusKm = 6371.0

// Zone is a rectangular cell and the agents located inside it.
type Zone struct {
	corner1       models.Position
	corner2       models.Position
	earthRadiusKm float64
	inhabitants   []*models.Agent
}

// Bounds is a zone's extent in degrees, sorted so that Min <= Max on both axes.
type Bounds struct {
	MinLongitude float64
	MaxLongitude float64
	MinLatitude  float64
	MaxLatitude  float64
}

// New creates an empty zone spanning the two corners, which may be given in either orientation.
func New(corner1, corner2 models.Position, earthRadiusKm float64) *Zone {
	return &Zone{corner1: corner1, corner2: corner2, earthRadiusKm: earthRadiusKm}
}

func (z *Zone) Corners() (models.Position, models.Position) { return z.corner1, z.corner2 }

func (z *Zone) Bounds() Bounds {
	return Bounds{
		MinLongitude: math.Min(z.corner1.LongitudeDegrees(), z.corner2.LongitudeDegrees()),
		MaxLongitude: math.Max(z.corner1.LongitudeDegrees(), z.corner2.LongitudeDegrees()),
		MinLatitude:  math.Min(z.corner1.LatitudeDegrees(), z.corner2.LatitudeDegrees()),
		MaxLatitude:  math.Max(z.corner1.LatitudeDegrees(), z.corner2.LatitudeDegrees()),
	}
}

// Contains reports whether pos lies in the half-open rectangle [min, max) on both axes.
func (z *Zone) Contains(pos models.Position) bool {
	b := z.Bounds()
	lon, lat := pos.LongitudeDegrees(), pos.LatitudeDegrees()

	return lon >= b.MinLongitude && lon < b.MaxLongitude &&
		lat >= b.MinLatitude && lat < b.MaxLatitude
}

// AddInhabitant appends the agent. Containment is the caller's responsibility.
func (z *Zone) AddInhabitant(agent *models.Agent) {
	z.inhabitants = append(z.inhabitants, agent)
}

// Inhabitants returns the agents in insertion order. The slice must not be modified.
func (z *Zone) Inhabitants() []*models.Agent { return z.inhabitants }

func (z *Zone) Population() int { return len(z.inhabitants) }

// Width returns the east-west extent in kilometres.
func (z *Zone) Width() float64 {
	return math.Abs(z.corner1.LongitudeRadians()-z.corner2.LongitudeRadians()) * z.earthRadiusKm
}

// Height returns the north-south extent in kilometres.
func (z *Zone) Height() float64 {
	return math.Abs(z.corner1.LatitudeRadians()-z.corner2.LatitudeRadians()) * z.earthRadiusKm
}

// Area returns Width*Height in square kilometres.
func (z *Zone) Area() float64 { return z.Width() * z.Height() }

// PopulationDensity returns inhabitants per square kilometre.
func (z *Zone) PopulationDensity() float64 {
	return float64(z.Population()) / z.Area()
}

// AverageAgreeableness returns the mean agreeableness of the inhabitants, or 0 for an empty zone.
func (z *Zone) AverageAgreeableness() (float64, error) {
	if len(z.inhabitants) == 0 {
		return 0, nil
	}

	var sum float64
	for _, agent := range z.inhabitants {
		value, err := agent.AgreeablenessValue()
		if err != nil {
			return 0, fmt.Errorf("zone %v-%v: %w", z.corner1, z.corner2, err)
		}
		sum += value
	}

	return sum / float64(len(z.inhabitants)), nil
}
