package zone

import (
	"errors"
	"fmt"
	"math"

	"github.com/UnknownOlympus/zones/internal/models"
)

var (
	// ErrInvalidConfig is returned by NewGrid for a configuration that cannot tile the range.
	ErrInvalidConfig = errors.New("invalid grid configuration")
	// ErrInvariantViolation is returned when the computed zone does not contain the looked-up position.
	ErrInvariantViolation = errors.New("zone invariant violated")
)

// binTolerance is how far a range/step ratio may drift from a whole number.
const binTolerance = 1e-9

// GridConfig describes the extent and cell size of a Grid, in degrees.
type GridConfig struct {
	MinLongitude  float64
	MaxLongitude  float64
	MinLatitude   float64
	MaxLatitude   float64
	Width         float64 // Width of a zone in degrees of longitude.
	Height        float64 // Height of a zone in degrees of latitude.
	EarthRadiusKm float64
}

// DefaultGridConfig covers the whole globe with 1°x1° zones.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		MinLongitude:  models.MinLongitude,
		MaxLongitude:  models.MaxLongitude,
		MinLatitude:   models.MinLatitude,
		MaxLatitude:   models.MaxLatitude,
		Width:         1,
		Height:        1,
		EarthRadiusKm: EarthRadiusKm,
	}
}

// Grid is a dense row-major array of zones covering
// [MinLongitude, MaxLongitude) x [MinLatitude, MaxLatitude).
// It is immutable in structure after NewGrid returns and may be read concurrently;
// appending inhabitants to its zones is not safe for concurrent use.
type Grid struct {
	cfg     GridConfig
	lonBins int
	latBins int
	zones   []*Zone
}

// NewGrid builds every zone of the grid, latitude rows outer and longitude columns inner.
func NewGrid(cfg GridConfig) (*Grid, error) {
	lonBins, latBins, err := cfg.bins()
	if err != nil {
		return nil, err
	}

	grid := &Grid{
		cfg:     cfg,
		lonBins: lonBins,
		latBins: latBins,
		zones:   make([]*Zone, 0, lonBins*latBins),
	}

	for row := range latBins {
		bottom := edge(cfg.MinLatitude, cfg.MaxLatitude, cfg.Height, row, latBins)
		top := edge(cfg.MinLatitude, cfg.MaxLatitude, cfg.Height, row+1, latBins)
		for col := range lonBins {
			left := edge(cfg.MinLongitude, cfg.MaxLongitude, cfg.Width, col, lonBins)
			right := edge(cfg.MinLongitude, cfg.MaxLongitude, cfg.Width, col+1, lonBins)

			bottomLeft, errPos := models.NewPosition(left, bottom)
			if errPos != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, errPos)
			}
			topRight, errPos := models.NewPosition(right, top)
			if errPos != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, errPos)
			}

			grid.zones = append(grid.zones, New(bottomLeft, topRight, cfg.EarthRadiusKm))
		}
	}

	return grid, nil
}

// edge returns the i-th bin boundary; the last one is pinned to max so rounding
// never pushes it past the valid coordinate range.
func edge(minimum, maximum, step float64, i, bins int) float64 {
	if i == bins {
		return maximum
	}
	return minimum + float64(i)*step
}

func (c GridConfig) bins() (int, int, error) {
	if c.Width <= 0 || c.Height <= 0 {
		return 0, 0, fmt.Errorf("%w: zone size %vx%v must be positive", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.EarthRadiusKm <= 0 {
		return 0, 0, fmt.Errorf("%w: earth radius %v must be positive", ErrInvalidConfig, c.EarthRadiusKm)
	}
	if c.MinLongitude >= c.MaxLongitude || c.MinLatitude >= c.MaxLatitude {
		return 0, 0, fmt.Errorf("%w: empty range lon [%v, %v) lat [%v, %v)",
			ErrInvalidConfig, c.MinLongitude, c.MaxLongitude, c.MinLatitude, c.MaxLatitude)
	}

	lonBins, ok := wholeBins(c.MaxLongitude-c.MinLongitude, c.Width)
	if !ok {
		return 0, 0, fmt.Errorf("%w: longitude range %v is not a multiple of %v",
			ErrInvalidConfig, c.MaxLongitude-c.MinLongitude, c.Width)
	}
	latBins, ok := wholeBins(c.MaxLatitude-c.MinLatitude, c.Height)
	if !ok {
		return 0, 0, fmt.Errorf("%w: latitude range %v is not a multiple of %v",
			ErrInvalidConfig, c.MaxLatitude-c.MinLatitude, c.Height)
	}

	return lonBins, latBins, nil
}

func wholeBins(span, step float64) (int, bool) {
	ratio := span / step
	rounded := math.Round(ratio)
	if math.Abs(ratio-rounded) > binTolerance || rounded < 1 {
		return 0, false
	}
	return int(rounded), true
}

func (g *Grid) Config() GridConfig { return g.cfg }

// Zones returns all zones in row-major order. The slice must not be modified.
func (g *Grid) Zones() []*Zone { return g.zones }

func (g *Grid) Len() int           { return len(g.zones) }
func (g *Grid) LongitudeBins() int { return g.lonBins }
func (g *Grid) LatitudeBins() int  { return g.latBins }

// ZoneAt returns the zone in the given column and row, or nil outside the grid.
func (g *Grid) ZoneAt(lonBin, latBin int) *Zone {
	if lonBin < 0 || lonBin >= g.lonBins || latBin < 0 || latBin >= g.latBins {
		return nil
	}
	return g.zones[latBin*g.lonBins+lonBin]
}

// FindZoneFor returns the zone owning pos in constant time.
// Positions on the exclusive upper bound (e.g. longitude 180 on the default grid)
// or outside the configured range fail with ErrInvariantViolation; they are never clamped.
func (g *Grid) FindZoneFor(pos models.Position) (*Zone, error) {
	lonBin := bin(pos.LongitudeDegrees(), g.cfg.MinLongitude, g.cfg.MaxLongitude, g.cfg.Width, g.lonBins)
	latBin := bin(pos.LatitudeDegrees(), g.cfg.MinLatitude, g.cfg.MaxLatitude, g.cfg.Height, g.latBins)
	index := latBin*g.lonBins + lonBin

	if index < 0 || index >= len(g.zones) {
		return nil, fmt.Errorf("%w: position %v maps to index %d outside %d zones",
			ErrInvariantViolation, pos, index, len(g.zones))
	}

	zone := g.zones[index]
	if !zone.Contains(pos) {
		return nil, fmt.Errorf("%w: zone %d does not contain position %v", ErrInvariantViolation, index, pos)
	}

	return zone, nil
}

// bin floors the offset of value from minimum in steps. The floored quotient can
// land one bin off the edges NewGrid stored for fractional steps, so an in-range
// result is moved to the neighbour whose half-open [edge, next edge) holds value.
// A value below maximum whose quotient rounds up to bins belongs to the last bin.
// Other results outside [0, bins) are returned untouched.
func bin(value, minimum, maximum, step float64, bins int) int {
	idx := int(math.Floor((value - minimum) / step))
	if idx == bins && value < maximum {
		return bins - 1
	}
	if idx < 0 || idx >= bins {
		return idx
	}

	switch {
	case value < edge(minimum, maximum, step, idx, bins):
		idx--
	case value >= edge(minimum, maximum, step, idx+1, bins):
		idx++
	}

	return idx
}

// Assign looks up the zone owning the agent's position and appends the agent to it.
func (g *Grid) Assign(agent *models.Agent) (*Zone, error) {
	zone, err := g.FindZoneFor(agent.Position)
	if err != nil {
		return nil, err
	}
	zone.AddInhabitant(agent)
	return zone, nil
}

// PopulatedZones counts zones with at least one inhabitant.
func (g *Grid) PopulatedZones() int {
	var count int
	for _, zone := range g.zones {
		if zone.Population() > 0 {
			count++
		}
	}
	return count
}
