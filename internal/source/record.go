package source

import (
	"fmt"

	"github.com/UnknownOlympus/zones/internal/models"
	"github.com/spf13/cast"
)

// SplitRecord removes the longitude and latitude from the record and returns them
// together with the remaining attributes. The record is modified in place.
func SplitRecord(record models.Record) (float64, float64, map[string]any, error) {
	rawLon, okLon := record[KeyLongitude]
	rawLat, okLat := record[KeyLatitude]
	if !okLon || !okLat || rawLon == nil || rawLat == nil {
		return 0, 0, nil, ErrMissingCoordinates
	}

	longitude, err := cast.ToFloat64E(rawLon)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("invalid longitude %v: %w", rawLon, err)
	}
	latitude, err := cast.ToFloat64E(rawLat)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("invalid latitude %v: %w", rawLat, err)
	}

	delete(record, KeyLongitude)
	delete(record, KeyLatitude)

	return longitude, latitude, record, nil
}
