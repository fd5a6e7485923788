// Package source reads raw agent records from the supported inputs.
package source

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/zones/internal/models"
)

// Record keys holding the agent position. They are removed from the attribute bag.
const (
	KeyLongitude = "longitude"
	KeyLatitude  = "latitude"
)

// ErrMissingCoordinates is returned for a record without a longitude or latitude.
var ErrMissingCoordinates = errors.New("record has no coordinates")

// Source is an interface that streams agent records in input order.
// Each calls fn once per record and stops at the first error fn or the input returns.
type Source interface {
	Each(ctx context.Context, fn func(models.Record) error) error
}
