package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/UnknownOlympus/zones/internal/models"
	"github.com/UnknownOlympus/zones/internal/source"
)

// Each streams every row of public.agents, ordered by agent_id, to fn.
// The attributes column is a JSON object; longitude and latitude are added
// to the record under the keys the ingestion service expects.
//
// Parameters:
// - ctx: The context for the operation, allowing for cancellation and timeout.
// - fn: Called once per agent; a non-nil return stops iteration and is returned as is.
func (r *Repository) Each(ctx context.Context, fn func(models.Record) error) error {
	query := `
		SELECT longitude, latitude, attributes
		FROM public.agents
		ORDER BY agent_id ASC;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query agents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			longitude, latitude float64
			attributes          []byte
		)
		if errScan := rows.Scan(&longitude, &latitude, &attributes); errScan != nil {
			return fmt.Errorf("failed to scan agent: %w", errScan)
		}

		record := models.Record{}
		if len(attributes) > 0 {
			if errJSON := json.Unmarshal(attributes, &record); errJSON != nil {
				return fmt.Errorf("failed to decode agent attributes: %w", errJSON)
			}
		}
		record[source.KeyLongitude] = longitude
		record[source.KeyLatitude] = latitude

		if errFn := fn(record); errFn != nil {
			return errFn
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("failed to read row: %w", err)
	}

	return nil
}

// CountAgents returns the number of rows in public.agents.
func (r *Repository) CountAgents(ctx context.Context) (int, error) {
	query := `SELECT count(*) FROM public.agents;`

	var count int
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count agents: %w", err)
	}

	r.log.DebugContext(ctx, "Counted agents in database", "count", count)

	return count, nil
}
