package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/zones/internal/metrics"
	"github.com/UnknownOlympus/zones/internal/models"
	"github.com/UnknownOlympus/zones/internal/source"
	"github.com/UnknownOlympus/zones/internal/zone"
)

// Outcome labels for the processed-agents counter.
const (
	statusSuccess     = "success"
	statusInvalid     = "invalid"
	statusOutsideGrid = "outside_grid"
)

// Summary describes a finished ingestion run.
type Summary struct {
	Agents         int           // Agents assigned to a zone.
	PopulatedZones int           // Zones holding at least one agent.
	Elapsed        time.Duration // Wall time of the run.
}

// IngestService reads agent records from a source and assigns every agent
// to the zone of the grid that contains it.
// Records are processed strictly in order on the calling goroutine.
type IngestService struct {
	log     *slog.Logger     // Logger for logging service activities
	source  source.Source    // Source of raw agent records
	grid    *zone.Grid       // Grid owning all zones
	metrics *metrics.Metrics // Metrics for tracking ingestion
}

// NewIngestService creates a new instance of IngestService.
func NewIngestService(
	log *slog.Logger,
	src source.Source,
	grid *zone.Grid,
	metrics *metrics.Metrics,
) *IngestService {
	return &IngestService{
		log:     log,
		source:  src,
		grid:    grid,
		metrics: metrics,
	}
}

// Run ingests every record of the source. The first invalid record aborts the
// run: no record after it is read and the error is returned with its index.
func (is *IngestService) Run(ctx context.Context) (*Summary, error) {
	startTime := time.Now()
	is.metrics.ZonesTotal.Set(float64(is.grid.Len()))
	is.log.InfoContext(ctx, "Ingestion started", "zones", is.grid.Len())

	var count int
	err := is.source.Each(ctx, func(record models.Record) error {
		if _, errIngest := is.Ingest(record); errIngest != nil {
			return fmt.Errorf("record %d: %w", count, errIngest)
		}
		count++
		return nil
	})

	elapsed := time.Since(startTime)
	is.metrics.IngestSeconds.Observe(elapsed.Seconds())
	populated := is.grid.PopulatedZones()
	is.metrics.PopulatedZones.Set(float64(populated))

	if err != nil {
		is.log.ErrorContext(ctx, "Ingestion aborted", "ingested", count, "error", err)
		return nil, err
	}

	summary := &Summary{Agents: count, PopulatedZones: populated, Elapsed: elapsed}
	is.log.InfoContext(ctx, "Ingestion finished",
		"agents", summary.Agents,
		"populated_zones", summary.PopulatedZones,
		"elapsed", summary.Elapsed)

	return summary, nil
}

// Ingest turns one record into an Agent and appends it to its zone.
func (is *IngestService) Ingest(record models.Record) (*zone.Zone, error) {
	longitude, latitude, attrs, err := source.SplitRecord(record)
	if err != nil {
		is.metrics.AgentsProcessed.WithLabelValues(statusInvalid).Inc()
		return nil, err
	}

	position, err := models.NewPosition(longitude, latitude)
	if err != nil {
		is.metrics.AgentsProcessed.WithLabelValues(statusInvalid).Inc()
		return nil, err
	}

	agent, err := models.NewAgent(position, attrs)
	if err != nil {
		is.metrics.AgentsProcessed.WithLabelValues(statusInvalid).Inc()
		return nil, err
	}

	owner, err := is.grid.Assign(agent)
	if err != nil {
		is.metrics.AgentsProcessed.WithLabelValues(statusOutsideGrid).Inc()
		return nil, err
	}

	is.metrics.AgentsProcessed.WithLabelValues(statusSuccess).Inc()

	return owner, nil
}
