package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AgentsProcessed *prometheus.CounterVec
	IngestSeconds   prometheus.Histogram
	ZonesTotal      prometheus.Gauge
	PopulatedZones  prometheus.Gauge
	ChartsRendered  *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		AgentsProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "zones_agents_processed_total",
			Help: "Total number of agent records processed, by outcome.",
		}, []string{"status"}),
		IngestSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "zones_ingest_duration_seconds",
			Help:    "Duration of a full ingestion run.",
			Buckets: prometheus.DefBuckets,
		}),
		ZonesTotal: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "zones_grid_zones",
			Help: "Number of zones in the grid.",
		}),
		PopulatedZones: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "zones_populated_zones",
			Help: "Number of zones holding at least one agent.",
		}),
		ChartsRendered: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "zones_charts_rendered_total",
			Help: "Total number of charts written, by kind.",
		}, []string{"kind"}),
	}
}
