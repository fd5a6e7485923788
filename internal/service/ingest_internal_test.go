package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/UnknownOlympus/zones/internal/metrics"
	"github.com/UnknownOlympus/zones/internal/models"
	"github.com/UnknownOlympus/zones/internal/zone"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockSource replays fixed records and records the calls made to it.
type mockSource struct {
	mock.Mock
	records []models.Record
}

func (m *mockSource) Each(ctx context.Context, fn func(models.Record) error) error {
	args := m.Called(ctx)
	for _, record := range m.records {
		if err := fn(record); err != nil {
			return err
		}
	}
	return args.Error(0)
}

func newTestService(t *testing.T, records ...models.Record) (*IngestService, *mockSource, *zone.Grid, *metrics.Metrics) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())

	cfg := zone.DefaultGridConfig()
	cfg.Width, cfg.Height = 10, 10
	grid, err := zone.NewGrid(cfg)
	require.NoError(t, err)

	src := &mockSource{records: records}
	return NewIngestService(logger, src, grid, appMetrics), src, grid, appMetrics
}

func TestRun(t *testing.T) {
	ctx := t.Context()

	t.Run("successful ingestion", func(t *testing.T) {
		service, src, grid, appMetrics := newTestService(t,
			models.Record{"longitude": 5.0, "latitude": 5.0, "agreeableness": 0.5, "age": 30.0, "income": 100.0},
			models.Record{"longitude": 0.0, "latitude": 0.0, "agreeableness": 0.1},
			models.Record{"longitude": -120.0, "latitude": 40.0, "country_name": "United States"},
		)
		src.On("Each", ctx).Return(nil).Once()

		summary, err := service.Run(ctx)

		require.NoError(t, err)
		assert.Equal(t, 3, summary.Agents)
		assert.Equal(t, 2, summary.PopulatedZones)

		home, err := grid.FindZoneFor(models.MustPosition(5, 5))
		require.NoError(t, err)
		assert.Equal(t, 2, home.Population())

		assert.InDelta(t, 3.0, testutil.ToFloat64(appMetrics.AgentsProcessed.WithLabelValues(statusSuccess)), 0)
		assert.InDelta(t, float64(grid.Len()), testutil.ToFloat64(appMetrics.ZonesTotal), 0)
		assert.InDelta(t, 2.0, testutil.ToFloat64(appMetrics.PopulatedZones), 0)
		src.AssertExpectations(t)
	})

	t.Run("coordinates are removed from the attribute bag", func(t *testing.T) {
		service, src, grid, _ := newTestService(t,
			models.Record{"longitude": 5.0, "latitude": 5.0, "sex": "Female"},
		)
		src.On("Each", ctx).Return(nil).Once()

		_, err := service.Run(ctx)
		require.NoError(t, err)

		home, err := grid.FindZoneFor(models.MustPosition(5, 5))
		require.NoError(t, err)
		require.Len(t, home.Inhabitants(), 1)
		assert.Equal(t, map[string]any{"sex": "Female"}, home.Inhabitants()[0].Extra)
	})

	t.Run("source returns error", func(t *testing.T) {
		service, src, _, _ := newTestService(t)
		src.On("Each", ctx).Return(assert.AnError).Once()

		summary, err := service.Run(ctx)

		require.Nil(t, summary)
		require.ErrorIs(t, err, assert.AnError)
		src.AssertExpectations(t)
	})

	t.Run("out of range position aborts the run", func(t *testing.T) {
		service, src, grid, appMetrics := newTestService(t,
			models.Record{"longitude": 5.0, "latitude": 5.0},
			models.Record{"longitude": 200.0, "latitude": 5.0},
			models.Record{"longitude": 6.0, "latitude": 6.0},
		)
		src.On("Each", ctx).Return(nil).Once()

		summary, err := service.Run(ctx)

		require.Nil(t, summary)
		require.ErrorIs(t, err, models.ErrOutOfRange)
		assert.ErrorContains(t, err, "record 1")
		assert.Equal(t, 1, grid.PopulatedZones())
		assert.InDelta(t, 1.0, testutil.ToFloat64(appMetrics.AgentsProcessed.WithLabelValues(statusInvalid)), 0)
	})

	t.Run("upper boundary aborts the run", func(t *testing.T) {
		service, src, _, appMetrics := newTestService(t,
			models.Record{"longitude": 180.0, "latitude": 0.0},
		)
		src.On("Each", ctx).Return(nil).Once()

		_, err := service.Run(ctx)

		require.ErrorIs(t, err, zone.ErrInvariantViolation)
		assert.InDelta(t, 1.0, testutil.ToFloat64(appMetrics.AgentsProcessed.WithLabelValues(statusOutsideGrid)), 0)
	})

	t.Run("record without coordinates aborts the run", func(t *testing.T) {
		service, src, _, _ := newTestService(t, models.Record{"age": 3.0})
		src.On("Each", ctx).Return(nil).Once()

		_, err := service.Run(ctx)

		require.Error(t, err)
		assert.ErrorContains(t, err, "record 0")
	})

	t.Run("invalid well-known attribute aborts the run", func(t *testing.T) {
		service, src, _, _ := newTestService(t,
			models.Record{"longitude": 1.0, "latitude": 1.0, "income": "a lot"},
		)
		src.On("Each", ctx).Return(nil).Once()

		_, err := service.Run(ctx)

		require.ErrorIs(t, err, models.ErrInvalidField)
	})
}
