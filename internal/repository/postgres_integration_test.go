//go:build integration

package repository_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/zones/internal/models"
	"github.com/UnknownOlympus/zones/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const agentsSchema = `
	CREATE TABLE public.agents (
		agent_id   BIGSERIAL PRIMARY KEY,
		longitude  DOUBLE PRECISION NOT NULL,
		latitude   DOUBLE PRECISION NOT NULL,
		attributes JSONB NOT NULL DEFAULT '{}'
	);
	INSERT INTO public.agents (longitude, latitude, attributes) VALUES
		(30.52, 50.45, '{"age": 34, "income": 1200.5, "agreeableness": 0.7}'),
		(-0.12, 51.5, '{"age": 61, "income": 3200, "agreeableness": 0.4, "sex": "Female"}');
`

func TestRepository_Postgres(t *testing.T) {
	ctx := t.Context()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("zones"),
		postgres.WithUsername("zones"),
		postgres.WithPassword("zones"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := repository.Connect(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, agentsSchema)
	require.NoError(t, err)

	repo := repository.NewRepository(pool, slog.Default())

	count, err := repo.CountAgents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var records []models.Record
	err = repo.Each(ctx, func(record models.Record) error {
		records = append(records, record)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.InDelta(t, 30.52, records[0]["longitude"], 1e-9)
	assert.InDelta(t, 0.7, records[0]["agreeableness"], 1e-9)
	assert.Equal(t, "Female", records[1]["sex"])
}
