package report_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/zones/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer(t *testing.T) {
	defer filet.CleanUp(t)
	dir := filepath.Join(filet.TmpDir(t, ""), "charts")
	logger := slog.Default()

	grid := populatedGrid(t,
		map[string]any{"lon": 5.0, "lat": 5.0, "age": 30, "income": 1000.0, "agreeableness": 0.5},
		map[string]any{"lon": 25.0, "lat": 45.0, "age": 60, "income": 4000.0, "agreeableness": 0.9},
	)
	renderer := report.NewRenderer(logger, dir, 10, 8)

	t.Run("success - every kind is written as png", func(t *testing.T) {
		paths, err := renderer.RenderAll(grid.Zones())
		require.NoError(t, err)
		require.Len(t, paths, 2)

		for i, kind := range report.Kinds() {
			assert.Equal(t, renderer.Path(kind), paths[i])
			info, errStat := os.Stat(paths[i])
			require.NoError(t, errStat)
			assert.Positive(t, info.Size())
		}
		assert.Equal(t, filepath.Join(dir, "agreeableness.png"), paths[0])
	})

	t.Run("error - series failure is reported", func(t *testing.T) {
		broken := populatedGrid(t, map[string]any{"lon": 5.0, "lat": 5.0})

		path, err := renderer.Render(report.AgeVsIncome, broken.Zones())
		require.Error(t, err)
		assert.Empty(t, path)
		assert.ErrorContains(t, err, "failed to compute income series")
	})
}

func TestNewPlot(t *testing.T) {
	t.Parallel()
	labels := report.AgeVsIncome.Labels()

	chart, err := report.NewPlot(labels, []float64{1, 2, 3}, []float64{4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, labels.Title, chart.Title.Text)
	assert.Equal(t, labels.X, chart.X.Label.Text)
	assert.Equal(t, labels.Y, chart.Y.Label.Text)

	_, err = report.NewPlot(labels, []float64{1, 2}, []float64{4})
	require.ErrorContains(t, err, "series length mismatch")
}
