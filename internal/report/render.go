package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/UnknownOlympus/zones/internal/zone"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Renderer writes charts as image files into a directory.
type Renderer struct {
	log    *slog.Logger
	dir    string
	width  vg.Length
	height vg.Length
}

// NewRenderer creates a Renderer writing width x height centimetre PNG files into dir.
func NewRenderer(log *slog.Logger, dir string, widthCm, heightCm float64) *Renderer {
	return &Renderer{
		log:    log,
		dir:    dir,
		width:  vg.Length(widthCm) * vg.Centimeter,
		height: vg.Length(heightCm) * vg.Centimeter,
	}
}

// Path returns the file the chart of the given kind is written to.
func (r *Renderer) Path(kind Kind) string {
	return filepath.Join(r.dir, kind.String()+".png")
}

// Render draws the chart of the given kind from the zones and saves it. It returns the file path.
func (r *Renderer) Render(kind Kind, zones []*zone.Zone) (string, error) {
	xValues, yValues, err := Series(kind, zones)
	if err != nil {
		return "", fmt.Errorf("failed to compute %s series: %w", kind, err)
	}

	chart, err := NewPlot(kind.Labels(), xValues, yValues)
	if err != nil {
		return "", fmt.Errorf("failed to build %s chart: %w", kind, err)
	}

	if err = os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := r.Path(kind)
	if err = chart.Save(r.width, r.height, path); err != nil {
		return "", fmt.Errorf("failed to save %s chart: %w", kind, err)
	}

	r.log.Info("Chart rendered", "kind", kind.String(), "points", len(xValues), "path", path)

	return path, nil
}

// RenderAll renders every chart kind in order, stopping at the first failure.
func (r *Renderer) RenderAll(zones []*zone.Zone) ([]string, error) {
	paths := make([]string, 0, len(Kinds()))
	for _, kind := range Kinds() {
		path, err := r.Render(kind, zones)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// NewPlot builds a scatter plot with a background grid.
func NewPlot(labels Labels, xValues, yValues []float64) (*plot.Plot, error) {
	if len(xValues) != len(yValues) {
		return nil, fmt.Errorf("series length mismatch: %d x values, %d y values", len(xValues), len(yValues))
	}

	chart := plot.New()
	chart.Title.Text = labels.Title
	chart.X.Label.Text = labels.X
	chart.Y.Label.Text = labels.Y
	chart.Add(plotter.NewGrid())

	points := make(plotter.XYs, len(xValues))
	for i := range xValues {
		points[i].X = xValues[i]
		points[i].Y = yValues[i]
	}

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(1.5)
	chart.Add(scatter)

	return chart, nil
}
