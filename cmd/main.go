package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/zones/internal/config"
	"github.com/UnknownOlympus/zones/internal/metrics"
	"github.com/UnknownOlympus/zones/internal/report"
	"github.com/UnknownOlympus/zones/internal/repository"
	"github.com/UnknownOlympus/zones/internal/service"
	"github.com/UnknownOlympus/zones/internal/source"
	"github.com/UnknownOlympus/zones/internal/zone"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	if err := run(ctx, cfg, logger); err != nil {
		logger.ErrorContext(ctx, "Run failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// run builds the grid, ingests every agent and renders the charts.
// With a monitoring port configured it keeps serving metrics until the context is canceled.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Create a separate registry for metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// The grid is built once, before any lookup, and only read structurally afterwards.
	grid, err := zone.NewGrid(cfg.Grid)
	if err != nil {
		return fmt.Errorf("failed to build zone grid: %w", err)
	}
	logger.InfoContext(ctx, "Zone grid built",
		"zones", grid.Len(), "longitude_bins", grid.LongitudeBins(), "latitude_bins", grid.LatitudeBins())

	src, closeSource, err := newSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	if cfg.Port > 0 {
		// Start the monitoring server in a goroutine so it is available during ingestion.
		go startMonitoringServer(ctx, logger, reg, cfg.Port)
	}

	ingest := service.NewIngestService(logger, src, grid, appMetrics)
	if _, err = ingest.Run(ctx); err != nil {
		return fmt.Errorf("failed to ingest agents: %w", err)
	}

	renderer := report.NewRenderer(logger, cfg.OutputDir, cfg.ChartWidth, cfg.ChartHeight)
	if err = renderCharts(renderer, grid.Zones(), appMetrics); err != nil {
		return err
	}

	if cfg.Port > 0 {
		logger.InfoContext(ctx, "Run complete. Serving metrics, press Ctrl+C to stop.")
		<-ctx.Done()
		logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")
	}

	logger.InfoContext(ctx, "Application stopped gracefully.")

	return nil
}

// renderCharts writes every chart kind and counts each chart actually written,
// including those finished before a failing one.
func renderCharts(renderer *report.Renderer, zones []*zone.Zone, appMetrics *metrics.Metrics) error {
	paths, err := renderer.RenderAll(zones)

	kinds := report.Kinds()
	for i := range paths {
		appMetrics.ChartsRendered.WithLabelValues(kinds[i].String()).Inc()
	}

	if err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}

	return nil
}

// newSource returns the agent source selected by the configuration and a function releasing it.
func newSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (source.Source, func(), error) {
	switch cfg.Source {
	case config.SourcePostgres:
		dtb, err := repository.NewDatabase(
			ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		repo := repository.NewRepository(dtb, logger)
		count, err := repo.CountAgents(ctx)
		if err != nil {
			dtb.Close()
			return nil, nil, err
		}
		logger.InfoContext(ctx, "Reading agents from PostgreSQL",
			"host", cfg.Database.Host, "db", cfg.Database.Name, "agents", count)
		return repo, dtb.Close, nil
	default:
		logger.InfoContext(ctx, "Reading agents from JSON file", "path", cfg.Input)
		return source.NewJSONFile(cfg.Input, logger), func() {}, nil
	}
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It stops when the context is canceled.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - port: The port number on which the server will listen.
func startMonitoringServer(ctx context.Context, log *slog.Logger, reg *prometheus.Registry, port int) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
		if _, err := writer.Write([]byte("OK")); err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(readTimeout)*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
