// Command catalog runs one batch catalog build: enumerate sample directories,
// build one record per sample in parallel, and export the result as a STAC
// ItemCollection plus a run report.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/airbusgeo/godal"

	"github.com/aeriscope/cloudcatalog/internal/adapter/elevation"
	httpadapter "github.com/aeriscope/cloudcatalog/internal/adapter/http"
	kafkaadapter "github.com/aeriscope/cloudcatalog/internal/adapter/kafka"
	"github.com/aeriscope/cloudcatalog/internal/adapter/stacexport"
	"github.com/aeriscope/cloudcatalog/internal/builder"
	"github.com/aeriscope/cloudcatalog/internal/config"
	"github.com/aeriscope/cloudcatalog/internal/domain"
	"github.com/aeriscope/cloudcatalog/internal/grid"
	"github.com/aeriscope/cloudcatalog/internal/observability"
	"github.com/aeriscope/cloudcatalog/internal/pipeline"
	"github.com/aeriscope/cloudcatalog/internal/raster"
	"github.com/aeriscope/cloudcatalog/internal/scan"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	if err := domain.ValidateProfiles(); err != nil {
		logger.Error("invalid sensor profile table", "error", err)
		os.Exit(1)
	}
	godal.RegisterAll()

	limit, err := cfg.ParsedLimit()
	if err != nil {
		logger.Error("invalid limit", "error", err)
		os.Exit(1)
	}
	splitLoc, err := cfg.SplitLocation()
	if err != nil {
		logger.Error("invalid split timezone", "error", err)
		os.Exit(1)
	}
	coder, err := grid.NewCoder(cfg.GridLevel)
	if err != nil {
		logger.Error("invalid grid level", "error", err)
		os.Exit(1)
	}

	// Elevation enrichment (feature-flagged via ELEVATION_ENABLED).
	var enricher domain.ElevationProvider
	if cfg.ElevationEnabled {
		client := elevation.NewClient(cfg.ElevationBaseURL, cfg.ElevationTimeout, metrics, logger)
		enricher = elevation.NewCachedProvider(client, cfg.ElevationCacheSize, metrics)
		metrics.ElevationEnabled.Set(1)
		logger.Info("elevation enrichment enabled", "cache_size", cfg.ElevationCacheSize, "timeout", cfg.ElevationTimeout)
	} else {
		logger.Info("elevation enrichment disabled")
	}

	// Record publication (feature-flagged via KAFKA_ENABLED).
	var sink pipeline.RecordSink
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		sink = writer
		logger.Info("kafka publication enabled", "topic", cfg.KafkaTopic)
	}

	lister := scan.NewEnumerator(cfg.Roots, cfg.StormRoots, cfg.PretrainRoots, limit, logger)
	bld := builder.New(raster.NewGDALReader(), coder, splitLoc, logger)
	p := pipeline.New(lister, bld, sink, enricher, logger, metrics, cfg.Policy(), cfg.Workers)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Status surface for the duration of the run.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	exitCode := 0
	result, err := p.Run(ctx)
	if err != nil {
		logger.Error("catalog run failed", "error", err)
		exitCode = 1
	} else {
		exporter := stacexport.NewExporter(cfg.CollectionID, cfg.OutputPath, logger)
		if err := exporter.Export(result); err != nil {
			logger.Error("export failed", "error", err)
			exitCode = 1
		}
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	os.Exit(exitCode)
}
