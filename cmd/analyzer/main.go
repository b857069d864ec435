package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fleetsight/telemetry-risk/internal/adapter/geocode"
	httpadapter "github.com/fleetsight/telemetry-risk/internal/adapter/http"
	kafkaadapter "github.com/fleetsight/telemetry-risk/internal/adapter/kafka"
	"github.com/fleetsight/telemetry-risk/internal/config"
	"github.com/fleetsight/telemetry-risk/internal/domain"
	"github.com/fleetsight/telemetry-risk/internal/observability"
	"github.com/fleetsight/telemetry-risk/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Initialize geocoder (feature-flagged via GEOCODER_ENABLED).
	var geocoder domain.Geocoder
	if cfg.GeocoderEnabled {
		client := geocode.NewClient(cfg.GeocoderBaseURL, cfg.GeocoderTimeout, logger, metrics)
		geocoder = geocode.NewCachedGeocoder(client, cfg.GeocoderCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("reverse geocoding enabled", "base_url", cfg.GeocoderBaseURL, "cache_size", cfg.GeocoderCacheSize)
	} else {
		logger.Info("reverse geocoding disabled")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(geocoder, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics,
		cfg.BatchSize, cfg.FlushInterval, cfg.WindowMaxEvents)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start analysis pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
