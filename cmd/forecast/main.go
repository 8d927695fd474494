package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/couchcryptid/forecast-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/forecast-etl/internal/adapter/kafka"
	"github.com/couchcryptid/forecast-etl/internal/adapter/nws"
	"github.com/couchcryptid/forecast-etl/internal/adapter/ollama"
	"github.com/couchcryptid/forecast-etl/internal/adapter/sink"
	"github.com/couchcryptid/forecast-etl/internal/classify"
	"github.com/couchcryptid/forecast-etl/internal/config"
	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/couchcryptid/forecast-etl/internal/observability"
	"github.com/couchcryptid/forecast-etl/internal/pipeline"
	"github.com/couchcryptid/forecast-etl/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	loc, err := time.LoadLocation(cfg.ForecastTimeZone)
	if err != nil {
		logger.Error("invalid forecast time zone", "zone", cfg.ForecastTimeZone, "error", err)
		os.Exit(1)
	}

	fetcher := nws.NewClient(
		cfg.HalfDayForecastURL(), cfg.HourlyForecastURL(), cfg.NWSUserAgent,
		cfg.NWSTimeout, cfg.NWSRateLimit, cfg.NWSRateBurst, logger, metrics,
	)

	llm := ollama.NewClient(
		cfg.OllamaURL, cfg.GenerateModel, cfg.EmbeddingModel,
		cfg.EmbeddingDimensions, cfg.OllamaTimeout, logger,
	)
	cache := classify.NewEmbeddingCache(cfg.EmbeddingCachePath, domain.Descriptors(), llm, logger, metrics)
	classifier := classify.NewClassifier(llm, llm, cache, logger, metrics)

	var loaders []pipeline.Loader
	if cfg.SinkURL != "" {
		loaders = append(loaders, sink.NewClient(cfg.SinkURL, cfg.SinkTimeout, logger, metrics))
	}
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger, metrics)
		loaders = append(loaders, writer)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(fetcher, classifier, loaders, loc, cfg.ForecastDays, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if cfg.RunInterval > 0 {
		sched := scheduler.New(p, cfg.RunInterval, logger)
		if err := sched.Start(ctx); err != nil {
			logger.Error("scheduler start error", "error", err)
			os.Exit(1)
		}
		defer sched.Stop()
		<-ctx.Done()
	} else {
		// Single pass, then exit.
		if err := p.Run(ctx); err != nil {
			logger.Error("forecast run error", "error", err)
		}
		stop()
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
}
