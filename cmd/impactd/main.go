package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/impact-sim-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/impact-sim-service/internal/adapter/kafka"
	"github.com/couchcryptid/impact-sim-service/internal/adapter/nasa"
	"github.com/couchcryptid/impact-sim-service/internal/config"
	"github.com/couchcryptid/impact-sim-service/internal/domain"
	"github.com/couchcryptid/impact-sim-service/internal/observability"
	"github.com/couchcryptid/impact-sim-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// NEO source (feature-flagged via NASA_ENABLED), cached in Redis when
	// REDIS_ADDR is set and in process otherwise.
	var neos domain.NEOSource
	if cfg.NASAEnabled {
		cache, closeCache, err := newNEOCache(ctx, cfg)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer closeCache()

		client := nasa.NewClient(cfg, metrics, logger)
		neos = nasa.NewCachedSource(client, cache, cfg.NASACacheTTL, metrics, logger)
		metrics.NEOEnabled.Set(1)
		logger.Info("nasa neo lookup enabled",
			"base_url", cfg.NASABaseURL,
			"rate_limit", cfg.NASARateLimit,
			"cache_ttl", cfg.NASACacheTTL,
			"redis", cfg.RedisAddr != "",
		)
	} else {
		logger.Info("nasa neo lookup disabled")
	}

	transformer := pipeline.NewTransformer(neos, metrics, logger,
		pipeline.WithDefaultAngle(cfg.DefaultImpactAngle),
		pipeline.WithOverlapModel(cfg.OverlapModel),
	)

	handler := httpadapter.NewHandler(transformer, httpadapter.HandlerConfig{
		NEOs:         neos,
		OverlapModel: cfg.OverlapModel,
		DefaultAngle: cfg.DefaultImpactAngle,
		Clock:        clockwork.NewRealClock(),
	}, logger)

	var (
		ready  httpadapter.ReadinessChecker = httpadapter.AlwaysReady
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	if cfg.PipelineEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
		ready = p

		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	} else {
		logger.Info("kafka pipeline disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, handler, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

func newNEOCache(ctx context.Context, cfg *config.Config) (nasa.Cache, func(), error) {
	if cfg.RedisAddr == "" {
		return nasa.NewMemoryCache(cfg.NASACacheSize, nil), func() {}, nil
	}
	client, err := nasa.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	return nasa.NewRedisCache(client), func() { _ = client.Close() }, nil
}
