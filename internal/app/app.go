package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ketanjain7981/shop-savy/pkg/database"
	"github.com/ketanjain7981/shop-savy/pkg/health"
	"github.com/ketanjain7981/shop-savy/pkg/httpclient"
	pkgkafka "github.com/ketanjain7981/shop-savy/pkg/kafka"
	"github.com/ketanjain7981/shop-savy/pkg/tracing"

	"github.com/ketanjain7981/shop-savy/internal/catalog"
	"github.com/ketanjain7981/shop-savy/internal/config"
	"github.com/ketanjain7981/shop-savy/internal/engine"
	"github.com/ketanjain7981/shop-savy/internal/event"
	handler "github.com/ketanjain7981/shop-savy/internal/handler/http"
	"github.com/ketanjain7981/shop-savy/internal/tools"
)

// App wires together all dependencies and runs the query engine service.
type App struct {
	cfg          *config.Config
	logger       *slog.Logger
	redisClient  *redis.Client
	producer     *pkgkafka.Producer
	httpServer   *http.Server
	traceCleanup func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	traceCleanup, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "query-engine",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
		SampleRate:   cfg.OTELSampleRate,
		Enabled:      cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Catalog source.
	var accessor catalog.Accessor
	var taxonomy catalog.TaxonomyProvider
	healthHandler := health.NewHandler()

	switch cfg.CatalogSource {
	case config.SourceShopify:
		client := httpclient.New(httpclient.DefaultConfig())
		accessor = catalog.NewShopifyClient(catalog.ShopifyConfig{
			StoreDomain: cfg.ShopifyStoreDomain,
			AccessToken: cfg.ShopifyAccessToken,
			APIVersion:  cfg.ShopifyAPIVersion,
		}, client, logger)
		logger.Info("catalog source: shopify",
			slog.String("store", cfg.ShopifyStoreDomain),
			slog.String("api_version", cfg.ShopifyAPIVersion),
		)
	default:
		snapshot := catalog.NewSnapshot(cfg.SnapshotPath, logger)
		accessor = snapshot
		taxonomy = snapshot
		logger.Info("catalog source: local snapshot",
			slog.String("path", cfg.SnapshotPath),
			slog.Int("products", snapshot.Len()),
		)
	}

	// Optional Redis read-through cache.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = database.NewRedisClient(ctx, database.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
		accessor = catalog.NewCachedAccessor(accessor, redisClient, ttl, logger)
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		logger.Info("catalog cache enabled", slog.String("addr", cfg.RedisAddr))
	}

	// Optional Kafka analytics.
	var producer *pkgkafka.Producer
	var events engine.Events
	if len(cfg.KafkaBrokers) > 0 {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		events = event.NewPublisher(producer, logger)
		healthHandler.Register("kafka", producer.Ping)
		logger.Info("analytics publisher initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	querySvc := engine.NewService(accessor, taxonomy, events, logger)
	registry := tools.NewRegistry(querySvc, logger)
	router := handler.NewRouter(querySvc, registry, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:          cfg,
		logger:       logger,
		redisClient:  redisClient,
		producer:     producer,
		httpServer:   httpServer,
		traceCleanup: traceCleanup,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.traceCleanup(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
