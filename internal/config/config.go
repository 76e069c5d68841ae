package config

import (
	"fmt"

	pkgconfig "github.com/ketanjain7981/shop-savy/pkg/config"
)

// Catalog source selectors.
const (
	SourceLocal   = "local"
	SourceShopify = "shopify"
)

// Config holds all configuration for the query engine service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Catalog source: a local JSON snapshot or a remote Shopify store.
	CatalogSource string `env:"CATALOG_SOURCE" envDefault:"local"`
	SnapshotPath  string `env:"CATALOG_SNAPSHOT_PATH" envDefault:"data/products.json"`

	ShopifyStoreDomain string `env:"SHOPIFY_STORE_DOMAIN"`
	ShopifyAccessToken string `env:"SHOPIFY_ACCESS_TOKEN"`
	ShopifyAPIVersion  string `env:"SHOPIFY_API_VERSION" envDefault:"2025-01"`

	// Redis catalog cache; empty address disables caching.
	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	CacheTTLSeconds int    `env:"CATALOG_CACHE_TTL_SECONDS" envDefault:"300"`

	// Kafka analytics; no brokers disables event publication.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load query engine config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	switch cfg.CatalogSource {
	case SourceLocal:
		if cfg.SnapshotPath == "" {
			return nil, fmt.Errorf("CATALOG_SNAPSHOT_PATH is required for the local catalog source")
		}
	case SourceShopify:
		if cfg.ShopifyStoreDomain == "" {
			return nil, fmt.Errorf("SHOPIFY_STORE_DOMAIN is required for the shopify catalog source")
		}
		if cfg.ShopifyAccessToken == "" {
			return nil, fmt.Errorf("SHOPIFY_ACCESS_TOKEN is required for the shopify catalog source")
		}
	default:
		return nil, fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q", SourceLocal, SourceShopify, cfg.CatalogSource)
	}
	if cfg.CacheTTLSeconds < 0 {
		return nil, fmt.Errorf("CATALOG_CACHE_TTL_SECONDS must not be negative, got %d", cfg.CacheTTLSeconds)
	}
	if cfg.OTELSampleRate < 0 || cfg.OTELSampleRate > 1.0 {
		return nil, fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", cfg.OTELSampleRate)
	}
	return cfg, nil
}
