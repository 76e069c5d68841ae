package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ketanjain7981/shop-savy/internal/domain"
)

// DefaultCacheTTL bounds how stale cached catalog reads may get.
const DefaultCacheTTL = 5 * time.Minute

// CachedAccessor is a read-through cache in front of another accessor. Pages
// and single products are cached; text matches always hit the source because
// query strings make poor cache keys. A nil redis client disables caching and
// every call passes straight through.
type CachedAccessor struct {
	source Accessor
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedAccessor wraps source with a redis read-through cache.
func NewCachedAccessor(source Accessor, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedAccessor {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedAccessor{
		source: source,
		redis:  client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedAccessor) FetchPage(ctx context.Context, limit int, pageToken string) (Page, error) {
	if c.redis == nil {
		return c.source.FetchPage(ctx, limit, pageToken)
	}

	key := fmt.Sprintf("catalog:page:%d:%s", limit, pageToken)
	if raw, err := c.redis.Get(ctx, key).Bytes(); err == nil {
		var page Page
		if err := json.Unmarshal(raw, &page); err == nil {
			return page, nil
		}
		// Corrupt entry; fall through to the source and overwrite it.
	}

	page, err := c.source.FetchPage(ctx, limit, pageToken)
	if err != nil {
		return Page{}, err
	}
	c.store(ctx, key, page)
	return page, nil
}

func (c *CachedAccessor) FetchByID(ctx context.Context, id int64) (*domain.Product, error) {
	if c.redis == nil {
		return c.source.FetchByID(ctx, id)
	}

	key := fmt.Sprintf("catalog:product:%d", id)
	if raw, err := c.redis.Get(ctx, key).Bytes(); err == nil {
		var p domain.Product
		if err := json.Unmarshal(raw, &p); err == nil {
			return &p, nil
		}
	}

	p, err := c.source.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, p)
	return p, nil
}

func (c *CachedAccessor) FetchRawTextMatch(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	return c.source.FetchRawTextMatch(ctx, query, limit)
}

// store writes a cache entry best-effort; failures are logged, never surfaced.
func (c *CachedAccessor) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("catalog cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
