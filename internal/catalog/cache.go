package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/redis"
)

// cacheStore is the slice of the redis client the catalog needs.
type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(entity string, parts ...string) string
}

// productCache is a read-through cache for product detail payloads. A cache
// failure is never surfaced; reads fall back to the database.
type productCache struct {
	store cacheStore
	ttl   time.Duration
}

func newProductCache(store cacheStore, ttl time.Duration) *productCache {
	if store == nil {
		return nil
	}
	return &productCache{store: store, ttl: ttl}
}

func (c *productCache) key(id uuid.UUID) string {
	return c.store.CacheKey("product", id.String())
}

func (c *productCache) get(ctx context.Context, id uuid.UUID) *ProductDTO {
	if c == nil {
		return nil
	}
	raw, err := c.store.Get(ctx, c.key(id))
	if err != nil {
		return nil
	}
	var dto ProductDTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		return nil
	}
	return &dto
}

func (c *productCache) set(ctx context.Context, dto *ProductDTO) {
	if c == nil || dto == nil {
		return
	}
	payload, err := json.Marshal(dto)
	if err != nil {
		return
	}
	_ = c.store.Set(ctx, c.key(dto.ID), payload, c.ttl)
}

func (c *productCache) invalidate(ctx context.Context, ids ...uuid.UUID) error {
	if c == nil || len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, c.key(id))
	}
	if err := c.store.Del(ctx, keys...); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
