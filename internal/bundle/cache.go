package bundle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	indexKey        = "bundles:index"
	bundleKeyPrefix = "bundle:"
)

// Cache is a read-through Redis cache in front of another Catalog. Cache
// misses and Redis failures both fall back to the wrapped Catalog, so the
// viewer behaves identically with Redis absent or down.
type Cache struct {
	next   Catalog
	client *redis.Client
	ttl    time.Duration
}

func NewCache(next Catalog, addr string, ttl time.Duration) *Cache {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &Cache{next: next, client: client, ttl: ttl}
}

func (c *Cache) List(ctx context.Context) ([]Doc, error) {
	cached, err := c.client.Get(ctx, indexKey).Bytes()
	if err == nil {
		var docs []Doc
		decodeErr := json.Unmarshal(cached, &docs)
		if decodeErr == nil {
			return docs, nil
		}
		slog.Warn("discarding undecodable cached index", "key", indexKey, "error", decodeErr)
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("bundle cache read failed", "key", indexKey, "error", err)
	}

	docs, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(docs); err == nil {
		if err := c.client.Set(ctx, indexKey, data, c.ttl).Err(); err != nil {
			slog.Warn("bundle cache write failed", "key", indexKey, "error", err)
		}
	}
	return docs, nil
}

func (c *Cache) Get(ctx context.Context, docID string) (*Bundle, error) {
	raw, err := c.Raw(ctx, docID)
	if err != nil {
		return nil, err
	}
	b, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode bundle %s: %w", docID, err)
	}
	return b, nil
}

func (c *Cache) Raw(ctx context.Context, docID string) ([]byte, error) {
	key := bundleKeyPrefix + docID
	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		slog.Warn("bundle cache read failed", "key", key, "error", err)
	}

	raw, err := c.next.Raw(ctx, docID)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		slog.Warn("bundle cache write failed", "key", key, "error", err)
	}
	return raw, nil
}

func (c *Cache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}
	return c.next.Close()
}
