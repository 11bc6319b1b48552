// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

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
	// keyPrefix namespaces every taxonomy key.
	keyPrefix = "taxonomy:"

	// genKey holds the current generation. Entries are stored under
	// keyPrefix + "v<gen>:" so a bump makes every older entry unreachable.
	genKey = keyPrefix + "gen"

	// DefaultTTL is how long a resolved response stays cached.
	DefaultTTL = 10 * time.Minute
)

// TopicsKey is the cache key of the public topic forest.
func TopicsKey() string {
	return "topics"
}

// TagsKey is the cache key of the public tag list for group ("" for all).
// Group keys carry their own segment so no group name can collide with the
// unfiltered list.
func TagsKey(group string) string {
	if group == "" {
		return "tags"
	}
	return "tags:g:" + group
}

func entryKey(gen int64, key string) string {
	return fmt.Sprintf("%sv%d:%s", keyPrefix, gen, key)
}

// TaxonomyCache stores resolved taxonomy responses as JSON in Valkey.
// Every error is logged and reported as a miss; a broken cache never fails
// a request.
type TaxonomyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTaxonomyCache creates a cache backed by the given Valkey client.
func NewTaxonomyCache(client *redis.Client, ttl time.Duration) *TaxonomyCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &TaxonomyCache{client: client, ttl: ttl}
}

// Generation returns the current cache generation. Callers read it before
// loading from the store and pass it to Set, so a value computed before an
// invalidation lands in a generation nobody reads anymore. ok is false when
// Valkey cannot be reached; the caller should then skip the cache.
func (c *TaxonomyCache) Generation(ctx context.Context) (int64, bool) {
	gen, err := c.client.Get(ctx, genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		slog.Warn("taxonomy cache generation error", "error", err)
		return 0, false
	}
	return gen, true
}

// Get decodes the value stored under key in generation gen into dst. It
// reports false on a miss or any error.
func (c *TaxonomyCache) Get(ctx context.Context, gen int64, key string, dst any) bool {
	val, err := c.client.Get(ctx, entryKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		slog.Warn("taxonomy cache get error", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		slog.Warn("taxonomy cache decode error", "key", key, "error", err)
		return false
	}
	slog.Debug("taxonomy cache hit", "key", key, "gen", gen)
	return true
}

// Set stores v under key in generation gen with the configured TTL.
func (c *TaxonomyCache) Set(ctx context.Context, gen int64, key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Warn("taxonomy cache encode error", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, entryKey(gen, key), payload, c.ttl).Err(); err != nil {
		slog.Warn("taxonomy cache set error", "key", key, "error", err)
	}
}

// InvalidateAll starts a new generation and then deletes the stored
// entries. Any mutation can change inherited styles anywhere below it, so
// entries are never invalidated one at a time.
func (c *TaxonomyCache) InvalidateAll(ctx context.Context) {
	if err := c.client.Incr(ctx, genKey).Err(); err != nil {
		slog.Warn("taxonomy cache generation bump error", "error", err)
	}

	var cursor uint64
	var deleted int
	for {
		keys, next, err := c.client.Scan(ctx, cursor, keyPrefix+"v*", 100).Result()
		if err != nil {
			slog.Warn("taxonomy cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("taxonomy cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	slog.Debug("taxonomy cache cleared", "deleted", deleted)
}
