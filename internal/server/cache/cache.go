// Package cache provides a Redis-backed query result cache with
// singleflight deduplication of concurrent identical queries.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/jobscout/jobscout/internal/search/executor"
	"github.com/jobscout/jobscout/pkg/config"
	pkgredis "github.com/jobscout/jobscout/pkg/redis"
)

const keyPrefix = "search:"

// QueryCache caches executor results keyed by query and options.
type QueryCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a QueryCache on top of a connected Redis client.
func New(client *pkgredis.Client, cfg config.RedisConfig) *QueryCache {
	return &QueryCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "query-cache"),
	}
}

// Get returns a cached result, or (nil, false) on miss or cache trouble;
// cache failures degrade to a miss, never an error.
func (c *QueryCache) Get(ctx context.Context, query string, opts executor.Options) (*executor.Result, bool) {
	key := c.buildKey(query, opts)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var result executor.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return &result, true
}

// Set stores a result with the configured TTL. Failures are logged, not
// returned; the caller already has the result.
func (c *QueryCache) Set(ctx context.Context, query string, opts executor.Options, result *executor.Result) {
	key := c.buildKey(query, opts)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result or computes and caches it, with
// concurrent identical queries collapsed into one computation. The bool
// reports whether the result came from cache.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	query string,
	opts executor.Options,
	computeFn func() (*executor.Result, error),
) (*executor.Result, bool, error) {
	if result, ok := c.Get(ctx, query, opts); ok {
		return result, true, nil
	}
	key := c.buildKey(query, opts)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if result, ok := c.Get(ctx, query, opts); ok {
			return result, nil
		}
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, query, opts, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*executor.Result), false, nil
}

// Invalidate removes every cached query result. Called after an index
// rebuild, since any cached ranking may be stale.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating query cache: %w", err)
	}
	c.logger.Info("query cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns the hit and miss counters.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) buildKey(query string, opts executor.Options) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%d|%d", query, opts.Limit, opts.MinSalary))
	return keyPrefix + hex.EncodeToString(sum[:])
}
