package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"lager_server/structs"
	"lager_server/structs/tables"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

// CacheService provides Redis caching with retry logic. With caching disabled
// every read is a miss and every write is dropped.
type CacheService struct {
	logger *gecho.Logger
	config *structs.CacheConfig
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.CacheConfig) *CacheService {
	cs := &CacheService{
		logger: logger,
		config: cfg,
	}
	if cfg.Enabled {
		cs.client = newRedisClient(cfg)
	}
	return cs
}

func newRedisClient(cfg *structs.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,

		// Connection pool settings
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		// Timeouts
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,

		MaxRetries: cfg.MaxRetries,
	})
}

// Enabled reports whether a Redis client is configured.
func (cs *CacheService) Enabled() bool {
	return cs.client != nil
}

func (cs *CacheService) Close() error {
	if cs.client != nil {
		return cs.client.Close()
	}
	return nil
}

// withRetry executes a Redis operation with exponential backoff retry logic
func (cs *CacheService) withRetry(ctx context.Context, operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		// Don't retry on the last attempt
		if attempt == maxRetries {
			break
		}

		// Only retry on network/connection errors, not on logical errors like key not found
		if !isRetryableCacheError(err) {
			return err
		}

		backoff := min(100*(1<<attempt), 2000) // ms
		// add jitter, half the backoff at most
		sleep := time.Duration(backoff/2+rand.IntN(backoff/2+1)) * time.Millisecond

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}

	return fmt.Errorf("redis operation failed after %d retries: %w", maxRetries, lastErr)
}

// isRetryableCacheError determines if an error is worth retrying
func isRetryableCacheError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}

	errStr := err.Error()
	retryableErrors := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	}

	for _, retryableErr := range retryableErrors {
		if strings.Contains(errStr, retryableErr) {
			return true
		}
	}

	return false
}

// Set sets a key with TTL and automatic retry logic
func (cs *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if cs.client == nil {
		return nil
	}
	return cs.withRetry(ctx, func() error {
		return cs.client.Set(ctx, key, value, ttl).Err()
	}, 2)
}

// Get returns "" for a missing key.
func (cs *CacheService) Get(ctx context.Context, key string) (string, error) {
	if cs.client == nil {
		return "", nil
	}

	var result string
	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			result = ""
			return nil // Don't retry on key not found
		}
		if err != nil {
			return err
		}
		result = val
		return nil
	}, 2)

	return result, err
}

// Delete removes keys with automatic retry logic
func (cs *CacheService) Delete(ctx context.Context, keys ...string) error {
	if cs.client == nil || len(keys) == 0 {
		return nil
	}
	return cs.withRetry(ctx, func() error {
		return cs.client.Del(ctx, keys...).Err()
	}, 2)
}

// IncrementRateLimit atomically increments a rate limit counter
func (cs *CacheService) IncrementRateLimit(ctx context.Context, key string, ttl time.Duration) (int, error) {
	if cs.client == nil {
		return 0, nil
	}

	key = "ratelimit:" + key
	var result int64
	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Incr(ctx, key).Result()
		if err != nil {
			return err
		}
		result = val

		// Set expiration only on first increment
		if val == 1 {
			return cs.client.Expire(ctx, key, ttl).Err()
		}
		return nil
	}, 1)

	return int(result), err
}

// Ping tests the Redis connection
func (cs *CacheService) Ping(ctx context.Context) error {
	if cs.client == nil {
		return nil
	}
	return cs.client.Ping(ctx).Err()
}

// GetConnectionStats returns Redis connection pool statistics
func (cs *CacheService) GetConnectionStats() map[string]any {
	if cs.client == nil {
		return map[string]any{"enabled": false}
	}

	stats := cs.client.PoolStats()
	return map[string]any{
		"enabled":     true,
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

// DeletePattern removes all keys matching a pattern using SCAN
func (cs *CacheService) DeletePattern(ctx context.Context, pattern string) (int, error) {
	if cs.client == nil {
		return 0, nil
	}

	deleted := 0
	err := cs.withRetry(ctx, func() error {
		var cursor uint64
		deleted = 0

		for {
			keys, nextCursor, err := cs.client.Scan(ctx, cursor, pattern, 100).Result()
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if len(keys) > 0 {
				if err := cs.client.Del(ctx, keys...).Err(); err != nil {
					return fmt.Errorf("delete failed: %w", err)
				}
				deleted += len(keys)
			}

			cursor = nextCursor
			if cursor == 0 {
				break
			}
		}

		return nil
	}, 2)

	return deleted, err
}

// ============================================================================
// Product Caching Methods
// ============================================================================

func productIDKey(id int64) string {
	return "product:id:" + strconv.FormatInt(id, 10)
}

func productEANKey(ean string) string {
	return "product:ean:" + ean
}

// GetProduct retrieves a cached product by ID
func (cs *CacheService) GetProduct(ctx context.Context, id int64) (*tables.Product, error) {
	return getJSON[tables.Product](ctx, cs, productIDKey(id))
}

// SetProduct caches a product by ID and records its EAN mapping.
func (cs *CacheService) SetProduct(ctx context.Context, product *tables.Product) error {
	if cs.client == nil || product == nil {
		return nil
	}
	if err := setJSON(ctx, cs, productIDKey(product.ID), product, cs.productTTL()); err != nil {
		return err
	}
	return cs.Set(ctx, productEANKey(product.EAN), product.ID, cs.productTTL())
}

// GetProductIDByEAN returns 0 on a miss. The mapping can be stale after an
// EAN edit, so callers must compare the EAN of the product it points to.
func (cs *CacheService) GetProductIDByEAN(ctx context.Context, ean string) (int64, error) {
	val, err := cs.Get(ctx, productEANKey(ean))
	if err != nil || val == "" {
		return 0, err
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid cached product id: %w", err)
	}
	return id, nil
}

// InvalidateProduct drops the cached row and, when known, its EAN mapping.
func (cs *CacheService) InvalidateProduct(ctx context.Context, id int64, ean string) error {
	keys := []string{productIDKey(id)}
	if ean != "" {
		keys = append(keys, productEANKey(ean))
	}
	return cs.Delete(ctx, keys...)
}

// InvalidateAllProducts removes every product key.
func (cs *CacheService) InvalidateAllProducts(ctx context.Context) (int, error) {
	n, err := cs.DeletePattern(ctx, "product:*")
	if err != nil {
		return 0, err
	}
	cs.logger.Info("All product caches invalidated successfully", gecho.Field("keys", n))
	return n, nil
}

func (cs *CacheService) productTTL() time.Duration {
	if cs.config.ProductTTL > 0 {
		return cs.config.ProductTTL
	}
	return 5 * time.Minute // fallback default
}

func setJSON[T any](ctx context.Context, cs *CacheService, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cs.Set(ctx, key, data, ttl)
}

func getJSON[T any](ctx context.Context, cs *CacheService, key string) (*T, error) {
	val, err := cs.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if val == "" {
		return nil, nil // not found in cache
	}

	var result T
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, err
	}

	return &result, nil
}
