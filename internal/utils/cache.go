package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"strconv"       // Version formatting
	"time"          // Time durations

	"inventory_sales/internal/metrics" // Cache hit/miss counters

	"github.com/redis/go-redis/v9" // Redis client
)

// All helpers treat a nil client as a disabled cache: reads miss, writes no-op.

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	if rdb == nil {
		return false, nil // Cache disabled
	}
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		metrics.CacheResult(false)
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err // Corrupt entry
	}
	metrics.CacheResult(true)
	return true, nil
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	if rdb == nil {
		return nil // Cache disabled
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes keys from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, keys ...string) error {
	if rdb == nil {
		return nil // Cache disabled
	}
	return rdb.Del(ctx, keys...).Err() // Delete keys from Redis
}

// CacheVersion returns the current version of a key namespace. Versioned keys
// let a single INCR invalidate every cached page of a list.
func CacheVersion(ctx context.Context, rdb *redis.Client, namespace string) string {
	if rdb == nil {
		return "0" // Cache disabled
	}
	v, err := rdb.Get(ctx, namespace+":version").Int64() // Read the counter
	if err != nil {
		return "0" // Missing or unreadable counter
	}
	return strconv.FormatInt(v, 10)
}

// BumpCacheVersion invalidates every key built on the namespace's current version
func BumpCacheVersion(ctx context.Context, rdb *redis.Client, namespace string) error {
	if rdb == nil {
		return nil // Cache disabled
	}
	return rdb.Incr(ctx, namespace+":version").Err() // Move to the next version
}
