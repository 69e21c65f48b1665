package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the subset of *redis.Client the services use.
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

var _ CacheClient = (*redis.Client)(nil)

const (
	pendingOrdersKey  = "orders:pending"
	buyerOrdersPrefix = "orders:buyer:"
	productKeyFormat  = "product:%d"
	productsKey       = "products:all"
	generationSuffix  = ":gen"

	defaultCacheTTL = 10 * time.Second
)

func buyerOrdersKey(email string) string {
	return buyerOrdersPrefix + email
}

// cacheGet decodes the cached value at key into dst. Misses and broken
// entries both report false.
func cacheGet(ctx context.Context, c CacheClient, key string, dst any) bool {
	if c == nil {
		return false
	}
	b, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache: get %s: %v", key, err)
		}
		return false
	}
	return json.Unmarshal(b, dst) == nil
}

func cacheSet(ctx context.Context, c CacheClient, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("cache: set %s: %v", key, err)
	}
}

// cacheGeneration returns the key that holds the current generation of the
// list cached under key. It reports false when the generation cannot be read,
// in which case the list must not be cached.
func cacheGeneration(ctx context.Context, c CacheClient, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	n, err := c.Get(ctx, key+generationSuffix).Int64()
	if err != nil && err != redis.Nil {
		log.Printf("cache: generation %s: %v", key, err)
		return "", false
	}
	return fmt.Sprintf("%s:v%d", key, n), true
}

// cacheBump moves each list to a new generation. A load that read the old
// generation can only fill a key that is no longer read.
func cacheBump(ctx context.Context, c CacheClient, keys ...string) {
	if c == nil {
		return
	}
	for _, key := range keys {
		if err := c.Incr(ctx, key+generationSuffix).Err(); err != nil {
			log.Printf("cache: bump %s: %v", key, err)
		}
	}
}
