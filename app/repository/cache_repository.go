package repository

import (
	"context"
	"sort"
	"time"

	"github.com/subpilot/subpilot/internal/pkg/cache"
)

// cacheRepository implements the CacheRepository interface
type cacheRepository struct {
	// operates on Redis, not on GORM
}

// NewCacheRepository creates a new cache repository instance
func NewCacheRepository() CacheRepository {
	return &cacheRepository{}
}

// GetAllKeys retrieves all keys from the cache
func (r *cacheRepository) GetAllKeys() ([]string, error) {
	ctx := context.Background()

	keys, err := cache.GetClient().Keys(ctx, "*").Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// GetValue retrieves a value for a specific key
func (r *cacheRepository) GetValue(key string) (string, error) {
	ctx := context.Background()
	return cache.GetClient().Get(ctx, key).Result()
}

// GetTTL retrieves the remaining time-to-live of a key
func (r *cacheRepository) GetTTL(key string) (time.Duration, error) {
	ctx := context.Background()
	return cache.GetClient().TTL(ctx, key).Result()
}

// DeleteKey removes a single key, returning the number of removed entries
func (r *cacheRepository) DeleteKey(key string) (int64, error) {
	ctx := context.Background()
	return cache.GetClient().Del(ctx, key).Result()
}

// FindKeysByPatterns collects the keys matching any of the given glob patterns
func (r *cacheRepository) FindKeysByPatterns(patterns []string) ([]string, error) {
	ctx := context.Background()
	seen := make(map[string]struct{})
	var result []string

	for _, pattern := range patterns {
		keys, err := cache.GetClient().Keys(ctx, pattern).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			result = append(result, key)
		}
	}
	sort.Strings(result)
	return result, nil
}

// DeleteKeys removes multiple keys at once
func (r *cacheRepository) DeleteKeys(keys []string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	ctx := context.Background()
	return cache.GetClient().Del(ctx, keys...).Result()
}
