// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

package books

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/phamduc/sachly/internal/platform/constants"
)

// # Rating Summary Cache

// RedisRatingCache implements [RatingCache] on top of go-redis.
//
// Entries are JSON blobs keyed by book ID under the rating-summary prefix
// and carry a TTL so a missed invalidation heals itself.
type RedisRatingCache struct {
	client *redis.Client
}

// NewRatingCache creates a Redis-backed rating summary cache.
func NewRatingCache(client *redis.Client) *RedisRatingCache {
	return &RedisRatingCache{client: client}
}

// key builds the namespaced Redis key for a book's summary.
func (cache *RedisRatingCache) key(bookID string) string {
	return constants.RedisPrefixRatingSummary + bookID
}

/*
Get retrieves a cached summary.

Returns:
  - *RatingSummary: The cached value, or nil
  - bool: Whether the key was present
  - error: Connectivity or decode errors (callers treat these as misses)
*/
func (cache *RedisRatingCache) Get(context context.Context, bookID string) (*RatingSummary, bool, error) {
	payload, err := cache.client.Get(context, cache.key(bookID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("rating_cache_get_failed: %w", err)
	}

	summary := &RatingSummary{}
	if err := json.Unmarshal(payload, summary); err != nil {
		// A corrupt entry is unreadable forever; drop it so the next
		// write repopulates a clean one.
		_ = cache.client.Del(context, cache.key(bookID)).Err()
		return nil, false, fmt.Errorf("rating_cache_decode_failed: %w", err)
	}

	return summary, true, nil
}

// Set stores a summary with the standard TTL.
func (cache *RedisRatingCache) Set(context context.Context, bookID string, summary *RatingSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("rating_cache_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, cache.key(bookID), payload, constants.RatingSummaryCacheTTL).Err(); err != nil {
		return fmt.Errorf("rating_cache_set_failed: %w", err)
	}

	return nil
}

// Invalidate drops the cached summary after a rating write.
func (cache *RedisRatingCache) Invalidate(context context.Context, bookID string) error {
	if err := cache.client.Del(context, cache.key(bookID)).Err(); err != nil {
		return fmt.Errorf("rating_cache_invalidate_failed: %w", err)
	}
	return nil
}
