package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"butik/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Redis-backed CartCache with a jittered TTL so a burst
// of writes does not expire all at once.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

// NewRedisCache creates a new RedisCache on the given client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

func (r *RedisCache) Get(ctx context.Context, userID string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, cacheKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &cart, nil
}

func (r *RedisCache) Set(ctx context.Context, userID string, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, cacheKey(userID), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}
