package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"nosticpos/backend/internal/domain"
)

// RedisCache backs both the today-summary snapshot and the token denylist
// with a single Redis connection.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr string, password string, db int) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisCache{client: client}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Get(ctx context.Context, key string) (*domain.TodaySummary, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var summary domain.TodaySummary
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return nil, false, err
	}
	return &summary, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value *domain.TodaySummary, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func (c *RedisCache) Deny(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, denyKey(tokenID), "1", ttl).Err()
}

func (c *RedisCache) IsDenied(ctx context.Context, tokenID string) (bool, error) {
	_, err := c.client.Get(ctx, denyKey(tokenID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func denyKey(tokenID string) string {
	return "auth:denied:" + tokenID
}
