package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by ProfileCache.Get when nothing is cached.
var ErrCacheMiss = errors.New("profile not cached")

// ProfileCache caches public user views. It never holds password hashes.
type ProfileCache interface {
	Get(ctx context.Context, id uuid.UUID) (*PublicUser, error)
	Set(ctx context.Context, u *PublicUser) error
	// Add stores u only if nothing is cached for u.ID yet.
	Add(ctx context.Context, u *PublicUser) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RedisCache stores profiles as JSON strings with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// profileKey generates the Redis key for a cached profile
func profileKey(id uuid.UUID) string {
	return fmt.Sprintf("user_profile:%s", id.String())
}

func (c *RedisCache) Get(ctx context.Context, id uuid.UUID) (*PublicUser, error) {
	data, err := c.client.Get(ctx, profileKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached profile: %w", err)
	}

	var u PublicUser
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("failed to decode cached profile: %w", err)
	}

	return &u, nil
}

func (c *RedisCache) Set(ctx context.Context, u *PublicUser) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	if err := c.client.Set(ctx, profileKey(u.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache profile: %w", err)
	}

	return nil
}

func (c *RedisCache) Add(ctx context.Context, u *PublicUser) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	if err := c.client.SetNX(ctx, profileKey(u.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache profile: %w", err)
	}

	return nil
}

func (c *RedisCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, profileKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to evict cached profile: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
