package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stemsi/campus-portal/internal/config"
	"github.com/stemsi/campus-portal/internal/model"
)

// IdentityCache remembers which user a token resolved to for a short while.
// Get returns (nil, nil) on a miss.
type IdentityCache interface {
	Get(ctx context.Context, token string) (*model.User, error)
	Set(ctx context.Context, token string, user *model.User) error
	Delete(ctx context.Context, token string) error
}

// RedisIdentityCache stores identities as JSON under the token's SHA-256 digest.
type RedisIdentityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisIdentityCache(rdb *redis.Client, ttl time.Duration) *RedisIdentityCache {
	return &RedisIdentityCache{rdb: rdb, ttl: ttl}
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (c *RedisIdentityCache) key(token string) string {
	return config.CacheKey.IdentityKey(tokenDigest(token))
}

func (c *RedisIdentityCache) Get(ctx context.Context, token string) (*model.User, error) {
	raw, err := c.rdb.Get(ctx, c.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get identity: %w", err)
	}
	var u model.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode cached identity: %w", err)
	}
	return &u, nil
}

func (c *RedisIdentityCache) Set(ctx context.Context, token string, user *model.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key(token), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set identity: %w", err)
	}
	return nil
}

func (c *RedisIdentityCache) Delete(ctx context.Context, token string) error {
	if err := c.rdb.Del(ctx, c.key(token)).Err(); err != nil {
		return fmt.Errorf("redis del identity: %w", err)
	}
	return nil
}
