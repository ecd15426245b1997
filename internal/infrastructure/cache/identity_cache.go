package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"medimarket/internal/domain/entity"

	"github.com/redis/go-redis/v9"
)

const identityKeyPrefix = "identity:"

// IdentityCache stores synced users in Redis keyed by identity provider subject.
type IdentityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdentityCache(client *redis.Client, ttl time.Duration) *IdentityCache {
	return &IdentityCache{client: client, ttl: ttl}
}

func (c *IdentityCache) Get(ctx context.Context, authID string) (*entity.User, error) {
	raw, err := c.client.Get(ctx, identityKeyPrefix+authID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached identity: %w", err)
	}

	var user entity.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("decode cached identity: %w", err)
	}
	return &user, nil
}

func (c *IdentityCache) Set(ctx context.Context, authID string, user *entity.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	return c.client.Set(ctx, identityKeyPrefix+authID, raw, c.ttl).Err()
}

func (c *IdentityCache) Delete(ctx context.Context, authID string) error {
	return c.client.Del(ctx, identityKeyPrefix+authID).Err()
}
