package cache

import (
	"context"
	"testing"
	"time"

	"medimarket/internal/domain/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, client
}

func TestIdentityCache_RoundTrip(t *testing.T) {
	server, client := newTestRedis(t)
	cache := NewIdentityCache(client, time.Minute)
	ctx := context.Background()

	user, err := cache.Get(ctx, "kp_123")
	require.NoError(t, err)
	assert.Nil(t, user)

	stored := &entity.User{ID: uuid.New(), Email: "asha@example.com", RoleID: entity.RoleIDPatient, IsActive: true}
	require.NoError(t, cache.Set(ctx, "kp_123", stored))
	assert.Equal(t, time.Minute, server.TTL("identity:kp_123"))

	user, err = cache.Get(ctx, "kp_123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, stored.ID, user.ID)
	assert.True(t, user.IsPatient())

	require.NoError(t, cache.Delete(ctx, "kp_123"))
	user, err = cache.Get(ctx, "kp_123")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestTokenDenylist(t *testing.T) {
	server, client := newTestRedis(t)
	denylist := NewTokenDenylist(client)
	ctx := context.Background()

	revoked, err := denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, denylist.Revoke(ctx, "jti-1", 30*time.Second))
	revoked, err = denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	server.FastForward(31 * time.Second)
	revoked, err = denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
