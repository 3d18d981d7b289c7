package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startRedis runs a throwaway Redis container and returns its connection config
func startRedis(t *testing.T) config.RedisConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Redis container test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return config.RedisConfig{Host: host, Port: port.Int()}
}

func TestNewRedisSnapshotStore_Unreachable(t *testing.T) {
	_, err := NewRedisSnapshotStore(config.RedisConfig{Host: "127.0.0.1", Port: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestNewRedisSnapshotStoreWithClient_DefaultPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	store := NewRedisSnapshotStoreWithClient(client, "", 0)
	assert.Equal(t, "storefront:", store.keyPrefix)
}

func TestRedisSnapshotStore(t *testing.T) {
	cfg := startRedis(t)
	ctx := context.Background()

	t.Run("missing key returns not found", func(t *testing.T) {
		store, err := NewRedisSnapshotStore(cfg)
		require.NoError(t, err)
		defer store.Close()

		_, err = store.Get(ctx, "cart:absent")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("put get delete", func(t *testing.T) {
		store, err := NewRedisSnapshotStore(cfg)
		require.NoError(t, err)
		defer store.Close()

		require.NoError(t, store.Put(ctx, "cart:s1", []byte(`[{"id":1,"quantity":2}]`)))

		got, err := store.Get(ctx, "cart:s1")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":1,"quantity":2}]`, string(got))

		require.NoError(t, store.Delete(ctx, "cart:s1"))
		_, err = store.Get(ctx, "cart:s1")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("ttl is applied on write", func(t *testing.T) {
		cfg := cfg
		cfg.TTL = time.Hour
		store, err := NewRedisSnapshotStore(cfg)
		require.NoError(t, err)
		defer store.Close()

		require.NoError(t, store.Put(ctx, "cart:ttl", []byte(`[]`)))

		ttl, err := store.client.TTL(ctx, "storefront:cart:ttl").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, 59*time.Minute)
	})
}
