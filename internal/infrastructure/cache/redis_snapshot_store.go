package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
)

const defaultRedisKeyPrefix = "storefront:"

// RedisSnapshotStore keeps cart snapshots in Redis so several instances can
// share sessions
type RedisSnapshotStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisSnapshotStore connects to Redis and verifies the connection
func NewRedisSnapshotStore(cfg config.RedisConfig) (*RedisSnapshotStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSnapshotStoreWithClient(client, defaultRedisKeyPrefix, cfg.TTL), nil
}

// NewRedisSnapshotStoreWithClient wraps an existing client
func NewRedisSnapshotStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisSnapshotStore {
	if keyPrefix == "" {
		keyPrefix = defaultRedisKeyPrefix
	}
	return &RedisSnapshotStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (s *RedisSnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return data, nil
}

// Put stores the snapshot. A zero TTL keeps it until deleted; otherwise every
// write refreshes the expiry.
func (s *RedisSnapshotStore) Put(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func (s *RedisSnapshotStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Ping checks the Redis connection
func (s *RedisSnapshotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisSnapshotStore) Close() error {
	return s.client.Close()
}

var _ cart.SnapshotStore = (*RedisSnapshotStore)(nil)
