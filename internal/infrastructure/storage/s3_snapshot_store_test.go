package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func validS3Config() *config.S3Config {
	return &config.S3Config{
		Endpoint:     "http://localhost:9000",
		Region:       "us-east-1",
		Bucket:       "carts",
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		UsePathStyle: true,
	}
}

func TestNewS3SnapshotStore_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3SnapshotStore(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		cfg := validS3Config()
		cfg.Bucket = ""
		_, err := NewS3SnapshotStore(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		cfg := validS3Config()
		cfg.AccessKey = ""
		_, err := NewS3SnapshotStore(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		cfg := validS3Config()
		cfg.SecretKey = ""
		_, err := NewS3SnapshotStore(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("endpoint without scheme and logger option", func(t *testing.T) {
		cfg := validS3Config()
		cfg.Endpoint = "minio:9000"
		cfg.Region = ""
		logger := zaptest.NewLogger(t)

		store, err := NewS3SnapshotStore(cfg, WithLogger(logger))
		require.NoError(t, err)
		assert.Equal(t, "carts", store.bucket)
		assert.Same(t, logger, store.logger)
	})
}

func TestS3SnapshotStore_ObjectKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{"no prefix", "", "cart:abc", "cart/abc.json"},
		{"prefix trimmed", "/snapshots/", "cart:abc", "snapshots/cart/abc.json"},
		{"custom key prefix", "env", "shop:cart:abc", "env/shop/cart/abc.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validS3Config()
			cfg.Prefix = tt.prefix
			store, err := NewS3SnapshotStore(cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, store.objectKey(tt.key))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&types.NoSuchKey{}))
	assert.True(t, isNotFound(fmt.Errorf("wrapped: %w", &types.NotFound{})))
	assert.True(t, isNotFound(errors.New("api error NoSuchKey: The specified key does not exist")))
	assert.False(t, isNotFound(errors.New("access denied")))
}
