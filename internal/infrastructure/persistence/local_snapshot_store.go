package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

var cartsBucket = []byte("carts")

// LocalSnapshotStore persists snapshots in a single bolt file on local disk
type LocalSnapshotStore struct {
	db *bolt.DB
}

// NewLocalSnapshotStore opens (or creates) the bolt file at path. timeout
// bounds how long Open waits for the file lock held by another process.
func NewLocalSnapshotStore(path string, timeout time.Duration) (*LocalSnapshotStore, error) {
	if path == "" {
		return nil, fmt.Errorf("local snapshot path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cartsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create carts bucket: %w", err)
	}

	return &LocalSnapshotStore{db: db}, nil
}

func (s *LocalSnapshotStore) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(cartsBucket).Get([]byte(key))
		if v == nil {
			return shared.ErrNotFound
		}
		// bolt values are only valid for the life of the transaction
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *LocalSnapshotStore) Put(_ context.Context, key string, data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cartsBucket).Put([]byte(key), data)
	})
}

func (s *LocalSnapshotStore) Delete(_ context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cartsBucket).Delete([]byte(key))
	})
}

// Ping verifies the file is still readable
func (s *LocalSnapshotStore) Ping(context.Context) error {
	return s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(cartsBucket) == nil {
			return fmt.Errorf("carts bucket missing")
		}
		return nil
	})
}

// Close releases the file lock
func (s *LocalSnapshotStore) Close() error {
	return s.db.Close()
}

var _ cart.SnapshotStore = (*LocalSnapshotStore)(nil)
