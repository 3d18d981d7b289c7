package cart

import (
	"context"
	"encoding/json"
	"fmt"
)

// DefaultKeyPrefix is the key under which carts are persisted
const DefaultKeyPrefix = "cart"

//go:generate mockgen -destination mocks/mock_snapshot_store.go -package mocks . SnapshotStore

// SnapshotStore is a raw key/value store holding serialized carts.
// Get returns shared.ErrNotFound when the key is absent.
type SnapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// SnapshotKey returns the storage key of a session's cart
func SnapshotKey(prefix, session string) string {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return prefix + ":" + session
}

// EncodeSnapshot serializes the cart as a JSON array of items
func EncodeSnapshot(c Cart) ([]byte, error) {
	items := c.Items
	if items == nil {
		items = []CartItem{}
	}
	return json.Marshal(items)
}

// DecodeSnapshot parses a JSON array of items. Entries written before quantity
// was persisted decode with quantity 1.
func DecodeSnapshot(data []byte) (Cart, error) {
	var items []CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return Cart{}, fmt.Errorf("decode cart snapshot: %w", err)
	}
	for i := range items {
		items[i] = items[i].withDefaultQuantity()
	}
	if items == nil {
		items = []CartItem{}
	}
	return Cart{Items: items}, nil
}
