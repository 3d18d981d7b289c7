package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LoadCart reads the cart persisted under key. A missing key yields an empty
// cart. Read and parse failures are logged and also yield an empty cart.
func LoadCart(ctx context.Context, snapshots cart.SnapshotStore, key string, l *zap.Logger) cart.Cart {
	log := logger.Enrich(ctx, l).With(zap.String("key", key))

	data, err := snapshots.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			log.Warn("Failed to read cart snapshot, starting with an empty cart", zap.Error(err))
		}
		return cart.New()
	}

	c, err := cart.DecodeSnapshot(data)
	if err != nil {
		log.Warn("Failed to parse cart snapshot, starting with an empty cart", zap.Error(err))
		return cart.New()
	}
	return c
}

// SnapshotPersister writes the cart slice to a snapshot store. It is meant
// to be subscribed to a Store, so every committed transition is persisted.
// Writes are skipped when the cart is unchanged since the last successful write.
type SnapshotPersister struct {
	snapshots cart.SnapshotStore
	key       string

	mu   sync.Mutex
	last []byte
}

// NewSnapshotPersister creates a persister for key. initial is the cart the
// store was seeded with.
func NewSnapshotPersister(snapshots cart.SnapshotStore, key string, initial cart.Cart) *SnapshotPersister {
	p := &SnapshotPersister{snapshots: snapshots, key: key}
	if data, err := cart.EncodeSnapshot(initial); err == nil {
		p.last = data
	}
	return p
}

// Key returns the snapshot key written by the persister
func (p *SnapshotPersister) Key() string {
	return p.key
}

// Persist writes state.Cart. It implements Listener.
func (p *SnapshotPersister) Persist(ctx context.Context, state State) error {
	data, err := cart.EncodeSnapshot(state.Cart)
	if err != nil {
		return fmt.Errorf("persist cart snapshot: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.last != nil && bytes.Equal(p.last, data) {
		return nil
	}
	if err := p.snapshots.Put(ctx, p.key, data); err != nil {
		return fmt.Errorf("persist cart snapshot: %w", err)
	}
	p.last = data
	return nil
}
