package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const maxDispatchAttempts = 3

// RegistryConfig holds the settings applied to every session store
type RegistryConfig struct {
	AddMode     cart.AddMode
	TaxRate     decimal.Decimal
	KeyPrefix   string
	MaxSessions int // 0 means unbounded
}

type entry struct {
	store      *Store
	persister  *SnapshotPersister
	lastAccess time.Time
}

// Registry owns the session stores. A store is created on first access,
// seeded from the snapshot store and subscribed to a SnapshotPersister.
type Registry struct {
	mu        sync.Mutex
	stores    map[uuid.UUID]*entry
	snapshots cart.SnapshotStore
	publisher shared.EventPublisher
	cfg       RegistryConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewRegistry creates a registry backed by snapshots
func NewRegistry(snapshots cart.SnapshotStore, publisher shared.EventPublisher, cfg RegistryConfig, logger *zap.Logger) *Registry {
	if cfg.AddMode == "" {
		cfg.AddMode = cart.AddModeMerge
	}
	if cfg.TaxRate.IsZero() {
		cfg.TaxRate = cart.DefaultTaxRate
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = cart.DefaultKeyPrefix
	}
	return &Registry{
		stores:    make(map[uuid.UUID]*entry),
		snapshots: snapshots,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger.Named("store"),
		now:       time.Now,
	}
}

// Config returns the registry configuration
func (r *Registry) Config() RegistryConfig {
	return r.cfg
}

// Get returns the store of session, constructing it on first access
func (r *Registry) Get(ctx context.Context, session uuid.UUID) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.stores[session]; ok {
		e.lastAccess = r.now()
		return e.store
	}

	key := cart.SnapshotKey(r.cfg.KeyPrefix, session.String())
	initial := LoadCart(ctx, r.snapshots, key, r.logger)

	s := NewStore(session,
		WithAddMode(r.cfg.AddMode),
		WithInitialState(State{Cart: initial}),
		WithEventPublisher(r.publisher),
		WithLogger(r.logger),
	)
	persister := NewSnapshotPersister(r.snapshots, key, initial)
	s.Subscribe(persister.Persist)

	r.evictIfFull()
	r.stores[session] = &entry{store: s, persister: persister, lastAccess: r.now()}
	r.logger.Debug("session store created",
		zap.String("session", session.String()),
		zap.Int("items", initial.Len()),
	)
	return s
}

// Dispatch runs action on the session store. A store evicted between
// lookup and dispatch is resolved again, so the action lands on the live store
// seeded from the evicted one's last snapshot.
func (r *Registry) Dispatch(ctx context.Context, session uuid.UUID, guard Guard, action Action) (State, error) {
	for attempt := 1; ; attempt++ {
		st, err := r.Get(ctx, session).DispatchIf(ctx, guard, action)
		if !errors.Is(err, ErrStoreClosed) || attempt == maxDispatchAttempts {
			return st, err
		}
	}
}

// Evict drops the in-memory store of session. The persisted cart is kept.
func (r *Registry) Evict(session uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(session)
}

// remove closes and forgets the store of session. Callers hold r.mu.
func (r *Registry) remove(session uuid.UUID) {
	e, ok := r.stores[session]
	if !ok {
		return
	}
	delete(r.stores, session)
	e.store.close()
}

// Len returns the number of live session stores
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// evictIfFull drops the least recently used store when MaxSessions is reached.
// Callers hold r.mu.
func (r *Registry) evictIfFull() {
	if r.cfg.MaxSessions <= 0 || len(r.stores) < r.cfg.MaxSessions {
		return
	}

	var oldest uuid.UUID
	var oldestAt time.Time
	for id, e := range r.stores {
		if oldestAt.IsZero() || e.lastAccess.Before(oldestAt) {
			oldest, oldestAt = id, e.lastAccess
		}
	}
	r.remove(oldest)
	r.logger.Debug("session store evicted", zap.String("session", oldest.String()))
}
