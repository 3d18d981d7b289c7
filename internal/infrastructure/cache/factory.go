package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// SnapshotBackend is a SnapshotStore that can be health checked and closed
type SnapshotBackend interface {
	cart.SnapshotStore
	Ping(ctx context.Context) error
	Close() error
}

// SnapshotStoreFactory creates the cart snapshot backend selected by configuration
type SnapshotStoreFactory struct {
	cfg                   config.StorageConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SnapshotStoreFactoryOption is a functional option for configuring the factory
type SnapshotStoreFactoryOption func(*SnapshotStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SnapshotStoreFactoryOption {
	return func(f *SnapshotStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback overrides StorageConfig.FallbackToMemory
func WithInMemoryFallback(allow bool) SnapshotStoreFactoryOption {
	return func(f *SnapshotStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSnapshotStoreFactory creates a new factory
func NewSnapshotStoreFactory(cfg config.StorageConfig, opts ...SnapshotStoreFactoryOption) *SnapshotStoreFactory {
	f := &SnapshotStoreFactory{
		cfg:                   cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: cfg.FallbackToMemory,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore opens the configured backend. When it cannot be opened and
// fallback is allowed, an in-memory store is returned instead.
func (f *SnapshotStoreFactory) CreateStore(ctx context.Context) (SnapshotBackend, error) {
	store, err := f.open(ctx)
	if err == nil {
		f.logger.Info("Cart snapshot store ready", zap.String("driver", f.cfg.Driver))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("snapshot store %q unavailable: %w", f.cfg.Driver, err)
	}

	f.logger.Warn("Snapshot store unavailable, falling back to in-memory store. "+
		"Carts will not survive a restart.",
		zap.String("driver", f.cfg.Driver),
		zap.Error(err),
	)
	return persistence.NewMemorySnapshotStore(), nil
}

func (f *SnapshotStoreFactory) open(ctx context.Context) (SnapshotBackend, error) {
	switch f.cfg.Driver {
	case config.DriverMemory:
		return persistence.NewMemorySnapshotStore(), nil
	case config.DriverLocal, "":
		return persistence.NewLocalSnapshotStore(f.cfg.Local.Path, f.cfg.Local.OpenTimeout)
	case config.DriverDatabase:
		return f.openDatabase()
	case config.DriverRedis:
		return NewRedisSnapshotStore(f.cfg.Redis)
	case config.DriverS3:
		return f.openS3(ctx)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", f.cfg.Driver)
	}
}

func (f *SnapshotStoreFactory) openDatabase() (SnapshotBackend, error) {
	db, err := persistence.NewDatabase(&f.cfg.Database, f.logger)
	if err != nil {
		return nil, err
	}
	store := persistence.NewGormSnapshotStore(db.DB)
	if err := store.AutoMigrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate snapshot table: %w", err)
	}
	return &databaseBackend{GormSnapshotStore: store, db: db}, nil
}

func (f *SnapshotStoreFactory) openS3(ctx context.Context) (SnapshotBackend, error) {
	store, err := storage.NewS3SnapshotStore(&f.cfg.S3, storage.WithLogger(f.logger))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// databaseBackend ties the snapshot store to the connection it owns
type databaseBackend struct {
	*persistence.GormSnapshotStore
	db *persistence.Database
}

func (b *databaseBackend) Ping(context.Context) error {
	return b.db.Ping()
}

func (b *databaseBackend) Close() error {
	return b.db.Close()
}
