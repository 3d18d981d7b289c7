package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartSnapshot is the row backing one persisted cart
type CartSnapshot struct {
	Key       string    `gorm:"type:varchar(255);primaryKey"`
	Data      []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}

// GormSnapshotStore persists snapshots in the cart_snapshots table
type GormSnapshotStore struct {
	db *gorm.DB
}

// NewGormSnapshotStore creates a store on an existing connection
func NewGormSnapshotStore(db *gorm.DB) *GormSnapshotStore {
	return &GormSnapshotStore{db: db}
}

// AutoMigrate creates the snapshot table when migrations are not run separately
func (s *GormSnapshotStore) AutoMigrate() error {
	return s.db.AutoMigrate(&CartSnapshot{})
}

func (s *GormSnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	var row CartSnapshot
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return row.Data, nil
}

func (s *GormSnapshotStore) Put(ctx context.Context, key string, data []byte) error {
	row := CartSnapshot{Key: key, Data: data, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *GormSnapshotStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&CartSnapshot{}).Error; err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

var _ cart.SnapshotStore = (*GormSnapshotStore)(nil)
