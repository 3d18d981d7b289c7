package migration

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL container test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("storefront_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestMigrator_Postgres(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()

	path, err := filepath.Abs(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)

	m, err := New(db, path, zaptest.NewLogger(t))
	require.NoError(t, err)

	version, _, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)

	require.NoError(t, m.Up())
	require.NoError(t, m.Up(), "second run is a no-op")

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	t.Run("snapshot store works on migrated schema", func(t *testing.T) {
		gdb, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db}), &gorm.Config{
			Logger: logger.Discard,
		})
		require.NoError(t, err)

		store := persistence.NewGormSnapshotStore(gdb)
		require.NoError(t, store.Put(ctx, "cart:pg", []byte(`[{"id":5}]`)))
		require.NoError(t, store.Put(ctx, "cart:pg", []byte(`[{"id":6}]`)))

		got, err := store.Get(ctx, "cart:pg")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":6}]`, string(got))
	})

	require.NoError(t, m.Down())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
}
