package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}

func TestGormLogger_Trace(t *testing.T) {
	query := func() (string, int64) { return "SELECT 1", 1 }

	t.Run("error", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn)

		l.Trace(context.Background(), time.Now(), query, errors.New("db down"))

		assert.Equal(t, 1, logs.FilterMessage("SQL Error").Len())
	})

	t.Run("record not found ignored", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn)

		l.Trace(context.Background(), time.Now(), query, gormlogger.ErrRecordNotFound)

		assert.Zero(t, logs.Len())
	})

	t.Run("slow query", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(time.Millisecond))

		l.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)

		assert.Equal(t, 1, logs.FilterMessage("Slow SQL").Len())
	})

	t.Run("silent", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn).LogMode(gormlogger.Silent)

		l.Trace(context.Background(), time.Now(), query, errors.New("ignored"))

		assert.Zero(t, logs.Len())
	})

	t.Run("info logs queries at debug", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Info)

		l.Trace(context.Background(), time.Now(), query, nil)

		assert.Equal(t, 1, logs.FilterMessage("SQL Query").Len())
	})
}
