package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestGormLoggerTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := context.Background()
	query := func() (string, int64) { return `SELECT * FROM "folios"`, 1 }

	l := NewGormLogger(zap.New(core), logger.Warn, 100*time.Millisecond)

	l.Trace(ctx, time.Now(), query, nil)
	assert.Zero(t, logs.Len(), "fast queries are not logged at warn level")

	l.Trace(ctx, time.Now(), query, gorm.ErrRecordNotFound)
	assert.Zero(t, logs.Len())

	l.Trace(ctx, time.Now().Add(-time.Second), query, nil)
	l.Trace(ctx, time.Now(), query, errors.New("connection refused"))

	entries := logs.TakeAll()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "slow query", entries[0].Message)
	assert.Equal(t, `SELECT * FROM "folios"`, entries[0].ContextMap()["sql"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "connection refused", entries[1].ContextMap()["error"])
	assert.Equal(t, "gorm", entries[1].LoggerName)

	l.LogMode(logger.Info).Trace(ctx, time.Now(), query, nil)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "query", logs.All()[0].Message)

	l.LogMode(logger.Silent).Trace(ctx, time.Now(), query, errors.New("ignored"))
	assert.Equal(t, 1, logs.Len())
}

func TestGormLoggerMessages(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), logger.Warn, 0)

	l.Info(context.Background(), "migrating %s", "folios")
	l.Warn(context.Background(), "index %s missing", "idx_folios")
	l.Error(context.Background(), "failed: %d", 3)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "index idx_folios missing", entries[0].Message)
	assert.Equal(t, "failed: 3", entries[1].Message)
}
