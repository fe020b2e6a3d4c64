package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormLogger sends gorm's query and diagnostic output through zap
type gormLogger struct {
	log       *zap.Logger
	level     logger.LogLevel
	slowQuery time.Duration
}

// NewGormLogger adapts log to gorm. Statements are logged at Info level only,
// slow ones at Warn and failed ones (except record-not-found) at Error.
func NewGormLogger(log *zap.Logger, level logger.LogLevel, slowQuery time.Duration) logger.Interface {
	return &gormLogger{
		log:       log.Named("gorm"),
		level:     level,
		slowQuery: slowQuery,
	}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *gormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		l.log.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		l.log.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		l.log.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	fields := func() []zap.Field {
		sql, rows := fc()
		return []zap.Field{
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed),
		}
	}

	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		l.log.Error("query failed", append(fields(), zap.Error(err))...)
	case l.slowQuery > 0 && elapsed > l.slowQuery && l.level >= logger.Warn:
		l.log.Warn("slow query", fields()...)
	case l.level >= logger.Info:
		l.log.Info("query", fields()...)
	}
}
