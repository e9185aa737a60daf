package database

import (
	"context"
	"errors"
	"time"

	"github.com/zfogg/picfeed/internal/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// ZapLogger routes GORM logs through the application zap logger
type ZapLogger struct {
	level gormlogger.LogLevel
}

// NewZapLogger creates a GORM logger at the given level
func NewZapLogger(level gormlogger.LogLevel) *ZapLogger {
	return &ZapLogger{level: level}
}

func (l *ZapLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &ZapLogger{level: level}
}

func (l *ZapLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		logger.SugaredLog.Infof(msg, args...)
	}
}

func (l *ZapLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		logger.SugaredLog.Warnf(msg, args...)
	}
}

func (l *ZapLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		logger.SugaredLog.Errorf(msg, args...)
	}
}

func (l *ZapLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		sql, rows := fc()
		logger.Log.Error("gorm query failed",
			zap.Error(err),
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", rows),
			zap.String("sql", sql),
		)
	case elapsed > slowQueryThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		logger.Log.Warn("gorm slow query",
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", rows),
			zap.String("sql", sql),
		)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		logger.Log.Debug("gorm query",
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", rows),
			zap.String("sql", sql),
		)
	}
}
