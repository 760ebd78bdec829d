package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger 将 GORM 的 SQL 日志写入 zap
type GormLogger struct {
	LogLevel      gormlogger.LogLevel
	SlowThreshold time.Duration
}

func NewGormLogger(slow time.Duration) *GormLogger {
	return &GormLogger{LogLevel: gormlogger.Warn, SlowThreshold: slow}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Info {
		Log.Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Warn {
		Log.Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Error {
		Log.Sugar().Errorf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	operation := "query"
	if i := strings.IndexByte(sql, ' '); i > 0 {
		operation = strings.ToLower(sql[:i])
	}

	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Duration("latency", elapsed),
		zap.Int64("rows", rows),
	}

	switch {
	case err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound) && l.LogLevel >= gormlogger.Error:
		Log.Error("db "+operation+" error", append(fields, zap.Error(err))...)
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.LogLevel >= gormlogger.Warn:
		Log.Warn("db "+operation+" slow", fields...)
	case l.LogLevel >= gormlogger.Info:
		Log.Debug("db "+operation, fields...)
	}
}
