package logger

import (
	"social_feed/internal/pkg/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log 全局日志实例，Init 之前为 Nop
var Log = zap.NewNop()

// Init 根据配置初始化 zap，debug 模式使用 console 输出
func Init(cfg config.LogConfig, debug bool) error {
	var zc zap.Config
	if debug || cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	l, err := zc.Build()
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Sync 刷新缓冲
func Sync() {
	_ = Log.Sync()
}
