package database

import (
	"database/sql"
	"fmt"

	"social_feed/internal/pkg/config"
	"social_feed/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// InitDatabase 初始化数据库连接，配置了只读副本时读请求走副本
func InitDatabase(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	gl := logger.NewGormLogger(cfg.SlowThreshold)
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}

	// 配置 GORM
	gormConfig := &gorm.Config{
		Logger:                                   gl.LogMode(level),
		PrepareStmt:                              true, // 预编译 SQL 缓存
		DisableForeignKeyConstraintWhenMigrating: true, // 表结构由 migrations 维护
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if len(cfg.Replicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.Replicas))
		for _, dsn := range cfg.Replicas {
			replicas = append(replicas, postgres.Open(dsn))
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("register replicas: %w", err)
		}
		logger.Log.Info("read replicas registered", zap.Int("count", len(replicas)))
	}

	// 获取底层 SQL DB 对象以配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	configureConnectionPool(sqlDB, cfg)

	return db, nil
}

// configureConnectionPool 配置数据库连接池
func configureConnectionPool(sqlDB *sql.DB, cfg config.DatabaseConfig) {
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Log.Info("database connection pool configured",
		zap.Int("max_open", cfg.MaxOpenConns),
		zap.Int("max_idle", cfg.MaxIdleConns),
	)
}
