package main

import (
	"errors"
	"flag"

	"social_feed/internal/pkg/config"
	"social_feed/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps to migrate, 0 means all")
	source := flag.String("source", "file://migrations", "migration source URL")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log, cfg.App.Debug); err != nil {
		panic(err)
	}
	defer logger.Sync()

	m, err := migrate.New(*source, cfg.Database.URL())
	if err != nil {
		logger.Log.Fatal("init migrate", zap.Error(err))
	}
	defer m.Close()

	if err := run(m, *direction, *steps); err != nil {
		var dirty migrate.ErrDirty
		if !errors.As(err, &dirty) {
			logger.Log.Fatal("migration failed", zap.Error(err))
		}
		// 数据库处于 dirty 状态，回退到上一版本后重试
		logger.Log.Warn("database is dirty, forcing previous version", zap.Int("version", dirty.Version))
		prev := dirty.Version - 1
		if prev < 1 {
			prev = -1 // 无版本
		}
		if err := m.Force(prev); err != nil {
			logger.Log.Fatal("force version", zap.Error(err))
		}
		if err := run(m, *direction, *steps); err != nil {
			logger.Log.Fatal("migration failed after force", zap.Error(err))
		}
	}

	version, dirty, _ := m.Version()
	logger.Log.Info("migration successful", zap.Uint("version", version), zap.Bool("dirty", dirty))
}

func run(m *migrate.Migrate, direction string, steps int) error {
	var err error
	switch {
	case steps != 0 && direction == "down":
		err = m.Steps(-steps)
	case steps != 0:
		err = m.Steps(steps)
	case direction == "down":
		err = m.Down()
	default:
		err = m.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
