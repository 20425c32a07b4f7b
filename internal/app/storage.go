package app

import (
	"context"
	"fmt"

	"github.com/VladKovDev/tguser-api/internal/config"
	"github.com/VladKovDev/tguser-api/internal/domain/repository"
	"github.com/VladKovDev/tguser-api/internal/repository/memory"
	"github.com/VladKovDev/tguser-api/internal/repository/postgres"
	"github.com/VladKovDev/tguser-api/internal/repository/sqlite"
	"github.com/VladKovDev/tguser-api/pkg/logger"
	"go.uber.org/zap"
)

// initStorage opens the Entity Store chosen by storage.driver. The returned
// func releases its connections.
func initStorage(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.TelegramUserRepository, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.NewTelegramUserRepository(), func() {}, nil

	case config.DriverPostgres:
		if cfg.Database.AutoMigrate {
			if err := migratePostgres(cfg.Database.GetDatabaseURL(), log); err != nil {
				return nil, nil, err
			}
		}
		pool, err := postgres.NewPool(ctx, &cfg.Database, log.Named("postgres"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init database: %w", err)
		}
		return postgres.NewTelegramUserRepository(pool.Pool), pool.Close, nil

	case config.DriverSQLite:
		db, err := sqlite.NewDB(cfg.SQLite.Path, log.Named("sqlite"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init sqlite: %w", err)
		}
		closeDB := func() {
			if err := sqlite.Close(db); err != nil {
				log.Error("failed to close sqlite", zap.Error(err))
			}
		}
		return sqlite.NewTelegramUserRepository(db), closeDB, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func migratePostgres(databaseURL string, log logger.Logger) error {
	migrator, err := postgres.NewMigrator(databaseURL, log.Named("migrate"))
	if err != nil {
		return fmt.Errorf("failed to init migrator: %w", err)
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
