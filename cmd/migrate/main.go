// Command migrate applies the embedded PostgreSQL migrations.
//
//	migrate up
//	migrate down
//	migrate version
//	migrate force 1
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/VladKovDev/tguser-api/internal/config"
	"github.com/VladKovDev/tguser-api/internal/repository/postgres"
	"github.com/VladKovDev/tguser-api/pkg/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: migrate up|down|version|force N")
	}

	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("TGUSERS_CONFIG_PATH"), context.Background())
	if err != nil {
		return err
	}

	log, err := logger.NewDevelopment()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	m, err := postgres.NewMigrator(cfg.Database.GetDatabaseURL(), log)
	if err != nil {
		return err
	}
	defer m.Close()

	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force needs a version")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		return m.Force(version)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}
