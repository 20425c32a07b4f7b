// Command seed loads a fixtures file into the configured storage.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/VladKovDev/tguser-api/internal/app"
	"github.com/VladKovDev/tguser-api/internal/config"
	"github.com/VladKovDev/tguser-api/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	file := flag.String("file", "fixtures/telegram_users.yaml", "fixtures YAML file")
	flag.Parse()

	if err := run(*file); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}

func run(file string) error {
	_ = godotenv.Load()
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("TGUSERS_CONFIG_PATH"), ctx)
	if err != nil {
		return err
	}
	if cfg.Storage.Driver == config.DriverMemory {
		return fmt.Errorf("storage.driver is %q, nothing would persist", cfg.Storage.Driver)
	}
	cfg.Storage.SeedFile = file
	cfg.Telegram.BotToken = ""

	log, err := logger.NewDevelopment()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	a.Close()
	return nil
}
