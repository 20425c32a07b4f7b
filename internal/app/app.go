package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/VladKovDev/tguser-api/internal/auth"
	"github.com/VladKovDev/tguser-api/internal/config"
	"github.com/VladKovDev/tguser-api/internal/fixtures"
	"github.com/VladKovDev/tguser-api/internal/infrastructure/crypto"
	"github.com/VladKovDev/tguser-api/internal/server"
	"github.com/VladKovDev/tguser-api/internal/services"
	"github.com/VladKovDev/tguser-api/internal/telegram"
	"github.com/VladKovDev/tguser-api/pkg/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const configPathEnv = "TGUSERS_CONFIG_PATH"

// App holds high-level application dependencies.
type App struct {
	Config    *config.Config
	Logger    logger.Logger
	Users     *services.TelegramUserService
	Auth      *auth.Service
	Server    *server.Server
	Bot       *telegram.Bot
	Scheduler *services.Scheduler

	closers []func()
}

// New builds every component from cfg without starting anything.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		Config:    cfg,
		Logger:    log,
		Scheduler: services.NewScheduler(log.Named("cron")),
	}

	repo, closeStorage, err := initStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.onClose(closeStorage)

	a.Users = services.NewTelegramUserService(repo, cfg.API.PageSize, log.Named("telegram_users"))

	if cfg.Storage.SeedFile != "" {
		if _, err := fixtures.LoadFile(ctx, a.Users, cfg.Storage.SeedFile, log.Named("fixtures")); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to load fixtures: %w", err)
		}
	}

	if err := a.initAuth(cfg); err != nil {
		a.Close()
		return nil, err
	}

	if _, err := a.Scheduler.Schedule("storage_health", cfg.Storage.HealthCheckSpec, 5*time.Second, a.Users.Ping); err != nil {
		a.Close()
		return nil, err
	}

	a.Server = server.New(cfg.Server, a.Users, a.Auth, log.Named("http"))

	if cfg.Telegram.BotToken != "" {
		api, err := telegram.NewBotAPI(cfg.Telegram.BotToken)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Bot, err = telegram.NewBot(api, a.Users, cfg.Telegram, log.Named("bot"))
		if err != nil {
			a.Close()
			return nil, err
		}
	} else {
		log.Info("telegram.bot_token not set, bot disabled")
	}

	return a, nil
}

func (a *App) initAuth(cfg *config.Config) error {
	keyStore, err := initEncryptor(cfg)
	if err != nil {
		return fmt.Errorf("failed to init encryptor: %w", err)
	}

	var revoked auth.RevocationList
	switch cfg.Auth.Revocation {
	case config.RevocationRedis:
		client := auth.NewRedisClient(cfg.Redis)
		list := auth.NewRedisRevocationList(client)
		a.onClose(func() {
			if err := list.Close(); err != nil {
				a.Logger.Error("failed to close redis client", zap.Error(err))
			}
		})
		revoked = list
	default:
		list := auth.NewMemoryRevocationList()
		_, err := a.Scheduler.Schedule("revocation_purge", cfg.Auth.PurgeSpec, time.Second, func(context.Context) error {
			if n := list.Purge(); n > 0 {
				a.Logger.Debug("purged expired revocations", zap.Int("count", n))
			}
			return nil
		})
		if err != nil {
			return err
		}
		revoked = list
	}

	issuer := auth.NewTokenIssuer(keyStore, cfg.Auth.TokenTTL)
	a.Auth = auth.NewService(auth.NewAccounts(cfg.Auth.Accounts), issuer, revoked, a.Logger.Named("auth"))
	return nil
}

func (a *App) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Start runs the HTTP server, the bot and the scheduler until ctx is done.
func (a *App) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.Scheduler.Start()

	var serverErr error
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		serverErr = a.Server.Start(ctx)
	}()

	botDone := make(chan struct{})
	go func() {
		defer close(botDone)
		if a.Bot != nil {
			a.Bot.Start(ctx)
		}
	}()

	gracefulShutdown(ctx, a.Logger, serverDone)
	cancel()
	<-serverDone
	<-botDone
	a.Scheduler.Stop()
	a.Close()
	a.Logger.Info("shutdown completed")
	return serverErr
}

func Run(ctx context.Context) error {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfg, err := initConfig(os.Getenv(configPathEnv), ctx)
	if err != nil {
		return fmt.Errorf("failed to init config: %w", err)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Debug("logger debug enabled...")

	app, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	return app.Start(ctx)
}

func initConfig(configPath string, ctx context.Context) (*config.Config, error) {
	return config.Load(configPath, ctx)
}

func initLogger(cfg *config.Config) (logger.Logger, error) {
	return logger.New(cfg.Logger)
}

func initEncryptor(cfg *config.Config) (*crypto.KeyStore, error) {
	return crypto.NewAESKeyStore(cfg.Crypto.CurrentVersion, cfg.Crypto.Keys)
}
