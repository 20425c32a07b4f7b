package app

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/VladKovDev/tguser-api/internal/config"
	"github.com/VladKovDev/tguser-api/pkg/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.SetDefaultConfig()
	cfg.Server.Port = 0
	cfg.Crypto.CurrentVersion = 1
	cfg.Crypto.Keys = map[int][]byte{1: []byte(strings.Repeat("k", 32))}
	cfg.Auth.Accounts = []config.AccountConfig{{
		Email:        "admin@example.com",
		PasswordHash: "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3ZP8QG4fN9FZC6Nq3pZ7cDK",
	}}
	return cfg
}

func TestNewMemory(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := New(ctx, cfg, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	if a.Bot != nil {
		t.Error("bot should be disabled without a token")
	}
	// health probe plus in-memory revocation purge
	if a.Scheduler.Len() != 2 {
		t.Errorf("scheduled jobs = %d, want 2", a.Scheduler.Len())
	}

	resp, err := a.Server.App().Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("GET /healthz = %d, want 200", resp.StatusCode)
	}
}

func TestNewLoadsSeedFile(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	seed := filepath.Join(t.TempDir(), "seed.yaml")
	doc := "telegram_users:\n  - telegramId: 111222333\n    fullName: Fixture User\n  - telegramId: 5\n"
	if err := os.WriteFile(seed, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg.Storage.SeedFile = seed

	a, err := New(ctx, cfg, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	u, err := a.Users.Get(ctx, 111222333)
	if err != nil {
		t.Fatalf("seeded user missing: %v", err)
	}
	if u.FullName == nil || *u.FullName != "Fixture User" {
		t.Errorf("fullName = %v", u.FullName)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.Config)
		want   string
	}{
		{
			name:   "unknown driver",
			mutate: func(cfg *config.Config) { cfg.Storage.Driver = "mongo" },
			want:   "unknown storage driver",
		},
		{
			name:   "missing seed file",
			mutate: func(cfg *config.Config) { cfg.Storage.SeedFile = "does/not/exist.yaml" },
			want:   "failed to load fixtures",
		},
		{
			name:   "missing current key",
			mutate: func(cfg *config.Config) { cfg.Crypto.CurrentVersion = 2 },
			want:   "failed to init encryptor",
		},
		{
			name:   "bad purge spec",
			mutate: func(cfg *config.Config) { cfg.Auth.PurgeSpec = "sometimes" },
			want:   "revocation_purge",
		},
		{
			name:   "bad health spec",
			mutate: func(cfg *config.Config) { cfg.Storage.HealthCheckSpec = "sometimes" },
			want:   "storage_health",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			_, err := New(context.Background(), cfg, logger.Noop())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("New() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Host = "127.0.0.1"

	a, err := New(context.Background(), cfg, logger.Noop())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after cancel")
	}
}

func TestSQLiteStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Driver = config.DriverSQLite
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "tgusers.db")

	a, err := New(context.Background(), cfg, logger.Noop())
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer a.Close()

	if err := a.Users.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
