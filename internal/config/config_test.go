package config

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z5bZ5lZ.P0UksUqyTUIIAr2C"

func testKey(b byte) string {
	key := make([]byte, 32)
	for i := range key {
		key[i] = b
	}
	return base64.StdEncoding.EncodeToString(key)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := writeConfig(t, `
env: test
server:
  port: 9090
api:
  page_size: 10
storage:
  driver: sqlite
sqlite:
  path: /tmp/tgusers-test.db
auth:
  token_ttl: 30m
  accounts:
    - email: bot@mail.com
      password_hash: "`+testHash+`"
`)
	t.Setenv("TGUSERS_TOKEN_KEY", testKey(1))
	t.Setenv("TGUSERS_TOKEN_KEY_V2", testKey(2))
	t.Setenv("TGUSERS_LOGGER_LEVEL", "debug")

	cfg, err := Load(dir, context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Env != "test" {
		t.Errorf("Env = %q, want test", cfg.Env)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host default lost: %q", cfg.Server.Host)
	}
	if cfg.API.PageSize != 10 {
		t.Errorf("API.PageSize = %d, want 10", cfg.API.PageSize)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("Storage.Driver = %q", cfg.Storage.Driver)
	}
	if cfg.Auth.TokenTTL != 30*time.Minute {
		t.Errorf("Auth.TokenTTL = %v", cfg.Auth.TokenTTL)
	}
	if len(cfg.Auth.Accounts) != 1 || cfg.Auth.Accounts[0].Email != "bot@mail.com" {
		t.Errorf("Auth.Accounts = %+v", cfg.Auth.Accounts)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("Logger.Level = %q, want env override debug", cfg.Logger.Level)
	}
	if len(cfg.Crypto.Keys) != 2 {
		t.Errorf("Crypto.Keys has %d versions, want 2", len(cfg.Crypto.Keys))
	}
	if cfg.Crypto.CurrentVersion != 2 {
		t.Errorf("Crypto.CurrentVersion = %d, want latest 2", cfg.Crypto.CurrentVersion)
	}
}

func TestLoad_BootstrapAccountFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TGUSERS_TOKEN_KEY", testKey(3))
	t.Setenv("TGUSERS_AUTH_EMAIL", "ops@mail.com")
	t.Setenv("TGUSERS_AUTH_PASSWORD_HASH", testHash)

	cfg, err := Load(dir, context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Auth.Accounts) != 1 || cfg.Auth.Accounts[0].Email != "ops@mail.com" {
		t.Errorf("Auth.Accounts = %+v", cfg.Auth.Accounts)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("default Storage.Driver = %q, want memory", cfg.Storage.Driver)
	}
}

func TestLoad_MissingKeysFailsValidation(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TGUSERS_AUTH_EMAIL", "ops@mail.com")
	t.Setenv("TGUSERS_AUTH_PASSWORD_HASH", testHash)

	_, err := Load(dir, context.Background())
	if err == nil {
		t.Fatal("Load() expected validation error without token keys")
	}
	if !strings.Contains(err.Error(), "TOKEN_KEY") {
		t.Errorf("error %q does not mention TOKEN_KEY", err)
	}
}

func TestLoadCryptoKeys(t *testing.T) {
	tests := []struct {
		name     string
		environ  []string
		wantVers []int
		wantErr  bool
	}{
		{"unversioned is v1", []string{"TGUSERS_TOKEN_KEY=" + testKey(1)}, []int{1}, false},
		{"versioned", []string{"TGUSERS_TOKEN_KEY_V3=" + testKey(1), "TGUSERS_TOKEN_KEY_V7=" + testKey(2)}, []int{3, 7}, false},
		{"unrelated vars ignored", []string{"PATH=/bin", "TGUSERS_TOKEN_KEYS=x"}, nil, false},
		{"bad base64", []string{"TGUSERS_TOKEN_KEY=!!!"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := loadCryptoKeys(tt.environ)
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadCryptoKeys() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(keys) != len(tt.wantVers) {
				t.Fatalf("got %d keys, want %d", len(keys), len(tt.wantVers))
			}
			for _, v := range tt.wantVers {
				if _, ok := keys[v]; !ok {
					t.Errorf("missing key version %d", v)
				}
			}
		})
	}
}

func TestValidator_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := SetDefaultConfig()
		cfg.Auth.Accounts = []AccountConfig{{Email: "bot@mail.com", PasswordHash: testHash}}
		cfg.Crypto.Keys = map[int][]byte{1: make([]byte, 32)}
		cfg.Crypto.CurrentVersion = 1
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{"valid defaults", func(cfg *Config) {}, false},
		{"unknown driver", func(cfg *Config) { cfg.Storage.Driver = "mongo" }, true},
		{"zero page size", func(cfg *Config) { cfg.API.PageSize = 0 }, true},
		{"bad port", func(cfg *Config) { cfg.Server.Port = 70000 }, true},
		{"no accounts", func(cfg *Config) { cfg.Auth.Accounts = nil }, true},
		{"plain password", func(cfg *Config) { cfg.Auth.Accounts[0].PasswordHash = "password" }, true},
		{"redis without addr", func(cfg *Config) { cfg.Auth.Revocation = "redis"; cfg.Redis.Addr = "" }, true},
		{"current key missing", func(cfg *Config) { cfg.Crypto.CurrentVersion = 2 }, true},
		{"sqlite without path", func(cfg *Config) { cfg.Storage.Driver = "sqlite"; cfg.SQLite.Path = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := NewValidator().Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDatabaseConfig_GetDatabaseURL(t *testing.T) {
	c := DatabaseConfig{User: "app", Password: "p@ss word", Host: "db", Port: 5432, Name: "tgusers", SSLMode: "disable"}
	want := "postgres://app:p%40ss+word@db:5432/tgusers?sslmode=disable"
	if got := c.GetDatabaseURL(); got != want {
		t.Errorf("GetDatabaseURL() = %q, want %q", got, want)
	}
}
