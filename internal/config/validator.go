package config

import (
	"errors"
	"fmt"
	"strings"
)

type Validator interface {
	Validate(cfg *Config) error
}

type validator struct{}

func NewValidator() Validator {
	return validator{}
}

func (validator) Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", cfg.Server.Port))
	}
	if cfg.API.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("api.page_size must be positive, got %d", cfg.API.PageSize))
	}

	switch cfg.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if cfg.Database.Host == "" || cfg.Database.Name == "" {
			errs = append(errs, errors.New("database.host and database.name are required for the postgres driver"))
		}
	case DriverSQLite:
		if cfg.SQLite.Path == "" {
			errs = append(errs, errors.New("sqlite.path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", cfg.Storage.Driver))
	}

	switch cfg.Auth.Revocation {
	case RevocationMemory:
	case RevocationRedis:
		if cfg.Redis.Addr == "" {
			errs = append(errs, errors.New("redis.addr is required for redis revocation"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown auth.revocation %q", cfg.Auth.Revocation))
	}

	if cfg.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if len(cfg.Auth.Accounts) == 0 {
		errs = append(errs, errors.New("auth.accounts must contain at least one account"))
	}
	for i, acc := range cfg.Auth.Accounts {
		if acc.Email == "" {
			errs = append(errs, fmt.Errorf("auth.accounts[%d].email is empty", i))
		}
		if !strings.HasPrefix(acc.PasswordHash, "$2") {
			errs = append(errs, fmt.Errorf("auth.accounts[%d].password_hash is not a bcrypt hash", i))
		}
	}

	if cfg.Crypto.Algorithm != "aes_gcm" {
		errs = append(errs, fmt.Errorf("unsupported crypto.crypto_algorithm %q", cfg.Crypto.Algorithm))
	}
	if len(cfg.Crypto.Keys) == 0 {
		errs = append(errs, fmt.Errorf("at least one %s_TOKEN_KEY is required", envPrefix))
	} else if _, ok := cfg.Crypto.Keys[cfg.Crypto.CurrentVersion]; !ok {
		errs = append(errs, fmt.Errorf("crypto.current_key_version %d has no key", cfg.Crypto.CurrentVersion))
	}

	return errors.Join(errs...)
}
