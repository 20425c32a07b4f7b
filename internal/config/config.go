package config

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "TGUSERS"

type Config struct {
	Env      string `mapstructure:"env"`
	Server   ServerConfig
	API      APIConfig
	Storage  StorageConfig
	Database DatabaseConfig
	SQLite   SQLiteConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Crypto   CryptoConfig
	Telegram TelegramConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowOrigins    string        `mapstructure:"allow_origins"`
}

type APIConfig struct {
	PageSize int `mapstructure:"page_size"`
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	RevocationMemory = "memory"
	RevocationRedis  = "redis"
)

type StorageConfig struct {
	// Driver is one of "memory", "postgres", "sqlite".
	Driver          string `mapstructure:"driver"`
	// SeedFile is an optional YAML fixtures file loaded at startup.
	SeedFile        string `mapstructure:"seed_file"`
	// HealthCheckSpec is a cron spec for the periodic storage probe.
	HealthCheckSpec string `mapstructure:"health_check_spec"`
}

type DatabaseConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	Name              string        `mapstructure:"name"`
	SSLMode           string        `mapstructure:"sslmode"`
	MaxOpenConns      int           `mapstructure:"max_open_conns"`
	MaxIdleConns      int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime   time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime   time.Duration `mapstructure:"conn_max_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
	AutoMigrate       bool          `mapstructure:"auto_migrate"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	Accounts []AccountConfig `mapstructure:"accounts"`

	// Email and PasswordHash add one more account, so a deployment can be
	// bootstrapped from the environment alone.
	Email        string `mapstructure:"email"`
	PasswordHash string `mapstructure:"password_hash"`

	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	Revocation string        `mapstructure:"revocation"`
	// PurgeSpec is the cron spec for dropping expired in-memory revocations.
	PurgeSpec  string        `mapstructure:"purge_spec"`
}

type AccountConfig struct {
	Email        string `mapstructure:"email"`
	PasswordHash string `mapstructure:"password_hash"`
}

type CryptoConfig struct {
	Keys           map[int][]byte `mapstructure:"-"`
	CurrentVersion int            `mapstructure:"current_key_version"`
	Algorithm      string         `mapstructure:"crypto_algorithm"`
}

type TelegramConfig struct {
	BotToken string  `mapstructure:"bot_token"`
	Debug    bool    `mapstructure:"debug"`
	AdminIDs []int64 `mapstructure:"admin_ids"`

	// Reply texts; {{user.name}}, {{user.id}} and friends are substituted.
	WelcomeText     string `mapstructure:"welcome_text"`
	WelcomeBackText string `mapstructure:"welcome_back_text"`
}

type LoggerConfig struct {
	Level        string `mapstructure:"level"`
	Format       string `mapstructure:"format"`
	Output       string `mapstructure:"output"`
	EnableColors bool   `mapstructure:"enable_colors"`
	FilePath     string `mapstructure:"file_path"`
	MaxSize      int    `mapstructure:"max_size"`
	MaxBackups   int    `mapstructure:"max_backups"`
	MaxAge       int    `mapstructure:"max_age"`
	Compress     bool   `mapstructure:"compress"`
}

type Loader interface {
	Load(ctx context.Context) (*Config, error)
}

type viperLoader struct {
	configPath string
	validator  Validator
}

func NewViperLoader(configPath string, validator Validator) Loader {
	if configPath == "" {
		configPath = "."
	}
	return &viperLoader{
		configPath: configPath,
		validator:  validator,
	}
}

func (l *viperLoader) Load(ctx context.Context) (*Config, error) {
	cfg := SetDefaultConfig()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(l.configPath)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	l.BindEnvVariables(v)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	keys, err := loadCryptoKeys(os.Environ())
	if err != nil {
		return nil, fmt.Errorf("failed to load crypto keys: %w", err)
	}
	cfg.Crypto.Keys = keys

	if cfg.Auth.Email != "" {
		cfg.Auth.Accounts = append(cfg.Auth.Accounts, AccountConfig{
			Email:        cfg.Auth.Email,
			PasswordHash: cfg.Auth.PasswordHash,
		})
	}

	if cfg.Crypto.CurrentVersion == 0 {
		cfg.Crypto.CurrentVersion = getLastCryptoKeyVersion(keys)
	}

	if err := l.validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config failed validation: %w", err)
	}

	return cfg, nil
}

func (l *viperLoader) BindEnvVariables(v *viper.Viper) {
	_ = v.BindEnv("env")
	// Server
	_ = v.BindEnv("server.host")
	_ = v.BindEnv("server.port")
	_ = v.BindEnv("server.read_timeout")
	_ = v.BindEnv("server.write_timeout")
	_ = v.BindEnv("server.idle_timeout")
	_ = v.BindEnv("server.shutdown_timeout")
	_ = v.BindEnv("server.allow_origins")
	// API
	_ = v.BindEnv("api.page_size")
	// Storage
	_ = v.BindEnv("storage.driver")
	_ = v.BindEnv("storage.seed_file")
	_ = v.BindEnv("storage.health_check_spec")
	// Database
	_ = v.BindEnv("database.host")
	_ = v.BindEnv("database.port")
	_ = v.BindEnv("database.user")
	_ = v.BindEnv("database.password")
	_ = v.BindEnv("database.name")
	_ = v.BindEnv("database.sslmode")
	_ = v.BindEnv("database.max_open_conns")
	_ = v.BindEnv("database.max_idle_conns")
	_ = v.BindEnv("database.conn_max_lifetime")
	_ = v.BindEnv("database.conn_max_idle_time")
	_ = v.BindEnv("database.health_check_period")
	_ = v.BindEnv("database.auto_migrate")
	// SQLite
	_ = v.BindEnv("sqlite.path")
	// Redis
	_ = v.BindEnv("redis.addr")
	_ = v.BindEnv("redis.password")
	_ = v.BindEnv("redis.db")
	// Auth
	_ = v.BindEnv("auth.email")
	_ = v.BindEnv("auth.password_hash")
	_ = v.BindEnv("auth.token_ttl")
	_ = v.BindEnv("auth.revocation")
	_ = v.BindEnv("auth.purge_spec")
	// Crypto
	_ = v.BindEnv("crypto.current_key_version")
	_ = v.BindEnv("crypto.crypto_algorithm")
	// Telegram
	_ = v.BindEnv("telegram.bot_token")
	_ = v.BindEnv("telegram.debug")
	_ = v.BindEnv("telegram.admin_ids")
	_ = v.BindEnv("telegram.welcome_text")
	_ = v.BindEnv("telegram.welcome_back_text")
	// Logger
	_ = v.BindEnv("logger.level")
	_ = v.BindEnv("logger.format")
	_ = v.BindEnv("logger.output")
	_ = v.BindEnv("logger.enable_colors")
	_ = v.BindEnv("logger.file_path")
	_ = v.BindEnv("logger.max_size")
	_ = v.BindEnv("logger.max_backups")
	_ = v.BindEnv("logger.max_age")
	_ = v.BindEnv("logger.compress")
}

var cryptoKeyEnv = regexp.MustCompile(`^` + envPrefix + `_TOKEN_KEY(?:_V(\d+))?$`)

// loadCryptoKeys collects TGUSERS_TOKEN_KEY[_V{N}] variables and decodes each
// base64 value. An unversioned key is version 1.
func loadCryptoKeys(environ []string) (map[int][]byte, error) {
	result := make(map[int][]byte)

	for _, e := range environ {
		name, val, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}

		m := cryptoKeyEnv.FindStringSubmatch(name)
		if m == nil {
			continue
		}

		ver := 1
		if m[1] != "" {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("invalid key version in env var %s: %w", name, err)
			}
			ver = n
		}

		decoded, err := base64.StdEncoding.DecodeString(val)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 for %s: %w", name, err)
		}

		result[ver] = decoded
	}

	return result, nil
}

func getLastCryptoKeyVersion(keys map[int][]byte) int {
	maxVer := 0
	for ver := range keys {
		if ver > maxVer {
			maxVer = ver
		}
	}
	return maxVer
}

func Load(configPath string, ctx context.Context) (*Config, error) {
	loader := NewViperLoader(configPath, NewValidator())
	return loader.Load(ctx)
}

func (c *DatabaseConfig) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Name,
		c.SSLMode,
	)
}

// GetDatabaseURL returns the DSN in postgres:// URL form.
func (c *DatabaseConfig) GetDatabaseURL() string {
	return "postgres://" + c.GetDatabaseDSN()
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
