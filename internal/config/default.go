package config

import "time"

func SetDefaultConfig() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			AllowOrigins:    "*",
		},
		API: APIConfig{
			PageSize: 30,
		},
		Storage: StorageConfig{
			Driver:          DriverMemory,
			HealthCheckSpec: "@every 1m",
		},
		Database: DatabaseConfig{
			Host:              "localhost",
			Port:              5432,
			User:              "postgres",
			Password:          "",
			Name:              "tgusers",
			SSLMode:           "require",
			MaxOpenConns:      10,
			MaxIdleConns:      5,
			ConnMaxLifetime:   1 * time.Hour,
			ConnMaxIdleTime:   15 * time.Minute,
			HealthCheckPeriod: 1 * time.Minute,
			AutoMigrate:       true,
		},
		SQLite: SQLiteConfig{
			Path: "data/tgusers.db",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Auth: AuthConfig{
			TokenTTL:   1 * time.Hour,
			Revocation: RevocationMemory,
			PurgeSpec:  "@every 5m",
		},
		Telegram: TelegramConfig{
			WelcomeText:     "Welcome, {{user.name}}! You are now registered.\nSend /me to see your record.",
			WelcomeBackText: "Welcome back, {{user.name}}!",
		},
		Crypto: CryptoConfig{
			Algorithm: "aes_gcm",
		},
		Logger: LoggerConfig{
			Level:        "info",
			Format:       "json",
			Output:       "stdout",
			EnableColors: false,
			FilePath:     "",
			MaxSize:      0,
			MaxBackups:   0,
			MaxAge:       0,
			Compress:     false,
		},
	}
}
