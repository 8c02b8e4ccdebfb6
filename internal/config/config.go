// Package config loads runtime settings from the environment. Call
// godotenv.Load before Load so values from a local .env file are visible.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	API      APIConfig
	Session  SessionConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Telegram TelegramConfig
	Live     LiveConfig
	Lang     string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	GinMode      string
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Secret       string
	SecureCookie bool
}

// Insecure reports whether the cookie signing key is the published
// development default.
func (s SessionConfig) Insecure() bool { return s.Secret == DevSessionSecret }

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis server was configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type DatabaseConfig struct {
	URL string
}

func (d DatabaseConfig) Enabled() bool { return d.URL != "" }

type TelegramConfig struct {
	BotToken string
	ChatID   int64
}

func (t TelegramConfig) Enabled() bool { return t.BotToken != "" && t.ChatID != 0 }

type LiveConfig struct {
	PollInterval time.Duration
}

// Load reads the configuration, falling back to development defaults.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT_SECONDS", 10)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT_SECONDS", 30)) * time.Second,
			GinMode:      getEnv("GIN_MODE", "debug"),
		},
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:5000/api"),
			Timeout: time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Session: SessionConfig{
			Secret:       getEnv("SESSION_SECRET", DevSessionSecret),
			SecureCookie: getEnvBool("COOKIE_SECURE", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   int64(getEnvInt("TELEGRAM_CHAT_ID", 0)),
		},
		Live: LiveConfig{
			PollInterval: time.Duration(getEnvInt("LIVE_POLL_SECONDS", int(DefaultLivePollInterval/time.Second))) * time.Second,
		},
		Lang: getEnv("APP_LANG", "id"),
	}
}

// Validate rejects settings that are only acceptable while developing. In
// release mode SESSION_SECRET must be set.
func (c Config) Validate() error {
	if c.Server.GinMode == "release" && c.Session.Insecure() {
		return errors.New("config: SESSION_SECRET must be set when GIN_MODE=release")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
