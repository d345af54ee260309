// Package config reads the environment both binaries run under. Outside
// production a .env file in the working directory is folded in first, with
// real environment variables taking precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Review state backends selectable through REVIEW_STORE.
const (
	StoreDatabase = "database"
	StoreLocal    = "local"
)

// Reminder window bounds used when the environment does not set them.
const (
	defaultStartHour = 8
	defaultEndHour   = 22
)

// Config holds everything the binaries read from the environment.
type Config struct {
	Environment string // "production" skips the .env lookup and switches logging to JSON

	HTTPAddr    string   // API listen address
	CORSOrigins []string // allowed origins; empty allows all

	DBDriver string // "postgres" or "sqlite"
	DBDSN    string // postgres URL, or sqlite file path
	DataDir  string // sqlite database and the local review store live here

	ReviewStore string // StoreDatabase or StoreLocal

	BotToken string // empty leaves the Telegram surface off

	ReminderStartHour int // inclusive, 0-23
	ReminderEndHour   int // inclusive, 0-23

	CacheTTL time.Duration // catalog cache window; zero keeps the catalog default
}

// Production reports whether the process runs with production settings.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

// LocalStorePath is the JSON file the local review store writes to.
func (c *Config) LocalStorePath() string {
	return filepath.Join(c.DataDir, "review_states.json")
}

// Load assembles the configuration from the environment.
func Load() (*Config, error) {
	env := envOr("APP_ENV", "development")
	if env != "production" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{
		Environment:       env,
		HTTPAddr:          envOr("HTTP_ADDR", ":8080"),
		CORSOrigins:       splitList(os.Getenv("CORS_ORIGINS")),
		DBDriver:          envOr("DB_DRIVER", "sqlite"),
		DataDir:           envOr("DATA_DIR", "data"),
		ReviewStore:       envOr("REVIEW_STORE", StoreDatabase),
		BotToken:          os.Getenv("TELEGRAM_BOT_TOKEN"),
		ReminderStartHour: envHour("NOTIFICATION_START_HOUR", defaultStartHour),
		ReminderEndHour:   envHour("NOTIFICATION_END_HOUR", defaultEndHour),
		CacheTTL:          envDuration("CATALOG_CACHE_TTL"),
	}

	if cfg.ReviewStore != StoreDatabase && cfg.ReviewStore != StoreLocal {
		return nil, fmt.Errorf("unknown REVIEW_STORE %q, want %q or %q",
			cfg.ReviewStore, StoreDatabase, StoreLocal)
	}

	switch cfg.DBDriver {
	case "postgres":
		cfg.DBDSN = os.Getenv("DB_DSN")
		if cfg.DBDSN == "" {
			return nil, errors.New("DB_DSN is required when DB_DRIVER=postgres")
		}
	default:
		cfg.DBDSN = envOr("DB_DSN", filepath.Join(cfg.DataDir, "langcat.db"))
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envHour parses an hour-of-day variable, keeping the fallback on anything
// outside 0-23.
func envHour(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
		return h
	}
	return fallback
}

func envDuration(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return 0
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
