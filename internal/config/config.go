package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/jwebster45206/wild-trails/pkg/state"
)

// Storage backends
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var backends = []string{BackendRedis, BackendSQLite, BackendMemory}

type Config struct {
	Port         string     `env:"PORT" envDefault:"8080"`
	Environment  string     `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelName string     `env:"LOG_LEVEL" envDefault:"info"`
	LogLevel     slog.Level `env:"-"`

	// Storage
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"redis"`
	RedisURL       string `env:"REDIS_URL" envDefault:"localhost:6379"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"./data/wild-trails.db"`

	// Content and game rules
	ContentDir       string `env:"CONTENT_DIR" envDefault:"./data"`
	MaxStamina       int    `env:"MAX_STAMINA" envDefault:"5"`
	InitialCurrency  int    `env:"INITIAL_CURRENCY" envDefault:"0"`
	ResetCurrency    int    `env:"RESET_CURRENCY" envDefault:"100"`
	InventoryEnabled bool   `env:"INVENTORY_ENABLED" envDefault:"false"`
	StartEventID     int    `env:"START_EVENT_ID" envDefault:"0"` // 0 starts at the lowest event id
	RandomSeed       uint64 `env:"RANDOM_SEED" envDefault:"0"`    // 0 seeds from the clock

	// Journey summarizer
	OpenAIAPIKey       string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL      string        `env:"OPENAI_BASE_URL"`
	OpenAIModel        string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	SummaryTemperature float32       `env:"SUMMARY_TEMPERATURE" envDefault:"0.8"`
	SummaryMaxTokens   int           `env:"SUMMARY_MAX_TOKENS" envDefault:"800"`
	SummaryTimeout     time.Duration `env:"SUMMARY_TIMEOUT" envDefault:"90s"`
	SummaryClosingLine string        `env:"SUMMARY_CLOSING_LINE"` // Empty keeps the built-in closing line
}

// Load reads configuration from the environment, after merging a .env
// file from the working directory when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the game rule values and backend selection.
func (c *Config) Validate() error {
	if c.MaxStamina < 1 {
		return fmt.Errorf("MAX_STAMINA must be at least 1, got %d", c.MaxStamina)
	}
	if c.InitialCurrency < 0 {
		return fmt.Errorf("INITIAL_CURRENCY must not be negative, got %d", c.InitialCurrency)
	}
	if c.ResetCurrency < 0 {
		return fmt.Errorf("RESET_CURRENCY must not be negative, got %d", c.ResetCurrency)
	}
	if c.StartEventID < 0 {
		return fmt.Errorf("START_EVENT_ID must not be negative, got %d", c.StartEventID)
	}
	if !slices.Contains(backends, c.StorageBackend) {
		return fmt.Errorf("unsupported STORAGE_BACKEND %q, supported: %v", c.StorageBackend, backends)
	}
	if c.SummaryMaxTokens < 1 {
		return fmt.Errorf("SUMMARY_MAX_TOKENS must be positive, got %d", c.SummaryMaxTokens)
	}
	return nil
}

// StateOptions returns the session rules derived from the config.
func (c *Config) StateOptions() state.Options {
	return state.Options{
		MaxStamina:       c.MaxStamina,
		InitialCurrency:  c.InitialCurrency,
		ResetCurrency:    c.ResetCurrency,
		InventoryEnabled: c.InventoryEnabled,
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
