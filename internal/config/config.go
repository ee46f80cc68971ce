package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatasetPath     string
	DBPath          string
	SnapshotDir     string
	LogLevel        string
	LogPretty       bool
	PlaybackSeconds float64
	SimTick         time.Duration
	RunFor          time.Duration
	Seed            int64
	YahooBaseURL    string

	// Sharing is disabled unless both are set.
	TelegramToken  string
	TelegramChatID int64
}

// ShareEnabled reports whether snapshots should be posted to Telegram after a run.
func (c *Config) ShareEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// Load reads configuration from the environment, after loading .env if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatasetPath:   getEnv("DATASET_PATH", ""),
		DBPath:        getEnv("DB_PATH", "./data/market.db"),
		SnapshotDir:   getEnv("SNAPSHOT_DIR", "./out"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		YahooBaseURL:  getEnv("YAHOO_BASE_URL", ""),
		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
	}

	var err error
	if cfg.LogPretty, err = getEnvAsBool("LOG_PRETTY", true); err != nil {
		return nil, err
	}
	if cfg.PlaybackSeconds, err = getEnvAsFloat("PLAYBACK_SECONDS", 10); err != nil {
		return nil, err
	}
	if cfg.PlaybackSeconds <= 0 {
		return nil, fmt.Errorf("PLAYBACK_SECONDS must be positive, got %g", cfg.PlaybackSeconds)
	}
	if cfg.SimTick, err = getEnvAsDuration("SIM_TICK", 16*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.RunFor, err = getEnvAsDuration("RUN_FOR", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.Seed, err = getEnvAsInt("SEED", 1); err != nil {
		return nil, err
	}
	if cfg.TelegramChatID, err = getEnvAsInt("TELEGRAM_CHAT_ID", 0); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(k string, fallback int64) (int64, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", k, v, err)
	}
	return n, nil
}

func getEnvAsFloat(k string, fallback float64) (float64, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", k, v, err)
	}
	return f, nil
}

func getEnvAsBool(k string, fallback bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", k, v, err)
	}
	return b, nil
}

func getEnvAsDuration(k string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", k, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", k, d)
	}
	return d, nil
}
