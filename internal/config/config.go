package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Portfolio struct {
		File     string `yaml:"file"`
		Currency string `yaml:"currency"`
	} `yaml:"portfolio"`
	Pricing struct {
		Source        string `yaml:"source"`
		Seed          uint64 `yaml:"seed"`
		Min           int    `yaml:"min"`
		Max           int    `yaml:"max"`
		HistoryLength int    `yaml:"history_length"`
	} `yaml:"pricing"`
	Schedule struct {
		WatchCron string `yaml:"watch_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error: defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PORTFOLIO_FILE"); v != "" {
		cfg.Portfolio.File = v
	}
	if v := os.Getenv("PORTFOLIO_CURRENCY"); v != "" {
		cfg.Portfolio.Currency = v
	}
	if v := os.Getenv("PRICING_SOURCE"); v != "" {
		cfg.Pricing.Source = v
	}
	if v := os.Getenv("PRICING_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Pricing.Seed = seed
		}
	}
	if v := os.Getenv("CRON_WATCH"); v != "" {
		cfg.Schedule.WatchCron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Portfolio.File == "" {
		cfg.Portfolio.File = "portfolio.yaml"
	}
	if cfg.Portfolio.Currency == "" {
		cfg.Portfolio.Currency = "USD"
	}
	if cfg.Pricing.Source == "" {
		cfg.Pricing.Source = "random"
	}
	if cfg.Pricing.Min == 0 {
		cfg.Pricing.Min = 1
	}
	if cfg.Pricing.Max == 0 {
		cfg.Pricing.Max = 20
	}
	if cfg.Pricing.HistoryLength == 0 {
		cfg.Pricing.HistoryLength = 2
	}
	if cfg.Schedule.WatchCron == "" {
		cfg.Schedule.WatchCron = "0 0 9 * * 1-5"
	}

	return cfg, nil
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	switch c.Pricing.Source {
	case "random", "static":
	default:
		return fmt.Errorf("pricing.source must be random or static, got %q", c.Pricing.Source)
	}
	if c.Pricing.Min <= 0 {
		return fmt.Errorf("pricing.min must be positive")
	}
	if c.Pricing.Max < c.Pricing.Min {
		return fmt.Errorf("pricing.max must be >= pricing.min")
	}
	if c.Pricing.HistoryLength <= 0 {
		return fmt.Errorf("pricing.history_length must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether watch reports should go to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
