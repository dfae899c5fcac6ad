// Package common provides shared utilities for Finsight
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Finsight
type Config struct {
	Environment string        `toml:"environment"`
	Ledger      string        `toml:"ledger"` // default ledger name
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Engine      EngineConfig  `toml:"engine"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds path configuration for the 2 storage areas.
type StorageConfig struct {
	Ledger AreaConfig `toml:"ledger"` // Transaction ledgers (BadgerHold)
	Market AreaConfig `toml:"market"` // Price cache (file-based JSON)
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Quotes QuotesConfig `toml:"quotes"`
}

// QuotesConfig holds quote API configuration
type QuotesConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *QuotesConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// EngineConfig holds portfolio engine tuning.
type EngineConfig struct {
	PriceStaleness  string `toml:"price_staleness"`  // max quote age before refresh, default "1h"
	RefreshInterval string `toml:"refresh_interval"` // background price refresh interval, default "30m"
}

// GetPriceStaleness parses and returns the staleness threshold.
func (c *EngineConfig) GetPriceStaleness() time.Duration {
	d, err := time.ParseDuration(c.PriceStaleness)
	if err != nil {
		return time.Hour
	}
	return d
}

// GetRefreshInterval parses and returns the background refresh interval.
func (c *EngineConfig) GetRefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Ledger:      "default",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8090,
		},
		Storage: StorageConfig{
			Ledger: AreaConfig{Path: "data/ledger"},
			Market: AreaConfig{Path: "data/market"},
		},
		Clients: ClientsConfig{
			Quotes: QuotesConfig{
				BaseURL:   "https://api.quotefeed.io/v1",
				RateLimit: 10,
				Timeout:   "30s",
			},
		},
		Engine: EngineConfig{
			PriceStaleness:  "1h",
			RefreshInterval: "30m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FINSIGHT_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FINSIGHT_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FINSIGHT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FINSIGHT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("FINSIGHT_DATA_PATH"); path != "" {
		config.Storage.Ledger.Path = filepath.Join(path, "ledger")
		config.Storage.Market.Path = filepath.Join(path, "market")
	}

	if key := os.Getenv("FINSIGHT_QUOTES_API_KEY"); key != "" {
		config.Clients.Quotes.APIKey = key
	}

	if ledger := os.Getenv("FINSIGHT_LEDGER"); ledger != "" {
		config.Ledger = ledger
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
