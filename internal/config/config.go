// Package config loads cardwise configuration from an optional YAML
// file with environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultQuotaBytes is the storage quota reported by the store when
// none is configured. Mirrors a conservative browser origin quota.
const DefaultQuotaBytes = 256 << 20

// Config holds all cardwise settings. Precedence, lowest to highest:
// built-in defaults, YAML config file, CARDWISE_* environment
// variables.
type Config struct {
	// DatabasePath is the SQLite file backing the primary store.
	DatabasePath string `yaml:"database_path" env:"CARDWISE_DATABASE_PATH"`

	// LegacyPath is the JSON file backing the legacy store that
	// pre-SQLite installs wrote. Keys found there are migrated into
	// the primary store on first read.
	LegacyPath string `yaml:"legacy_path" env:"CARDWISE_LEGACY_PATH"`

	// DownloadsDir receives manual exports and fallback-mode syncs.
	DownloadsDir string `yaml:"downloads_dir" env:"CARDWISE_DOWNLOADS_DIR"`

	// QuotaBytes caps the storage usage reported by StorageStatus.
	QuotaBytes int64 `yaml:"quota_bytes" env:"CARDWISE_QUOTA_BYTES"`

	LogLevel  string `yaml:"log_level" env:"CARDWISE_LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"CARDWISE_LOG_FORMAT"`
}

// Load reads configuration from the YAML file at path, then applies
// environment overrides and fills remaining defaults. A missing file
// is not an error; an unreadable or malformed one is.
//
// An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Defaults apply.
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() error {
	if c.DatabasePath == "" || c.LegacyPath == "" || c.DownloadsDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
		dir := filepath.Join(base, "cardwise")
		if c.DatabasePath == "" {
			c.DatabasePath = filepath.Join(dir, "cardwise.db")
		}
		if c.LegacyPath == "" {
			c.LegacyPath = filepath.Join(dir, "legacy.json")
		}
		if c.DownloadsDir == "" {
			c.DownloadsDir = filepath.Join(dir, "downloads")
		}
	}
	if c.QuotaBytes <= 0 {
		c.QuotaBytes = DefaultQuotaBytes
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	return nil
}
