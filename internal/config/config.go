// Package config loads the application configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// CloudConfig holds the remote document store settings.
type CloudConfig struct {
	// BaseURL is the root URL of the cloud API.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// UserID is the identifier of the signed-in user; empty means
	// signed out and sync is refused.
	UserID string `mapstructure:"user_id" yaml:"user_id"`
}

// StoreConfig holds local persistence settings.
type StoreConfig struct {
	// DBPath is the SQLite database file location.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// QueryConfig holds query/cache layer settings.
type QueryConfig struct {
	// CacheTTLSec is how long (in seconds) a cached snapshot stays fresh.
	CacheTTLSec int `mapstructure:"cache_ttl_sec" yaml:"cache_ttl_sec"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Cloud CloudConfig `mapstructure:"cloud" yaml:"cloud"`
	Store StoreConfig `mapstructure:"store" yaml:"store"`
	Query QueryConfig `mapstructure:"query" yaml:"query"`
	Log   LogConfig   `mapstructure:"log" yaml:"log"`
}

// DefaultPath returns the default path for the configuration file,
// located at ~/.config/personal-affairs/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "personal-affairs", "config.yaml")
}

// defaultConfig returns a sensible default configuration.
func defaultConfig() *Config {
	return &Config{
		Store: StoreConfig{DBPath: defaultDBPath()},
		Query: QueryConfig{CacheTTLSec: 300},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "affairs.db")
	}
	return filepath.Join(home, ".config", "personal-affairs", "affairs.db")
}

// Load reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("store.db_path", defaultDBPath())
	v.SetDefault("query.cache_ttl_sec", 300)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the given configuration to a YAML file at path, creating
// parent directories if needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("cloud", cfg.Cloud)
	v.Set("store", cfg.Store)
	v.Set("query", cfg.Query)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
