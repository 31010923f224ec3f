// Package config handles TOML-based configuration loading and validation.
// The file is parsed as data only; missing keys keep their defaults.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "lfilms"

// Config holds all application configuration.
type Config struct {
	Mirror             string        `toml:"mirror"`
	BootstrapURL       string        `toml:"bootstrap_url"`
	UserAgent          string        `toml:"user_agent"`
	TimeoutSeconds     int           `toml:"timeout_seconds"`
	InsecureSkipVerify bool          `toml:"insecure_skip_verify"`
	ResolveMirror      bool          `toml:"resolve_mirror"`
	History            bool          `toml:"history"`
	Debug              bool          `toml:"debug"`
	Logging            LoggingConfig `toml:"logging"`
}

// LoggingConfig controls where and how much the client logs.
type LoggingConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	File       string `toml:"file"`
	MaxSize    int    `toml:"max_size"`
	MaxBackups int    `toml:"max_backups"`
	MaxAge     int    `toml:"max_age"`
	Compress   bool   `toml:"compress"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Mirror:             "https://rezka.ag",
		BootstrapURL:       "https://raw.githubusercontent.com/lrdcxdes/LFilms/master/mirror.txt",
		TimeoutSeconds:     15,
		InsecureSkipVerify: true,
		ResolveMirror:      true,
		History:            true,
		Logging: LoggingConfig{
			Level:      "warn",
			Format:     "text",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if err := checkURL("mirror", c.Mirror); err != nil {
		return err
	}
	if c.BootstrapURL != "" {
		if err := checkURL("bootstrap_url", c.BootstrapURL); err != nil {
			return err
		}
	}

	if c.TimeoutSeconds <= 0 || c.TimeoutSeconds > 300 {
		return fmt.Errorf("timeout_seconds must be between 1 and 300, got %d", c.TimeoutSeconds)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unsupported log level %q (valid: debug, info, warn, error)", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q (valid: text, json)", c.Logging.Format)
	}

	return nil
}

func checkURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s cannot be empty", key)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s %q must be an http(s) URL", key, raw)
	}
	return nil
}

// Timeout is TimeoutSeconds as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DataDir returns the XDG data directory for the application.
func DataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, appName), nil
}

// StorePath returns the path to the settings database.
func StorePath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "store.db"), nil
}
