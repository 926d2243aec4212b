package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults applied when config.toml is missing or leaves a key unset.
const (
	DefaultInstance      = "main"
	DefaultMailDomain    = "raveoir.github.io"
	DefaultLogLevel      = "info"
	DefaultRetentionDays = 3
	DefaultSweepInterval = 15 * time.Minute
)

// Config represents the global ~/.raveoir/config.toml.
type Config struct {
	DefaultInstance string  `toml:"default_instance"`
	MailDomain      string  `toml:"mail_domain"`
	LogLevel        string  `toml:"log_level"`
	Archive         Archive `toml:"archive"`
}

// Archive controls the auto-archive policy.
type Archive struct {
	RetentionDays int           `toml:"retention_days"`
	SweepInterval time.Duration `toml:"sweep_interval"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DefaultInstance: DefaultInstance,
		MailDomain:      DefaultMailDomain,
		LogLevel:        DefaultLogLevel,
		Archive: Archive{
			RetentionDays: DefaultRetentionDays,
			SweepInterval: DefaultSweepInterval,
		},
	}
}

// Load reads config from the given path. Returns error if the file is missing
// or malformed; unset keys are filled with defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// Validate rejects values the daemon cannot run with.
func (c *Config) Validate() error {
	if c.Archive.RetentionDays < 1 {
		return fmt.Errorf("archive.retention_days must be at least 1, got %d", c.Archive.RetentionDays)
	}
	if c.Archive.SweepInterval < time.Second {
		return fmt.Errorf("archive.sweep_interval must be at least 1s, got %s", c.Archive.SweepInterval)
	}
	if strings.ContainsAny(c.MailDomain, "*@ ") {
		return fmt.Errorf("mail_domain %q must be a bare domain", c.MailDomain)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.DefaultInstance == "" {
		c.DefaultInstance = DefaultInstance
	}
	if c.MailDomain == "" {
		c.MailDomain = DefaultMailDomain
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Archive.RetentionDays == 0 {
		c.Archive.RetentionDays = DefaultRetentionDays
	}
	if c.Archive.SweepInterval == 0 {
		c.Archive.SweepInterval = DefaultSweepInterval
	}
}
