package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete gitdock configuration
type Config struct {
	Registry RegistryConfig `mapstructure:"registry"`
	Git      GitConfig      `mapstructure:"git"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// RegistryConfig controls the repository registry
type RegistryConfig struct {
	// MaxOpenRepositories bounds how many repository contexts stay registered
	// at once. Beyond the bound, the least-recently-accessed background
	// repository is evicted to make room (default: 12)
	MaxOpenRepositories int `mapstructure:"max_open_repositories"`
}

// GitConfig controls how repositories are inspected
type GitConfig struct {
	// RemoteName is the remote consulted for origin URLs and default-branch
	// hints (default: "origin")
	RemoteName string `mapstructure:"remote_name"`
}

// LoggingConfig controls structured logging behavior
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "text" (default: "json")
	Format string `mapstructure:"format"`
	// File is the log file path; empty logs to stderr
	File string `mapstructure:"file"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
	// Compress gzip-compresses rotated log files (default: false)
	Compress bool `mapstructure:"compress"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{
			MaxOpenRepositories: 12,
		},
		Git: GitConfig{
			RemoteName: "origin",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			File:       "", // Empty means stderr
			MaxSizeMB:  10,
			MaxBackups: 3,
			Compress:   false,
		},
	}
}

// SetDefaults registers default values with the given viper instance
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	// Registry defaults
	v.SetDefault("registry.max_open_repositories", defaults.Registry.MaxOpenRepositories)

	// Git defaults
	v.SetDefault("git.remote_name", defaults.Git.RemoteName)

	// Logging defaults
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	v.SetDefault("logging.compress", defaults.Logging.Compress)
}

// Load reads the configuration from the given viper instance into a Config
// struct and validates it
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gitdock")
	}
	// Fall back to ~/.config/gitdock
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gitdock"
	}
	return filepath.Join(home, ".config", "gitdock")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Save writes the given viper instance's settings to the user config file,
// creating the config directory if needed
func Save(v *viper.Viper) error {
	if err := os.MkdirAll(ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := v.WriteConfigAs(ConfigFile()); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
