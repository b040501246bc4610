package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Defaults for settings that have no value in the config file.
const (
	DefaultInactivityThresholdDays = 10
	DefaultRetryAttempts           = 3
	DefaultRetryDelayMS            = 300
	DefaultFocusMinutes            = 25
	DefaultServerAddr              = "127.0.0.1:8420"
)

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// SettingsConfig holds user preferences persisted between runs.
type SettingsConfig struct {
	// InactivityThresholdDays is how long a goal may go untouched
	// before it is flagged inactive.
	InactivityThresholdDays int `mapstructure:"inactivity_threshold_days" yaml:"inactivity_threshold_days"`

	DarkMode bool `mapstructure:"dark_mode" yaml:"dark_mode"`
}

// RetryConfig controls how store writes are retried.
type RetryConfig struct {
	Attempts int `mapstructure:"attempts" yaml:"attempts"`
	DelayMS  int `mapstructure:"delay_ms" yaml:"delay_ms"`
}

// Delay returns the per-attempt backoff step.
func (r RetryConfig) Delay() time.Duration {
	return time.Duration(r.DelayMS) * time.Millisecond
}

// FocusConfig holds focus-mode defaults.
type FocusConfig struct {
	DefaultMinutes int `mapstructure:"default_minutes" yaml:"default_minutes"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr    string `mapstructure:"addr" yaml:"addr"`
	Metrics bool   `mapstructure:"metrics" yaml:"metrics"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Settings SettingsConfig `mapstructure:"settings" yaml:"settings"`
	Retry    RetryConfig    `mapstructure:"retry" yaml:"retry"`
	Focus    FocusConfig    `mapstructure:"focus" yaml:"focus"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/momentum/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "momentum", "config.yaml")
}

// DefaultDatabasePath returns ~/.local/share/momentum/momentum.db.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "momentum.db"
	}
	return filepath.Join(home, ".local", "share", "momentum", "momentum.db")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{Path: DefaultDatabasePath()},
		Settings: SettingsConfig{
			InactivityThresholdDays: DefaultInactivityThresholdDays,
		},
		Retry: RetryConfig{
			Attempts: DefaultRetryAttempts,
			DelayMS:  DefaultRetryDelayMS,
		},
		Focus: FocusConfig{DefaultMinutes: DefaultFocusMinutes},
		Server: ServerConfig{
			Addr:    DefaultServerAddr,
			Metrics: true,
		},
	}
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("settings.inactivity_threshold_days", DefaultInactivityThresholdDays)
	v.SetDefault("settings.dark_mode", false)
	v.SetDefault("retry.attempts", DefaultRetryAttempts)
	v.SetDefault("retry.delay_ms", DefaultRetryDelayMS)
	v.SetDefault("focus.default_minutes", DefaultFocusMinutes)
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.metrics", true)
	v.SetEnvPrefix("momentum")
	v.AutomaticEnv()
	return v
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return DefaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	return decodeConfig(v, path)
}

func decodeConfig(v *viper.Viper, path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.sanitize()
	return cfg, nil
}

// sanitize clamps values that would break the engine back to defaults.
func (c *AppConfig) sanitize() {
	if c.Settings.InactivityThresholdDays < 1 {
		c.Settings.InactivityThresholdDays = DefaultInactivityThresholdDays
	}
	if c.Retry.Attempts < 1 {
		c.Retry.Attempts = DefaultRetryAttempts
	}
	if c.Retry.DelayMS < 0 {
		c.Retry.DelayMS = DefaultRetryDelayMS
	}
	if c.Focus.DefaultMinutes < 1 {
		c.Focus.DefaultMinutes = DefaultFocusMinutes
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath()
	}
}

// WatchConfig re-reads the file at path whenever it changes and hands
// the new configuration to onChange. Parse errors are passed to onError.
func WatchConfig(path string, onChange func(*AppConfig), onError func(error)) error {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decodeConfig(v, path)
		if err != nil {
			onError(err)
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database", cfg.Database)
	v.Set("settings", cfg.Settings)
	v.Set("retry", cfg.Retry)
	v.Set("focus", cfg.Focus)
	v.Set("server", cfg.Server)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
