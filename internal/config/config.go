package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ModeProduction  = "production"
	ModeDevelopment = "development"

	envPrefix = "FORENSICDESK"
	envConfig = "FORENSICDESK_CONFIG"
)

// PageSizes are the selectable rows-per-page values.
var PageSizes = []int{2, 10, 20, 50}

// Config holds application configuration.
type Config struct {
	Mode        string             `mapstructure:"mode"`
	Database    DatabaseConfig     `mapstructure:"database"`
	Log         LogConfig          `mapstructure:"log"`
	UI          UIConfig           `mapstructure:"ui"`
	Keybindings []KeybindingConfig `mapstructure:"keybindings"`
}

// DatabaseConfig holds sqlite settings for the seed store.
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// LogConfig holds log file settings. An empty path disables logging.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Latency  time.Duration `mapstructure:"latency"`
	PageSize int           `mapstructure:"page_size"`
}

// KeybindingConfig overrides the keys of one action within a scope.
type KeybindingConfig struct {
	Scope  string   `mapstructure:"scope"`
	Action string   `mapstructure:"action"`
	Keys   []string `mapstructure:"keys"`
}

// Path returns the config file location: $FORENSICDESK_CONFIG or
// ~/.config/forensicdesk/config.toml.
func Path() string {
	if p := os.Getenv(envConfig); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "forensicdesk", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix FORENSICDESK_.
// A missing config file is not an error; a malformed one is.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("mode", ModeProduction)
	v.SetDefault("database.dsn", "")
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "state", "forensicdesk", "forensicdesk.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.latency", "500ms")
	v.SetDefault("ui.page_size", 2)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the UI cannot work with.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeProduction, ModeDevelopment:
	default:
		return fmt.Errorf("config: mode %q must be %q or %q", c.Mode, ModeProduction, ModeDevelopment)
	}
	if c.UI.Latency < 0 {
		return fmt.Errorf("config: ui.latency must not be negative")
	}
	if !slices.Contains(PageSizes, c.UI.PageSize) {
		return fmt.Errorf("config: ui.page_size %d must be one of %v", c.UI.PageSize, PageSizes)
	}
	return nil
}

// Development reports whether the development mode switch is on.
func (c Config) Development() bool { return c.Mode == ModeDevelopment }

// Save writes the provided config to disk, creating the config directory if needed.
// This is used by the TUI settings page.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("mode", cfg.Mode)
	v.Set("database.dsn", cfg.Database.DSN)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("ui.latency", cfg.UI.Latency.String())
	v.Set("ui.page_size", cfg.UI.PageSize)
	if len(cfg.Keybindings) > 0 {
		items := make([]map[string]any, 0, len(cfg.Keybindings))
		for _, kb := range cfg.Keybindings {
			items = append(items, map[string]any{"scope": kb.Scope, "action": kb.Action, "keys": kb.Keys})
		}
		v.Set("keybindings", items)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
