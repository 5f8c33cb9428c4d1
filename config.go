package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is everything scrawl reads from config.toml and SCRAWL_* env
// vars.
type Config struct {
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`

	Log struct {
		Path  string `mapstructure:"path"`
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	UI struct {
		StartMenu     bool `mapstructure:"start_menu"`
		Confirmations bool `mapstructure:"confirmations"`
		AutosaveMS    int  `mapstructure:"autosave_ms"`
	} `mapstructure:"ui"`

	Export struct {
		Directory string `mapstructure:"directory"`
	} `mapstructure:"export"`
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "scrawl")
}

func defaultDataPath(parts ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(parts...)
	}
	return filepath.Join(append([]string{home, ".local", "share", "scrawl"}, parts...)...)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir())

	v.SetDefault("database.path", defaultDataPath("scrawl.db"))
	v.SetDefault("log.path", defaultDataPath("scrawl.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.start_menu", true)
	v.SetDefault("ui.confirmations", true)
	v.SetDefault("ui.autosave_ms", 100)
	v.SetDefault("export.directory", ".")

	v.SetEnvPrefix("SCRAWL")
	v.AutomaticEnv()
	return v
}

// LoadConfig reads the config file if present and falls back to defaults
// otherwise.
func LoadConfig() (*Config, error) {
	v := newViper()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.UI.AutosaveMS <= 0 {
		cfg.UI.AutosaveMS = 100
	}
	return &cfg, nil
}

// SaveConfig writes the current settings back to config.toml, creating the
// config directory on first save.
func SaveConfig(cfg *Config) error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := newViper()
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("ui.start_menu", cfg.UI.StartMenu)
	v.Set("ui.confirmations", cfg.UI.Confirmations)
	v.Set("ui.autosave_ms", cfg.UI.AutosaveMS)
	v.Set("export.directory", cfg.Export.Directory)

	if err := v.WriteConfigAs(filepath.Join(dir, "config.toml")); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
