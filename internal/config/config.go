// Package config loads process configuration from file, environment and
// flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const appName = "paperdesk"

// Store configures the key-value backend.
type Store struct {
	Backend     string `mapstructure:"backend"`
	Path        string `mapstructure:"path"`
	RedisURL    string `mapstructure:"redisURL"`
	RedisPrefix string `mapstructure:"redisPrefix"`
}

// Log configures logging.
type Log struct {
	Level  string `mapstructure:"level"`
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"`
}

// Library configures document discovery.
type Library struct {
	Pattern string `mapstructure:"pattern"`
}

// Config is the process configuration.
type Config struct {
	Store   Store   `mapstructure:"store"`
	Log     Log     `mapstructure:"log"`
	Library Library `mapstructure:"library"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// DefaultDBPath returns ~/.paperdesk/paperdesk.db.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "."+appName, appName+".db")
}

// Load reads configuration. An explicit path must exist; otherwise the
// standard locations are searched and a missing file is not an error.
// Environment variables prefixed PAPERDESK_ override file values, e.g.
// PAPERDESK_STORE_BACKEND.
func Load(path string) (*Config, error) {
	v := viper.New()
	configure(v, path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	// Legacy single-variable override for the database path
	if env := os.Getenv("PAPERDESK_DB"); env != "" {
		cfg.Store.Path = env
	}
	return cfg, nil
}

func configure(v *viper.Viper, path string) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(appName)
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, appName))
		}
		v.AddConfigPath(fmt.Sprintf("$HOME/.config/%s", appName))
		v.AddConfigPath(fmt.Sprintf("$HOME/.%s", appName))
	}
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.backend", "sqlite")
	v.SetDefault("store.path", DefaultDBPath())
	v.SetDefault("store.redisURL", "")
	v.SetDefault("store.redisPrefix", "paperdesk:")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.format", "text")
	v.SetDefault("library.pattern", "*.pdf")
}
