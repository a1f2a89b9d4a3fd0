// Package config loads process configuration and holds the editor settings
// bundle and the theme table.
//
// Process configuration comes from three layers, later layers winning:
// built-in defaults, an optional YAML file, then environment variables
// (QUIRE_DB, QUIRE_LOG_LEVEL, QUIRE_RENDER_SANITIZE). A .env file in the
// working directory is loaded into the environment first; variables
// already set are not overridden.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvDB             = "QUIRE_DB"
	EnvLogLevel       = "QUIRE_LOG_LEVEL"
	EnvRenderSanitize = "QUIRE_RENDER_SANITIZE"
)

// Config is the process configuration.
type Config struct {
	// DB is the SQLite database path.
	DB string `yaml:"db"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	Render   RenderConfig   `yaml:"render"`
	Autosave AutosaveConfig `yaml:"autosave"`
}

// RenderConfig configures the markdown renderer.
type RenderConfig struct {
	Sanitize  bool `yaml:"sanitize"`
	CacheSize int  `yaml:"cache_size"`
}

// AutosaveConfig configures the autosave debounce.
type AutosaveConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DB:       "quire.db",
		LogLevel: "info",
		Render:   RenderConfig{CacheSize: 20},
		Autosave: AutosaveConfig{Debounce: 300 * time.Millisecond},
	}
}

// Load builds the configuration. path names an optional YAML file; an
// empty path skips the file layer. envFiles are loaded into the
// environment before overrides are read; when none are given ".env" is
// tried and silently skipped if absent.
func Load(path string, envFiles ...string) (Config, error) {
	if err := loadDotenv(envFiles); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DB) == "" {
		return errors.New("config: db path is empty")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Render.CacheSize < 1 {
		return fmt.Errorf("config: render.cache_size must be positive, got %d", c.Render.CacheSize)
	}
	if c.Autosave.Debounce <= 0 {
		return fmt.Errorf("config: autosave.debounce must be positive, got %s", c.Autosave.Debounce)
	}
	return nil
}

// Level returns the slog level for LogLevel.
func (c Config) Level() slog.Level {
	lvl, _ := ParseLevel(c.LogLevel)
	return lvl
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvDB); ok && v != "" {
		c.DB = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvRenderSanitize); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRenderSanitize, err)
		}
		c.Render.Sanitize = b
	}
	return nil
}

func loadDotenv(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}
