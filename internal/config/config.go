// Package config loads server and tag settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/Johann-FullHD/ChatTags/internal/tags"
)

// Store backends accepted by TAG_STORE_BACKEND.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Server
	Addr          string `env:"CHATTAGS_ADDR" envDefault:":4000"`
	AccountsPath  string `env:"CHATTAGS_ACCOUNTS" envDefault:"data/accounts.json"`
	AdminAccount  string `env:"CHATTAGS_ADMIN" envDefault:"admin"`
	EveryoneAdmin bool   `env:"CHATTAGS_EVERYONE_ADMIN" envDefault:"false"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`

	// Tag storage
	StoreBackend string `env:"TAG_STORE_BACKEND" envDefault:"yaml"`
	StorePath    string `env:"TAG_STORE_PATH" envDefault:"data/playerdata.yml"`

	// Tag rules
	MinLength          int      `env:"TAG_MIN_LENGTH" envDefault:"1"`
	MaxLength          int      `env:"TAG_MAX_LENGTH" envDefault:"16"`
	AllowedPattern     string   `env:"TAG_ALLOWED_PATTERN" envDefault:"[a-zA-Z0-9_\\s]+"`
	CooldownSeconds    int      `env:"TAG_CHANGE_COOLDOWN_SECONDS" envDefault:"30"`
	DefaultPermissions []string `env:"TAG_DEFAULT_PERMISSIONS" envSeparator:"," envDefault:"chattags.use,chattags.set,chattags.color,chattags.toggle,chattags.clear"`
}

// Load parses environment variables into a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the tag manager cannot run with.
func (c *Config) Validate() error {
	if c.MinLength > c.MaxLength {
		return fmt.Errorf("TAG_MIN_LENGTH (%d) exceeds TAG_MAX_LENGTH (%d)", c.MinLength, c.MaxLength)
	}
	if c.CooldownSeconds < 0 {
		return fmt.Errorf("TAG_CHANGE_COOLDOWN_SECONDS must not be negative, got %d", c.CooldownSeconds)
	}
	if _, err := regexp.Compile(c.AllowedPattern); err != nil {
		return fmt.Errorf("TAG_ALLOWED_PATTERN is not a valid expression: %w", err)
	}
	switch c.Backend() {
	case BackendYAML, BackendSQLite:
	default:
		return fmt.Errorf("TAG_STORE_BACKEND %q is not one of %s, %s", c.StoreBackend, BackendYAML, BackendSQLite)
	}
	return nil
}

// Backend returns the normalised store backend name.
func (c *Config) Backend() string {
	return strings.ToLower(strings.TrimSpace(c.StoreBackend))
}

// Rules converts the tag settings into validation rules.
func (c *Config) Rules() tags.Rules {
	return tags.Rules{
		MinLength:      c.MinLength,
		MaxLength:      c.MaxLength,
		AllowedPattern: c.AllowedPattern,
		Cooldown:       time.Duration(c.CooldownSeconds) * time.Second,
	}
}

// Permissions returns the trimmed, non-empty default capabilities.
func (c *Config) Permissions() []string {
	out := make([]string, 0, len(c.DefaultPermissions))
	for _, perm := range c.DefaultPermissions {
		if trimmed := strings.TrimSpace(perm); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Level maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
