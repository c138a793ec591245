package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.Addr)
	assert.Equal(t, "data/accounts.json", cfg.AccountsPath)
	assert.Equal(t, "admin", cfg.AdminAccount)
	assert.False(t, cfg.EveryoneAdmin)
	assert.Equal(t, BackendYAML, cfg.Backend())
	assert.Equal(t, "data/playerdata.yml", cfg.StorePath)
	assert.Equal(t, `[a-zA-Z0-9_\s]+`, cfg.AllowedPattern)
	assert.Equal(t, []string{"chattags.use", "chattags.set", "chattags.color", "chattags.toggle", "chattags.clear"}, cfg.Permissions())
	require.NoError(t, cfg.Validate())

	rules := cfg.Rules()
	assert.Equal(t, 1, rules.MinLength)
	assert.Equal(t, 16, rules.MaxLength)
	assert.Equal(t, 30*time.Second, rules.Cooldown)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CHATTAGS_ADDR", "127.0.0.1:5000")
	t.Setenv("TAG_STORE_BACKEND", "SQLite")
	t.Setenv("TAG_STORE_PATH", "data/tags.db")
	t.Setenv("TAG_MAX_LENGTH", "8")
	t.Setenv("TAG_CHANGE_COOLDOWN_SECONDS", "5")
	t.Setenv("TAG_DEFAULT_PERMISSIONS", "chattags.use, chattags.toggle,")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "127.0.0.1:5000", cfg.Addr)
	assert.Equal(t, BackendSQLite, cfg.Backend())
	assert.Equal(t, 8, cfg.Rules().MaxLength)
	assert.Equal(t, 5*time.Second, cfg.Rules().Cooldown)
	assert.Equal(t, []string{"chattags.use", "chattags.toggle"}, cfg.Permissions())
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	t.Setenv("TAG_MIN_LENGTH", "one")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidateRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inverted bounds", func(c *Config) { c.MinLength, c.MaxLength = 10, 2 }},
		{"negative cooldown", func(c *Config) { c.CooldownSeconds = -1 }},
		{"bad pattern", func(c *Config) { c.AllowedPattern = "[a-" }},
		{"unknown backend", func(c *Config) { c.StoreBackend = "postgres" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLevel(t *testing.T) {
	cfg := &Config{}
	for input, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	} {
		cfg.LogLevel = input
		assert.Equal(t, want, cfg.Level(), input)
	}
}
