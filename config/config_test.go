package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZaguanLabs/moodletl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "EN", cfg.SourceLang)
	assert.Equal(t, "deepl", cfg.Provider)
	assert.Equal(t, 49, cfg.BatchSize)
	assert.Equal(t, "json", cfg.Cache.Backend)
	assert.Equal(t, "translations.json", cfg.Cache.Path)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, "moodletl.toml", `
source_lang = "IT"
target_lang = "EN-US"
provider = "openai"

[openai]
model = "gpt-4o"

[cache]
backend = "sqlite"
path = "cache.db"

[retry]
max_retries = 5
base_delay = "250ms"

[rate_limit]
requests_per_minute = 30
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "IT", cfg.SourceLang)
	assert.Equal(t, "EN-US", cfg.TargetLang)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.InDelta(t, 0.3, cfg.OpenAI.Temperature, 1e-6)
	assert.Equal(t, "sqlite", cfg.Cache.Backend)
	assert.Equal(t, "cache.db", cfg.Cache.Path)
	assert.Equal(t, "strings.json", cfg.StringsFile)
	require.NoError(t, cfg.Validate())

	retry, err := cfg.RetryConfig()
	require.NoError(t, err)
	assert.Equal(t, moodletl.RetryConfig{MaxRetries: 5, BaseDelay: 250 * time.Millisecond, MaxDelay: 30 * time.Second}, retry)

	rl, ok := cfg.RateLimitConfig()
	assert.True(t, ok)
	assert.Equal(t, 30, rl.RequestsPerMinute)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "bad.toml", `provider = `))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "unknown.toml", `colour = "blue"`))
	var cfgErr *moodletl.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDeepLAuthKey, "env-key:fx")
	t.Setenv(EnvOpenAIAPIKey, "sk-env")

	cfg := Default()
	cfg.OpenAI.APIKey = "sk-file"
	cfg.ApplyEnv()

	assert.Equal(t, "env-key:fx", cfg.DeepL.AuthKey)
	assert.Equal(t, "sk-file", cfg.OpenAI.APIKey)
}

func TestResolveDeepLKey(t *testing.T) {
	t.Run("configured key wins", func(t *testing.T) {
		cfg := Default()
		cfg.DeepL.AuthKey = "direct"
		cfg.DeepL.AuthKeyFile = writeFile(t, "auth_key.json", `{"auth_key": "from-file"}`)

		key, err := cfg.ResolveDeepLKey()
		require.NoError(t, err)
		assert.Equal(t, "direct", key)
	})

	t.Run("auth key file", func(t *testing.T) {
		cfg := Default()
		cfg.DeepL.AuthKeyFile = writeFile(t, "auth_key.json", `{"auth_key": "from-file"}`)

		key, err := cfg.ResolveDeepLKey()
		require.NoError(t, err)
		assert.Equal(t, "from-file", key)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := Default()
		cfg.DeepL.AuthKeyFile = filepath.Join(t.TempDir(), "auth_key.json")

		key, err := cfg.ResolveDeepLKey()
		require.NoError(t, err)
		assert.Empty(t, key)
	})

	t.Run("invalid file", func(t *testing.T) {
		cfg := Default()
		cfg.DeepL.AuthKeyFile = writeFile(t, "auth_key.json", `auth_key`)

		_, err := cfg.ResolveDeepLKey()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"unknown provider", func(c *Config) { c.Provider = "google" }, "provider"},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "bolt" }, "cache.backend"},
		{"redis without url", func(c *Config) { c.Cache.Backend = "redis" }, "cache.redis_url"},
		{"json without path", func(c *Config) { c.Cache.Path = "" }, "cache.path"},
		{"batch too large", func(c *Config) { c.BatchSize = 50 }, "batch_size"},
		{"batch zero", func(c *Config) { c.BatchSize = 0 }, "batch_size"},
		{"no source", func(c *Config) { c.SourceLang = "" }, "source_lang"},
		{"bad delay", func(c *Config) { c.Retry.BaseDelay = "soon" }, "retry.base_delay"},
		{"bad timeout", func(c *Config) { c.DeepL.Timeout = "2 minutes" }, "deepl.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			var cfgErr *moodletl.ConfigError
			require.ErrorAs(t, cfg.Validate(), &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}

	cfg := Default()
	cfg.Cache.Backend = "memory"
	cfg.Cache.Path = ""
	assert.NoError(t, cfg.Validate())
}

func TestValidateTarget(t *testing.T) {
	cfg := Default()

	var cfgErr *moodletl.ConfigError
	require.ErrorAs(t, cfg.ValidateTarget(), &cfgErr)

	cfg.TargetLang = "en-gb"
	require.ErrorAs(t, cfg.ValidateTarget(), &cfgErr)
	assert.Contains(t, cfgErr.Message, "source language")

	cfg.TargetLang = "FR"
	assert.NoError(t, cfg.ValidateTarget())
}

func TestRateLimitDisabledByDefault(t *testing.T) {
	_, ok := Default().RateLimitConfig()
	assert.False(t, ok)
}
