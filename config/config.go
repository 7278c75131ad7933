// Package config loads moodletl settings from a TOML file, the environment
// and the legacy auth_key.json file.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/ZaguanLabs/moodletl"
	"github.com/pelletier/go-toml/v2"
)

// Environment variables read by ApplyEnv.
const (
	EnvDeepLAuthKey = "DEEPL_AUTH_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvRedisURL     = "MOODLETL_REDIS_URL"
)

// DefaultAuthKeyFile is the legacy file holding the DeepL key as
// {"auth_key": "..."}.
const DefaultAuthKeyFile = "auth_key.json"

// Providers and cache backends accepted by Validate.
var (
	Providers     = []string{"deepl", "openai", "mock"}
	CacheBackends = []string{"json", "sqlite", "redis", "memory"}
)

// Config is the full moodletl configuration.
type Config struct {
	SourceLang  string `toml:"source_lang"`
	TargetLang  string `toml:"target_lang"`
	Provider    string `toml:"provider"`
	BatchSize   int    `toml:"batch_size"`
	StringsFile string `toml:"strings_file"`
	OutputDir   string `toml:"output_dir"`
	LogLevel    string `toml:"log_level"`

	DeepL     DeepL     `toml:"deepl"`
	OpenAI    OpenAI    `toml:"openai"`
	Cache     Cache     `toml:"cache"`
	Retry     Retry     `toml:"retry"`
	RateLimit RateLimit `toml:"rate_limit"`
}

type DeepL struct {
	AuthKey     string `toml:"auth_key"`
	AuthKeyFile string `toml:"auth_key_file"`
	BaseURL     string `toml:"base_url"`
	Timeout     string `toml:"timeout"`
}

type OpenAI struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float32 `toml:"temperature"`
	BaseURL     string  `toml:"base_url"`
}

// Cache selects the translation store. Output, when set, is a JSON file that
// receives only the translations made by a run.
type Cache struct {
	Backend   string `toml:"backend"`
	Path      string `toml:"path"`
	Output    string `toml:"output"`
	RedisURL  string `toml:"redis_url"`
	KeyPrefix string `toml:"key_prefix"`
}

type Retry struct {
	MaxRetries int    `toml:"max_retries"`
	BaseDelay  string `toml:"base_delay"`
	MaxDelay   string `toml:"max_delay"`
}

// RateLimit is disabled while RequestsPerMinute is zero.
type RateLimit struct {
	RequestsPerMinute int `toml:"requests_per_minute"`
	Burst             int `toml:"burst"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		SourceLang:  moodletl.DefaultSourceLang,
		Provider:    "deepl",
		BatchSize:   moodletl.MaxBatchSize,
		StringsFile: "strings.json",
		OutputDir:   "output",
		LogLevel:    "info",
		DeepL: DeepL{
			AuthKeyFile: DefaultAuthKeyFile,
			Timeout:     "2m",
		},
		OpenAI: OpenAI{
			Model:       "gpt-4o-mini",
			Temperature: 0.3,
		},
		Cache: Cache{
			Backend:   "json",
			Path:      "translations.json",
			KeyPrefix: "moodletl:",
		},
		Retry: Retry{
			MaxRetries: 0,
			BaseDelay:  "1s",
			MaxDelay:   "30s",
		},
	}
}

// Load reads the TOML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg. Keys absent from data keep their value.
func Parse(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return &moodletl.ConfigError{Field: "file", Message: strict.String()}
		}
		return fmt.Errorf("decoding config: %w", err)
	}
	return nil
}

// ApplyEnv fills in secrets from the environment. Values already set in cfg
// win over the environment.
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvDeepLAuthKey); ok && c.DeepL.AuthKey == "" {
		c.DeepL.AuthKey = v
	}
	if v, ok := os.LookupEnv(EnvOpenAIAPIKey); ok && c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = v
	}
	if v, ok := os.LookupEnv(EnvRedisURL); ok && c.Cache.RedisURL == "" {
		c.Cache.RedisURL = v
	}
}

// ResolveDeepLKey returns the DeepL key from the configuration, or from the
// auth key file when none is set. A missing auth key file is not an error.
func (c *Config) ResolveDeepLKey() (string, error) {
	if c.DeepL.AuthKey != "" {
		return c.DeepL.AuthKey, nil
	}
	if c.DeepL.AuthKeyFile == "" {
		return "", nil
	}

	key, err := ReadAuthKeyFile(c.DeepL.AuthKeyFile)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	return key, err
}

// ReadAuthKeyFile reads the "auth_key" member of a JSON file.
func ReadAuthKeyFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var file struct {
		AuthKey string `json:"auth_key"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return file.AuthKey, nil
}

// Validate checks the fields every command relies on.
func (c *Config) Validate() error {
	if !slices.Contains(Providers, c.Provider) {
		return &moodletl.ConfigError{Field: "provider", Message: fmt.Sprintf("unknown provider %q", c.Provider)}
	}
	if !slices.Contains(CacheBackends, c.Cache.Backend) {
		return &moodletl.ConfigError{Field: "cache.backend", Message: fmt.Sprintf("unknown backend %q", c.Cache.Backend)}
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisURL == "" {
		return &moodletl.ConfigError{Field: "cache.redis_url", Message: "required for the redis backend"}
	}
	if (c.Cache.Backend == "json" || c.Cache.Backend == "sqlite") && c.Cache.Path == "" {
		return &moodletl.ConfigError{Field: "cache.path", Message: "required for file backends"}
	}
	if c.BatchSize < 1 || c.BatchSize > moodletl.MaxBatchSize {
		return &moodletl.ConfigError{
			Field:   "batch_size",
			Message: fmt.Sprintf("must be between 1 and %d", moodletl.MaxBatchSize),
		}
	}
	if c.SourceLang == "" {
		return &moodletl.ConfigError{Field: "source_lang", Message: "required"}
	}
	if _, err := c.RetryConfig(); err != nil {
		return err
	}
	if _, err := c.DeepLTimeout(); err != nil {
		return err
	}
	return nil
}

// ValidateTarget checks that a target language is set and differs from the
// source language.
func (c *Config) ValidateTarget() error {
	if c.TargetLang == "" {
		return &moodletl.ConfigError{Field: "target_lang", Message: "required"}
	}
	if moodletl.SameLanguage(c.TargetLang, c.SourceLang) {
		return &moodletl.ConfigError{
			Field:   "target_lang",
			Message: fmt.Sprintf("%s is the source language", c.TargetLang),
		}
	}
	return nil
}

// RetryConfig converts the retry section.
func (c *Config) RetryConfig() (moodletl.RetryConfig, error) {
	base, err := parseDuration("retry.base_delay", c.Retry.BaseDelay)
	if err != nil {
		return moodletl.RetryConfig{}, err
	}
	maxDelay, err := parseDuration("retry.max_delay", c.Retry.MaxDelay)
	if err != nil {
		return moodletl.RetryConfig{}, err
	}
	return moodletl.RetryConfig{
		MaxRetries: c.Retry.MaxRetries,
		BaseDelay:  base,
		MaxDelay:   maxDelay,
	}, nil
}

// RateLimitConfig converts the rate limit section. The second result is
// false when rate limiting is off.
func (c *Config) RateLimitConfig() (moodletl.RateLimitConfig, bool) {
	return moodletl.RateLimitConfig{
		RequestsPerMinute: c.RateLimit.RequestsPerMinute,
		BurstSize:         c.RateLimit.Burst,
	}, c.RateLimit.RequestsPerMinute > 0
}

// DeepLTimeout returns the HTTP timeout for DeepL requests.
func (c *Config) DeepLTimeout() (time.Duration, error) {
	return parseDuration("deepl.timeout", c.DeepL.Timeout)
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, &moodletl.ConfigError{Field: field, Message: err.Error()}
	}
	return d, nil
}
