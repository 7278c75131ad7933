package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/ZaguanLabs/moodletl"
	"github.com/ZaguanLabs/moodletl/cache"
	"github.com/ZaguanLabs/moodletl/config"
	"github.com/ZaguanLabs/moodletl/moodle"
	"github.com/ZaguanLabs/moodletl/provider"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app holds the state shared by every command: flag values, the loaded
// configuration and the logger.
type app struct {
	stderr io.Writer

	configPath string
	qbank      bool
	backup     bool

	sourceLang  string
	targetLang  string
	provider    string
	backend     string
	cachePath   string
	cacheOutput string
	redisURL    string
	stringsFile string
	outputDir   string
	logLevel    string
	batchSize   int
	retries     int
	rpm         int

	cfg    *config.Config
	logger *logrus.Logger
}

func (a *app) bindFlags(root *cobra.Command) {
	f := root.PersistentFlags()
	f.StringVarP(&a.configPath, "config", "c", "", "TOML configuration file")
	f.BoolVar(&a.qbank, "qbank", false, "Treat the path as a Moodle XML question bank file")
	f.BoolVar(&a.backup, "include-backup", false, "Also translate activity titles in moodle_backup.xml")

	f.StringVarP(&a.sourceLang, "source", "s", "", "Source language code (default EN)")
	f.StringVarP(&a.targetLang, "target", "t", "", "Target language code (e.g., FR, EN-US)")
	f.StringVarP(&a.provider, "provider", "p", "", "Translation provider: deepl, openai or mock")
	f.StringVar(&a.backend, "cache", "", "Cache backend: json, sqlite, redis or memory")
	f.StringVar(&a.cachePath, "cache-path", "", "Cache file for the json and sqlite backends")
	f.StringVar(&a.cacheOutput, "cache-output", "", "JSON file receiving only this run's translations")
	f.StringVar(&a.redisURL, "redis-url", "", "Redis URL for the redis backend")
	f.StringVar(&a.stringsFile, "strings", "", "Strings file written by extract and read by translate")
	f.StringVarP(&a.outputDir, "output", "o", "", "Directory for the rewritten documents")
	f.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.IntVar(&a.batchSize, "batch-size", 0, "Strings per provider request (at most 49)")
	f.IntVar(&a.retries, "retries", 0, "Retries of failed provider requests")
	f.IntVar(&a.rpm, "rpm", 0, "Maximum provider requests per minute (0 disables the limit)")
}

// setup loads the configuration and applies the flags the user set.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	override("source", &cfg.SourceLang, a.sourceLang)
	override("target", &cfg.TargetLang, a.targetLang)
	override("provider", &cfg.Provider, a.provider)
	override("cache", &cfg.Cache.Backend, a.backend)
	override("cache-path", &cfg.Cache.Path, a.cachePath)
	override("cache-output", &cfg.Cache.Output, a.cacheOutput)
	override("redis-url", &cfg.Cache.RedisURL, a.redisURL)
	override("strings", &cfg.StringsFile, a.stringsFile)
	override("output", &cfg.OutputDir, a.outputDir)
	override("log-level", &cfg.LogLevel, a.logLevel)
	if flags.Changed("batch-size") {
		cfg.BatchSize = a.batchSize
	}
	if flags.Changed("retries") {
		cfg.Retry.MaxRetries = a.retries
	}
	if flags.Changed("rpm") {
		cfg.RateLimit.RequestsPerMinute = a.rpm
	}

	a.logger = newLogger(cfg.LogLevel, a.stderr)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func newLogger(level string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.WithError(err).Warn("Invalid log level, using info")
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// handlers returns the file handlers and export root for path.
func (a *app) handlers(path string) ([]moodle.Handler, string) {
	if a.qbank {
		return moodle.QBankHandlers(filepath.Base(path)), filepath.Dir(path)
	}

	handlers := moodle.CourseHandlers()
	if a.backup {
		handlers = append(handlers, moodle.BackupHandler{})
	}
	return handlers, path
}

// newProvider builds the configured provider, wrapped in the rate limiter
// and the retry logic when they are enabled.
func (a *app) newProvider() (moodletl.AIProvider, error) {
	cfg := a.cfg

	var p moodletl.AIProvider
	switch cfg.Provider {
	case "deepl":
		key, err := cfg.ResolveDeepLKey()
		if err != nil {
			return nil, err
		}
		if key == "" {
			return nil, &moodletl.ConfigError{
				Field:   "deepl.auth_key",
				Message: fmt.Sprintf("DeepL auth key required (%s, %s or config file)", config.EnvDeepLAuthKey, cfg.DeepL.AuthKeyFile),
			}
		}
		timeout, err := cfg.DeepLTimeout()
		if err != nil {
			return nil, err
		}
		p = provider.NewDeepLProvider(provider.DeepLConfig{
			AuthKey: key,
			BaseURL: cfg.DeepL.BaseURL,
			Timeout: timeout,
			Logger:  a.logger,
		})

	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, &moodletl.ConfigError{
				Field:   "openai.api_key",
				Message: fmt.Sprintf("OpenAI API key required (%s or config file)", config.EnvOpenAIAPIKey),
			}
		}
		p = provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:      cfg.OpenAI.APIKey,
			Model:       cfg.OpenAI.Model,
			Temperature: cfg.OpenAI.Temperature,
			BaseURL:     cfg.OpenAI.BaseURL,
			Logger:      a.logger,
		})

	case "mock":
		p = provider.NewMockProvider()
	}

	if rl, ok := cfg.RateLimitConfig(); ok {
		p = moodletl.NewRateLimitedProvider(p, rl)
	}

	retry, err := cfg.RetryConfig()
	if err != nil {
		return nil, err
	}
	if retry.MaxRetries > 0 {
		p = moodletl.NewRetryableProvider(p, retry, a.logger)
	}
	return p, nil
}

// openStore opens the configured translation cache.
func (a *app) openStore() (cache.Store, error) {
	cfg := a.cfg
	switch cfg.Cache.Backend {
	case "json":
		s, err := cache.OpenJSONStore(cfg.Cache.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		s, err := cache.OpenSQLiteStore(cfg.Cache.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "redis":
		s, err := cache.NewRedisStore(cache.RedisConfig{
			URL:        cfg.Cache.RedisURL,
			KeyPrefix:  cfg.Cache.KeyPrefix,
			SourceLang: cfg.SourceLang,
			TargetLang: cfg.TargetLang,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return cache.NewMemoryStore(), nil
	}
}

// newTranslator returns a translator over store. The returned function
// writes the translations made by the run to the output file, if any.
func (a *app) newTranslator(store cache.Store) (*moodletl.Translator, func() error, error) {
	if err := a.cfg.ValidateTarget(); err != nil {
		return nil, nil, err
	}

	p, err := a.newProvider()
	if err != nil {
		return nil, nil, err
	}

	opts := []moodletl.TranslatorOption{
		moodletl.WithSourceLang(a.cfg.SourceLang),
		moodletl.WithCache(store),
		moodletl.WithBatchSize(a.cfg.BatchSize),
		moodletl.WithLogger(a.logger),
	}

	closeOutput := func() error { return nil }
	if path := a.cfg.Cache.Output; path != "" {
		out := cache.NewMemoryStore()
		opts = append(opts, moodletl.WithOutput(out))
		closeOutput = func() error { return cache.ExportToFile(path, out) }
	}

	return moodletl.NewTranslator(a.cfg.TargetLang, p, opts...), closeOutput, nil
}

func (a *app) pipeline(path string, translator *moodletl.Translator, store cache.Store) (*moodle.Pipeline, error) {
	handlers, root := a.handlers(path)
	return moodle.NewPipeline(moodle.PipelineConfig{
		Handlers:    handlers,
		Root:        root,
		OutputDir:   a.cfg.OutputDir,
		StringsFile: a.cfg.StringsFile,
		Translator:  translator,
		Store:       store,
		Logger:      a.logger,
	})
}
