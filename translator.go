package moodletl

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Translator sends uncached fragments to a provider in bounded batches and
// records the results in a translation cache.
type Translator struct {
	targetLang string
	sourceLang string
	provider   AIProvider
	cache      TranslationCache
	output     TranslationCache
	batchSize  int
	logger     *logrus.Logger
}

// AIProvider is the interface for machine translation backends.
type AIProvider interface {
	Translate(ctx context.Context, req TranslateRequest) ([]string, error)
}

// TranslateRequest contains the parameters for a translation request.
type TranslateRequest struct {
	Texts      []string // At most MaxBatchSize strings
	TargetLang string   // Provider language code (e.g., "FR", "EN-US")
	SourceLang string   // Provider language code
	IgnoreTags []string // Tags whose content must be returned untranslated
}

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	// Get retrieves the translation of source.
	Get(source string) (string, bool)

	// Set stores a translation.
	Set(source, translation string) error

	// Flush persists pending writes to durable storage.
	Flush() error
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithSourceLang sets the source language.
func WithSourceLang(lang string) TranslatorOption {
	return func(t *Translator) {
		t.sourceLang = lang
	}
}

// WithCache sets the translation cache.
func WithCache(cache TranslationCache) TranslatorOption {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithOutput sets a second cache that receives only the translations of the
// strings passed to Translate, flushed after every batch like the main cache.
func WithOutput(output TranslationCache) TranslatorOption {
	return func(t *Translator) {
		t.output = output
	}
}

// WithBatchSize sets the number of fragments per provider call.
// Values outside 1..MaxBatchSize are clamped.
func WithBatchSize(n int) TranslatorOption {
	return func(t *Translator) {
		switch {
		case n < 1:
			n = 1
		case n > MaxBatchSize:
			n = MaxBatchSize
		}
		t.batchSize = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Logger) TranslatorOption {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTranslator creates a new Translator with the given target language and provider.
func NewTranslator(targetLang string, provider AIProvider, opts ...TranslatorOption) *Translator {
	t := &Translator{
		targetLang: targetLang,
		sourceLang: DefaultSourceLang,
		provider:   provider,
		batchSize:  MaxBatchSize,
		logger:     logrus.New(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Translate returns a translation for every string in texts. Cached strings
// are never sent to the provider; the rest go out in batches of at most
// MaxBatchSize, and the cache is flushed after each batch so a failure loses
// at most the batch in flight.
func (t *Translator) Translate(ctx context.Context, texts []string) (*ProcessedContent, error) {
	translations := make(map[string]string, len(texts))
	result := &ProcessedContent{}

	var batch []string
	for _, text := range t.unique(texts) {
		if t.cache != nil {
			if cached, ok := t.cache.Get(text); ok {
				translations[text] = cached
				result.CachedCount++
				continue
			}
		}

		batch = append(batch, text)
		if len(batch) == t.batchSize {
			if err := t.translateBatch(ctx, batch, translations); err != nil {
				return nil, err
			}
			result.Batches++
			result.TranslatedCount += len(batch)
			batch = nil
		}
	}

	if len(batch) > 0 {
		if err := t.translateBatch(ctx, batch, translations); err != nil {
			return nil, err
		}
		result.Batches++
		result.TranslatedCount += len(batch)
	}

	for _, text := range t.unique(texts) {
		result.Translations = append(result.Translations, Entry{Source: text, Translation: translations[text]})
	}

	t.logger.WithFields(logrus.Fields{
		"translated": result.TranslatedCount,
		"cached":     result.CachedCount,
		"batches":    result.Batches,
	}).Info("Translation finished")

	return result, nil
}

// Pending returns the strings of texts that are not cached yet, deduplicated
// and in input order.
func (t *Translator) Pending(texts []string) []string {
	var pending []string
	for _, text := range t.unique(texts) {
		if t.cache != nil {
			if _, ok := t.cache.Get(text); ok {
				continue
			}
		}
		pending = append(pending, text)
	}
	return pending
}

// translateBatch translates one batch and persists the results.
func (t *Translator) translateBatch(ctx context.Context, batch []string, translations map[string]string) error {
	if t.provider == nil {
		return &TranslationError{Message: "no provider configured"}
	}

	t.logger.WithFields(logrus.Fields{
		"size":        len(batch),
		"source_lang": t.sourceLang,
		"target_lang": t.targetLang,
	}).Debug("Sending batch to provider")

	results, err := t.provider.Translate(ctx, TranslateRequest{
		Texts:      batch,
		TargetLang: t.targetLang,
		SourceLang: t.sourceLang,
		IgnoreTags: []string{NoTranslateTag},
	})
	if err != nil {
		return err
	}
	if len(results) != len(batch) {
		return &CountMismatchError{Expected: len(batch), Got: len(results)}
	}

	for i, text := range batch {
		translations[text] = results[i]
		for _, c := range t.caches() {
			if err := c.Set(text, results[i]); err != nil {
				return &CacheError{Message: "storing translation", Cause: err}
			}
		}
	}

	for _, c := range t.caches() {
		if err := c.Flush(); err != nil {
			return &CacheError{Message: "flushing translations", Cause: err}
		}
	}

	return nil
}

func (t *Translator) caches() []TranslationCache {
	var caches []TranslationCache
	if t.cache != nil {
		caches = append(caches, t.cache)
	}
	if t.output != nil {
		caches = append(caches, t.output)
	}
	return caches
}

// unique deduplicates texts keeping the first occurrence.
func (t *Translator) unique(texts []string) []string {
	seen := make(map[string]bool, len(texts))
	out := make([]string, 0, len(texts))
	for _, text := range texts {
		if seen[text] {
			continue
		}
		seen[text] = true
		out = append(out, text)
	}
	return out
}

// TargetLang returns the target language.
func (t *Translator) TargetLang() string {
	return t.targetLang
}

// SourceLang returns the source language.
func (t *Translator) SourceLang() string {
	return t.sourceLang
}

// IsSourceLang checks if the target language matches the source language.
// When true, translation can be bypassed.
func (t *Translator) IsSourceLang() bool {
	return SameLanguage(t.targetLang, t.sourceLang)
}
