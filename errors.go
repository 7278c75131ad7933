package moodletl

import (
	"errors"
	"fmt"
)

// ErrNotImplemented is returned when constructing a content element of a kind
// that cannot be translated yet (raw Maxima code fields).
var ErrNotImplemented = errors.New("content kind not implemented")

// TranslationError is the base error type for translation failures.
type TranslationError struct {
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates a translation provider failure (API error, rate limit, etc.).
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// CountMismatchError indicates the provider returned a different number of translations than expected.
type CountMismatchError struct {
	Expected int
	Got      int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("translation count mismatch: expected %d, got %d", e.Expected, e.Got)
}

// MissingTranslationError indicates an extracted fragment has no translation
// in the lookup table. Extraction and translation went out of sync.
type MissingTranslationError struct {
	Fragment string
}

func (e *MissingTranslationError) Error() string {
	return fmt.Sprintf("no translation for fragment %q", e.Fragment)
}

// MalformedHostError indicates the XML around a content element does not
// have the expected shape, so its text cannot be read or written.
type MalformedHostError struct {
	Element string // Path or tag of the offending element
	Reason  string
}

func (e *MalformedHostError) Error() string {
	return fmt.Sprintf("malformed host element %s: %s", e.Element, e.Reason)
}

// ConfigError indicates an invalid or incomplete configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
}
