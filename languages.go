package moodletl

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// MoodleLangCode converts a provider language code to the short code used in
// Moodle {mlang} tags by dropping the region and lower-casing (e.g., "EN-US" →
// "en", "pt_BR" → "pt", "FR" → "fr"). Deprecated codes such as "IW" are kept
// as written, so tags match the provider code.
func MoodleLangCode(code string) string {
	code = strings.TrimSpace(code)
	if idx := strings.IndexAny(code, "-_"); idx >= 0 {
		code = code[:idx]
	}
	return strings.ToLower(code)
}

// NormalizeProviderCode converts a language code to the upper-case,
// hyphen-separated form providers expect (e.g., "en_us" → "EN-US").
func NormalizeProviderCode(code string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
}

// GetLanguageName returns the English name for a language code.
// Falls back to the code itself if it cannot be parsed.
func GetLanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return code
}

// SameLanguage reports whether two codes share the same base language.
func SameLanguage(a, b string) bool {
	return MoodleLangCode(a) == MoodleLangCode(b)
}
