package moodletl

const (
	// MaxBatchSize is the largest number of fragments sent to a provider in one call.
	MaxBatchSize = 49

	// MinFragmentLength is the shortest fragment (in characters, after trimming)
	// that is worth translating.
	MinFragmentLength = 5

	// NoTranslateTag is the tag wrapped around inline maths and CAS code so
	// providers leave the content untouched.
	NoTranslateTag = "x"

	// DefaultSourceLang is the provider code of the source language when none is set.
	DefaultSourceLang = "EN"
)

// ExcludedTags contains tags whose content is never translated.
var ExcludedTags = map[string]bool{
	"script": true,
	"style":  true,

	// STACK blocks
	"jsxgraph":     true,
	"jsstring":     true,
	"comment":      true,
	"todo":         true,
	"geogebra":     true,
	"parsons":      true,
	"debug":        true,
	"include":      true,
	"define":       true,
	"commonstring": true,
	"pfs":          true,
}

// FormattingTags contains inline tags that stay attached to the sentence
// around them.
var FormattingTags = map[string]bool{
	"b": true, "i": true, "u": true, "strong": true, "em": true, "mark": true,
	"small": true, "del": true, "ins": true, "sub": true, "sup": true,
	"a": true, "img": true, "audio": true, "video": true,
	NoTranslateTag: true,
}

// TextLocation reads and writes the markup of one translatable unit inside
// its host XML document.
type TextLocation interface {
	// Read returns the raw markup stored at the location.
	Read() (string, error)

	// Write replaces the stored markup with text.
	Write(text string) error
}

// ContentKind describes how the markup of a content element is prepared for
// extraction and how bilingual markup is generated for it.
type ContentKind interface {
	// Name identifies the kind in logs and lookup tables.
	Name() string

	// Preprocess turns normalized element text into the HTML-shaped markup
	// handed to the segmenter.
	Preprocess(normalized string) string

	// Masks reports whether Preprocess wraps spans in the no-translate tag.
	Masks() bool

	// Unmask removes the markers Preprocess added to a fragment.
	Unmask(fragment string) string

	// Multilang returns the bilingual replacement for fragment.
	Multilang(fragment, translation, targetLang, sourceLang string) string
}

// TranslationLookup resolves a source fragment to its translation.
type TranslationLookup interface {
	Lookup(fragment string) (string, bool)
}

// Entry is a single source fragment and its translation.
type Entry struct {
	Source      string
	Translation string
}

// ProcessedContent summarizes a translation run.
type ProcessedContent struct {
	Translations    []Entry // Translations of every input string, in input order
	TranslatedCount int     // Number of newly translated strings
	CachedCount     int     // Number of cache hits
	Batches         int     // Number of provider calls
}
