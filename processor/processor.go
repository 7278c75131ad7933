// Package processor implements the text extraction engine: markup
// normalization, STACK CAS-text preprocessing, segmentation into translatable
// fragments, and span rewriting with bilingual markup.
package processor

import "github.com/ZaguanLabs/moodletl"

// ContentKind is an alias to the main package interface.
type ContentKind = moodletl.ContentKind

// TranslationLookup is an alias to the main package interface.
type TranslationLookup = moodletl.TranslationLookup

// NoTranslateTag wraps spans that providers must leave untouched.
const NoTranslateTag = moodletl.NoTranslateTag
