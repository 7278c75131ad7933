package processor

import (
	"fmt"

	"github.com/ZaguanLabs/moodletl"
)

// MultilangTemplate formats a fragment and its translation as a pair of
// {mlang} blocks, source first.
func MultilangTemplate(fragment, translation, targetLang, sourceLang string) string {
	return fmt.Sprintf("{mlang %s}%s{mlang}{mlang %s}%s{mlang}", sourceLang, fragment, targetLang, translation)
}

// HTMLText is plain Moodle HTML.
type HTMLText struct{}

func (HTMLText) Name() string                        { return "html" }
func (HTMLText) Preprocess(normalized string) string { return normalized }
func (HTMLText) Masks() bool                         { return false }
func (HTMLText) Unmask(fragment string) string       { return fragment }

func (HTMLText) Multilang(fragment, translation, targetLang, sourceLang string) string {
	return MultilangTemplate(fragment, translation, targetLang, sourceLang)
}

// CASText is STACK CAS text: HTML with [[block]] syntax, inline CAS and
// maths. Inline spans are masked with the no-translate tag before
// segmentation.
type CASText struct{}

func (CASText) Name() string                        { return "castext" }
func (CASText) Preprocess(normalized string) string { return PreprocessCASText(normalized) }
func (CASText) Masks() bool                         { return true }
func (CASText) Unmask(fragment string) string       { return UnmaskCAS(fragment) }

func (CASText) Multilang(fragment, translation, targetLang, sourceLang string) string {
	return MultilangTemplate(fragment, translation, targetLang, sourceLang)
}

// NewMaximaText would return the kind for raw Maxima code such as question
// variables. Maxima strings are not translated yet.
func NewMaximaText() (ContentKind, error) {
	return nil, fmt.Errorf("maxima text: %w", moodletl.ErrNotImplemented)
}

var (
	_ ContentKind = HTMLText{}
	_ ContentKind = CASText{}
)
