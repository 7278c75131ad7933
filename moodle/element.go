// Package moodle reads Moodle course backups and Moodle XML question banks,
// extracts their translatable text and writes bilingual {mlang} content back.
package moodle

import (
	"fmt"

	"github.com/ZaguanLabs/moodletl"
	"github.com/ZaguanLabs/moodletl/processor"
	"github.com/beevik/etree"
)

// Element is one translatable unit: a location in a host document combined
// with the kind of content stored there.
type Element struct {
	location moodletl.TextLocation
	kind     moodletl.ContentKind
	raw      string
	text     string
}

// NewElement reads the markup at location and normalizes it.
func NewElement(location moodletl.TextLocation, kind moodletl.ContentKind) (*Element, error) {
	raw, err := location.Read()
	if err != nil {
		return nil, err
	}
	return &Element{
		location: location,
		kind:     kind,
		raw:      raw,
		text:     processor.Normalize(raw),
	}, nil
}

// NewCourseHTMLElement creates an HTML element of a course backup.
func NewCourseHTMLElement(e *etree.Element) (*Element, error) {
	return NewElement(NewCourseLocation(e), processor.HTMLText{})
}

// NewCourseCASTextElement creates a STACK CAS text element of a course backup.
func NewCourseCASTextElement(e *etree.Element) (*Element, error) {
	return NewElement(NewCourseLocation(e), processor.CASText{})
}

// NewCourseMaximaElement always fails: Maxima code is not translated.
func NewCourseMaximaElement(e *etree.Element) (*Element, error) {
	kind, err := processor.NewMaximaText()
	if err != nil {
		return nil, err
	}
	return NewElement(NewCourseLocation(e), kind)
}

// NewQBankHTMLElement creates an HTML element of a question bank.
func NewQBankHTMLElement(e *etree.Element) (*Element, error) {
	return newQBankElement(e, processor.HTMLText{})
}

// NewQBankCASTextElement creates a STACK CAS text element of a question bank.
func NewQBankCASTextElement(e *etree.Element) (*Element, error) {
	return newQBankElement(e, processor.CASText{})
}

// NewQBankMaximaElement always fails: Maxima code is not translated.
func NewQBankMaximaElement(e *etree.Element) (*Element, error) {
	kind, err := processor.NewMaximaText()
	if err != nil {
		return nil, err
	}
	return newQBankElement(e, kind)
}

func newQBankElement(e *etree.Element, kind moodletl.ContentKind) (*Element, error) {
	loc, err := NewQBankLocation(e)
	if err != nil {
		return nil, err
	}
	return NewElement(loc, kind)
}

// Kind returns the content kind of the element.
func (e *Element) Kind() moodletl.ContentKind { return e.kind }

// RawText returns the markup as stored in the host document.
func (e *Element) RawText() string { return e.raw }

// Text returns the normalized markup.
func (e *Element) Text() string { return e.text }

// Fragments returns the translatable fragments of the element, in the form
// sent to providers (CAS text keeps its no-translate markers).
func (e *Element) Fragments() []string {
	return processor.Extract(e.kind.Preprocess(e.text))
}

// sourceFragments returns the fragments as they occur in the normalized text.
func (e *Element) sourceFragments() []string {
	fragments := e.Fragments()
	if !e.kind.Masks() {
		return fragments
	}
	for i, f := range fragments {
		fragments[i] = e.kind.Unmask(f)
	}
	return fragments
}

// Mismatches returns the fragments that do not occur in the normalized text
// and therefore cannot be rewritten.
func (e *Element) Mismatches() []string {
	return processor.ValidateExtraction(e.text, e.sourceFragments())
}

// Apply rewrites the element with bilingual content for every fragment and
// writes the result back to the host document. Language codes are Moodle
// codes ("en", "fr").
func (e *Element) Apply(table *moodletl.TranslationTable, targetLang, sourceLang string) error {
	out, err := processor.Rewrite(e.text, e.sourceFragments(), table.For(e.kind),
		func(fragment, translation string) string {
			return e.kind.Multilang(fragment, translation, targetLang, sourceLang)
		})
	if err != nil {
		return err
	}
	return e.location.Write(out)
}

func (e *Element) String() string {
	return fmt.Sprintf("%s element (%d chars)", e.kind.Name(), len(e.raw))
}
