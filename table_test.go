package moodletl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeKind struct {
	masks   bool
	unmasks *int
}

func (k fakeKind) Name() string                 { return "fake" }
func (k fakeKind) Preprocess(text string) string { return text }
func (k fakeKind) Masks() bool                  { return k.masks }
func (k fakeKind) Multilang(f, tr, tgt, src string) string {
	return f + "|" + tr
}

func (k fakeKind) Unmask(fragment string) string {
	if k.unmasks != nil {
		*k.unmasks++
	}
	return strings.NewReplacer("<x>", "", "</x>", "").Replace(fragment)
}

func TestTranslationTable_Exact(t *testing.T) {
	table := NewTranslationTable([]Entry{
		{Source: "Hello there", Translation: "Bonjour"},
		{Source: "Hello there", Translation: "Salut"},
	})

	tr, ok := table.Lookup("Hello there")
	assert.True(t, ok)
	assert.Equal(t, "Salut", tr, "later entries win")
	assert.Equal(t, 1, table.Len())

	_, ok = table.Lookup("missing")
	assert.False(t, ok)
}

func TestTranslationTable_ForNonMaskingKindIsExact(t *testing.T) {
	table := NewTranslationTable([]Entry{{Source: "Let <x>\\(x\\)</x> be", Translation: "Soit <x>\\(x\\)</x>"}})

	lookup := table.For(fakeKind{})
	_, ok := lookup.Lookup("Let \\(x\\) be")
	assert.False(t, ok)
	_, ok = lookup.Lookup("Let <x>\\(x\\)</x> be")
	assert.True(t, ok)
}

func TestTranslationTable_ForMaskingKindBuildsOnce(t *testing.T) {
	count := 0
	kind := fakeKind{masks: true, unmasks: &count}
	table := NewTranslationTable([]Entry{
		{Source: "Let <x>\\(x\\)</x> be real", Translation: "Soit <x>\\(x\\)</x> réel"},
		{Source: "Plain text here", Translation: "Texte simple ici"},
	})

	tr, ok := table.For(kind).Lookup("Let \\(x\\) be real")
	assert.True(t, ok)
	assert.Equal(t, "Soit \\(x\\) réel", tr)
	assert.Equal(t, 4, count)

	tr, ok = table.For(kind).Lookup("Plain text here")
	assert.True(t, ok)
	assert.Equal(t, "Texte simple ici", tr)
	assert.Equal(t, 4, count, "view is reused")
}
