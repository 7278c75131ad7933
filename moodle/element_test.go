package moodle

import (
	"testing"

	"github.com/ZaguanLabs/moodletl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(pairs ...string) *moodletl.TranslationTable {
	var entries []moodletl.Entry
	for i := 0; i+1 < len(pairs); i += 2 {
		entries = append(entries, moodletl.Entry{Source: pairs[i], Translation: pairs[i+1]})
	}
	return moodletl.NewTranslationTable(entries)
}

func TestElementHTML(t *testing.T) {
	doc := readString(t, `<intro>&lt;p class=intro&gt;Please read the &lt;b&gt;course guide&lt;/b&gt; first.&lt;/p&gt;</intro>`)
	el, err := NewCourseHTMLElement(doc.Root())
	require.NoError(t, err)

	assert.Equal(t, `<p class=intro>Please read the <b>course guide</b> first.</p>`, el.RawText())
	assert.Equal(t, `<p class="intro">Please read the <b>course guide</b> first.</p>`, el.Text())
	assert.Equal(t, []string{"Please read the <b>course guide</b> first."}, el.Fragments())
	assert.Empty(t, el.Mismatches())
	assert.Equal(t, "html", el.Kind().Name())

	err = el.Apply(table("Please read the <b>course guide</b> first.", "Lisez d'abord le <b>guide du cours</b>."), "fr", "en")
	require.NoError(t, err)
	assert.Equal(t,
		`<p class="intro">{mlang en}Please read the <b>course guide</b> first.{mlang}{mlang fr}Lisez d'abord le <b>guide du cours</b>.{mlang}</p>`,
		doc.Root().Text())
}

func TestElementCASText(t *testing.T) {
	doc := readString(t, `<questiontext><text><![CDATA[<p>Differentiate {@f@} with respect to \(x\).</p>]]></text></questiontext>`)
	el, err := NewQBankCASTextElement(doc.Root())
	require.NoError(t, err)

	masked := `Differentiate <x>{@f@}</x> with respect to <x>\(x\)</x>.`
	assert.Equal(t, []string{masked}, el.Fragments())
	assert.Empty(t, el.Mismatches())

	err = el.Apply(table(masked, `Dérivez <x>{@f@}</x> par rapport à <x>\(x\)</x>.`), "fr", "en")
	require.NoError(t, err)
	assert.Equal(t,
		`<p>{mlang en}Differentiate {@f@} with respect to \(x\).{mlang}{mlang fr}Dérivez {@f@} par rapport à \(x\).{mlang}</p>`,
		doc.Root().SelectElement("text").Text())
}

func TestElementMissingTranslation(t *testing.T) {
	doc := readString(t, `<name>Introduction</name>`)
	el, err := NewCourseHTMLElement(doc.Root())
	require.NoError(t, err)

	err = el.Apply(table(), "fr", "en")
	var missing *moodletl.MissingTranslationError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Introduction", missing.Fragment)
	assert.Equal(t, "Introduction", doc.Root().Text())
}

func TestMaximaElementsNotImplemented(t *testing.T) {
	doc := readString(t, `<questionvariables><text>f: x^2;</text></questionvariables>`)

	_, err := NewCourseMaximaElement(doc.Root())
	assert.ErrorIs(t, err, moodletl.ErrNotImplemented)

	_, err = NewQBankMaximaElement(doc.Root())
	assert.ErrorIs(t, err, moodletl.ErrNotImplemented)
}
