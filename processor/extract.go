package processor

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/moodletl"
	"golang.org/x/net/html"
)

// Extractor splits markup into the text fragments worth translating.
//
// A fragment is a run of sibling text and formatting elements, rendered back
// to markup so inline styling stays attached to the sentence. Any other
// element, or a comment, ends the current run; the children of such an
// element are segmented on their own.
type Extractor struct {
	excluded   map[string]bool
	formatting map[string]bool
	minLength  int
}

// NewExtractor creates an extractor with the default tag sets.
func NewExtractor() *Extractor {
	return &Extractor{
		excluded:   moodletl.ExcludedTags,
		formatting: moodletl.FormattingTags,
		minLength:  moodletl.MinFragmentLength,
	}
}

// NewExtractorWithExcludedTags creates an extractor that also skips the
// content of the given tags.
func NewExtractorWithExcludedTags(tags []string) *Extractor {
	e := NewExtractor()
	e.excluded = make(map[string]bool, len(moodletl.ExcludedTags)+len(tags))
	for tag := range moodletl.ExcludedTags {
		e.excluded[tag] = true
	}
	for _, tag := range tags {
		e.excluded[strings.ToLower(tag)] = true
	}
	return e
}

var defaultExtractor = NewExtractor()

// Extract returns the translatable fragments of markup using the default
// extractor.
func Extract(markup string) []string {
	return defaultExtractor.Extract(markup)
}

// Extract returns the trimmed fragments of markup, in document order, that
// have at least the minimum number of characters.
func (e *Extractor) Extract(markup string) []string {
	doc := goquery.NewDocumentFromNode(parse(markup))

	var fragments []string
	for _, text := range e.segment(doc.Selection) {
		if utf8.RuneCountInString(text) >= e.minLength {
			fragments = append(fragments, text)
		}
	}
	return fragments
}

func (e *Extractor) segment(sel *goquery.Selection) []string {
	n := sel.Get(0)
	if n.Type == html.ElementNode && e.excluded[n.Data] {
		return nil
	}
	if trimSpace(sel.Text()) == "" {
		return nil
	}

	var (
		texts []string
		run   strings.Builder
	)
	flush := func() {
		if text := trimSpace(run.String()); text != "" {
			texts = append(texts, text)
		}
		run.Reset()
	}

	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		c := child.Get(0)
		switch {
		case c.Type == html.CommentNode:
			flush()
		case c.Type == html.TextNode:
			renderNode(&run, c)
		case e.isFormatting(child):
			renderNode(&run, c)
		default:
			flush()
			texts = append(texts, e.segment(child)...)
		}
	})
	flush()

	return texts
}

// isFormatting reports whether sel is a formatting element whose descendant
// elements are all formatting elements and which holds no comment.
func (e *Extractor) isFormatting(sel *goquery.Selection) bool {
	n := sel.Get(0)
	if n.Type != html.ElementNode || !e.formatting[n.Data] {
		return false
	}
	if hasComment(n) {
		return false
	}

	other := sel.Find("*").FilterFunction(func(_ int, d *goquery.Selection) bool {
		return !e.formatting[goquery.NodeName(d)]
	})
	return other.Length() == 0
}

func hasComment(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.CommentNode || hasComment(c) {
			return true
		}
	}
	return false
}

// isSpace matches ASCII whitespace and the no-break space.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f', '\u00a0':
		return true
	}
	return false
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// ValidateExtraction returns the fragments that cannot be found in the
// normalized markup they were extracted from. A fragment is also accepted
// when it matches after both sides go through NormalizePartial.
func ValidateExtraction(normalized string, fragments []string) []string {
	var partial string
	var missing []string

	for _, f := range fragments {
		if strings.Contains(normalized, f) {
			continue
		}
		if partial == "" {
			partial = NormalizePartial(normalized)
		}
		if !strings.Contains(partial, NormalizePartial(f)) {
			missing = append(missing, f)
		}
	}
	return missing
}
