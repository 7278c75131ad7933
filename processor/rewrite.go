package processor

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ZaguanLabs/moodletl"
)

// MultilangFunc builds the replacement for one fragment.
type MultilangFunc func(fragment, translation string) string

type span struct {
	start, end  int
	replacement string
}

// Rewrite replaces every occurrence of each fragment in text with the output
// of multilang.
//
// Longer fragments claim their occurrences first. An occurrence overlapping
// an already claimed span is skipped, so a short fragment never rewrites the
// inside of a longer one or of its replacement. Single-digit fragments are
// dropped. Every remaining fragment must have a translation in lookup,
// otherwise a *moodletl.MissingTranslationError is returned and text is not
// modified.
//
// In the result, U+00A0 is written as &nbsp; and &lt;, &gt; and &amp; are
// decoded.
func Rewrite(text string, fragments []string, lookup TranslationLookup, multilang MultilangFunc) (string, error) {
	ordered := orderFragments(fragments)

	translations := make(map[string]string, len(ordered))
	for _, f := range ordered {
		tr, ok := lookup.Lookup(f)
		if !ok {
			return "", &moodletl.MissingTranslationError{Fragment: f}
		}
		translations[f] = tr
	}

	claimed := make([]bool, len(text))
	overlaps := func(start, end int) bool {
		for i := start; i < end; i++ {
			if claimed[i] {
				return true
			}
		}
		return false
	}

	var spans []span
	for _, f := range ordered {
		replacement := nbspEncoder.Replace(multilang(f, translations[f]))

		for pos := 0; pos <= len(text)-len(f); {
			i := strings.Index(text[pos:], f)
			if i < 0 {
				break
			}
			start, end := pos+i, pos+i+len(f)
			if overlaps(start, end) {
				pos = start + 1
				continue
			}
			for j := start; j < end; j++ {
				claimed[j] = true
			}
			spans = append(spans, span{start: start, end: end, replacement: replacement})
			pos = end
		}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var b strings.Builder
	last := 0
	for _, s := range spans {
		b.WriteString(text[last:s.start])
		b.WriteString(s.replacement)
		last = s.end
	}
	b.WriteString(text[last:])

	out := nbspEncoder.Replace(b.String())
	out = strings.ReplaceAll(out, "&lt;", "<")
	out = strings.ReplaceAll(out, "&gt;", ">")
	out = strings.ReplaceAll(out, "&amp;", "&")
	return out, nil
}

var nbspEncoder = strings.NewReplacer("\u00a0", "&nbsp;")

// orderFragments deduplicates fragments, drops empty and single-digit ones
// and sorts the rest by length, longest first. Ties keep a fixed order.
func orderFragments(fragments []string) []string {
	seen := make(map[string]bool, len(fragments))
	ordered := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f == "" || seen[f] || isSingleDigit(f) {
			continue
		}
		seen[f] = true
		ordered = append(ordered, f)
	}

	sort.Slice(ordered, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(ordered[i]), utf8.RuneCountInString(ordered[j])
		if li != lj {
			return li > lj
		}
		return ordered[i] < ordered[j]
	})
	return ordered
}

func isSingleDigit(s string) bool {
	return len(s) == 1 && s[0] >= '0' && s[0] <= '9'
}
