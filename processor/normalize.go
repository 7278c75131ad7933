package processor

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Normalize re-serializes markup in canonical form: attributes sorted by name
// and double-quoted, entities decoded to their characters (a no-break space
// becomes U+00A0), void elements self-closed and every other element
// explicitly closed. Normalize is idempotent.
func Normalize(markup string) string {
	return render(parse(markup))
}

var (
	attrStartTag   = regexp.MustCompile(`<[A-Za-z]+[A-Za-z0-9]*\s+.+?>`)
	indentedEndTag = regexp.MustCompile(`(?m)^[ \t]+</`)
)

// NormalizePartial canonicalizes a markup fragment that may not be well
// formed on its own. Every start tag carrying attributes is rewritten the way
// Normalize writes it, indentation before end tags is removed and &nbsp; is
// decoded to U+00A0.
func NormalizePartial(fragment string) string {
	seen := make(map[string]bool)
	for _, tag := range attrStartTag.FindAllString(fragment, -1) {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		fragment = strings.ReplaceAll(fragment, tag, canonicalStartTag(tag))
	}

	fragment = indentedEndTag.ReplaceAllString(fragment, "</")
	return strings.ReplaceAll(fragment, "&nbsp;", "\u00a0")
}

func canonicalStartTag(tag string) string {
	n := parse(tag).FirstChild
	if n == nil || n.Type != html.ElementNode {
		return tag
	}

	var b strings.Builder
	renderStartTag(&b, n)
	return b.String()
}
