package processor

import (
	"regexp"
	"strings"
)

var (
	casBranch     = regexp.MustCompile(`\[\[\s*(?:else|elif)[^\[\]]*\]\]`)
	casField      = regexp.MustCompile(`\[\[\s*(?:input|validation|feedback|facts)[^\[\]]*\]\]`)
	casBlockOpen  = regexp.MustCompile(`\[\[\s*`)
	displayMath   = regexp.MustCompile(`\\\[[^\[\]]*\\\]`)
	noTranslateTk = regexp.MustCompile(`</?x>`)
)

// castextDelimiters are the inline spans protected from translation, in the
// order they are wrapped.
var castextDelimiters = [][2]string{
	{"{#", "#}"},
	{"{@", "@}"},
	{`\(`, `\)`},
}

// PreprocessCASText rewrites normalized STACK CAS text into HTML-shaped markup:
//
//   - [[else]] and [[elif ...]] split the surrounding block into two sibling
//     [[if]] blocks;
//   - input, validation, feedback and facts placeholders become <br/>;
//   - the remaining [[name ...]] and [[/name]] become tags;
//   - display maths \[...\] becomes <br/>;
//   - inline CAS and maths are wrapped in <x> so providers leave them alone.
//
// Nested <x> wrappers are collapsed so that no <x> ends up inside another.
func PreprocessCASText(text string) string {
	text = casBranch.ReplaceAllLiteralString(text, "[[/if]][[if]]")
	text = casField.ReplaceAllLiteralString(text, "<br/>")
	text = casBlockOpen.ReplaceAllLiteralString(text, "<")
	text = strings.ReplaceAll(text, "]]", ">")
	text = displayMath.ReplaceAllLiteralString(text, "<br/>")

	for _, d := range castextDelimiters {
		text = strings.ReplaceAll(text, d[0], "<"+NoTranslateTag+">"+d[0])
		text = strings.ReplaceAll(text, d[1], d[1]+"</"+NoTranslateTag+">")
	}

	return CollapseNoTranslate(text)
}

// CollapseNoTranslate drops every <x> and </x> that is nested inside another
// <x> element, keeping only the outermost pair. A stray </x> with no open
// element is dropped.
func CollapseNoTranslate(text string) string {
	var b strings.Builder
	depth, last := 0, 0

	for _, loc := range noTranslateTk.FindAllStringIndex(text, -1) {
		b.WriteString(text[last:loc[0]])
		last = loc[1]

		tag := text[loc[0]:loc[1]]
		if tag[1] != '/' {
			if depth == 0 {
				b.WriteString(tag)
			}
			depth++
			continue
		}

		if depth == 0 {
			continue
		}
		depth--
		if depth == 0 {
			b.WriteString(tag)
		}
	}

	b.WriteString(text[last:])
	return b.String()
}

// UnmaskCAS removes every no-translate marker from s.
func UnmaskCAS(s string) string {
	return noTranslateMarkers.Replace(s)
}

var noTranslateMarkers = strings.NewReplacer("<"+NoTranslateTag+">", "", "</"+NoTranslateTag+">", "")
