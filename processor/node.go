package processor

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "keygen": true, "link": true,
	"meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

// Text inside these elements is written back without escaping. The
// tokenizer treats textarea and title as RCDATA, so they are escaped.
var rawTextElements = map[string]bool{
	"iframe": true, "noembed": true, "noframes": true, "noscript": true,
	"plaintext": true, "script": true, "style": true, "xmp": true,
}

// parse builds a node tree from markup. Unlike html.Parse it performs no
// HTML5 tree construction: no implied html/head/body elements, no foster
// parenting, and unknown elements nest exactly as written. End tags close the
// nearest matching open element; stray end tags are dropped.
func parse(markup string) *html.Node {
	root := &html.Node{Type: html.DocumentNode}
	stack := []*html.Node{root}

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		current := stack[len(stack)-1]

		switch tt {
		case html.ErrorToken:
			return root

		case html.TextToken:
			appendText(current, string(z.Text()))

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			n := &html.Node{
				Type:     html.ElementNode,
				Data:     tok.Data,
				DataAtom: tok.DataAtom,
				Attr:     tok.Attr,
			}
			current.AppendChild(n)
			if tt == html.StartTagToken && !voidElements[tok.Data] {
				stack = append(stack, n)
			}

		case html.EndTagToken:
			tok := z.Token()
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Data == tok.Data {
					stack = stack[:i]
					break
				}
			}

		case html.CommentToken:
			current.AppendChild(&html.Node{Type: html.CommentNode, Data: string(z.Text())})

		case html.DoctypeToken:
			current.AppendChild(&html.Node{Type: html.DoctypeNode, Data: string(z.Text())})
		}
	}
}

func appendText(parent *html.Node, text string) {
	if text == "" {
		return
	}
	if last := parent.LastChild; last != nil && last.Type == html.TextNode {
		last.Data += text
		return
	}
	parent.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// render serializes n and its descendants in canonical form.
func render(n *html.Node) string {
	var b strings.Builder
	renderNode(&b, n)
	return b.String()
}

func renderNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.DocumentNode:
		renderChildren(b, n)

	case html.TextNode:
		if p := n.Parent; p != nil && p.Type == html.ElementNode && rawTextElements[p.Data] {
			b.WriteString(n.Data)
		} else {
			b.WriteString(textEscaper.Replace(n.Data))
		}

	case html.CommentNode:
		// The tokenizer decodes entities in comment data; html.Render escapes
		// them again so a second parse yields the same comment.
		_ = html.Render(b, n)

	case html.DoctypeNode:
		b.WriteString("<!DOCTYPE ")
		b.WriteString(html.EscapeString(n.Data))
		b.WriteString(">")

	case html.ElementNode:
		renderStartTag(b, n)
		if voidElements[n.Data] {
			return
		}
		renderChildren(b, n)
		b.WriteString("</")
		b.WriteString(n.Data)
		b.WriteString(">")
	}
}

func renderChildren(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(b, c)
	}
}

// renderStartTag writes the opening tag of n with attributes sorted by name.
// Void elements are written self-closed.
func renderStartTag(b *strings.Builder, n *html.Node) {
	attrs := make([]html.Attribute, len(n.Attr))
	copy(attrs, n.Attr)
	sort.SliceStable(attrs, func(i, j int) bool { return attrs[i].Key < attrs[j].Key })

	b.WriteString("<")
	b.WriteString(n.Data)
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(attrEscaper.Replace(a.Val))
		b.WriteString(`"`)
	}
	if voidElements[n.Data] {
		b.WriteString("/>")
		return
	}
	b.WriteString(">")
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)
