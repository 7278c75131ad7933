package moodle

import (
	"github.com/ZaguanLabs/moodletl"
	"github.com/beevik/etree"
)

// CourseLocation is the text of an element in a Moodle course backup, where
// the HTML is stored XML-escaped (or in CDATA) directly inside the element.
type CourseLocation struct {
	elem *etree.Element
}

// NewCourseLocation returns the location of e's own character data.
func NewCourseLocation(e *etree.Element) *CourseLocation {
	return &CourseLocation{elem: e}
}

func (l *CourseLocation) Read() (string, error) {
	return l.elem.Text(), nil
}

// Write replaces the element text, keeping a CDATA section a CDATA section.
func (l *CourseLocation) Write(text string) error {
	if len(l.elem.Child) > 0 {
		if _, ok := l.elem.Child[0].(*etree.CharData); !ok {
			return &moodletl.MalformedHostError{Element: l.elem.GetPath(), Reason: "element starts with markup, not text"}
		}
	}
	writeCharData(l.elem, text)
	return nil
}

// QBankLocation is the <text> child of an element in a Moodle XML question
// bank, usually holding a CDATA section.
type QBankLocation struct {
	elem *etree.Element
	text *etree.Element
}

// NewQBankLocation returns the location of e's <text> child.
func NewQBankLocation(e *etree.Element) (*QBankLocation, error) {
	text := e.SelectElement("text")
	if text == nil {
		return nil, &moodletl.MalformedHostError{Element: e.GetPath(), Reason: "no <text> child"}
	}
	return &QBankLocation{elem: e, text: text}, nil
}

func (l *QBankLocation) Read() (string, error) {
	return l.text.Text(), nil
}

// Write replaces the leading character data of <text>. An empty <text> only
// receives non-empty content.
func (l *QBankLocation) Write(text string) error {
	if len(l.text.Child) == 0 {
		if text != "" {
			l.text.SetText(text)
		}
		return nil
	}
	if _, ok := l.text.Child[0].(*etree.CharData); !ok {
		return &moodletl.MalformedHostError{Element: l.text.GetPath(), Reason: "first child of <text> is not character data"}
	}
	writeCharData(l.text, text)
	return nil
}

func writeCharData(e *etree.Element, text string) {
	if isCData(e) {
		e.SetCData(text)
		return
	}
	e.SetText(text)
}

// isCData reports whether the character data at the start of e, which
// SetText and SetCData replace as a whole, holds a CDATA section.
func isCData(e *etree.Element) bool {
	for _, ch := range e.Child {
		cd, ok := ch.(*etree.CharData)
		if !ok {
			return false
		}
		if cd.IsCData() {
			return true
		}
	}
	return false
}

var (
	_ moodletl.TextLocation = (*CourseLocation)(nil)
	_ moodletl.TextLocation = (*QBankLocation)(nil)
)
