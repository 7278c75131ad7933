package moodle

import (
	"path/filepath"
	"sort"

	"github.com/beevik/etree"
)

// Handler knows which files of an export to visit and which of their
// elements hold translatable content.
type Handler interface {
	// Name identifies the handler in logs.
	Name() string

	// Pattern is the glob, relative to the export root, of the files to visit.
	Pattern() string

	// Elements returns the translatable elements of doc. Elements that
	// could not be built are returned as errors and left out.
	Elements(doc *etree.Document) ([]*Element, []error)
}

// CourseHandlers returns the handlers for an unpacked course backup.
func CourseHandlers() []Handler {
	return []Handler{
		SectionHandler{},
		NewActivityHandler("label"),
		NewActivityHandler("quiz"),
		NewActivityHandler("resource"),
		NewActivityHandler("forum"),
		NewPageActivityHandler(),
		QuestionsHandler{},
	}
}

// QBankHandlers returns the handlers for the question bank files matching
// pattern.
func QBankHandlers(pattern string) []Handler {
	return []Handler{NewQBankHandler(pattern)}
}

// Files returns the files of root matched by h, in lexical order.
func Files(h Handler, root string) ([]string, error) {
	pattern := h.Pattern()
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(root, pattern)
	}
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

type builder func(*etree.Element) (*Element, error)

type collector struct {
	elements []*Element
	skipped  []error
}

func (c *collector) add(build builder, nodes ...*etree.Element) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		el, err := build(n)
		if err != nil {
			c.skipped = append(c.skipped, err)
			continue
		}
		c.elements = append(c.elements, el)
	}
}

func (c *collector) result() ([]*Element, []error) {
	return c.elements, c.skipped
}

// children follows a chain of direct child tags from every root.
func children(roots []*etree.Element, tags ...string) []*etree.Element {
	for _, tag := range tags {
		var next []*etree.Element
		for _, r := range roots {
			next = append(next, r.SelectElements(tag)...)
		}
		roots = next
	}
	return roots
}

// descendant returns the first element named tag below e.
func descendant(e *etree.Element, tag string) *etree.Element {
	if e == nil {
		return nil
	}
	return e.FindElement(".//" + tag)
}

func descendants(e *etree.Element, tags ...string) []*etree.Element {
	out := make([]*etree.Element, len(tags))
	for i, tag := range tags {
		out[i] = descendant(e, tag)
	}
	return out
}

func documentRoot(doc *etree.Document) []*etree.Element {
	return []*etree.Element{&doc.Element}
}

// SectionHandler reads course section names and summaries.
type SectionHandler struct{}

func (SectionHandler) Name() string    { return "section" }
func (SectionHandler) Pattern() string { return filepath.Join("sections", "section_*", "section.xml") }

func (SectionHandler) Elements(doc *etree.Document) ([]*Element, []error) {
	var c collector
	section := descendant(&doc.Element, "section")
	c.add(NewCourseHTMLElement, descendants(section, "name", "summary")...)
	return c.result()
}

// ActivityHandler reads the name and introduction of one activity type.
type ActivityHandler struct {
	activityType string
}

// NewActivityHandler creates a handler for activities of the given module
// type ("label", "quiz", "forum", ...).
func NewActivityHandler(activityType string) ActivityHandler {
	return ActivityHandler{activityType: activityType}
}

func (h ActivityHandler) Name() string { return "activity:" + h.activityType }

func (h ActivityHandler) Pattern() string {
	return filepath.Join("activities", h.activityType+"_*", h.activityType+".xml")
}

func (h ActivityHandler) Elements(doc *etree.Document) ([]*Element, []error) {
	var c collector
	h.add(&c, doc)
	return c.result()
}

func (h ActivityHandler) add(c *collector, doc *etree.Document) {
	root := documentRoot(doc)
	c.add(NewCourseHTMLElement, children(root, "activity", h.activityType, "name")...)
	c.add(NewCourseHTMLElement, children(root, "activity", h.activityType, "intro")...)
}

// PageActivityHandler reads page activities, including the page content.
type PageActivityHandler struct {
	ActivityHandler
}

func NewPageActivityHandler() PageActivityHandler {
	return PageActivityHandler{ActivityHandler: NewActivityHandler("page")}
}

func (h PageActivityHandler) Elements(doc *etree.Document) ([]*Element, []error) {
	var c collector
	h.add(&c, doc)
	c.add(NewCourseHTMLElement, children(documentRoot(doc), "activity", "page", "content")...)
	return c.result()
}

// QuestionsHandler reads the question bank embedded in a course backup.
// Multichoice and numerical questions are HTML; STACK questions are CAS text.
type QuestionsHandler struct{}

func (QuestionsHandler) Name() string    { return "questions" }
func (QuestionsHandler) Pattern() string { return "questions.xml" }

func (QuestionsHandler) Elements(doc *etree.Document) ([]*Element, []error) {
	questions := children(documentRoot(doc),
		"question_categories",
		"question_category",
		"question_bank_entries",
		"question_bank_entry",
		"question_version",
		"question_versions",
		"questions",
		"question",
	)

	var c collector

	html := filterQuestions(questions, func(q *etree.Element) bool {
		qtype := elementText(descendant(q, "qtype"))
		return qtype == "multichoice" || qtype == "numerical"
	})
	for _, q := range html {
		c.add(NewCourseHTMLElement, descendants(q, "questiontext", "generalfeedback")...)
	}
	c.add(NewCourseHTMLElement, children(html, "plugin_qtype_multichoice_question", "answers", "answer", "answertext")...)
	c.add(NewCourseHTMLElement, children(html, "plugin_qtype_multichoice_question", "answers", "answer", "feedback")...)

	stack := filterQuestions(questions, func(q *etree.Element) bool {
		return elementText(descendant(q, "qtype")) == "stack"
	})
	for _, q := range stack {
		c.add(NewCourseCASTextElement, descendants(q, "questiontext", "generalfeedback")...)
	}
	for _, o := range children(stack, "plugin_qtype_stack_question", "stackoptions") {
		c.add(NewCourseCASTextElement, descendants(o, "specificfeedback", "prtcorrect", "prtpartiallycorrect", "prtincorrect")...)
	}
	nodes := children(stack, "plugin_qtype_stack_question", "stackprts", "stackprt", "stackprtnodes", "stackprtnode")
	c.add(NewCourseCASTextElement, children(nodes, "truefeedback")...)
	c.add(NewCourseCASTextElement, children(nodes, "falsefeedback")...)

	return c.result()
}

// QBankHandler reads Moodle XML question bank files. Every field keeps its
// content in a <text> child.
type QBankHandler struct {
	pattern string
}

// NewQBankHandler creates a handler for the question bank files matching
// pattern.
func NewQBankHandler(pattern string) QBankHandler {
	return QBankHandler{pattern: pattern}
}

func (h QBankHandler) Name() string    { return "qbank" }
func (h QBankHandler) Pattern() string { return h.pattern }

func (h QBankHandler) Elements(doc *etree.Document) ([]*Element, []error) {
	questions := children(documentRoot(doc), "quiz", "question")
	ofType := func(qtype string) []*etree.Element {
		return filterQuestions(questions, func(q *etree.Element) bool {
			return q.SelectAttrValue("type", "") == qtype
		})
	}

	var c collector

	for _, q := range ofType("multichoice") {
		c.add(NewQBankHTMLElement, descendants(q,
			"questiontext", "generalfeedback",
			"correctfeedback", "partiallycorrectfeedback", "incorrectfeedback")...)
	}
	for _, q := range ofType("cloze") {
		c.add(NewQBankHTMLElement, descendants(q, "questiontext", "generalfeedback")...)
	}
	for _, a := range children(questions, "answer") {
		c.add(NewQBankHTMLElement, a, descendant(a, "feedback"))
	}

	stack := ofType("stack")
	for _, q := range stack {
		c.add(NewQBankCASTextElement, descendants(q,
			"questiontext", "generalfeedback", "specificfeedback",
			"prtcorrect", "prtpartiallycorrect", "prtincorrect")...)
	}
	for _, n := range children(stack, "prt", "node") {
		c.add(NewQBankCASTextElement, descendants(n, "truefeedback", "falsefeedback")...)
	}

	return c.result()
}

// BackupHandler reads the activity titles listed in moodle_backup.xml. The
// titles are abbreviated copies of activity names, so it is not part of the
// default course handlers.
type BackupHandler struct{}

func (BackupHandler) Name() string    { return "backup" }
func (BackupHandler) Pattern() string { return "moodle_backup.xml" }

func (BackupHandler) Elements(doc *etree.Document) ([]*Element, []error) {
	var c collector
	c.add(NewCourseHTMLElement, children(documentRoot(doc),
		"moodle_backup", "information", "contents", "activities", "activity", "title")...)
	return c.result()
}

func filterQuestions(questions []*etree.Element, keep func(*etree.Element) bool) []*etree.Element {
	var out []*etree.Element
	for _, q := range questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}

func elementText(e *etree.Element) string {
	if e == nil {
		return ""
	}
	return e.Text()
}

var (
	_ Handler = SectionHandler{}
	_ Handler = ActivityHandler{}
	_ Handler = PageActivityHandler{}
	_ Handler = QuestionsHandler{}
	_ Handler = QBankHandler{}
	_ Handler = BackupHandler{}
)
