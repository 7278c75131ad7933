package moodle

import (
	"github.com/ZaguanLabs/moodletl/cache"
	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Exporter collects the fragments of every element it sees into an
// insertion-ordered set.
type Exporter struct {
	strings  *orderedmap.OrderedMap[string, struct{}]
	elements int
	logger   *logrus.Logger
}

// NewExporter creates an empty exporter.
func NewExporter(logger *logrus.Logger) *Exporter {
	if logger == nil {
		logger = logrus.New()
	}
	return &Exporter{
		strings: orderedmap.New[string, struct{}](),
		logger:  logger,
	}
}

// Process adds the fragments of elements. Fragments that cannot be found in
// their element's normalized text are logged.
func (x *Exporter) Process(path string, elements []*Element) error {
	for _, el := range elements {
		x.elements++
		for _, f := range el.Mismatches() {
			x.logger.WithFields(logrus.Fields{
				"file":     path,
				"kind":     el.Kind().Name(),
				"fragment": f,
				"text":     el.Text(),
			}).Warn("Extracted fragment not found in element text")
		}
		for _, f := range el.Fragments() {
			x.strings.Set(f, struct{}{})
		}
	}
	return nil
}

// Strings returns the collected fragments in first-seen order.
func (x *Exporter) Strings() []string {
	out := make([]string, 0, x.strings.Len())
	for p := x.strings.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

// Len returns the number of distinct fragments.
func (x *Exporter) Len() int { return x.strings.Len() }

// Elements returns the number of elements processed.
func (x *Exporter) Elements() int { return x.elements }

// WriteFile writes the strings file.
func (x *Exporter) WriteFile(path string) error {
	return cache.WriteStringsFile(path, x.Strings())
}
