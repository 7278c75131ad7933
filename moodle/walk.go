package moodle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

// ElementFunc processes the elements found in one file. It may rewrite
// them; the document is written out afterwards when an output directory is
// set.
type ElementFunc func(path string, elements []*Element) error

type walker struct {
	outputDir string
	logger    *logrus.Logger
}

// WalkOption configures Walk.
type WalkOption func(*walker)

// WithOutputDir writes every visited document to dir, at its path relative
// to the root, after fn has run.
func WithOutputDir(dir string) WalkOption {
	return func(w *walker) {
		w.outputDir = dir
	}
}

// WithLogger sets the logger used for skipped elements.
func WithLogger(logger *logrus.Logger) WalkOption {
	return func(w *walker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Walk calls fn for the files of every handler in turn. Files are visited
// one at a time, in handler order and then in lexical path order.
func Walk(handlers []Handler, root string, fn ElementFunc, opts ...WalkOption) error {
	w := &walker{logger: logrus.New()}
	for _, opt := range opts {
		opt(w)
	}

	for _, h := range handlers {
		files, err := Files(h, root)
		if err != nil {
			return fmt.Errorf("%s: listing files: %w", h.Name(), err)
		}

		w.logger.WithFields(logrus.Fields{
			"handler": h.Name(),
			"files":   len(files),
		}).Debug("Visiting files")

		for _, path := range files {
			if err := w.visit(h, root, path, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *walker) visit(h Handler, root, path string, fn ElementFunc) error {
	doc, err := ReadDocument(path)
	if err != nil {
		return err
	}

	elements, skipped := h.Elements(doc)
	for _, err := range skipped {
		w.logger.WithError(err).WithField("file", path).Warn("Skipping element")
	}

	if err := fn(path, elements); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if w.outputDir == "" {
		return nil
	}

	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	dest := filepath.Join(w.outputDir, rel)
	if err := WriteDocument(doc, dest); err != nil {
		return err
	}

	w.logger.WithFields(logrus.Fields{
		"file":     path,
		"output":   dest,
		"elements": len(elements),
	}).Info("Wrote document")
	return nil
}

// ReadDocument parses the XML file at path, keeping CDATA sections.
func ReadDocument(path string) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return doc, nil
}

// WriteDocument writes doc to path, creating parent directories.
func WriteDocument(doc *etree.Document, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	doc.WriteSettings.CanonicalText = true
	doc.WriteSettings.CanonicalAttrVal = true
	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
