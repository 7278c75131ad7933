package moodle

import (
	"context"
	"fmt"

	"github.com/ZaguanLabs/moodletl"
	"github.com/ZaguanLabs/moodletl/cache"
	"github.com/sirupsen/logrus"
)

// PipelineConfig configures a Pipeline.
type PipelineConfig struct {
	Handlers    []Handler            // File handlers, visited in order
	Root        string               // Export root the handler patterns are relative to
	OutputDir   string               // Where rewritten documents go; empty skips writing
	StringsFile string               // Strings file written by Extract; empty skips writing
	Translator  *moodletl.Translator // Needed by Translate and Run
	Store       cache.Store          // Translation cache read by Apply
	Logger      *logrus.Logger
}

// Pipeline chains the extract, translate and apply stages over one export.
type Pipeline struct {
	cfg    PipelineConfig
	logger *logrus.Logger
}

// RunResult summarizes a pipeline run.
type RunResult struct {
	Strings     int                        // Distinct fragments extracted
	Translation *moodletl.ProcessedContent // Translate stage counts
	Rewritten   int                        // Elements written back
	Skipped     int                        // Elements skipped for malformed hosts
}

// NewPipeline validates cfg and creates a pipeline.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if len(cfg.Handlers) == 0 {
		return nil, &moodletl.ConfigError{Field: "handlers", Message: "no file handlers"}
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Pipeline{cfg: cfg, logger: logger}, nil
}

// Extract collects the fragments of every element and writes the strings
// file when one is configured.
func (p *Pipeline) Extract() ([]string, error) {
	exporter := NewExporter(p.logger)
	if err := Walk(p.cfg.Handlers, p.cfg.Root, exporter.Process, WithLogger(p.logger)); err != nil {
		return nil, err
	}

	if p.cfg.StringsFile != "" {
		if err := exporter.WriteFile(p.cfg.StringsFile); err != nil {
			return nil, fmt.Errorf("writing strings file: %w", err)
		}
	}

	p.logger.WithFields(logrus.Fields{
		"elements": exporter.Elements(),
		"strings":  exporter.Len(),
	}).Info("Extracted strings")
	return exporter.Strings(), nil
}

// Translate translates strings through the configured translator.
func (p *Pipeline) Translate(ctx context.Context, strings []string) (*moodletl.ProcessedContent, error) {
	if p.cfg.Translator == nil {
		return nil, &moodletl.ConfigError{Field: "translator", Message: "no translator configured"}
	}
	if p.cfg.Translator.IsSourceLang() {
		return nil, &moodletl.ConfigError{
			Field:   "target_lang",
			Message: fmt.Sprintf("target %s is the source language", p.cfg.Translator.TargetLang()),
		}
	}

	result, err := p.cfg.Translator.Translate(ctx, strings)
	if err != nil {
		return nil, err
	}

	p.logger.WithFields(logrus.Fields{
		"cached":     result.CachedCount,
		"translated": result.TranslatedCount,
		"batches":    result.Batches,
	}).Info("Translated strings")
	return result, nil
}

// Apply rewrites every element with the translations in the store and
// writes the documents to the output directory.
func (p *Pipeline) Apply(targetLang, sourceLang string) (*Applier, error) {
	if p.cfg.Store == nil {
		return nil, &moodletl.ConfigError{Field: "cache", Message: "no translation store configured"}
	}

	entries, err := p.cfg.Store.Entries()
	if err != nil {
		return nil, err
	}
	table := moodletl.NewTranslationTable(entries)

	applier := NewApplier(table, targetLang, sourceLang, p.logger)
	err = Walk(p.cfg.Handlers, p.cfg.Root, applier.Process,
		WithOutputDir(p.cfg.OutputDir), WithLogger(p.logger))
	if err != nil {
		return nil, err
	}

	p.logger.WithFields(logrus.Fields{
		"rewritten": applier.Rewritten(),
		"skipped":   applier.Skipped(),
		"output":    p.cfg.OutputDir,
	}).Info("Applied translations")
	return applier, nil
}

// Run extracts, translates and applies in sequence.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	strings, err := p.Extract()
	if err != nil {
		return nil, err
	}

	translation, err := p.Translate(ctx, strings)
	if err != nil {
		return nil, err
	}

	t := p.cfg.Translator
	applier, err := p.Apply(t.TargetLang(), t.SourceLang())
	if err != nil {
		return nil, err
	}

	return &RunResult{
		Strings:     len(strings),
		Translation: translation,
		Rewritten:   applier.Rewritten(),
		Skipped:     applier.Skipped(),
	}, nil
}
