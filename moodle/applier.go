package moodle

import (
	"errors"

	"github.com/ZaguanLabs/moodletl"
	"github.com/sirupsen/logrus"
)

// Applier rewrites elements with bilingual content from a translation table.
type Applier struct {
	table      *moodletl.TranslationTable
	targetLang string
	sourceLang string
	logger     *logrus.Logger

	rewritten int
	skipped   int
}

// NewApplier creates an applier. Language codes may be given in provider
// form ("EN-US"); they are converted to Moodle codes.
func NewApplier(table *moodletl.TranslationTable, targetLang, sourceLang string, logger *logrus.Logger) *Applier {
	if logger == nil {
		logger = logrus.New()
	}
	return &Applier{
		table:      table,
		targetLang: moodletl.MoodleLangCode(targetLang),
		sourceLang: moodletl.MoodleLangCode(sourceLang),
		logger:     logger,
	}
}

// Process rewrites every element. A fragment without translation stops the
// run; an element whose host cannot be written is logged and skipped.
func (a *Applier) Process(path string, elements []*Element) error {
	for _, el := range elements {
		err := el.Apply(a.table, a.targetLang, a.sourceLang)

		var malformed *moodletl.MalformedHostError
		switch {
		case err == nil:
			a.rewritten++
		case errors.As(err, &malformed):
			a.skipped++
			a.logger.WithError(err).WithField("file", path).Warn("Skipping element")
		default:
			return err
		}
	}
	return nil
}

// Rewritten returns the number of elements written back.
func (a *Applier) Rewritten() int { return a.rewritten }

// Skipped returns the number of elements left untouched because of a
// malformed host.
func (a *Applier) Skipped() int { return a.skipped }
