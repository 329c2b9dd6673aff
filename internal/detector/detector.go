// Package detector identifies the language of a text, first through a
// translation service and then locally with lingua.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// Detector is the local lingua-based detector.
type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector for languages, or for every language lingua knows
// when none are given.
func New(languages ...lingua.Language) *Detector {
	builder := lingua.NewLanguageDetectorBuilder()
	var detector lingua.LanguageDetector
	if len(languages) >= 2 {
		detector = builder.FromLanguages(languages...).Build()
	} else {
		detector = builder.FromAllLanguages().Build()
	}
	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lower-case ISO 639-1 code of text's language.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// DetectWithConfidence returns the most likely ISO 639-1 code and lingua's
// confidence in it.
func (d *Detector) DetectWithConfidence(text string) (string, float64, bool) {
	if strings.TrimSpace(text) == "" {
		return "", 0, false
	}
	values := d.detector.ComputeLanguageConfidenceValues(text)
	if len(values) == 0 || values[0].Value() == 0 {
		return "", 0, false
	}
	top := values[0]
	return strings.ToLower(top.Language().IsoCode639_1().String()), top.Value(), true
}
