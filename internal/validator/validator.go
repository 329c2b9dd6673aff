// Package validator checks that a translation came back in the requested
// target language.
package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// minValidationLength is the minimum rune count for a reliable detection.
// Shorter texts are accepted without validation.
const minValidationLength = 20

// Detector reports the ISO 639-1 code of a text's language.
type Detector interface {
	DetectISO(text string) (string, bool)
}

type Validator struct {
	det Detector
}

// New returns a Validator backed by det. The lingua detector is expensive to
// build, so callers share one instance.
func New(det Detector) *Validator {
	return &Validator{det: det}
}

// Validate returns an error when translated is empty or appears to be in a
// language other than targetLang. Region subtags are ignored, so "zh"
// satisfies "zh-cn". Short and ambiguous texts pass.
func (v *Validator) Validate(translated, targetLang string) error {
	if targetLang == "" || v.det == nil {
		return nil
	}

	text := strings.TrimSpace(translated)
	if text == "" {
		return fmt.Errorf("translation is empty")
	}
	if utf8.RuneCountInString(text) < minValidationLength {
		return nil
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		return nil
	}
	if !strings.EqualFold(base(detected), base(targetLang)) {
		return fmt.Errorf("expected %s but detected %s", targetLang, detected)
	}
	return nil
}

func base(code string) string {
	code, _, _ = strings.Cut(code, "-")
	return code
}
