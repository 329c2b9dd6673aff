package translator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/bohradivyansh-maker/translation-assistant/internal/postprocess"
)

// llmDetectConfidence is reported for detections made by a language model,
// which gives no calibrated score.
const llmDetectConfidence = 0.6

var isoCodeRe = regexp.MustCompile(`^[a-z]{2,3}(?:-[a-z]{2,4})?$`)

func buildSystemPrompt(sourceLang, targetLang string, glossary map[string]string) string {
	var sb strings.Builder

	if sourceLang == "" || sourceLang == "auto" {
		sourceLang = "the detected language"
	} else {
		sourceLang = LanguageName(sourceLang)
	}

	sb.WriteString(fmt.Sprintf("You are a professional translator. Translate the following text from %s to %s.\n", sourceLang, LanguageName(targetLang)))
	sb.WriteString("Only respond with the translation, nothing else. No explanations, no quotes, just the translation.")
	sb.WriteString(" Copy every character in the range U+E000 to U+F8FF and the digits between them unchanged.")

	if len(glossary) > 0 {
		terms := make([]string, 0, len(glossary))
		for src := range glossary {
			terms = append(terms, src)
		}
		sort.Strings(terms)

		sb.WriteString("\n\nTERMINOLOGY (use these exact translations):\n")
		for _, src := range terms {
			sb.WriteString(fmt.Sprintf("  %s → %s\n", src, glossary[src]))
		}
	}
	return sb.String()
}

const detectPrompt = "Identify the language of the user's text. Reply with only its ISO 639-1 code in lower case, for example: en"

// parseLanguageCode pulls an ISO code out of a model reply.
func parseLanguageCode(reply string) (string, error) {
	cleaned := strings.ToLower(postprocess.Clean(reply))
	fields := strings.Fields(strings.Trim(cleaned, ".`'\""))
	if len(fields) == 0 {
		return "", fmt.Errorf("empty detection reply")
	}
	code := strings.Trim(fields[0], ".,`'\"")
	if !isoCodeRe.MatchString(code) {
		return "", fmt.Errorf("unexpected detection reply %q", reply)
	}
	return code, nil
}
