// Package postprocess strips the artifacts LLM translators wrap around their
// answers: reasoning blocks, chatty preambles, code fences, language labels
// and outer quotes. It also repairs entity placeholders that a model padded
// with whitespace.
package postprocess

import (
	"regexp"
	"strings"

	"github.com/bohradivyansh-maker/translation-assistant/internal/placeholder"
)

type step func(string) string

// steps run in order; each returns trimmed text.
var steps = []step{
	stripReasoning,
	stripPreamble,
	stripFences,
	unwrapQuotes,
	repairPlaceholders,
}

// Clean returns text with every known artifact removed.
func Clean(text string) string {
	for _, s := range steps {
		text = s(text)
	}
	return text
}

// CleanWithLabels is Clean followed by removal of a leading target-language
// label such as "Spanish:" or "In es translation:". Only the first matching
// label is removed.
func CleanWithLabels(text string, labels ...string) string {
	text = Clean(text)
	for _, label := range labels {
		if label == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)^(?:in )?` + regexp.QuoteMeta(label) + `(?: translation)?\s*:`)
		if loc := re.FindStringIndex(text); loc != nil {
			return unwrapQuotes(text[loc[1]:])
		}
	}
	return text
}

// RE2 has no backreferences, so every tag pair is spelled out.
var (
	reasoningRe = regexp.MustCompile(
		`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>`,
	)
	// An opening tag without its closer means the model was cut off.
	unclosedReasoningRe = regexp.MustCompile(`(?is)(?:<thinking>|<think>|<reasoning>|<reflection>).*$`)
)

func stripReasoning(text string) string {
	text = reasoningRe.ReplaceAllString(text, "")
	text = unclosedReasoningRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// preambleRe matches introductions such as "Here's the translation:" or
// "Sure, here is the translated text:". The trailing colon is required.
var preambleRe = regexp.MustCompile(
	`(?i)^(?:(?:certainly|sure|of course)[,.!]?\s+)?here(?:'s| is)\s+(?:the\s+)?(?:refined\s+|polished\s+|translated\s+)?(?:translation|text)\s*:` +
		`|^(?:the\s+)?(?:refined\s+|polished\s+)?(?:translation|translated text)\s*:`,
)

func stripPreamble(text string) string {
	if loc := preambleRe.FindStringIndex(text); loc != nil {
		text = text[loc[1]:]
	}
	return strings.TrimSpace(text)
}

// fenceRe matches a whole answer wrapped in a Markdown code fence with an
// optional info string.
var fenceRe = regexp.MustCompile("(?s)^```[\\w-]*[ \\t]*\\n(.*?)\\n?```$")

func stripFences(text string) string {
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	return strings.TrimSpace(text)
}

var quotePairs = map[rune]rune{
	'"':      '"',
	'\'':     '\'',
	'«':      '»',
	'\u201C': '\u201D',
	'\u2018': '\u2019',
	'\u300C': '\u300D',
}

// unwrapQuotes removes one pair of matching quotes around the whole text.
func unwrapQuotes(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) < 2 {
		return text
	}
	if closer, ok := quotePairs[runes[0]]; ok && runes[len(runes)-1] == closer {
		return strings.TrimSpace(string(runes[1 : len(runes)-1]))
	}
	return text
}

var paddedTokenRe = regexp.MustCompile(
	string(placeholder.Open) + `\s*(\d+)\s*` + string(placeholder.Close),
)

// repairPlaceholders removes whitespace a model inserted inside a token.
func repairPlaceholders(text string) string {
	return paddedTokenRe.ReplaceAllString(text, string(placeholder.Open)+"${1}"+string(placeholder.Close))
}
