// Package chunker splits text that exceeds a translator's request limit into
// pieces that can be translated independently.
package chunker

import (
	"strings"
	"unicode"

	"github.com/bohradivyansh-maker/translation-assistant/internal/placeholder"
)

// Chunk splits text into trimmed pieces of at most maxRunes code points.
// Split points are chosen, in order of preference, at a blank line, after
// sentence-ending punctuation, at whitespace, or as a hard cut that never
// lands inside an entity placeholder. maxRunes <= 0 means unlimited.
// Empty text yields no chunks.
func Chunk(text string, maxRunes int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return []string{text}
	}

	var chunks []string
	for len(runes) > maxRunes {
		cut := split(runes, maxRunes)
		if c := strings.TrimSpace(string(runes[:cut])); c != "" {
			chunks = append(chunks, c)
		}
		runes = []rune(strings.TrimSpace(string(runes[cut:])))
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

// split returns the rune index at which to cut runes so that the first part
// holds at most maxRunes code points.
func split(runes []rune, maxRunes int) int {
	window := runes[:maxRunes]

	for i := len(window) - 1; i > 0; i-- {
		if window[i] != '\n' {
			continue
		}
		j := i - 1
		if window[j] == '\r' && j > 0 {
			j--
		}
		if window[j] == '\n' {
			return i + 1
		}
	}

	for i := len(window) - 1; i > 0; i-- {
		switch window[i] {
		case '.', '!', '?', '。', '！', '？':
			if i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				return i + 1
			}
		}
	}

	for i := len(window) - 1; i > 0; i-- {
		if unicode.IsSpace(window[i]) {
			return i
		}
	}

	return hardCut(window)
}

// hardCut moves a cut at the end of window back before an unterminated
// placeholder.
func hardCut(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		switch window[i] {
		case placeholder.Close:
			return len(window)
		case placeholder.Open:
			if i > 0 {
				return i
			}
			return len(window)
		}
	}
	return len(window)
}
