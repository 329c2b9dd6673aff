// Package contextwindow locates a selection inside its surrounding text and
// assembles the neighbouring sentences that give a translator
// disambiguating material.
package contextwindow

import (
	"strings"
)

const (
	DefaultBefore = 2
	DefaultAfter  = 2
)

// Segmenter is the subset of segmenter.Segmenter used here.
type Segmenter interface {
	Texts(text string) []string
}

// Window is the selection plus its surrounding sentences. Before, Main and
// After concatenated in order form a contiguous run of the source sentences.
type Window struct {
	Before string `json:"context_before"`
	Main   string `json:"main_text"`
	After  string `json:"context_after"`
}

// Augmented joins the non-empty parts of the window with single spaces.
func (w Window) Augmented() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{w.Before, w.Main, w.After} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// HasContext reports whether any surrounding sentence was captured.
func (w Window) HasContext() bool {
	return w.Before != "" || w.After != ""
}

type Builder struct {
	seg Segmenter
}

func New(seg Segmenter) *Builder {
	return &Builder{seg: seg}
}

// Extract returns the window around selected within fullText. Every sentence
// containing selected (case-insensitively) belongs to Main, together with
// any sentence between the first and last match. When no sentence contains
// the selection it is returned verbatim as Main with no context.
func (b *Builder) Extract(fullText, selected string, before, after int) Window {
	if before < 0 {
		before = 0
	}
	if after < 0 {
		after = 0
	}

	sentences := b.seg.Texts(fullText)
	needle := strings.ToLower(selected)

	first, last := -1, -1
	for i, s := range sentences {
		if strings.Contains(strings.ToLower(s), needle) {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	if first < 0 {
		return Window{Main: selected}
	}

	start := max(0, first-before)
	end := min(len(sentences), last+after+1)

	return Window{
		Before: strings.Join(sentences[start:first], " "),
		Main:   strings.Join(sentences[first:last+1], " "),
		After:  strings.Join(sentences[last+1:end], " "),
	}
}
