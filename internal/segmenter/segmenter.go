// Package segmenter splits raw text into an ordered sequence of sentences.
//
// Segmentation degrades through three tiers and never fails: a
// sentence-boundary model (prose), a punkt statistical tokenizer
// (neurosnap/sentences) and finally a regex split on terminator runs.
package segmenter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jdkato/prose/v2"
	"github.com/neurosnap/sentences/english"
	"go.uber.org/zap"

	"github.com/bohradivyansh-maker/translation-assistant/internal/logger"
)

// Sentence is one segmented unit. Start and End are byte offsets into the
// segmented text, or -1 when the tier rewrote whitespace and the sentence
// could not be located verbatim.
type Sentence struct {
	Text  string
	Start int
	End   int
}

// Tier is one segmentation strategy.
type Tier interface {
	Name() string
	Split(text string) ([]string, error)
}

type Segmenter struct {
	tiers  []Tier
	logger *zap.Logger
}

// New returns a segmenter using the prose model followed by the punkt
// tokenizer. A tier that cannot be initialised is skipped.
func New(log *zap.Logger) *Segmenter {
	log = logger.OrNop(log)

	tiers := []Tier{proseTier{}}
	if pt, err := newPunktTier(); err != nil {
		log.Warn("punkt tokenizer unavailable", zap.Error(err))
	} else {
		tiers = append(tiers, pt)
	}
	return &Segmenter{tiers: tiers, logger: log}
}

// NewWithTiers returns a segmenter that tries tiers in order before the
// regex fallback. With no tiers only the regex split is used.
func NewWithTiers(log *zap.Logger, tiers ...Tier) *Segmenter {
	return &Segmenter{tiers: tiers, logger: logger.OrNop(log)}
}

// Segment splits text into sentences. Non-empty input always yields at least
// one sentence.
func (s *Segmenter) Segment(text string) []Sentence {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	for _, tier := range s.tiers {
		parts, err := safeSplit(tier, text)
		if err != nil {
			s.logger.Debug("segmentation tier failed", zap.String("tier", tier.Name()), zap.Error(err))
			continue
		}
		if sents := locate(text, splitLetterRuns(parts)); len(sents) > 0 {
			return sents
		}
	}

	if sents := locate(text, regexSplit(text)); len(sents) > 0 {
		return sents
	}
	return locate(text, []string{text})
}

// Texts is Segment without offsets.
func (s *Segmenter) Texts(text string) []string {
	sents := s.Segment(text)
	out := make([]string, len(sents))
	for i, sent := range sents {
		out[i] = sent.Text
	}
	return out
}

func safeSplit(tier Tier, text string) (parts []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			parts, err = nil, fmt.Errorf("panic in %s: %v", tier.Name(), r)
		}
	}()
	return tier.Split(text)
}

// locate trims the parts, drops empties and attaches offsets.
func locate(text string, parts []string) []Sentence {
	var out []Sentence
	cursor := 0
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		sent := Sentence{Text: p, Start: -1, End: -1}
		if idx := strings.Index(text[cursor:], p); idx >= 0 {
			sent.Start = cursor + idx
			sent.End = sent.Start + len(p)
			cursor = sent.End
		}
		out = append(out, sent)
	}
	return out
}

type proseTier struct{}

func (proseTier) Name() string { return "prose" }

func (proseTier) Split(text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, err
	}
	var out []string
	for _, sent := range doc.Sentences() {
		out = append(out, sent.Text)
	}
	return out, nil
}

type punktTier struct {
	tokenize func(string) []string
}

func newPunktTier() (*punktTier, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	return &punktTier{tokenize: func(text string) []string {
		var out []string
		for _, s := range tok.Tokenize(text) {
			out = append(out, s.Text)
		}
		return out
	}}, nil
}

func (*punktTier) Name() string { return "punkt" }

func (p *punktTier) Split(text string) ([]string, error) {
	return p.tokenize(text), nil
}

// letterRun matches a part made only of single-letter sentences such as
// "B. C. D.". The model tiers read these as initials and merge them.
var letterRun = regexp.MustCompile(`^\p{L}[.!?]+(?:\s+\p{L}[.!?]+)+$`)

// splitLetterRuns breaks letter runs into one sentence per letter. Parts that
// also contain a word, like "J. R. R. Tolkien", are left alone.
func splitLetterRuns(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if letterRun.MatchString(strings.TrimSpace(p)) {
			out = append(out, strings.Fields(p)...)
			continue
		}
		out = append(out, p)
	}
	return out
}

// terminated matches a run of non-terminators followed by its terminators.
var terminated = regexp.MustCompile(`[^.!?]+[.!?]*`)

func regexSplit(text string) []string {
	return terminated.FindAllString(text, -1)
}
