// Package analyzer runs the full context analysis of a text: sentences,
// context window, entities, domain and key terms.
package analyzer

import (
	"context"

	"go.uber.org/zap"

	"github.com/bohradivyansh-maker/translation-assistant/internal/contextwindow"
	"github.com/bohradivyansh-maker/translation-assistant/internal/domain"
	"github.com/bohradivyansh-maker/translation-assistant/internal/entity"
	"github.com/bohradivyansh-maker/translation-assistant/internal/errs"
	"github.com/bohradivyansh-maker/translation-assistant/internal/keyterms"
	"github.com/bohradivyansh-maker/translation-assistant/internal/logger"
	"github.com/bohradivyansh-maker/translation-assistant/internal/segmenter"
)

type Analysis struct {
	Context       contextwindow.Window   `json:"context"`
	Entities      []entity.Entity        `json:"entities"`
	EntityTexts   []string               `json:"entity_texts"`
	Preprocessing keyterms.Preprocessing `json:"preprocessing"`
	DomainScores  domain.Scores          `json:"domain_scores"`
	PrimaryDomain string                 `json:"primary_domain"`
	KeyTerms      []keyterms.KeyTerm     `json:"key_terms"`
	Sentences     []string               `json:"sentences"`
	NumSentences  int                    `json:"num_sentences"`
	Outcome       errs.Outcome           `json:"outcome"`
}

type Options struct {
	SentencesBefore int
	SentencesAfter  int
	KeyTerms        int
	Lexicons        []domain.Lexicon
	EntityLabels    []string
}

type Analyzer struct {
	seg        *segmenter.Segmenter
	window     *contextwindow.Builder
	preserver  *entity.Preserver
	classifier *domain.Classifier
	keyTerms   *keyterms.Extractor
	opts       Options
	logger     *zap.Logger
}

// New wires the analysis components around seg and rec. A nil rec disables
// entity recognition; empty lexicons select the defaults.
func New(seg *segmenter.Segmenter, rec entity.Recognizer, opts Options, log *zap.Logger) *Analyzer {
	log = logger.OrNop(log)
	if len(opts.Lexicons) == 0 {
		opts.Lexicons = domain.DefaultLexicons()
	}
	return &Analyzer{
		seg:        seg,
		window:     contextwindow.New(seg),
		preserver:  entity.New(rec, opts.EntityLabels, log),
		classifier: domain.NewClassifier(opts.Lexicons),
		keyTerms:   keyterms.New(seg, opts.KeyTerms, log),
		opts:       opts,
		logger:     log,
	}
}

func (a *Analyzer) Preserver() *entity.Preserver { return a.preserver }

func (a *Analyzer) Window() *contextwindow.Builder { return a.window }

// Domain returns the primary domain of text.
func (a *Analyzer) Domain(text string) string {
	return a.classifier.Classify(text)
}

// Analyze examines text. When selected is non-empty the context window is
// built around it; otherwise the whole text is the main part.
func (a *Analyzer) Analyze(ctx context.Context, text, selected string) Analysis {
	var window contextwindow.Window
	if selected != "" {
		window = a.window.Extract(text, selected, a.opts.SentencesBefore, a.opts.SentencesAfter)
	} else {
		window = contextwindow.Window{Main: text}
	}

	ents, outcome := a.preserver.IdentifyOutcome(ctx, text)
	scores := a.classifier.Score(text)
	sentences := a.seg.Texts(text)

	return Analysis{
		Context:       window,
		Entities:      ents,
		EntityTexts:   entity.Texts(ents),
		Preprocessing: keyterms.Preprocess(text),
		DomainScores:  scores,
		PrimaryDomain: scores.Primary(),
		KeyTerms:      a.keyTerms.Extract(text, 0),
		Sentences:     sentences,
		NumSentences:  len(sentences),
		Outcome:       outcome,
	}
}
