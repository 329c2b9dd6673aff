// Package entity identifies the named entities that must survive
// translation unchanged.
package entity

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"
	"go.uber.org/zap"

	"github.com/bohradivyansh-maker/translation-assistant/internal/errs"
	"github.com/bohradivyansh-maker/translation-assistant/internal/logger"
	"github.com/bohradivyansh-maker/translation-assistant/internal/placeholder"
)

// Preservable entity labels.
const (
	LabelPerson       = "PERSON"
	LabelOrganization = "ORG"
	LabelGeoPolitical = "GPE"
	LabelLocation     = "LOC"
	LabelProduct      = "PRODUCT"
	LabelEvent        = "EVENT"
)

// DefaultLabels is the preservable label set.
var DefaultLabels = []string{LabelPerson, LabelOrganization, LabelGeoPolitical, LabelLocation, LabelProduct, LabelEvent}

// Entity is a recognised span. Start and End are character (rune) offsets.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Recognizer finds entities in text.
type Recognizer interface {
	FindEntities(ctx context.Context, text string) ([]Entity, error)
}

type Preserver struct {
	rec    Recognizer
	labels map[string]bool
	logger *zap.Logger
}

// New returns a Preserver filtering rec's output to labels. A nil or empty
// labels slice selects DefaultLabels.
func New(rec Recognizer, labels []string, log *zap.Logger) *Preserver {
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[strings.ToUpper(l)] = true
	}
	return &Preserver{rec: rec, labels: set, logger: logger.OrNop(log)}
}

// Identify returns the preservable entities in text. Recognizer failures are
// logged and yield an empty list.
func (p *Preserver) Identify(ctx context.Context, text string) []Entity {
	ents, _ := p.IdentifyOutcome(ctx, text)
	return ents
}

// IdentifyOutcome is Identify with the stage outcome.
func (p *Preserver) IdentifyOutcome(ctx context.Context, text string) ([]Entity, errs.Outcome) {
	if p.rec == nil || strings.TrimSpace(text) == "" {
		return nil, errs.OK()
	}

	found, err := p.rec.FindEntities(ctx, text)
	if err != nil {
		rerr := &errs.RecognitionError{Cause: err}
		p.logger.Warn("entity recognition failed", zap.Error(rerr))
		return nil, errs.Degraded(errs.ReasonRecognition, rerr)
	}

	var out []Entity
	for _, e := range found {
		if p.labels[strings.ToUpper(e.Label)] {
			out = append(out, e)
		}
	}
	return out, errs.OK()
}

// EntityTexts returns the distinct preservable entity strings in first-seen
// order.
func (p *Preserver) EntityTexts(ctx context.Context, text string) []string {
	return Texts(p.Identify(ctx, text))
}

// Texts returns the distinct texts of ents in order.
func Texts(ents []Entity) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range ents {
		if seen[e.Text] {
			continue
		}
		seen[e.Text] = true
		out = append(out, e.Text)
	}
	return out
}

// Protect substitutes entities in text with placeholders.
func (p *Preserver) Protect(text string, entities []string) (string, map[string]string) {
	return placeholder.Protect(text, entities)
}

// Restore puts the entities back.
func (p *Preserver) Restore(text string, tokens map[string]string) string {
	return placeholder.Restore(text, tokens)
}

// ProseRecognizer finds entities with the prose NER model, which labels
// people (PERSON) and geo-political entities (GPE).
type ProseRecognizer struct{}

func NewProseRecognizer() *ProseRecognizer {
	return &ProseRecognizer{}
}

func (r *ProseRecognizer) FindEntities(ctx context.Context, text string) (ents []Entity, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer func() {
		if rec := recover(); rec != nil {
			ents, err = nil, fmt.Errorf("prose: %v", rec)
		}
	}()

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, err
	}

	cursor := 0
	for _, e := range doc.Entities() {
		ent := Entity{Text: e.Text, Label: e.Label, Start: -1, End: -1}
		if idx := strings.Index(text[cursor:], e.Text); idx >= 0 {
			byteStart := cursor + idx
			ent.Start = utf8.RuneCountInString(text[:byteStart])
			ent.End = ent.Start + utf8.RuneCountInString(e.Text)
			cursor = byteStart + len(e.Text)
		}
		ents = append(ents, ent)
	}
	return ents, nil
}
