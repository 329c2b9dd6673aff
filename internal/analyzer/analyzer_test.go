package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bohradivyansh-maker/translation-assistant/internal/entity"
	"github.com/bohradivyansh-maker/translation-assistant/internal/errs"
	"github.com/bohradivyansh-maker/translation-assistant/internal/segmenter"
)

type stubRecognizer struct {
	entities []entity.Entity
	err      error
}

func (s stubRecognizer) FindEntities(context.Context, string) ([]entity.Entity, error) {
	return s.entities, s.err
}

func newAnalyzer(rec entity.Recognizer) *Analyzer {
	return New(segmenter.NewWithTiers(nil), rec, Options{SentencesBefore: 1, SentencesAfter: 1}, nil)
}

func TestAnalyze_WithSelection(t *testing.T) {
	rec := stubRecognizer{entities: []entity.Entity{
		{Text: "Alice", Label: entity.LabelPerson},
		{Text: "Alice", Label: entity.LabelPerson},
		{Text: "Paris", Label: entity.LabelGeoPolitical},
	}}
	a := newAnalyzer(rec)

	text := "Alice wrote the algorithm. The loop walks the array. Alice flew to Paris."
	got := a.Analyze(context.Background(), text, "loop walks")

	assert.Equal(t, "Alice wrote the algorithm.", got.Context.Before)
	assert.Equal(t, "The loop walks the array.", got.Context.Main)
	assert.Equal(t, "Alice flew to Paris.", got.Context.After)
	assert.Len(t, got.Entities, 3)
	assert.Equal(t, []string{"Alice", "Paris"}, got.EntityTexts)
	assert.Equal(t, "technical", got.PrimaryDomain)
	assert.Equal(t, 3, got.NumSentences)
	assert.NotEmpty(t, got.KeyTerms)
	assert.Equal(t, errs.StatusOK, got.Outcome.Status)
}

func TestAnalyze_NoSelection(t *testing.T) {
	a := newAnalyzer(nil)
	got := a.Analyze(context.Background(), "Hello there, thanks!", "")

	assert.Equal(t, "Hello there, thanks!", got.Context.Main)
	assert.Empty(t, got.Context.Before)
	assert.Empty(t, got.Context.After)
	assert.Equal(t, "casual", got.PrimaryDomain)
	require.Len(t, got.DomainScores, 3)
	assert.Greater(t, got.Preprocessing.NumTokens, 0)
}

func TestAnalyze_RecognizerFailureDegrades(t *testing.T) {
	a := newAnalyzer(stubRecognizer{err: errors.New("no model")})
	got := a.Analyze(context.Background(), "Bob codes.", "")

	assert.Empty(t, got.Entities)
	assert.Equal(t, errs.StatusDegraded, got.Outcome.Status)
	assert.Equal(t, errs.ReasonRecognition, got.Outcome.Reason)
}

func TestDomain(t *testing.T) {
	a := newAnalyzer(nil)
	assert.Equal(t, "general", a.Domain("Nothing to see."))
}
