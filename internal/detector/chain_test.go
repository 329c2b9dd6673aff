package detector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bohradivyansh-maker/translation-assistant/internal/errs"
)

type fakeService struct {
	lang string
	conf float64
	err  error
}

func (f fakeService) Name() string { return "fake" }

func (f fakeService) Detect(context.Context, string) (string, float64, error) {
	return f.lang, f.conf, f.err
}

type fakeLocal struct {
	lang string
	conf float64
	ok   bool
}

func (f fakeLocal) DetectWithConfidence(string) (string, float64, bool) {
	return f.lang, f.conf, f.ok
}

func TestChain_PrimaryWins(t *testing.T) {
	c := NewChain(fakeService{lang: "FR", conf: 0.97}, fakeLocal{lang: "es", conf: 0.8, ok: true}, "en", 0.5, nil)

	got := c.Detect(context.Background(), "Bonjour")
	assert.Equal(t, "fr", got.Lang)
	assert.Equal(t, 0.97, got.Confidence)
	assert.Equal(t, "fake", got.Source)
	assert.Equal(t, errs.StatusOK, got.Outcome.Status)
}

func TestChain_FallsBackToLocal(t *testing.T) {
	c := NewChain(fakeService{err: errors.New("quota exceeded")}, fakeLocal{lang: "es", conf: 0.8, ok: true}, "en", 0.5, nil)

	got := c.Detect(context.Background(), "Hola")
	assert.Equal(t, "es", got.Lang)
	assert.Equal(t, SourceLocal, got.Source)
	assert.Equal(t, errs.StatusOK, got.Outcome.Status)
}

func TestChain_TotalFailureUsesFallback(t *testing.T) {
	c := NewChain(fakeService{err: errors.New("down")}, fakeLocal{}, "en", 0.5, nil)

	got := c.Detect(context.Background(), "???")
	assert.Equal(t, "en", got.Lang)
	assert.Equal(t, 0.5, got.Confidence)
	assert.Equal(t, SourceFallback, got.Source)
	assert.Equal(t, errs.StatusDegraded, got.Outcome.Status)
	assert.Equal(t, errs.ReasonDetection, got.Outcome.Reason)
	assert.Contains(t, got.Outcome.Detail, "down")
}

func TestChain_EmptyPrimaryAnswerIsFailure(t *testing.T) {
	c := NewChain(fakeService{lang: ""}, nil, "de", 0.5, nil)

	got := c.Detect(context.Background(), "text")
	assert.Equal(t, "de", got.Lang)
	assert.Equal(t, errs.StatusDegraded, got.Outcome.Status)
}

func TestChain_NoDetectors(t *testing.T) {
	c := NewChain(nil, nil, "", 0.5, nil)

	got := c.Detect(context.Background(), "text")
	assert.Equal(t, "en", got.Lang)
	assert.Equal(t, errs.StatusDegraded, got.Outcome.Status)
}

func TestChain_ClampsConfidence(t *testing.T) {
	c := NewChain(fakeService{lang: "en", conf: 1.7}, nil, "en", 0.5, nil)
	assert.Equal(t, 1.0, c.Detect(context.Background(), "x").Confidence)
}

type panickingService struct{}

func (panickingService) Name() string { return "flaky" }

func (panickingService) Detect(context.Context, string) (string, float64, error) {
	panic("nil response body")
}

func TestChain_PrimaryPanicFallsBack(t *testing.T) {
	c := NewChain(panickingService{}, fakeLocal{lang: "de", conf: 0.9, ok: true}, "en", 0.5, nil)

	var got Detection
	assert.NotPanics(t, func() { got = c.Detect(context.Background(), "Guten Tag") })
	assert.Equal(t, "de", got.Lang)
	assert.Equal(t, SourceLocal, got.Source)
}

func TestChain_PrimaryPanicIsDetectionError(t *testing.T) {
	c := NewChain(panickingService{}, nil, "en", 0.5, nil)

	got := c.Detect(context.Background(), "Guten Tag")
	assert.Equal(t, SourceFallback, got.Source)
	assert.Equal(t, errs.StatusDegraded, got.Outcome.Status)
	assert.Equal(t, errs.ReasonDetection, got.Outcome.Reason)
	assert.Contains(t, got.Outcome.Detail, "detection error (flaky): detector panicked: nil response body")
}
