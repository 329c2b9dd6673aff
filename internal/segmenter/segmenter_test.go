package segmenter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTier struct {
	parts []string
	err   error
	panic bool
	calls int
}

func (s *stubTier) Name() string { return "stub" }

func (s *stubTier) Split(string) ([]string, error) {
	s.calls++
	if s.panic {
		panic("model crashed")
	}
	return s.parts, s.err
}

func TestSegment_Default(t *testing.T) {
	s := New(nil)

	got := s.Texts("Hello there. How are you? I am fine.")
	require.Len(t, got, 3)
	assert.Contains(t, got[0], "Hello there")
	assert.Contains(t, got[2], "I am fine")
}

func TestSegment_DefaultSingleLetters(t *testing.T) {
	assert.Equal(t, []string{"A.", "B.", "C.", "D."}, New(nil).Texts("A. B. C. D."))
}

func TestSegment_SplitsLetterRuns(t *testing.T) {
	tier := &stubTier{parts: []string{"A.", " B. C. D."}}
	got := NewWithTiers(nil, tier).Segment("A. B. C. D.")

	require.Len(t, got, 4)
	assert.Equal(t, "C.", got[2].Text)
	assert.Equal(t, 6, got[2].Start)
	assert.Equal(t, 8, got[2].End)
}

func TestSegment_KeepsInitialsInsideWords(t *testing.T) {
	text := "J. R. R. Tolkien wrote books. They sold well."
	tier := &stubTier{parts: []string{"J. R. R. Tolkien wrote books.", "They sold well."}}

	assert.Equal(t, tier.parts, NewWithTiers(nil, tier).Texts(text))
}

func TestSegment_Empty(t *testing.T) {
	s := New(nil)
	assert.Empty(t, s.Segment(""))
	assert.Empty(t, s.Segment("   \n\t"))
}

func TestSegment_RegexFallback(t *testing.T) {
	s := NewWithTiers(nil)

	got := s.Segment("A. B. C. D.")
	require.Len(t, got, 4)
	assert.Equal(t, "A.", got[0].Text)
	assert.Equal(t, "D.", got[3].Text)
	assert.Equal(t, 0, got[0].Start)
	assert.Equal(t, 2, got[0].End)
	assert.Equal(t, 3, got[1].Start)
}

func TestSegment_TerminatorRuns(t *testing.T) {
	s := NewWithTiers(nil)
	assert.Equal(t, []string{"Wait...", "What?!", "Ok"}, s.Texts("Wait... What?! Ok"))
}

func TestSegment_OnlyPunctuationStillNonEmpty(t *testing.T) {
	s := NewWithTiers(nil)
	assert.Equal(t, []string{"?!"}, s.Texts("  ?! "))
}

func TestSegment_TierDegradation(t *testing.T) {
	empty := &stubTier{}
	failing := &stubTier{err: errors.New("no model")}
	crashing := &stubTier{panic: true}
	good := &stubTier{parts: []string{"One two.", " Three."}}

	s := NewWithTiers(nil, empty, failing, crashing, good)
	got := s.Segment("One two. Three.")

	require.Len(t, got, 2)
	assert.Equal(t, "Three.", got[1].Text)
	assert.Equal(t, 9, got[1].Start)
	assert.Equal(t, 1, empty.calls)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, crashing.calls)
}

func TestSegment_PrimaryTierWins(t *testing.T) {
	first := &stubTier{parts: []string{"whole text"}}
	second := &stubTier{parts: []string{"never"}}

	s := NewWithTiers(nil, first, second)
	assert.Equal(t, []string{"whole text"}, s.Texts("whole text"))
	assert.Equal(t, 0, second.calls)
}

func TestSegment_UnlocatableSentence(t *testing.T) {
	s := NewWithTiers(nil, &stubTier{parts: []string{"rewritten"}})
	got := s.Segment("original")
	require.Len(t, got, 1)
	assert.Equal(t, -1, got[0].Start)
	assert.Equal(t, -1, got[0].End)
}
