package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_TechnicalText(t *testing.T) {
	c := NewClassifier(DefaultLexicons())
	s := c.Score("The algorithm iterates through the array using a loop.")

	assert.Greater(t, s.Get("technical"), s.Get("casual"))
	assert.Greater(t, s.Get("technical"), s.Get("formal"))
	assert.InDelta(t, 3.0/25.0, s.Get("technical"), 1e-9)
	assert.Equal(t, "technical", s.Primary())
}

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultLexicons())

	assert.Equal(t, "casual", c.Classify("Hey! Thanks, that was awesome lol"))
	assert.Equal(t, "formal", c.Classify("Pursuant to the aforementioned agreement, we hereby submit."))
	assert.Equal(t, General, c.Classify("The weather is mild."))
	assert.Equal(t, General, c.Classify(""))
}

func TestScore_CaseFoldedLexicon(t *testing.T) {
	c := NewClassifier(DefaultLexicons())
	assert.Greater(t, c.Score("call the api").Get("technical"), 0.0)
	assert.Greater(t, c.Score("CALL THE API").Get("technical"), 0.0)
}

func TestScore_TieGoesToFirstDeclared(t *testing.T) {
	c := NewClassifier([]Lexicon{
		{Name: "first", Terms: []string{"alpha", "beta"}},
		{Name: "second", Terms: []string{"gamma", "delta"}},
	})
	s := c.Score("alpha gamma")
	assert.Equal(t, s.Get("first"), s.Get("second"))
	assert.Equal(t, "first", s.Primary())
}

func TestScore_Ordering(t *testing.T) {
	c := NewClassifier(DefaultLexicons())
	s := c.Score("hello")
	require.Len(t, s, 3)
	assert.Equal(t, []string{"technical", "casual", "formal"}, []string{s[0].Domain, s[1].Domain, s[2].Domain})
	assert.Len(t, s.Map(), 3)
}

func TestScore_EmptyLexicon(t *testing.T) {
	c := NewClassifier([]Lexicon{{Name: "empty"}})
	assert.Equal(t, 0.0, c.Score("anything").Get("empty"))
	assert.Equal(t, General, c.Classify("anything"))
}

func TestNewClassifier_DoesNotMutateLexicons(t *testing.T) {
	lex := []Lexicon{{Name: "tech", Terms: []string{"API", "Server"}}}
	NewClassifier(lex).Score("api server")
	assert.Equal(t, []string{"API", "Server"}, lex[0].Terms)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"it", "s", "a", "c3po", "strasse"}, Tokenize("It's a C3PO—Straße!"))
}
