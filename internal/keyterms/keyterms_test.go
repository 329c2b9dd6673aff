package keyterms

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type splitFunc func(string) []string

func (f splitFunc) Texts(text string) []string { return f(text) }

func byPeriod(text string) []string {
	var out []string
	for _, s := range strings.Split(text, ".") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s+".")
		}
	}
	return out
}

func TestExtract_TFIDF(t *testing.T) {
	e := New(splitFunc(byPeriod), 0, nil)
	terms := e.Extract("The cat sat. The cat ran.", 5)

	require.Len(t, terms, 3)
	assert.Equal(t, "cat", terms[0].Term)
	assert.Equal(t, "ran", terms[1].Term)
	assert.Equal(t, "sat", terms[2].Term)

	idf := math.Log(3.0/2.0) + 1
	norm := math.Sqrt(1 + idf*idf)
	assert.InDelta(t, 2/norm, terms[0].Score, 1e-9)
	assert.InDelta(t, idf/norm, terms[1].Score, 1e-9)
}

func TestExtract_MaxFeaturesByCorpusFrequency(t *testing.T) {
	e := New(splitFunc(byPeriod), 0, nil)
	terms := e.Extract("Server logs grow. Server restarts. Server logs rotate.", 2)

	require.Len(t, terms, 2)
	got := []string{terms[0].Term, terms[1].Term}
	assert.ElementsMatch(t, []string{"server", "logs"}, got)
}

func TestExtract_SingleSentenceFallsBackToFrequency(t *testing.T) {
	e := New(splitFunc(byPeriod), 0, nil)
	terms := e.Extract("data data model", 5)

	require.Len(t, terms, 2)
	assert.Equal(t, KeyTerm{Term: "data", Score: 2}, terms[0])
	assert.Equal(t, KeyTerm{Term: "model", Score: 1}, terms[1])
}

func TestExtract_DefaultTopN(t *testing.T) {
	e := New(splitFunc(byPeriod), 2, nil)
	terms := e.Extract("alpha beta gamma delta", 0)
	assert.Len(t, terms, 2)
	assert.Equal(t, "alpha", terms[0].Term)
}

func TestExtract_OnlyStopWords(t *testing.T) {
	e := New(splitFunc(byPeriod), 0, nil)
	assert.Empty(t, e.Extract("The and. Of the.", 5))
}

func TestExtract_RecoversFromPanic(t *testing.T) {
	e := New(splitFunc(func(string) []string { panic("boom") }), 0, nil)
	terms := e.Extract("anything", 5)
	assert.NotNil(t, terms)
	assert.Empty(t, terms)
}

func TestPreprocess(t *testing.T) {
	p := Preprocess("The cat, the cat!")

	assert.Equal(t, []string{"the", "cat", ",", "the", "cat", "!"}, p.Tokens)
	assert.Equal(t, []string{"cat", "cat"}, p.Filtered)
	assert.Equal(t, 6, p.NumTokens)
	assert.Equal(t, 4, p.NumUnique)
}

func TestIsStopWord(t *testing.T) {
	assert.True(t, IsStopWord("the"))
	assert.False(t, IsStopWord("translation"))
}
