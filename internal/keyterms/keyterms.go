// Package keyterms ranks the most characteristic words of a text.
package keyterms

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/bohradivyansh-maker/translation-assistant/internal/logger"
)

// DefaultTopN is used when Extract is called with a non-positive count and
// the extractor was built without one.
const DefaultTopN = 5

var (
	// featurePattern mirrors the usual "two or more word characters" rule.
	featurePattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)
	wordPattern    = regexp.MustCompile(`[\p{L}\p{N}_]+|[^\s\p{L}\p{N}_]`)
	alnumPattern   = regexp.MustCompile(`^[\p{L}\p{N}]+$`)
)

// KeyTerm is a ranked term and its score.
type KeyTerm struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// Splitter splits text into sentence strings.
type Splitter interface {
	Texts(text string) []string
}

// Preprocessing is the token breakdown of a text.
type Preprocessing struct {
	Tokens    []string `json:"original_tokens"`
	Filtered  []string `json:"filtered_tokens"`
	NumTokens int      `json:"num_tokens"`
	NumUnique int      `json:"num_unique_tokens"`
}

type Extractor struct {
	splitter Splitter
	topN     int
	logger   *zap.Logger
}

func New(splitter Splitter, topN int, log *zap.Logger) *Extractor {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Extractor{splitter: splitter, topN: topN, logger: logger.OrNop(log)}
}

// Extract returns up to topN key terms. Texts with two or more sentences are
// ranked by summed TF-IDF weight across sentences; shorter texts fall back to
// stopword-filtered frequency counts. Any internal failure yields an empty
// result.
func (e *Extractor) Extract(text string, topN int) (terms []KeyTerm) {
	if topN <= 0 {
		topN = e.topN
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("key term extraction failed", zap.Any("panic", r))
			terms = []KeyTerm{}
		}
	}()

	sentences := e.splitter.Texts(text)
	if len(sentences) < 2 {
		return frequencies(Preprocess(text).Filtered, topN)
	}

	terms, err := tfidf(sentences, topN)
	if err != nil {
		e.logger.Error("key term extraction failed", zap.Error(err))
		return []KeyTerm{}
	}
	return terms
}

// Preprocess lower-cases and tokenises text. Filtered keeps the alphanumeric
// tokens that are not stop words.
func Preprocess(text string) Preprocessing {
	tokens := wordPattern.FindAllString(strings.ToLower(text), -1)
	unique := make(map[string]struct{}, len(tokens))
	filtered := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		unique[tok] = struct{}{}
		if alnumPattern.MatchString(tok) && !IsStopWord(tok) {
			filtered = append(filtered, tok)
		}
	}
	if tokens == nil {
		tokens = []string{}
	}
	return Preprocessing{
		Tokens:    tokens,
		Filtered:  filtered,
		NumTokens: len(tokens),
		NumUnique: len(unique),
	}
}

func frequencies(tokens []string, topN int) []KeyTerm {
	counts := make(map[string]int)
	var order []string
	for _, tok := range tokens {
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	out := make([]KeyTerm, 0, len(order))
	for _, tok := range order {
		out = append(out, KeyTerm{Term: tok, Score: float64(counts[tok])})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

func analyze(doc string) []string {
	var out []string
	for _, tok := range featurePattern.FindAllString(strings.ToLower(doc), -1) {
		if !IsStopWord(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// tfidf treats each sentence as a document: raw term counts, smoothed idf
// ln((1+n)/(1+df))+1, L2-normalised rows, and a vocabulary capped to the
// topN most frequent terms across the corpus.
func tfidf(docs []string, topN int) ([]KeyTerm, error) {
	counts := make([]map[string]int, len(docs))
	corpus := make(map[string]int)
	for i, doc := range docs {
		counts[i] = make(map[string]int)
		for _, tok := range analyze(doc) {
			counts[i][tok]++
			corpus[tok]++
		}
	}
	if len(corpus) == 0 {
		return nil, fmt.Errorf("empty vocabulary: documents only contain stop words")
	}

	vocab := make([]string, 0, len(corpus))
	for term := range corpus {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)
	if len(vocab) > topN {
		sort.SliceStable(vocab, func(i, j int) bool { return corpus[vocab[i]] > corpus[vocab[j]] })
		vocab = vocab[:topN]
		sort.Strings(vocab)
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(vocab))
	for _, term := range vocab {
		df := 0
		for _, c := range counts {
			if c[term] > 0 {
				df++
			}
		}
		idf[term] = math.Log((1+n)/(1+float64(df))) + 1
	}

	sums := make(map[string]float64, len(vocab))
	row := make([]float64, len(vocab))
	for _, c := range counts {
		norm := 0.0
		for j, term := range vocab {
			row[j] = float64(c[term]) * idf[term]
			norm += row[j] * row[j]
		}
		if norm == 0 {
			continue
		}
		norm = math.Sqrt(norm)
		for j, term := range vocab {
			sums[term] += row[j] / norm
		}
	}

	out := make([]KeyTerm, 0, len(vocab))
	for _, term := range vocab {
		out = append(out, KeyTerm{Term: term, Score: sums[term]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}
