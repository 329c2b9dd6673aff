// Package domain labels text as technical, casual, formal or general by
// keyword-lexicon overlap.
package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// General is returned when no lexicon term occurs in the text.
const General = "general"

// Lexicon is a named keyword set. Declaration order breaks score ties.
type Lexicon struct {
	Name  string   `mapstructure:"name" json:"name"`
	Terms []string `mapstructure:"terms" json:"terms"`
}

// DefaultLexicons returns the built-in technical, casual and formal sets.
func DefaultLexicons() []Lexicon {
	return []Lexicon{
		{Name: "technical", Terms: []string{
			"algorithm", "code", "function", "variable", "database", "API",
			"server", "client", "method", "class", "object", "array", "loop",
			"iteration", "compile", "debug", "syntax", "parameter", "framework",
			"library", "module", "import", "export", "interface", "protocol",
		}},
		{Name: "casual", Terms: []string{
			"hello", "hi", "hey", "thanks", "thank you", "bye", "goodbye",
			"please", "sorry", "yeah", "yes", "no", "okay", "ok", "cool",
			"awesome", "great", "nice", "good", "bad", "lol", "omg",
		}},
		{Name: "formal", Terms: []string{
			"pursuant", "hereby", "aforementioned", "whereas", "therefore",
			"furthermore", "nevertheless", "accordingly", "respective",
			"subsequently", "notwithstanding", "henceforth", "herein",
			"hereinafter", "undersigned", "aforesaid", "therein", "thereof",
		}},
	}
}

// DomainScore is the fraction of a lexicon's terms present in the text.
type DomainScore struct {
	Domain string  `json:"domain"`
	Score  float64 `json:"score"`
}

// Scores holds one entry per lexicon in declaration order.
type Scores []DomainScore

// Get returns the score for name, or 0 when unknown.
func (s Scores) Get(name string) float64 {
	for _, d := range s {
		if d.Domain == name {
			return d.Score
		}
	}
	return 0
}

// Primary returns the highest-scoring domain; ties go to the earliest
// declared lexicon and all-zero scores give General.
func (s Scores) Primary() string {
	best, bestScore := General, 0.0
	for _, d := range s {
		if d.Score > bestScore {
			best, bestScore = d.Domain, d.Score
		}
	}
	return best
}

// Map returns the scores keyed by domain.
func (s Scores) Map() map[string]float64 {
	m := make(map[string]float64, len(s))
	for _, d := range s {
		m[d.Domain] = d.Score
	}
	return m
}

type lexiconSet struct {
	name  string
	size  int
	terms map[string]struct{}
}

// Classifier is safe for concurrent use; it never modifies the lexicons it
// was built from.
type Classifier struct {
	lexicons []lexiconSet
}

func NewClassifier(lexicons []Lexicon) *Classifier {
	sets := make([]lexiconSet, 0, len(lexicons))
	for _, lx := range lexicons {
		set := make(map[string]struct{}, len(lx.Terms))
		for _, t := range lx.Terms {
			set[fold(t)] = struct{}{}
		}
		sets = append(sets, lexiconSet{name: lx.Name, size: len(lx.Terms), terms: set})
	}
	return &Classifier{lexicons: sets}
}

// Score computes, per lexicon, the number of its terms present among the
// text's tokens divided by the lexicon size.
func (c *Classifier) Score(text string) Scores {
	tokens := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		tokens[tok] = struct{}{}
	}

	out := make(Scores, 0, len(c.lexicons))
	for _, lx := range c.lexicons {
		score := 0.0
		if lx.size > 0 {
			hits := 0
			for term := range lx.terms {
				if _, ok := tokens[term]; ok {
					hits++
				}
			}
			score = float64(hits) / float64(lx.size)
		}
		out = append(out, DomainScore{Domain: lx.name, Score: score})
	}
	return out
}

// Classify returns the primary domain of text.
func (c *Classifier) Classify(text string) string {
	return c.Score(text).Primary()
}

// Tokenize returns the case-folded alphanumeric runs of text.
func Tokenize(text string) []string {
	words := strings.FieldsFunc(fold(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	return words
}

func fold(s string) string {
	return cases.Fold().String(s)
}
