// Package placeholder protects named entities during translation by
// replacing every occurrence with a numbered token that translators pass
// through untouched. After translation, Restore substitutes the tokens back.
//
// Tokens are delimited by private-use code points (U+E000, U+E001) so they
// cannot collide with natural text.
package placeholder

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Open and Close delimit every token.
const (
	Open  = '\uE000'
	Close = '\uE001'

	tokenOpen  = string(Open)
	tokenClose = string(Close)
)

var reToken = regexp.MustCompile(tokenOpen + `(\d+)` + tokenClose)

// Token returns the placeholder for the entity at ordinal i.
func Token(i int) string {
	return fmt.Sprintf("%s%d%s", tokenOpen, i, tokenClose)
}

type segment struct {
	text      string
	protected bool
}

// Protect replaces all literal occurrences of each entity, in the order
// given, with the token for its position in entities. Text already replaced
// by an earlier entity is never rescanned, so when one entity contains
// another the caller must list the longer one first. Entities absent from
// text get no token. The returned map goes from token to entity.
func Protect(text string, entities []string) (string, map[string]string) {
	tokens := make(map[string]string)
	segs := []segment{{text: text}}

	for i, ent := range entities {
		if ent == "" {
			continue
		}
		tok := Token(i)
		var next []segment
		found := false
		for _, s := range segs {
			if s.protected || !strings.Contains(s.text, ent) {
				next = append(next, s)
				continue
			}
			found = true
			parts := strings.Split(s.text, ent)
			for j, p := range parts {
				if j > 0 {
					next = append(next, segment{text: tok, protected: true})
				}
				if p != "" {
					next = append(next, segment{text: p})
				}
			}
		}
		segs = next
		if found {
			tokens[tok] = ent
		}
	}

	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.text)
	}
	return b.String(), tokens
}

// Restore replaces every known token in text with its entity in a single
// pass. Unknown tokens are left as they are.
func Restore(text string, tokens map[string]string) string {
	if len(tokens) == 0 {
		return text
	}
	return reToken.ReplaceAllStringFunc(text, func(tok string) string {
		if ent, ok := tokens[tok]; ok {
			return ent
		}
		return tok
	})
}

// Missing returns the entities whose tokens no longer appear in text,
// ordered by ordinal.
func Missing(text string, tokens map[string]string) []string {
	type pair struct {
		ord int
		ent string
	}
	var lost []pair
	for tok, ent := range tokens {
		if strings.Contains(text, tok) {
			continue
		}
		m := reToken.FindStringSubmatch(tok)
		ord := 0
		if len(m) == 2 {
			ord, _ = strconv.Atoi(m[1])
		}
		lost = append(lost, pair{ord: ord, ent: ent})
	}
	sort.Slice(lost, func(i, j int) bool { return lost[i].ord < lost[j].ord })

	out := make([]string, len(lost))
	for i, p := range lost {
		out[i] = p.ent
	}
	return out
}

// Entities lists the protected entities ordered by ordinal.
func Entities(tokens map[string]string) []string {
	ords := make([]int, 0, len(tokens))
	byOrd := make(map[int]string, len(tokens))
	for tok, ent := range tokens {
		m := reToken.FindStringSubmatch(tok)
		if len(m) != 2 {
			continue
		}
		ord, _ := strconv.Atoi(m[1])
		ords = append(ords, ord)
		byOrd[ord] = ent
	}
	sort.Ints(ords)

	out := make([]string, len(ords))
	for i, o := range ords {
		out[i] = byOrd[o]
	}
	return out
}
