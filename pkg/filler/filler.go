// Package filler substitutes {placeholder} tokens in sentence templates with
// words drawn from a wordbank.
//
// Each occurrence is resolved independently, in this order:
//
//  1. an explicit slot binding passed by the caller (entity names, topic);
//  2. a closed-class grammar helper (article, preposition, conjunction,
//     pronoun), picked from the whole list;
//  3. an open-class part of speech, picked from the union of the words under
//     every input letter; plural tokens ("nouns") pluralize the pick;
//  4. a flat wordbank category with the token's name;
//  5. otherwise the literal marker "<token>".
//
// Filling never fails: missing data degrades to markers.
package filler

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jinzhu/inflection"

	"mnemo/pkg/wordbank"
)

var placeholderRX = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Filler fills templates. The zero value uses the global random source.
type Filler struct {
	rng *rand.Rand
}

// New returns a Filler drawing from rng; nil uses the global source.
func New(rng *rand.Rand) *Filler {
	return &Filler{rng: rng}
}

// Placeholders lists the tokens of template in order of appearance.
func Placeholders(template string) []string {
	matches := placeholderRX.FindAllStringSubmatch(template, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// Fill substitutes every placeholder of template.
func (f *Filler) Fill(template string, wb *wordbank.Wordbank, letters []string) string {
	return f.FillSlots(template, wb, letters, nil)
}

// FillSlots is Fill with caller-bound slots, matched case-insensitively.
func (f *Filler) FillSlots(template string, wb *wordbank.Wordbank, letters []string, slots map[string]string) string {
	bound := make(map[string]string, len(slots))
	for k, v := range slots {
		bound[strings.ToLower(k)] = v
	}

	return placeholderRX.ReplaceAllStringFunc(template, func(m string) string {
		token := m[1 : len(m)-1]
		word, ok := f.resolve(token, wb, letters, bound)
		if !ok {
			return "<" + token + ">"
		}
		if startsUpper(token) {
			word = capitalize(word)
		}
		return word
	})
}

func (f *Filler) resolve(token string, wb *wordbank.Wordbank, letters []string, bound map[string]string) (string, bool) {
	key := strings.ToLower(token)
	if v, ok := bound[key]; ok {
		return v, true
	}

	if pos, plural, ok := wordbank.ParsePartOfSpeech(key); ok {
		if !pos.OpenClass() {
			return f.pick(wb.All(pos))
		}
		word, ok := f.pick(wb.Union(pos, letters))
		if ok && plural {
			word = inflection.Plural(word)
		}
		return word, ok
	}

	return f.pick(wb.Flat(key))
}

func (f *Filler) pick(words []string) (string, bool) {
	if len(words) == 0 {
		return "", false
	}
	return words[f.intN(len(words))], true
}

func (f *Filler) intN(n int) int {
	if f == nil || f.rng == nil {
		return rand.IntN(n)
	}
	return f.rng.IntN(n)
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
