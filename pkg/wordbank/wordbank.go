// Package wordbank holds letter-indexed word lists grouped by part of speech
// and normalizes the loosely shaped JSON files they are stored in.
package wordbank

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jinzhu/inflection"
)

type PartOfSpeech string

const (
	Noun        PartOfSpeech = "noun"
	Verb        PartOfSpeech = "verb"
	Adjective   PartOfSpeech = "adjective"
	Adverb      PartOfSpeech = "adverb"
	Article     PartOfSpeech = "article"
	Preposition PartOfSpeech = "preposition"
	Conjunction PartOfSpeech = "conjunction"
	Pronoun     PartOfSpeech = "pronoun"
)

var partsOfSpeech = []PartOfSpeech{Noun, Verb, Adjective, Adverb, Article, Preposition, Conjunction, Pronoun}

// OpenClass reports whether words of this part of speech are chosen by letter.
func (p PartOfSpeech) OpenClass() bool {
	switch p {
	case Noun, Verb, Adjective, Adverb:
		return true
	}
	return false
}

// ParsePartOfSpeech maps "Nouns", "noun", "ADJECTIVES" and friends to the
// canonical part of speech. The second result reports whether the name was
// plural.
func ParsePartOfSpeech(name string) (PartOfSpeech, bool, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "", false, false
	}
	for _, p := range partsOfSpeech {
		if key == string(p) {
			return p, false, true
		}
	}
	singular := inflection.Singular(key)
	if singular != key {
		for _, p := range partsOfSpeech {
			if singular == string(p) {
				return p, true, true
			}
		}
	}
	return "", false, false
}

// Wordbank is the canonical, read-only form of a wordbank file.
type Wordbank struct {
	letters map[PartOfSpeech]map[string][]string
	flat    map[string][]string
}

func New() *Wordbank {
	return &Wordbank{
		letters: make(map[PartOfSpeech]map[string][]string),
		flat:    make(map[string][]string),
	}
}

// Add appends words for a part of speech under their letter.
func (w *Wordbank) Add(pos PartOfSpeech, letter string, words ...string) {
	letter = normalizeLetter(letter)
	for _, word := range words {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		l := letter
		if l == "" {
			l = normalizeLetter(word)
		}
		if l == "" {
			continue
		}
		if w.letters[pos] == nil {
			w.letters[pos] = make(map[string][]string)
		}
		w.letters[pos][l] = append(w.letters[pos][l], word)
	}
}

// AddFlat appends words to a category that is not indexed by letter.
func (w *Wordbank) AddFlat(category string, words ...string) {
	category = strings.ToLower(strings.TrimSpace(category))
	for _, word := range words {
		if word = strings.TrimSpace(word); word != "" {
			w.flat[category] = append(w.flat[category], word)
		}
	}
}

// Words returns the words of pos starting with letter.
func (w *Wordbank) Words(pos PartOfSpeech, letter string) []string {
	if w == nil {
		return nil
	}
	return w.letters[pos][normalizeLetter(letter)]
}

// Union collects the words of pos for every letter, in letter order.
func (w *Wordbank) Union(pos PartOfSpeech, letters []string) []string {
	var out []string
	seen := make(map[string]bool, len(letters))
	for _, l := range letters {
		l = normalizeLetter(l)
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, w.Words(pos, l)...)
	}
	return out
}

// All returns every word of pos regardless of letter.
func (w *Wordbank) All(pos PartOfSpeech) []string {
	if w == nil {
		return nil
	}
	byLetter := w.letters[pos]
	keys := make([]string, 0, len(byLetter))
	for k := range byLetter {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var out []string
	for _, k := range keys {
		out = append(out, byLetter[k]...)
	}
	return out
}

// Flat returns a non-letter-keyed category.
func (w *Wordbank) Flat(category string) []string {
	if w == nil {
		return nil
	}
	return w.flat[strings.ToLower(strings.TrimSpace(category))]
}

// HasFlat reports whether the category exists.
func (w *Wordbank) HasFlat(category string) bool {
	return len(w.Flat(category)) > 0
}

func (w *Wordbank) Empty() bool {
	return w == nil || (len(w.letters) == 0 && len(w.flat) == 0)
}

// UnmarshalJSON performs the normalization pass: part-of-speech keys in any
// casing or number, letter-keyed objects or flat lists. Unknown keys become
// flat categories.
func (w *Wordbank) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("wordbank: %w", err)
	}

	nw := New()
	for key, value := range raw {
		pos, _, isPOS := ParsePartOfSpeech(key)

		var list []string
		if err := json.Unmarshal(value, &list); err == nil {
			if isPOS {
				nw.Add(pos, "", list...)
			} else {
				nw.AddFlat(key, list...)
			}
			continue
		}

		var byLetter map[string][]string
		if err := json.Unmarshal(value, &byLetter); err != nil {
			return fmt.Errorf("wordbank: key %q: expected a list or a letter map", key)
		}
		for letter, words := range byLetter {
			if isPOS {
				nw.Add(pos, letter, words...)
			} else {
				nw.AddFlat(key, words...)
			}
		}
	}

	*w = *nw
	return nil
}

func normalizeLetter(s string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(s))
	if r == utf8.RuneError || !unicode.IsLetter(r) && !unicode.IsDigit(r) {
		return ""
	}
	return string(unicode.ToUpper(r))
}
