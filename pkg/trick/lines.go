package trick

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"mnemo/pkg/entities"
	"mnemo/pkg/utils"
	"mnemo/pkg/wordbank"
)

// fuzzyThreshold is the minimum similarity for a line key to count as the
// same name ("Dhoni" vs "Dhonii").
const fuzzyThreshold = 0.8

var defaultLines = []string{
	"Yaad rakhna, yeh line kabhi nahi bhoolegi!",
	"Remember them together and the list stays with you.",
	"Ek baar padho, hamesha yaad raho.",
	"Say it out loud twice and it sticks.",
	"Picture them in a row and you'll never forget.",
}

// findLine looks up the fixed lines of e. Keys of lines are lower-cased
// names. Exact matches on the display or full name win over prefix and
// substring matches, which win over near spellings.
func findLine(lines map[string][]string, e entities.Entity, display string) ([]string, bool) {
	if len(lines) == 0 {
		return nil, false
	}

	var targets []string
	for _, t := range []string{display, e.FullName(), e.Name} {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !slices.Contains(targets, t) {
			targets = append(targets, t)
		}
	}

	for _, t := range targets {
		if l, ok := lines[t]; ok {
			return l, true
		}
	}

	keys := make([]string, 0, len(lines))
	for k := range lines {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, t := range targets {
		for _, k := range keys {
			if strings.HasPrefix(k, t) || strings.Contains(k, t) || strings.Contains(t, k) {
				return lines[k], true
			}
		}
	}

	best, bestScore := "", 0.0
	for _, t := range targets {
		for _, k := range keys {
			if score := utils.Similarity(t, k); score > bestScore {
				best, bestScore = k, score
			}
		}
	}
	if bestScore >= fuzzyThreshold {
		return lines[best], true
	}
	return nil, false
}

var ruleOrder = []wordbank.PartOfSpeech{wordbank.Noun, wordbank.Verb, wordbank.Adjective, wordbank.Adverb}

// ruleSentence builds a fixed-shape sentence when no templates exist. Letters
// rotate through noun, verb, adjective and adverb; a letter without words
// stands in for itself.
func ruleSentence(wb *wordbank.Wordbank, letters []string, lang string, intN func(int) int) string {
	picked := make(map[wordbank.PartOfSpeech]string, len(ruleOrder))
	for i, l := range letters {
		pos := ruleOrder[i%len(ruleOrder)]
		if words := wb.Words(pos, l); len(words) > 0 {
			picked[pos] = words[intN(len(words))]
		} else {
			picked[pos] = l
		}
	}

	noun, verb := picked[wordbank.Noun], picked[wordbank.Verb]
	adj, adv := picked[wordbank.Adjective], picked[wordbank.Adverb]

	var s string
	switch strings.ToLower(lang) {
	case "hinglish":
		s = "Woh " + adj + " " + noun + " " + verb + " karta hai " + adv
	default:
		if verb != "" {
			verb += "s"
		}
		s = "The " + adj + " " + noun + " " + verb + " " + adv + "."
	}
	s = strings.Join(strings.Fields(s), " ")
	return sentenceCase(strings.ReplaceAll(s, " .", "."))
}

// sentenceCase upper-cases the first letter and lower-cases the rest.
func sentenceCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
