package trick

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxSpelledWord is the longest single word that is spelled out letter by
// letter ("NASA", "VIBGYOR") instead of being treated as one word.
const maxSpelledWord = 12

// Input is a parsed trick request.
type Input struct {
	// Topic is set in topic mode and prefixes the result.
	Topic   string
	Letters []string
}

// Parse reduces raw input to letters.
//
//	"A,B,C"                  -> A B C
//	"ABC"                    -> A B C
//	"Apple, Banana"          -> A B
//	"Rainbow, V, I, B"       -> topic Rainbow, V I B
//	"Rainbow: violet indigo" -> topic Rainbow, V I
//	"red orange yellow"      -> R O Y
func Parse(raw string) Input {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Input{}
	}

	if topic, rest, ok := strings.Cut(raw, ":"); ok && strings.TrimSpace(topic) != "" {
		return Input{
			Topic:   strings.TrimSpace(topic),
			Letters: initials(splitWords(rest)),
		}
	}

	if strings.Contains(raw, ",") {
		parts := splitCommas(raw)
		if len(parts) > 1 && utf8.RuneCountInString(parts[0]) > 1 && hasSingleRune(parts[1:]) {
			var words []string
			for _, p := range parts[1:] {
				words = append(words, strings.Fields(p)...)
			}
			return Input{Topic: parts[0], Letters: initials(words)}
		}
		return Input{Letters: initials(parts)}
	}

	words := strings.Fields(raw)
	if len(words) == 1 && isAlpha(raw) && utf8.RuneCountInString(raw) <= maxSpelledWord {
		letters := make([]string, 0, len(raw))
		for _, r := range raw {
			letters = append(letters, string(unicode.ToUpper(r)))
		}
		return Input{Letters: letters}
	}
	return Input{Letters: initials(words)}
}

func splitCommas(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// initials upper-cases the first letter or digit of each part.
func initials(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		for _, r := range p {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				out = append(out, string(unicode.ToUpper(r)))
				break
			}
		}
	}
	return out
}

func hasSingleRune(parts []string) bool {
	for _, p := range parts {
		if utf8.RuneCountInString(p) == 1 {
			return true
		}
	}
	return false
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
