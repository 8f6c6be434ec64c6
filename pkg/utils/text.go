package utils

import (
	"strings"
	"unicode"

	"github.com/aryann/difflib"
)

type tokenKind int

const (
	spaceToken tokenKind = iota
	wordToken
	punctToken
)

func kindOf(r rune) tokenKind {
	switch {
	case unicode.IsSpace(r):
		return spaceToken
	case unicode.IsLetter(r), unicode.IsNumber(r), r == '_', r == '-', r == '\'':
		return wordToken
	}
	return punctToken
}

// Tokens splits s into runs of words, whitespace and punctuation.
// Concatenating the result gives back s.
func Tokens(s string) []string {
	var out []string
	start, prev := 0, tokenKind(-1)
	for i, r := range s {
		k := kindOf(r)
		if prev >= 0 && k != prev {
			out = append(out, s[start:i])
			start = i
		}
		prev = k
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// StripEcho removes a leading echo of prompt from out. Completion models
// often repeat the prompt, sometimes slightly edited, before answering;
// everything up to the last token shared with the prompt is dropped.
func StripEcho(prompt, out string) string {
	if prompt == "" || out == "" {
		return strings.TrimSpace(out)
	}
	if rest, ok := strings.CutPrefix(out, prompt); ok {
		return strings.TrimSpace(rest)
	}

	diff := difflib.Diff(Tokens(prompt), Tokens(out))

	lastShared, shared, run := -1, 0, 0
	seenWord := false
	for i, d := range diff {
		if d.Delta == difflib.LeftOnly || !hasWord(d.Payload) {
			continue
		}
		if !seenWord && d.Delta != difflib.Common {
			return strings.TrimSpace(out)
		}
		seenWord = true
		if d.Delta == difflib.RightOnly {
			// Three new words in a row means the answer has started.
			if run++; run >= 3 {
				break
			}
			continue
		}
		run = 0
		shared++
		lastShared = i
	}
	if lastShared < 0 || shared*4 < wordCount(prompt)*3 {
		return strings.TrimSpace(out)
	}

	var b strings.Builder
	for _, d := range diff[lastShared+1:] {
		if d.Delta != difflib.LeftOnly {
			b.WriteString(d.Payload)
		}
	}
	return strings.TrimSpace(b.String())
}

func wordCount(s string) int {
	n := 0
	for _, t := range Tokens(s) {
		if hasWord(t) {
			n++
		}
	}
	return n
}

func hasWord(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsNumber(r)
	}) >= 0
}
