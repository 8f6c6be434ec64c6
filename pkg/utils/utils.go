// Package utils holds small text and file helpers shared by the service
// packages.
package utils

import (
	"strings"
	"unicode/utf8"
)

// Similarity scores two strings between 0 and 1 by edit distance, ignoring
// case and surrounding space. Identical strings score 1.
func Similarity(a, b string) float64 {
	ar := []rune(strings.ToLower(strings.TrimSpace(a)))
	br := []rune(strings.ToLower(strings.TrimSpace(b)))
	longest := max(len(ar), len(br))
	if longest == 0 {
		return 1
	}
	return 1 - float64(editDistance(ar, br))/float64(longest)
}

// editDistance is the Levenshtein distance over runes using one row.
func editDistance(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			above := row[j]
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			row[j] = min(row[j]+1, row[j-1]+1, diag+cost)
			diag = above
		}
	}
	return row[len(b)]
}

// Truncate shortens s to n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// ContainsFold reports whether s contains any of subs, ignoring case. Empty
// subs never match.
func ContainsFold(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// CleanJSON unwraps a markdown code fence around a model's JSON answer.
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	body, ok := strings.CutPrefix(s, "```")
	if !ok {
		return s
	}
	// Drop the language tag line, if any.
	if _, rest, found := strings.Cut(body, "\n"); found {
		body = rest
	}
	body = strings.TrimSpace(body)
	body, _ = strings.CutSuffix(body, "```")
	return strings.TrimSpace(body)
}

// StripThink removes everything up to the closing tag of a <think> block.
func StripThink(s string) string {
	if !strings.Contains(s, "<think>") {
		return strings.TrimSpace(s)
	}
	if i := strings.LastIndex(s, "</think>"); i >= 0 {
		s = s[i+len("</think>"):]
	}
	return strings.TrimSpace(s)
}
