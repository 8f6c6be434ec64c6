package schema

import (
	"strings"
	"unicode"
)

// DescriptionUnavailable marks an abbreviation whose expansion was
// synthesized locally instead of looked up.
const DescriptionUnavailable = "Description not available."

type Abbreviation struct {
	Abbr        string `json:"abbr"`
	FullForm    string `json:"full_form"`
	Description string `json:"description"`
}

// Key is the case-insensitive identity of the entry.
func (a Abbreviation) Key() string {
	return strings.ToUpper(strings.TrimSpace(a.Abbr))
}

// NormalizeAbbr removes separators and upper-cases the query, so "n.a.s.a"
// and "N A S A" both become "NASA".
func NormalizeAbbr(query string) string {
	var b strings.Builder
	b.Grow(len(query))
	for _, r := range query {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

type TermsRequest struct {
	Terms []string `json:"terms"`
}

type FetchedResponse struct {
	Fetched []Abbreviation `json:"fetched"`
}
