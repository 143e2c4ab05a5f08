// Package token splits text into normalized tokens for the inverted index.
package token

import "strings"

// Tokenize lower-cases text and splits it on any run of non-alphanumeric
// characters. Both indexing and query parsing use this, so a token looked
// up at retrieval time always matches the form it was indexed under.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !isAlnum(r)
	})
}

// Unique returns the distinct tokens of text in first-seen order.
func Unique(text string) []string {
	seen := map[string]bool{}
	var out []string
	for _, tok := range Tokenize(text) {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
