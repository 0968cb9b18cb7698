// Package textproc normalizes raw text into the token stream the fitted
// vectorizers expect.
package textproc

import (
	"regexp"
	"strings"
)

var nonLetters = regexp.MustCompile(`[^a-zA-Z]+`)

// Clean strips everything outside the Latin alphabet, lowercases, drops
// English stopwords and rejoins the remaining tokens with single spaces.
// Pure and idempotent; empty or all-stopword input yields "".
func Clean(text string) string {
	text = nonLetters.ReplaceAllString(text, " ")
	text = strings.ToLower(text)

	var kept []string
	for _, word := range strings.Fields(text) {
		if _, skip := stopwords[word]; skip {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}
