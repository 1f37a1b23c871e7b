// Package tokenizer provides text tokenisation for the search engine. It
// lower-cases input, splits on any rune that is not an ASCII letter or digit,
// and removes stop-words. The same rules apply at index and query time so the
// two sides stay consistent.
package tokenizer

import "strings"

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {},
	"to": {}, "in": {}, "for": {}, "with": {}, "on": {}, "at": {},
}

// Tokenize breaks text into a slice of lowercased terms with stop-words
// removed. It is pure and deterministic for identical input.
func Tokenize(text string) []string {
	text = strings.ToLower(text)
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !isASCIIAlnum(r)
	})
	terms := make([]string, 0, len(words))
	for _, word := range words {
		if _, isStop := stopWords[word]; isStop {
			continue
		}
		terms = append(terms, word)
	}
	return terms
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
