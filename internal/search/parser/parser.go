// Package parser turns raw query strings into normalized term sets. Any
// input parses to some, possibly empty, term set; there is no reject path
// for query text.
package parser

import (
	"strings"

	"github.com/jobscout/jobscout/internal/search/tokenizer"
)

// Query is the parsed user input: distinct normalized terms in first-seen
// order.
type Query struct {
	Raw   string
	Terms []string
}

// Empty reports whether the query has no terms. An empty query yields zero
// results by contract, not an error.
func (q *Query) Empty() bool {
	return len(q.Terms) == 0
}

// Parse splits the raw query on whitespace and tokenizes each segment with
// the same rules used at index time, deduplicating terms while preserving
// first-seen order.
func Parse(raw string) *Query {
	q := &Query{Raw: raw}
	seen := make(map[string]struct{})
	for _, segment := range strings.Fields(raw) {
		for _, term := range tokenizer.Tokenize(segment) {
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			q.Terms = append(q.Terms, term)
		}
	}
	return q
}
