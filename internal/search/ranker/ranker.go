// Package ranker scores candidate documents with BM25 and orders them for
// presentation.
package ranker

import (
	"math"
	"sort"

	"github.com/jobscout/jobscout/internal/search/index"
)

// Default BM25 parameters: k1 controls term-frequency saturation, b controls
// length-normalization strength.
const (
	DefaultK1 = 1.2
	DefaultB  = 0.75
)

// Params are the BM25 tuning knobs.
type Params struct {
	K1 float64
	B  float64
}

// DefaultParams returns the standard k1/b values.
func DefaultParams() Params {
	return Params{K1: DefaultK1, B: DefaultB}
}

// ScoredDoc pairs a document with its relevance score.
type ScoredDoc struct {
	DocID int
	Score float64
}

// Score computes the BM25 score of one document for the given query terms,
// summing contributions unweighted across the searched fields. A document
// containing none of the terms scores exactly 0.
func Score(ix *index.Index, docID int, terms []string, fields []string, p Params) float64 {
	var score float64
	totalDocs := ix.DocCount()
	for _, field := range fields {
		docLen := float64(ix.DocLength(docID, field))
		avgLen := ix.AvgFieldLength(field)
		for _, term := range terms {
			tf := ix.TermFreq(term, field, docID)
			if tf == 0 {
				continue
			}
			idf := computeIDF(totalDocs, ix.DocFreq(term, field))
			score += idf * computeTFNorm(float64(tf), docLen, avgLen, p)
		}
	}
	return score
}

// Rank scores every candidate and returns them ordered by descending score,
// ascending doc ID on ties, truncated to limit (limit <= 0 means no
// truncation). Scoring one candidate has no dependency on any other, so the
// input order of candidates does not affect the result.
func Rank(ix *index.Index, candidates []int, terms []string, fields []string, p Params, limit int) []ScoredDoc {
	ranked := make([]ScoredDoc, 0, len(candidates))
	for _, docID := range candidates {
		ranked = append(ranked, ScoredDoc{
			DocID: docID,
			Score: Score(ix, docID, terms, fields, p),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].DocID < ranked[j].DocID
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// computeIDF applies the +1-smoothed formulation, which stays positive even
// when a term occurs in every document.
func computeIDF(totalDocs, docFreq int) float64 {
	numerator := float64(totalDocs) - float64(docFreq) + 0.5
	denominator := float64(docFreq) + 0.5
	return math.Log(numerator/denominator + 1)
}

// computeTFNorm applies term-frequency saturation with length normalization.
// A field with no average length (no document carries it) gets a neutral
// length factor.
func computeTFNorm(tf, docLen, avgLen float64, p Params) float64 {
	lengthRatio := 1.0
	if avgLen > 0 {
		lengthRatio = docLen / avgLen
	}
	return tf * (p.K1 + 1) / (tf + p.K1*(1-p.B+p.B*lengthRatio))
}
