package ranker

import (
	"math"
	"testing"

	"github.com/jobscout/jobscout/internal/search/index"
)

const scoreTolerance = 1e-9

func buildIndex(t *testing.T, docs []index.Document) *index.Index {
	t.Helper()
	ix, report := index.Build(docs)
	if len(report.Rejected) != 0 {
		t.Fatalf("test corpus rejected: %+v", report.Rejected)
	}
	return ix
}

func TestScoreMatchesFormula(t *testing.T) {
	// Two documents with equal title length, so the length ratio is exactly
	// 1 and the term-frequency component collapses to 1. The score of the
	// single match is then plain IDF: ln((2-1+0.5)/(1+0.5) + 1) = ln 2.
	ix := buildIndex(t, []index.Document{
		{Title: "go engineer"},
		{Title: "rust engineer"},
	})
	got := Score(ix, 0, []string{"go"}, []string{index.FieldTitle}, DefaultParams())
	want := math.Log(2)
	if math.Abs(got-want) > scoreTolerance {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestScoreSumsAcrossFields(t *testing.T) {
	// "go" matches doc0 in both searched fields; each field contributes
	// ln 2 independently (both fields have length 2 and average 2).
	ix := buildIndex(t, []index.Document{
		{Title: "go engineer", Description: "go services"},
		{Title: "rust engineer", Description: "rust services"},
	})
	got := Score(ix, 0, []string{"go"}, index.SearchFields, DefaultParams())
	want := 2 * math.Log(2)
	if math.Abs(got-want) > scoreTolerance {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestScoreNonMatchingIsZero(t *testing.T) {
	ix := buildIndex(t, []index.Document{
		{Title: "go engineer"},
		{Title: "rust engineer"},
	})
	if got := Score(ix, 1, []string{"go"}, index.SearchFields, DefaultParams()); got != 0 {
		t.Errorf("Score of non-matching document = %v, want exactly 0", got)
	}
}

func TestScoreTermFrequencySaturation(t *testing.T) {
	// Same document length, same term rarity; only the term frequency
	// differs. More occurrences must score strictly higher, but
	// sublinearly: tripling tf must not triple the score.
	ix := buildIndex(t, []index.Document{
		{Title: "go go go pad pad"},
		{Title: "go pad pad pad pad"},
	})
	p := DefaultParams()
	repeated := Score(ix, 0, []string{"go"}, []string{index.FieldTitle}, p)
	single := Score(ix, 1, []string{"go"}, []string{index.FieldTitle}, p)
	if repeated <= single {
		t.Errorf("tf=3 score %v not above tf=1 score %v", repeated, single)
	}
	if repeated >= 3*single {
		t.Errorf("tf=3 score %v grew linearly over tf=1 score %v", repeated, single)
	}
}

func TestScoreRareTermsWeighMore(t *testing.T) {
	// doc0 contains both a corpus-wide term and a unique one, at equal
	// term frequency and document length.
	ix := buildIndex(t, []index.Document{
		{Title: "common rare"},
		{Title: "common alpha"},
		{Title: "common beta"},
	})
	p := DefaultParams()
	rare := Score(ix, 0, []string{"rare"}, []string{index.FieldTitle}, p)
	common := Score(ix, 0, []string{"common"}, []string{index.FieldTitle}, p)
	if rare <= common {
		t.Errorf("rare-term score %v not above common-term score %v", rare, common)
	}
	// The smoothed IDF keeps even a term present in every document
	// contributing positively.
	if common <= 0 {
		t.Errorf("ubiquitous-term score = %v, want > 0", common)
	}
}

func TestScoreLengthNormalization(t *testing.T) {
	// Equal term frequency; the shorter field must score higher.
	ix := buildIndex(t, []index.Document{
		{Title: "go"},
		{Title: "go pad pad pad"},
	})
	p := DefaultParams()
	short := Score(ix, 0, []string{"go"}, []string{index.FieldTitle}, p)
	long := Score(ix, 1, []string{"go"}, []string{index.FieldTitle}, p)
	if short <= long {
		t.Errorf("short-field score %v not above long-field score %v", short, long)
	}
}

func TestComputeIDFPositive(t *testing.T) {
	for _, docFreq := range []int{1, 5, 10} {
		if idf := computeIDF(10, docFreq); idf <= 0 {
			t.Errorf("computeIDF(10, %d) = %v, want > 0", docFreq, idf)
		}
	}
}

func TestRankOrderingAndTies(t *testing.T) {
	// Three byte-identical titles score identically; ties break by
	// ascending doc ID regardless of candidate input order.
	ix := buildIndex(t, []index.Document{
		{Title: "go dev"},
		{Title: "go dev"},
		{Title: "go dev"},
	})
	ranked := Rank(ix, []int{2, 0, 1}, []string{"go"}, []string{index.FieldTitle}, DefaultParams(), 0)
	if len(ranked) != 3 {
		t.Fatalf("len(ranked) = %d, want 3", len(ranked))
	}
	for i, want := range []int{0, 1, 2} {
		if ranked[i].DocID != want {
			t.Errorf("ranked[%d].DocID = %d, want %d", i, ranked[i].DocID, want)
		}
	}
	if ranked[0].Score != ranked[2].Score {
		t.Errorf("identical documents scored differently: %v vs %v", ranked[0].Score, ranked[2].Score)
	}
}

func TestRankLimit(t *testing.T) {
	ix := buildIndex(t, []index.Document{
		{Title: "go dev"},
		{Title: "go dev"},
		{Title: "go dev"},
	})
	terms := []string{"go"}
	fields := []string{index.FieldTitle}
	if got := Rank(ix, []int{0, 1, 2}, terms, fields, DefaultParams(), 2); len(got) != 2 {
		t.Errorf("limit=2 returned %d results", len(got))
	}
	if got := Rank(ix, []int{0, 1, 2}, terms, fields, DefaultParams(), 10); len(got) != 3 {
		t.Errorf("limit above candidate count returned %d results", len(got))
	}
	if got := Rank(ix, []int{0, 1, 2}, terms, fields, DefaultParams(), 0); len(got) != 3 {
		t.Errorf("limit=0 truncated to %d results", len(got))
	}
}
