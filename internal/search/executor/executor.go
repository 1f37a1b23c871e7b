// Package executor orchestrates the query pipeline: parse, gather
// candidates, score, rank, truncate. The whole pipeline is a single
// synchronous pass per query against an immutable index snapshot.
package executor

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/jobscout/jobscout/internal/search/index"
	"github.com/jobscout/jobscout/internal/search/parser"
	"github.com/jobscout/jobscout/internal/search/ranker"
	"github.com/jobscout/jobscout/pkg/config"
	"github.com/jobscout/jobscout/pkg/logger"
)

// Hit is one entry of the ranked result list. Only stored fields appear:
// description is searchable but never part of a payload.
type Hit struct {
	Title   string  `json:"title"`
	Company string  `json:"company"`
	Score   float64 `json:"score"`
}

// Result is the response shape consumed by the API layer. TotalResults is
// the candidate-set size before truncation.
type Result struct {
	Query        string `json:"query"`
	TotalResults int    `json:"total_results"`
	Results      []Hit  `json:"results"`
}

// Options are per-query overrides.
type Options struct {
	// Limit caps the number of returned results; <= 0 uses the configured
	// default.
	Limit int
	// MinSalary, when > 0, drops candidates whose salary_min is absent or
	// below the threshold before scoring.
	MinSalary int64
}

// Executor runs queries against index snapshots.
type Executor struct {
	params       ranker.Params
	fields       []string
	defaultLimit int
	maxResults   int
	logger       *slog.Logger
}

// New creates an Executor from the search configuration. Zero-valued BM25
// parameters fall back to the standard defaults.
func New(cfg config.SearchConfig) *Executor {
	params := ranker.Params{K1: cfg.K1, B: cfg.B}
	if params.K1 <= 0 {
		params.K1 = ranker.DefaultK1
	}
	if params.B <= 0 {
		params.B = ranker.DefaultB
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &Executor{
		params:       params,
		fields:       index.SearchFields,
		defaultLimit: defaultLimit,
		maxResults:   cfg.MaxResults,
		logger:       slog.Default().With("component", "query-executor"),
	}
}

// Search answers a raw query against the given index snapshot. Any input
// string is valid: an empty or all-stop-word query returns zero results.
func (e *Executor) Search(ctx context.Context, ix *index.Index, rawQuery string, opts Options) *Result {
	result := &Result{Query: rawQuery, Results: []Hit{}}

	q := parser.Parse(rawQuery)
	terms := e.pruneAbsent(ix, q.Terms)
	if len(terms) == 0 {
		return result
	}

	candidates := e.gatherCandidates(ix, terms, opts)
	if len(candidates) == 0 {
		return result
	}
	result.TotalResults = len(candidates)

	ranked := ranker.Rank(ix, candidates, terms, e.fields, e.params, e.clampLimit(opts.Limit))
	for _, sd := range ranked {
		stored := ix.Stored(sd.DocID)
		result.Results = append(result.Results, Hit{
			Title:   stored.Title,
			Company: stored.Company,
			Score:   roundScore(sd.Score),
		})
	}

	logger.FromContext(ctx).Debug("query executed",
		"query", rawQuery,
		"terms", terms,
		"candidates", len(candidates),
		"returned", len(result.Results),
	)
	return result
}

// pruneAbsent drops terms that occur in none of the searched fields. They
// would contribute zero score anyway; dropping them early skips needless
// posting scans without changing any final score.
func (e *Executor) pruneAbsent(ix *index.Index, terms []string) []string {
	kept := terms[:0:len(terms)]
	for _, term := range terms {
		if ix.HasTerm(term, e.fields) {
			kept = append(kept, term)
		}
	}
	return kept
}

// gatherCandidates unions the posting lists of every (term, field) pair: a
// document qualifies if it contains at least one query term in any searched
// field. The result is sorted by ascending doc ID for determinism.
func (e *Executor) gatherCandidates(ix *index.Index, terms []string, opts Options) []int {
	docSet := make(map[int]struct{})
	for _, term := range terms {
		for _, field := range e.fields {
			for _, p := range ix.Postings(term, field) {
				docSet[p.DocID] = struct{}{}
			}
		}
	}
	candidates := make([]int, 0, len(docSet))
	for docID := range docSet {
		if opts.MinSalary > 0 {
			salary, ok := ix.SalaryMin(docID)
			if !ok || salary < opts.MinSalary {
				continue
			}
		}
		candidates = append(candidates, docID)
	}
	sort.Ints(candidates)
	return candidates
}

func (e *Executor) clampLimit(limit int) int {
	if limit <= 0 {
		limit = e.defaultLimit
	}
	if e.maxResults > 0 && limit > e.maxResults {
		limit = e.maxResults
	}
	return limit
}

func roundScore(score float64) float64 {
	return math.Round(score*10000) / 10000
}
