// Package search owns the current index snapshot. The index is immutable
// once built; replacing it means building a new one off to the side and
// atomically swapping the reference, so a query in flight never observes a
// half-built index.
package search

import (
	"log/slog"
	"sync/atomic"

	"github.com/jobscout/jobscout/internal/jobs"
	"github.com/jobscout/jobscout/internal/search/index"
)

// Engine holds the current index snapshot. It starts with a built empty
// index, so queries issued before the first corpus load deterministically
// answer with zero results.
type Engine struct {
	current atomic.Pointer[index.Index]
	logger  *slog.Logger
}

// NewEngine creates an Engine with an empty index snapshot.
func NewEngine() *Engine {
	e := &Engine{
		logger: slog.Default().With("component", "search-engine"),
	}
	empty, _ := index.Build(nil)
	e.current.Store(empty)
	return e
}

// Current returns the index snapshot to run queries against. Never nil.
func (e *Engine) Current() *index.Index {
	return e.current.Load()
}

// Rebuild builds a fresh index from the job list and publishes it with a
// single reference swap. Queries running against the previous snapshot keep
// reading it unharmed.
func (e *Engine) Rebuild(jobList []jobs.Job) index.BuildReport {
	ix, report := index.Build(Documents(jobList))
	e.current.Store(ix)
	e.logger.Info("index rebuilt",
		"accepted", report.Accepted,
		"rejected", len(report.Rejected),
	)
	for _, rej := range report.Rejected {
		e.logger.Warn("document rejected", "position", rej.Position, "reason", rej.Reason)
	}
	return report
}

// Documents projects job postings onto the fixed index schema. Location,
// raw salary text, and URL are storage-only concerns and are not indexed.
func Documents(jobList []jobs.Job) []index.Document {
	docs := make([]index.Document, 0, len(jobList))
	for _, j := range jobList {
		docs = append(docs, index.Document{
			Title:       j.Title,
			Company:     j.Company,
			Description: j.Description,
			SalaryMin:   j.SalaryMin,
		})
	}
	return docs
}
