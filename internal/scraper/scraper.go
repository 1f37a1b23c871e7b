// Package scraper fetches remote-job category listing pages and extracts
// the job postings they contain. Pages are fetched concurrently with
// bounded parallelism; a page that keeps failing is skipped rather than
// failing the whole run.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/jobscout/jobscout/internal/jobs"
	"github.com/jobscout/jobscout/pkg/config"
	"github.com/jobscout/jobscout/pkg/resilience"
)

// Scraper collects job postings from the configured listing pages.
type Scraper struct {
	cfg    config.ScraperConfig
	client *http.Client
	logger *slog.Logger
}

// New creates a Scraper from the configuration.
func New(cfg config.ScraperConfig) *Scraper {
	return &Scraper{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.FetchTimeout},
		logger: slog.Default().With("component", "scraper"),
	}
}

// Scrape fetches every configured category page and returns the job
// postings across all of them, deduplicated by URL. The same job appears on
// multiple category pages, so the first occurrence (in configured page
// order) wins; merge order is deterministic regardless of fetch timing.
func (s *Scraper) Scrape(ctx context.Context) ([]jobs.Job, error) {
	perPage := make([][]jobs.Job, len(s.cfg.URLs))

	g, gctx := errgroup.WithContext(ctx)
	limit := s.cfg.MaxConcurrentFetches
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)

	for i, pageURL := range s.cfg.URLs {
		i, pageURL := i, pageURL
		g.Go(func() error {
			body, err := s.fetch(gctx, pageURL)
			if err != nil {
				s.logger.Error("fetching listing page failed", "url", pageURL, "error", err)
				return nil
			}
			found, err := ExtractJobs(bytes.NewReader(body), pageURL)
			if err != nil {
				s.logger.Error("parsing listing page failed", "url", pageURL, "error", err)
				return nil
			}
			s.logger.Info("listing page scraped", "url", pageURL, "jobs", len(found))
			perPage[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var all []jobs.Job
	for _, found := range perPage {
		for _, job := range found {
			if job.URL != "" {
				if _, dup := seen[job.URL]; dup {
					continue
				}
				seen[job.URL] = struct{}{}
			}
			all = append(all, job)
		}
	}
	s.logger.Info("scrape complete", "pages", len(s.cfg.URLs), "jobs", len(all))
	return all, nil
}

// fetch downloads one page with retry and backoff.
func (s *Scraper) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	var body []byte
	retryCfg := resilience.RetryConfig{MaxAttempts: s.cfg.MaxAttempts}
	err := resilience.Retry(ctx, "fetch "+pageURL, retryCfg, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return fmt.Errorf("building request: %w", err)
		}
		if s.cfg.UserAgent != "" {
			req.Header.Set("User-Agent", s.cfg.UserAgent)
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", pageURL, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("fetching %s: unexpected status %d", pageURL, resp.StatusCode)
		}
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response body: %w", err)
		}
		return nil
	})
	return body, err
}
