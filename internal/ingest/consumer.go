package ingest

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jobscout/jobscout/internal/jobs"
	"github.com/jobscout/jobscout/internal/search"
	"github.com/jobscout/jobscout/pkg/config"
	"github.com/jobscout/jobscout/pkg/kafka"
	"github.com/jobscout/jobscout/pkg/metrics"
)

// Invalidator clears derived caches after the index has been swapped.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Consumer keeps the search corpus current: it accumulates job events keyed
// by URL and rebuilds the index on a debounce interval instead of per
// message, since the index is replaced wholesale rather than patched.
type Consumer struct {
	kafkaConsumer *kafka.Consumer
	engine        *search.Engine
	cache         Invalidator      // may be nil
	metrics       *metrics.Metrics // may be nil
	interval      time.Duration
	logger        *slog.Logger

	mu     sync.Mutex
	corpus map[string]jobs.Job
	dirty  bool
}

// NewConsumer creates a Consumer seeded with the corpus loaded at startup,
// so the first rebuild after an event includes the pre-existing jobs.
func NewConsumer(cfg config.KafkaConfig, engine *search.Engine, cache Invalidator, m *metrics.Metrics, seed []jobs.Job) *Consumer {
	interval := cfg.RebuildInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	c := &Consumer{
		engine:   engine,
		cache:    cache,
		metrics:  m,
		interval: interval,
		logger:   slog.Default().With("component", "ingest-consumer"),
		corpus:   make(map[string]jobs.Job, len(seed)),
	}
	for _, j := range seed {
		if j.URL != "" {
			c.corpus[j.URL] = j
		}
	}
	c.kafkaConsumer = kafka.NewConsumer(cfg, cfg.Topics.JobsScraped, c.handleMessage)
	return c
}

// Start runs the rebuild loop and the Kafka consume loop. It blocks until
// ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	go c.rebuildLoop(ctx)
	return c.kafkaConsumer.Start(ctx)
}

// handleMessage folds one job event into the corpus. Malformed events are
// logged and skipped; the feed must keep flowing.
func (c *Consumer) handleMessage(ctx context.Context, key []byte, value []byte) error {
	event, err := kafka.DecodeJSON[JobEvent](value)
	if err != nil {
		c.logger.Error("failed to decode job event", "key", string(key), "error", err)
		return nil
	}
	url := event.Job.URL
	if url == "" {
		url = string(key)
	}
	if url == "" {
		c.logger.Warn("job event without URL dropped", "title", event.Job.Title)
		return nil
	}

	c.mu.Lock()
	c.corpus[url] = event.Job
	c.dirty = true
	c.mu.Unlock()
	if c.metrics != nil {
		c.metrics.JobsScrapedTotal.Inc()
	}
	return nil
}

func (c *Consumer) rebuildLoop(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.rebuildIfDirty(ctx)
		}
	}
}

func (c *Consumer) rebuildIfDirty(ctx context.Context) {
	c.mu.Lock()
	if !c.dirty {
		c.mu.Unlock()
		return
	}
	c.dirty = false
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	report := c.engine.Rebuild(snapshot)
	if c.metrics != nil {
		c.metrics.IndexRebuildsTotal.Inc()
		c.metrics.IndexedDocs.Set(float64(report.Accepted))
		c.metrics.DocsRejectedTotal.Add(float64(len(report.Rejected)))
	}
	c.logger.Info("corpus rebuilt from event stream",
		"jobs", len(snapshot),
		"accepted", report.Accepted,
		"rejected", len(report.Rejected),
	)
	if c.cache != nil {
		if err := c.cache.Invalidate(ctx); err != nil {
			c.logger.Error("cache invalidation after rebuild failed", "error", err)
		}
	}
}

// snapshotLocked returns the corpus ordered by URL. Map iteration order is
// random; sorting keeps doc ID assignment, and therefore scoring,
// reproducible across rebuilds of the same corpus.
func (c *Consumer) snapshotLocked() []jobs.Job {
	urls := make([]string, 0, len(c.corpus))
	for url := range c.corpus {
		urls = append(urls, url)
	}
	sort.Strings(urls)
	snapshot := make([]jobs.Job, 0, len(urls))
	for _, url := range urls {
		snapshot = append(snapshot, c.corpus[url])
	}
	return snapshot
}
