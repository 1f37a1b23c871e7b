package ingest

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/jobscout/jobscout/internal/jobs"
	"github.com/jobscout/jobscout/internal/search"
	"github.com/jobscout/jobscout/pkg/config"
)

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate(ctx context.Context) error {
	f.calls++
	return nil
}

func testKafkaConfig() config.KafkaConfig {
	return config.KafkaConfig{
		Brokers:       []string{"localhost:9092"},
		ConsumerGroup: "test",
		Topics:        config.KafkaTopics{JobsScraped: "jobs.scraped"},
	}
}

func encodeEvent(t *testing.T, job jobs.Job) []byte {
	t.Helper()
	data, err := json.Marshal(JobEvent{Job: job, ScrapedAt: time.Now().UTC()})
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestConsumerFoldsEventsAndRebuilds(t *testing.T) {
	engine := search.NewEngine()
	inv := &fakeInvalidator{}
	seed := []jobs.Job{
		{Title: "Seeded Job", Company: "Acme", URL: "https://example.com/seeded"},
	}
	c := NewConsumer(testKafkaConfig(), engine, inv, nil, seed)
	ctx := context.Background()

	event := encodeEvent(t, jobs.Job{Title: "New Job", Company: "Initech", URL: "https://example.com/new"})
	if err := c.handleMessage(ctx, []byte("https://example.com/new"), event); err != nil {
		t.Fatalf("handleMessage: %v", err)
	}

	c.rebuildIfDirty(ctx)
	if got := engine.Current().DocCount(); got != 2 {
		t.Errorf("DocCount() = %d, want seeded + new = 2", got)
	}
	if inv.calls != 1 {
		t.Errorf("Invalidate calls = %d, want 1", inv.calls)
	}

	// Nothing changed since the last rebuild: no work, no invalidation.
	c.rebuildIfDirty(ctx)
	if inv.calls != 1 {
		t.Errorf("clean rebuild still invalidated the cache (%d calls)", inv.calls)
	}
}

func TestConsumerReplacesJobByURL(t *testing.T) {
	engine := search.NewEngine()
	c := NewConsumer(testKafkaConfig(), engine, nil, nil, nil)
	ctx := context.Background()

	url := "https://example.com/job"
	first := encodeEvent(t, jobs.Job{Title: "Old Title", Company: "Acme", URL: url})
	second := encodeEvent(t, jobs.Job{Title: "New Title", Company: "Acme", URL: url})
	if err := c.handleMessage(ctx, []byte(url), first); err != nil {
		t.Fatal(err)
	}
	if err := c.handleMessage(ctx, []byte(url), second); err != nil {
		t.Fatal(err)
	}

	c.rebuildIfDirty(ctx)
	ix := engine.Current()
	if ix.DocCount() != 1 {
		t.Fatalf("DocCount() = %d, want 1 (same URL replaces)", ix.DocCount())
	}
	if got := ix.Stored(0).Title; got != "New Title" {
		t.Errorf("Stored(0).Title = %q, want latest event", got)
	}
}

func TestConsumerSkipsBadEvents(t *testing.T) {
	engine := search.NewEngine()
	c := NewConsumer(testKafkaConfig(), engine, nil, nil, nil)
	ctx := context.Background()

	// Malformed payloads and URL-less events must not stop the feed.
	if err := c.handleMessage(ctx, []byte("key"), []byte("{not json")); err != nil {
		t.Errorf("malformed event returned error: %v", err)
	}
	noURL := encodeEvent(t, jobs.Job{Title: "Orphan"})
	if err := c.handleMessage(ctx, nil, noURL); err != nil {
		t.Errorf("URL-less event returned error: %v", err)
	}

	c.rebuildIfDirty(ctx)
	if got := engine.Current().DocCount(); got != 0 {
		t.Errorf("DocCount() = %d, want 0", got)
	}
}

func TestConsumerKeyFallback(t *testing.T) {
	engine := search.NewEngine()
	c := NewConsumer(testKafkaConfig(), engine, nil, nil, nil)
	ctx := context.Background()

	// A job without its own URL is keyed by the message key.
	event := encodeEvent(t, jobs.Job{Title: "Keyed Job", Company: "Acme"})
	if err := c.handleMessage(ctx, []byte("https://example.com/keyed"), event); err != nil {
		t.Fatal(err)
	}
	c.rebuildIfDirty(ctx)
	if got := engine.Current().DocCount(); got != 1 {
		t.Errorf("DocCount() = %d, want 1", got)
	}
}

func TestSnapshotOrderedByURL(t *testing.T) {
	c := NewConsumer(testKafkaConfig(), search.NewEngine(), nil, nil, []jobs.Job{
		{Title: "C", URL: "https://example.com/c"},
		{Title: "A", URL: "https://example.com/a"},
		{Title: "B", URL: "https://example.com/b"},
	})

	c.mu.Lock()
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	var titles []string
	for _, j := range snapshot {
		titles = append(titles, j.Title)
	}
	if want := []string{"A", "B", "C"}; !reflect.DeepEqual(titles, want) {
		t.Errorf("snapshot order = %v, want %v", titles, want)
	}
}
