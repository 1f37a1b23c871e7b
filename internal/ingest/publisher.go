package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jobscout/jobscout/internal/jobs"
	"github.com/jobscout/jobscout/pkg/kafka"
)

// Publisher emits scraped jobs onto the jobs.scraped topic.
type Publisher struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewPublisher wraps a Kafka producer.
func NewPublisher(producer *kafka.Producer) *Publisher {
	return &Publisher{
		producer: producer,
		logger:   slog.Default().With("component", "ingest-publisher"),
	}
}

// PublishJobs sends one event per job in a single batch write.
func (p *Publisher) PublishJobs(ctx context.Context, jobList []jobs.Job) error {
	now := time.Now().UTC()
	events := make([]kafka.Event, 0, len(jobList))
	for _, j := range jobList {
		events = append(events, kafka.Event{
			Key:   j.URL,
			Value: JobEvent{Job: j, ScrapedAt: now},
		})
	}
	if len(events) == 0 {
		return nil
	}
	if err := p.producer.PublishBatch(ctx, events); err != nil {
		return fmt.Errorf("publishing scraped jobs: %w", err)
	}
	p.logger.Info("scraped jobs published", "count", len(events))
	return nil
}
