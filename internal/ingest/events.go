// Package ingest moves scraped jobs over Kafka: the scraper publishes one
// event per posting, and the server consumes them to keep its corpus and
// index current.
package ingest

import (
	"time"

	"github.com/jobscout/jobscout/internal/jobs"
)

// JobEvent is the Kafka payload published for every scraped job posting.
// The message key is the job URL, so re-scrapes of the same listing land on
// the same partition in order.
type JobEvent struct {
	Job       jobs.Job  `json:"job"`
	ScrapedAt time.Time `json:"scraped_at"`
}
