package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jobscout/jobscout/internal/jobs"
	"github.com/jobscout/jobscout/pkg/postgres"
)

const createJobsTable = `
CREATE TABLE IF NOT EXISTS jobs (
	url         TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	company     TEXT NOT NULL,
	location    TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	salary_raw  TEXT NOT NULL DEFAULT '',
	salary_min  BIGINT,
	scraped_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertJob = `
INSERT INTO jobs (url, title, company, location, description, salary_raw, salary_min, scraped_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
ON CONFLICT (url) DO UPDATE SET
	title = EXCLUDED.title,
	company = EXCLUDED.company,
	location = EXCLUDED.location,
	description = EXCLUDED.description,
	salary_raw = EXCLUDED.salary_raw,
	salary_min = EXCLUDED.salary_min,
	scraped_at = now()`

const selectJobs = `
SELECT url, title, company, location, description, salary_raw, salary_min
FROM jobs
ORDER BY scraped_at, url`

// JobStore persists scraped jobs in PostgreSQL, keyed by listing URL.
type JobStore struct {
	client *postgres.Client
	logger *slog.Logger
}

// NewJobStore wraps a postgres client.
func NewJobStore(client *postgres.Client) *JobStore {
	return &JobStore{
		client: client,
		logger: slog.Default().With("component", "job-store"),
	}
}

// Init creates the jobs table if it does not exist.
func (s *JobStore) Init(ctx context.Context) error {
	if _, err := s.client.DB.ExecContext(ctx, createJobsTable); err != nil {
		return fmt.Errorf("creating jobs table: %w", err)
	}
	return nil
}

// Upsert writes the job list in a single transaction, updating rows whose
// URL already exists. Jobs without a URL have no stable identity and are
// skipped.
func (s *JobStore) Upsert(ctx context.Context, jobList []jobs.Job) error {
	return s.client.InTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertJob)
		if err != nil {
			return fmt.Errorf("preparing upsert: %w", err)
		}
		defer stmt.Close()

		skipped := 0
		for _, j := range jobList {
			if j.URL == "" {
				skipped++
				continue
			}
			if _, err := stmt.ExecContext(ctx,
				j.URL, j.Title, j.Company, j.Location,
				j.Description, j.SalaryRaw, nullableInt64(j.SalaryMin),
			); err != nil {
				return fmt.Errorf("upserting job %s: %w", j.URL, err)
			}
		}
		if skipped > 0 {
			s.logger.Warn("jobs without URL skipped", "count", skipped)
		}
		return nil
	})
}

// LoadAll returns every stored job in a stable order (oldest scrape first,
// URL as tiebreaker), so repeated loads build identical indexes.
func (s *JobStore) LoadAll(ctx context.Context) ([]jobs.Job, error) {
	rows, err := s.client.DB.QueryContext(ctx, selectJobs)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobList []jobs.Job
	for rows.Next() {
		var j jobs.Job
		var salary sql.NullInt64
		if err := rows.Scan(&j.URL, &j.Title, &j.Company, &j.Location,
			&j.Description, &j.SalaryRaw, &salary); err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		if salary.Valid {
			j.SalaryMin = &salary.Int64
		}
		jobList = append(jobList, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating job rows: %w", err)
	}
	return jobList, nil
}

func nullableInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
