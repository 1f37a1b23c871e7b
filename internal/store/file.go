// Package store persists the scraped job corpus: a JSON snapshot file for
// local runs and a PostgreSQL table for deployments.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jobscout/jobscout/internal/jobs"
)

// FileStore reads and writes the pretty-printed JSON corpus snapshot.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore for the given snapshot path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the job list as indented JSON, creating parent directories as
// needed.
func (s *FileStore) Save(jobList []jobs.Job) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(jobList, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing jobs: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

// Load reads the snapshot. A missing file is not an error: it returns an
// empty list, the same as a corpus that has never been scraped.
func (s *FileStore) Load() ([]jobs.Job, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	var jobList []jobs.Job
	if err := json.Unmarshal(data, &jobList); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return jobList, nil
}
