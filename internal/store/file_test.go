package store

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jobscout/jobscout/internal/jobs"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots", "jobs.json")
	s := NewFileStore(path)

	salary := int64(95000)
	jobList := []jobs.Job{
		{
			Title:       "Go Engineer",
			Company:     "Acme",
			Location:    "Remote",
			Description: "build things",
			SalaryRaw:   "$95,000",
			SalaryMin:   &salary,
			URL:         "https://example.com/go-engineer",
		},
		{Title: "SRE", Company: "Hooli"},
	}
	if err := s.Save(jobList); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded, jobList) {
		t.Errorf("Load = %+v, want %+v", loaded, jobList)
	}

	// The snapshot uses the stable field names consumers depend on.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for _, key := range []string{`"title"`, `"salary_min"`, `"salary_raw"`, `"url"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("snapshot missing key %s", key)
		}
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))
	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load of missing snapshot: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("Load = %+v, want empty", loaded)
	}
}

func TestFileStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path).Load(); err == nil {
		t.Error("Load of corrupt snapshot returned nil error")
	}
}
