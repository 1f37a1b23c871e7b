package search

import (
	"fmt"
	"sync"
	"testing"

	"github.com/jobscout/jobscout/internal/jobs"
)

func TestNewEngineStartsEmpty(t *testing.T) {
	e := NewEngine()
	ix := e.Current()
	if ix == nil {
		t.Fatal("Current() = nil before first rebuild")
	}
	if ix.DocCount() != 0 {
		t.Errorf("empty engine DocCount() = %d, want 0", ix.DocCount())
	}
}

func TestRebuildSwapsSnapshot(t *testing.T) {
	e := NewEngine()
	before := e.Current()

	report := e.Rebuild([]jobs.Job{
		{Title: "Go Engineer", Company: "Acme", Description: "build services"},
		{Title: "", Company: "Ghost"},
	})
	if report.Accepted != 1 || len(report.Rejected) != 1 {
		t.Fatalf("report = %+v, want 1 accepted, 1 rejected", report)
	}

	after := e.Current()
	if after == before {
		t.Fatal("rebuild did not replace the snapshot")
	}
	if after.DocCount() != 1 {
		t.Errorf("DocCount() = %d, want 1", after.DocCount())
	}
	// The old snapshot stays intact for readers still holding it.
	if before.DocCount() != 0 {
		t.Errorf("previous snapshot mutated: DocCount() = %d", before.DocCount())
	}
}

func TestDocumentsProjection(t *testing.T) {
	salary := int64(80000)
	docs := Documents([]jobs.Job{{
		Title:       "SRE",
		Company:     "Hooli",
		Location:    "Remote",
		Description: "keep it running",
		SalaryRaw:   "$80,000",
		SalaryMin:   &salary,
		URL:         "https://example.com/sre",
	}})
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d", len(docs))
	}
	d := docs[0]
	if d.Title != "SRE" || d.Company != "Hooli" || d.Description != "keep it running" {
		t.Errorf("projected document = %+v", d)
	}
	if d.SalaryMin == nil || *d.SalaryMin != 80000 {
		t.Errorf("SalaryMin = %v, want 80000", d.SalaryMin)
	}
}

func TestRebuildConcurrentWithReads(t *testing.T) {
	e := NewEngine()
	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				if ix := e.Current(); ix == nil {
					t.Error("Current() = nil during rebuild")
					return
				}
			}
		}
	}()

	for i := 0; i < 20; i++ {
		e.Rebuild([]jobs.Job{
			{Title: fmt.Sprintf("Engineer %d", i), Company: "Acme"},
		})
	}
	close(stop)
	wg.Wait()

	if e.Current().DocCount() != 1 {
		t.Errorf("final DocCount() = %d, want 1", e.Current().DocCount())
	}
}
