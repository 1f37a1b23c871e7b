// Package jobs defines the scraped job posting record shared by the
// scraper, the stores, and the search engine.
package jobs

// Job is one scraped job posting. The JSON field names match the snapshot
// format the scraper writes to data/jobs.json.
type Job struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	SalaryRaw   string `json:"salary_raw"`
	SalaryMin   *int64 `json:"salary_min"`
	URL         string `json:"url"`
}
