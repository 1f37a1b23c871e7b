package scraper

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobscout/jobscout/internal/jobs"
)

// CSS selectors for the listing markup. A listing appears either as a
// featured item or as a regular listing container.
const (
	listingSelector  = "li.feature, .new-listing-container"
	titleSelector    = ".new-listing__header__title"
	companySelector  = ".new-listing__company-name"
	locationSelector = ".new-listing__company-headquarters"
	linkSelector     = ".listing-link--unlocked, ._blank"
)

// ExtractJobs parses one category listing page and returns the job postings
// it contains. Records without a usable title are skipped. Relative listing
// links are absolutized against pageURL.
func ExtractJobs(r io.Reader, pageURL string) ([]jobs.Job, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing listing page: %w", err)
	}

	var found []jobs.Job
	doc.Find(listingSelector).Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find(titleSelector).First().Text())
		if title == "" {
			return
		}
		company := strings.TrimSpace(sel.Find(companySelector).First().Text())
		if company == "" {
			company = "Unknown Company"
		}
		location := strings.TrimSpace(sel.Find(locationSelector).First().Text())
		if location == "" {
			location = "Remote"
		}
		href, _ := sel.Find(linkSelector).First().Attr("href")

		// The listing text is all we get without fetching the detail
		// page; it doubles as the description and the salary source.
		fullText := strings.Join(strings.Fields(sel.Text()), " ")

		found = append(found, jobs.Job{
			Title:       title,
			Company:     company,
			Location:    location,
			Description: fullText,
			SalaryRaw:   fullText,
			SalaryMin:   jobs.ExtractSalary(fullText),
			URL:         absolutizeLink(pageURL, href),
		})
	})
	return found, nil
}

// absolutizeLink resolves a listing href against the page it was found on.
func absolutizeLink(pageURL, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return href
	}
	return base.Scheme + "://" + base.Host + href
}
