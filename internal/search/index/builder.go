package index

import (
	"strings"

	"github.com/jobscout/jobscout/internal/search/tokenizer"
)

// Rejection identifies a document that failed validation, by its position in
// the input list.
type Rejection struct {
	Position int    `json:"position"`
	Reason   string `json:"reason"`
}

// BuildReport summarises a build: how many documents were accepted and which
// input positions were rejected.
type BuildReport struct {
	Accepted int         `json:"accepted"`
	Rejected []Rejection `json:"rejected"`
}

// Build constructs an Index from the ordered document list. Doc IDs are
// assigned sequentially (0-based) to accepted documents in input order;
// documents violating the model invariants are skipped and reported, never
// fatal. Identical input lists always yield identical postings and
// statistics.
func Build(docs []Document) (*Index, BuildReport) {
	ix := &Index{
		postings:  make(map[string]map[string]PostingList),
		avgLength: make(map[string]float64),
	}
	var report BuildReport

	for pos, doc := range docs {
		if reason := validate(doc); reason != "" {
			report.Rejected = append(report.Rejected, Rejection{Position: pos, Reason: reason})
			continue
		}
		ix.addDocument(doc)
	}
	ix.computeAverages()
	report.Accepted = ix.docCount
	return ix, report
}

func validate(doc Document) string {
	if strings.TrimSpace(doc.Title) == "" {
		return "missing title"
	}
	if doc.SalaryMin != nil && *doc.SalaryMin < 0 {
		return "negative salary_min"
	}
	return ""
}

// addDocument assigns the next doc ID and indexes every text field. A field
// with an empty raw value is treated as absent: it records no length and
// contributes nothing to the field average.
func (ix *Index) addDocument(doc Document) {
	docID := ix.docCount
	textFields := []struct {
		name  string
		value string
	}{
		{FieldTitle, doc.Title},
		{FieldCompany, doc.Company},
		{FieldDescription, doc.Description},
	}

	lengths := make(map[string]int, len(textFields))
	for _, f := range textFields {
		if f.value == "" {
			continue
		}
		terms := tokenizer.Tokenize(f.value)
		lengths[f.name] = len(terms)

		counts := make(map[string]int, len(terms))
		for _, term := range terms {
			counts[term]++
		}
		for term, tf := range counts {
			byField := ix.postings[term]
			if byField == nil {
				byField = make(map[string]PostingList)
				ix.postings[term] = byField
			}
			// docID is strictly increasing, so appending keeps the
			// list ordered by ascending DocID.
			byField[f.name] = append(byField[f.name], Posting{DocID: docID, TermFreq: tf})
		}
	}

	salary := int64(noSalary)
	if doc.SalaryMin != nil {
		salary = *doc.SalaryMin
	}

	ix.docLengths = append(ix.docLengths, lengths)
	ix.stored = append(ix.stored, StoredFields{Title: doc.Title, Company: doc.Company})
	ix.salaries = append(ix.salaries, salary)
	ix.docCount++
}

// computeAverages derives the per-field mean token count over the documents
// carrying each field. Documents without the field count toward neither the
// numerator nor the denominator.
func (ix *Index) computeAverages() {
	totals := make(map[string]int)
	counts := make(map[string]int)
	for _, lengths := range ix.docLengths {
		for field, length := range lengths {
			totals[field] += length
			counts[field]++
		}
	}
	for field, count := range counts {
		ix.avgLength[field] = float64(totals[field]) / float64(count)
	}
}
