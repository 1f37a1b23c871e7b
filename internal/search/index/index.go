// Package index implements the in-memory inverted index over job postings.
// An Index is built once from an ordered document list and is immutable
// afterwards; any number of queries may read it concurrently without
// coordination.
package index

import "sort"

// Field names for the fixed job-posting schema. Title and company are
// tokenized and stored; description is tokenized but never stored in result
// payloads; salary_min is a numeric column used for filtering only.
const (
	FieldTitle       = "title"
	FieldCompany     = "company"
	FieldDescription = "description"
	FieldSalaryMin   = "salary_min"
)

// SearchFields are the text fields queries run against by default.
var SearchFields = []string{FieldTitle, FieldDescription}

// Document is the indexable projection of a job posting.
type Document struct {
	Title       string
	Company     string
	Description string
	SalaryMin   *int64
}

// Posting records one document's term frequency for a (term, field) pair.
type Posting struct {
	DocID    int
	TermFreq int
}

// PostingList is ordered by ascending DocID.
type PostingList []Posting

// Find returns the posting for docID, using binary search over the
// docID-ordered list.
func (pl PostingList) Find(docID int) (Posting, bool) {
	i := sort.Search(len(pl), func(i int) bool { return pl[i].DocID >= docID })
	if i < len(pl) && pl[i].DocID == docID {
		return pl[i], true
	}
	return Posting{}, false
}

// StoredFields holds the original values of the stored fields, used to
// materialize result payloads without re-reading the source corpus.
type StoredFields struct {
	Title   string
	Company string
}

// noSalary marks documents without a salary in the numeric column. Valid
// salaries are non-negative by the document invariant.
const noSalary = -1

// Index is the immutable inverted index plus per-document statistics.
type Index struct {
	postings   map[string]map[string]PostingList // term -> field -> postings
	docLengths []map[string]int                  // docID -> field -> token count
	avgLength  map[string]float64
	stored     []StoredFields
	salaries   []int64
	docCount   int
}

// DocCount returns the number of indexed documents.
func (ix *Index) DocCount() int {
	return ix.docCount
}

// Postings returns the posting list for a (term, field) pair, or nil.
func (ix *Index) Postings(term, field string) PostingList {
	byField, ok := ix.postings[term]
	if !ok {
		return nil
	}
	return byField[field]
}

// DocFreq returns the number of distinct documents containing term in field.
func (ix *Index) DocFreq(term, field string) int {
	return len(ix.Postings(term, field))
}

// TermFreq returns how often term occurs in the given field of docID.
func (ix *Index) TermFreq(term, field string, docID int) int {
	p, ok := ix.Postings(term, field).Find(docID)
	if !ok {
		return 0
	}
	return p.TermFreq
}

// HasTerm reports whether term occurs in any of the given fields.
func (ix *Index) HasTerm(term string, fields []string) bool {
	for _, field := range fields {
		if len(ix.Postings(term, field)) > 0 {
			return true
		}
	}
	return false
}

// DocLength returns the token count of field in docID, or 0 if the document
// does not carry the field.
func (ix *Index) DocLength(docID int, field string) int {
	if docID < 0 || docID >= len(ix.docLengths) {
		return 0
	}
	return ix.docLengths[docID][field]
}

// AvgFieldLength returns the mean token count of field over the documents
// carrying it, or 0 if no document carries the field.
func (ix *Index) AvgFieldLength(field string) float64 {
	return ix.avgLength[field]
}

// Stored returns the stored field values for docID.
func (ix *Index) Stored(docID int) StoredFields {
	if docID < 0 || docID >= len(ix.stored) {
		return StoredFields{}
	}
	return ix.stored[docID]
}

// SalaryMin returns the document's minimum salary and whether one is present.
func (ix *Index) SalaryMin(docID int) (int64, bool) {
	if docID < 0 || docID >= len(ix.salaries) || ix.salaries[docID] == noSalary {
		return 0, false
	}
	return ix.salaries[docID], true
}
