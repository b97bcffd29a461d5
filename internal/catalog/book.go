// Package catalog holds the normalized book records built from a Goodreads
// library export.
package catalog

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// Goodreads writes "Date Read" as yyyy/mm/dd.
const dateReadLayout = "2006/01/02"

var (
	isbnArtifacts = regexp.MustCompile(`[="]`)
	parenSuffix   = regexp.MustCompile(`\(.*?\)`)
)

// Book is one logged book from the export. Records are built once by the CSV
// loader and not mutated afterwards.
type Book struct {
	ID                      int
	Title                   string
	Author                  string
	ISBN                    string // cleaned, empty when absent
	NumberOfPages           int
	DateRead                time.Time // zero when unknown
	YearPublished           int
	OriginalPublicationYear int
}

// CleanISBN strips spreadsheet escaping (leading ="), quotes and whitespace
// from a raw ISBN field. Returns "" when nothing usable remains.
func CleanISBN(raw string) string {
	return isbnArtifacts.ReplaceAllString(strings.TrimSpace(raw), "")
}

// CleanTitle removes parenthesized suffixes (series annotations) and trims
// surrounding whitespace.
func CleanTitle(raw string) string {
	return strings.TrimSpace(parenSuffix.ReplaceAllString(raw, ""))
}

// ParseDateRead parses a Goodreads "Date Read" value. Returns the zero time
// for empty or malformed values.
func ParseDateRead(raw string) time.Time {
	t, err := time.Parse(dateReadLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}
	}
	return t
}

// CleanTitle returns the book's title with series annotations removed.
func (b Book) CleanTitle() string {
	return CleanTitle(b.Title)
}

// HasDateRead reports whether a read date is known for this book.
func (b Book) HasDateRead() bool {
	return !b.DateRead.IsZero()
}

// LatestPublicationYear returns the later of the edition's publication year
// and the original publication year, or 0 when neither is known.
func (b Book) LatestPublicationYear() int {
	if b.YearPublished > b.OriginalPublicationYear {
		return b.YearPublished
	}
	return b.OriginalPublicationYear
}

// CohortYear returns the year this book is categorized under: the read year
// when known, otherwise the latest publication year. 0 means the book cannot
// be categorized.
func (b Book) CohortYear() int {
	if b.HasDateRead() {
		return b.DateRead.Year()
	}
	return b.LatestPublicationYear()
}

// FilterByCohort returns the books with a cohort year at or after minYear,
// preserving input order.
func FilterByCohort(books []Book, minYear int) []Book {
	var kept []Book
	for _, b := range books {
		if year := b.CohortYear(); year >= minYear && year > 0 {
			kept = append(kept, b)
		}
	}
	return kept
}

// GroupByYear groups books by cohort year. Years are returned newest first.
func GroupByYear(books []Book) ([]int, map[int][]Book) {
	groups := make(map[int][]Book)
	for _, b := range books {
		year := b.CohortYear()
		groups[year] = append(groups[year], b)
	}

	years := make([]int, 0, len(groups))
	for year := range groups {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	return years, groups
}
