// Package stats aggregates the catalog into per-year reading totals and
// renders them as chart images for the report.
package stats

import (
	"sort"

	"github.com/chris17453/goodreads-pdf/internal/catalog"
)

// YearSummary is the reading total for one cohort year.
type YearSummary struct {
	Year  int
	Books int
	Pages int
}

// Summarize aggregates books by cohort year, oldest year first.
func Summarize(books []catalog.Book) []YearSummary {
	totals := make(map[int]*YearSummary)
	for _, b := range books {
		year := b.CohortYear()
		if year == 0 {
			continue
		}

		summary, ok := totals[year]
		if !ok {
			summary = &YearSummary{Year: year}
			totals[year] = summary
		}
		summary.Books++
		summary.Pages += b.NumberOfPages
	}

	summaries := make([]YearSummary, 0, len(totals))
	for _, s := range totals {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Year < summaries[j].Year
	})

	return summaries
}
