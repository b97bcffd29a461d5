// Package generate builds the illustrated PDF reading report from a Goodreads
// library export.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chris17453/goodreads-pdf/internal/catalog"
	"github.com/chris17453/goodreads-pdf/internal/covers"
	"github.com/chris17453/goodreads-pdf/internal/report"
	"github.com/chris17453/goodreads-pdf/internal/stats"
)

// Params holds everything one report run needs.
type Params struct {
	CSVFile       string
	OutputFile    string
	CoverDir      string
	MissingReport string
	MinYear       int
	BrokenSize    int64
	UpdateCovers  bool
}

// GenerateWithParams runs the whole pipeline: load and normalize the export,
// aggregate yearly stats, render chart and summary pages, then lay out the
// year-cohort card pages while resolving covers one book at a time. Finishes
// by writing the PDF and the missing-covers report.
func GenerateWithParams(p Params) error {
	books, err := loadBooksFromCSV(p.CSVFile)
	if err != nil {
		return err
	}

	books = catalog.FilterByCohort(books, p.MinYear)
	if len(books) == 0 {
		return fmt.Errorf("no books categorized at or after %d in %s", p.MinYear, p.CSVFile)
	}
	slog.Info("Loaded library export", "books", len(books), "min_year", p.MinYear)

	summaries := stats.Summarize(books)

	doc := report.NewDocument()
	doc.AddTitlePage()

	if err := addChartPages(doc, summaries); err != nil {
		return err
	}

	doc.AddSummaryTable(summaries)

	store := covers.NewStore(p.CoverDir, p.BrokenSize)
	missing := &covers.MissingReport{}
	resolver := covers.NewResolver(store, covers.NewGenerator(), missing)
	resolver.ForceRefresh = p.UpdateCovers

	ctx := context.Background()
	years, groups := catalog.GroupByYear(books)
	processed := 0

	for _, year := range years {
		doc.AddYearSection(year, groups[year], func(b catalog.Book) covers.Asset {
			asset := resolver.Resolve(ctx, b)
			processed++
			logBookProgress(processed, len(books))
			return asset
		})
	}

	if err := doc.Output(p.OutputFile); err != nil {
		return err
	}

	if err := missing.WriteFile(p.MissingReport); err != nil {
		return err
	}

	slog.Info("Report generated",
		"output", p.OutputFile,
		"books", len(books),
		"missing_covers", len(missing.Entries()),
	)

	return nil
}

// addChartPages renders the yearly bar charts into a temp directory, embeds
// them and cleans the temp files up.
func addChartPages(doc *report.Document, summaries []stats.YearSummary) error {
	chartDir, err := os.MkdirTemp("", "goodreads-pdf-charts-*")
	if err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(chartDir) }()

	booksChart := filepath.Join(chartDir, "books_per_year.png")
	if err := stats.RenderBooksPerYear(summaries, booksChart); err != nil {
		return err
	}
	doc.AddChartPage(booksChart)

	pagesChart := filepath.Join(chartDir, "pages_per_year.png")
	if err := stats.RenderPagesPerYear(summaries, pagesChart); err != nil {
		return err
	}
	doc.AddChartPage(pagesChart)

	return nil
}
