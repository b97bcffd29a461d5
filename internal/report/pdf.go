package report

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/chris17453/goodreads-pdf/internal/catalog"
	"github.com/chris17453/goodreads-pdf/internal/covers"
	"github.com/chris17453/goodreads-pdf/internal/fileutil"
	"github.com/chris17453/goodreads-pdf/internal/stats"
)

const (
	reportTitle      = "Goodreads Reading Report"
	pageBreakMargin  = 15
	borderInset      = 5
	chartImageWidth  = 180
	summaryRowHeight = 10
)

// ResolveFunc obtains the cover asset for a book while the card pages are
// being laid out. Resolution is sequential: the next book's lookup does not
// start until the current card is drawn.
type ResolveFunc func(catalog.Book) covers.Asset

// Document is the report PDF under construction.
type Document struct {
	pdf  *fpdf.Fpdf
	tr   func(string) string
	spec CardSpec
}

// NewDocument creates an A4 portrait document with the report header, page
// number footer and page border installed on every page.
func NewDocument() *Document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, pageBreakMargin)

	pdf.SetHeaderFunc(func() {
		w, h := pdf.GetPageSize()
		pdf.SetDrawColor(0, 0, 0)
		pdf.Rect(borderInset, borderInset, w-2*borderInset, h-2*borderInset, "D")

		pdf.SetY(10)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 10, reportTitle, "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	return &Document{
		pdf:  pdf,
		tr:   pdf.UnicodeTranslatorFromDescriptor(""),
		spec: DefaultCardSpec(),
	}
}

// AddTitlePage renders the opening page.
func (d *Document) AddTitlePage() {
	d.pdf.AddPage()
	d.pdf.SetFont("Helvetica", "B", 20)
	d.pdf.CellFormat(0, 80, reportTitle, "", 1, "C", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 14)
	d.pdf.CellFormat(0, 10, "An overview of your reading activity", "", 1, "C", false, 0, "")
}

// AddChartPage places a chart image on its own page at full content width.
func (d *Document) AddChartPage(imagePath string) {
	d.pdf.AddPage()
	d.pdf.ImageOptions(imagePath, 15, 35, chartImageWidth, 0, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
}

// AddSummaryTable renders the per-year totals table.
func (d *Document) AddSummaryTable(summaries []stats.YearSummary) {
	d.pdf.AddPage()
	d.pdf.SetFont("Helvetica", "B", 14)
	d.pdf.CellFormat(0, 10, "Reading Summary per Year", "", 1, "C", false, 0, "")
	d.pdf.Ln(5)

	colWidths := [3]float64{30, 50, 50}

	d.pdf.SetFont("Helvetica", "", 12)
	d.pdf.SetFillColor(200, 200, 200)
	d.pdf.CellFormat(colWidths[0], summaryRowHeight, "Year", "1", 0, "C", true, 0, "")
	d.pdf.CellFormat(colWidths[1], summaryRowHeight, "Books Read", "1", 0, "C", true, 0, "")
	d.pdf.CellFormat(colWidths[2], summaryRowHeight, "Pages Read", "1", 1, "C", true, 0, "")

	for _, s := range summaries {
		d.pdf.CellFormat(colWidths[0], summaryRowHeight, fmt.Sprintf("%d", s.Year), "1", 0, "C", false, 0, "")
		d.pdf.CellFormat(colWidths[1], summaryRowHeight, fmt.Sprintf("%d", s.Books), "1", 0, "C", false, 0, "")
		d.pdf.CellFormat(colWidths[2], summaryRowHeight, fmt.Sprintf("%d", s.Pages), "1", 1, "C", false, 0, "")
	}
}

// AddYearSection lays out one cohort's cards, starting on a fresh page with a
// heading. Covers are resolved one book at a time as cards are placed.
func (d *Document) AddYearSection(year int, books []catalog.Book, resolve ResolveFunc) {
	d.pdf.AddPage()
	d.pdf.SetFont("Helvetica", "B", 16)
	d.pdf.CellFormat(0, 10, fmt.Sprintf("Books in %d", year), "", 1, "C", false, 0, "")
	d.pdf.Ln(5)

	pageW, pageH := d.pdf.GetPageSize()
	left, _, right, _ := d.pdf.GetMargins()

	grid := NewGrid(d.spec, PageFrame{
		Left:      left,
		Right:     right,
		PageWidth: pageW,
		Top:       d.pdf.GetY(),
		BreakAt:   pageH - pageBreakMargin,
	})

	for _, book := range books {
		asset := resolve(book)

		p := grid.Place()
		if p.NewPage {
			d.pdf.AddPage()
		}
		d.drawCard(book, asset, p.X, p.Y)
	}
}

// drawCard renders one book card: the cover box and the stacked text lines,
// each line advancing the cursor by its own rendered height.
func (d *Document) drawCard(book catalog.Book, asset covers.Asset, x, y float64) {
	if asset.Path != "" && fileutil.FileExists(asset.Path) {
		d.pdf.ImageOptions(asset.Path, x, y, d.spec.Width, d.spec.Height, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
	} else {
		// Unreachable while the resolver keeps its total-success contract
		d.pdf.Rect(x, y, d.spec.Width, d.spec.Height, "D")
	}

	d.pdf.SetXY(x, y+d.spec.Height+2)

	d.pdf.SetFont("Helvetica", "B", 6)
	d.pdf.MultiCell(d.spec.Width, 3, d.tr(book.Title), "", "C", false)

	d.pdf.SetXY(x, d.pdf.GetY())
	d.pdf.SetFont("Helvetica", "", 5)
	d.pdf.MultiCell(d.spec.Width, 3, d.tr("by "+book.Author), "", "C", false)

	d.pdf.SetXY(x, d.pdf.GetY())
	d.pdf.SetFont("Helvetica", "", 4)
	d.pdf.CellFormat(d.spec.Width, 3, fmt.Sprintf("%d pages", book.NumberOfPages), "", 2, "C", false, 0, "")
	d.pdf.SetX(x)
	d.pdf.CellFormat(d.spec.Width, 3, dateInfo(book), "", 2, "C", false, 0, "")
}

// dateInfo renders the card's date line: the read date when known, otherwise
// the latest publication year.
func dateInfo(book catalog.Book) string {
	if book.HasDateRead() {
		return "Read: " + book.DateRead.Format("2006-01-02")
	}
	return fmt.Sprintf("Latest Pub: %d", book.LatestPublicationYear())
}

// PageCount returns the number of pages added so far.
func (d *Document) PageCount() int {
	return d.pdf.PageCount()
}

// Output writes the finished PDF and closes the document.
func (d *Document) Output(path string) error {
	if err := d.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}
