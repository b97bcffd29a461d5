package stats

import (
	"fmt"
	"os"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	booksBarColor = drawing.ColorFromHex("0072C6")
	pagesBarColor = drawing.ColorFromHex("FF9900")
)

// RenderBooksPerYear writes a "Books per Year" bar chart PNG to path.
func RenderBooksPerYear(summaries []YearSummary, path string) error {
	return renderBarChart("Books per Year", booksBarColor, summaries, path, func(s YearSummary) float64 {
		return float64(s.Books)
	})
}

// RenderPagesPerYear writes a "Pages per Year" bar chart PNG to path.
func RenderPagesPerYear(summaries []YearSummary, path string) error {
	return renderBarChart("Pages per Year", pagesBarColor, summaries, path, func(s YearSummary) float64 {
		return float64(s.Pages)
	})
}

func renderBarChart(title string, barColor drawing.Color, summaries []YearSummary, path string, value func(YearSummary) float64) error {
	if len(summaries) == 0 {
		return fmt.Errorf("no data to chart for %q", title)
	}

	bars := make([]chart.Value, 0, len(summaries))
	for _, s := range summaries {
		bars = append(bars, chart.Value{
			Label: strconv.Itoa(s.Year),
			Value: value(s),
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    800,
		Height:   600,
		BarWidth: 40,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		Bars: bars,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render %q chart: %w", title, err)
	}

	return nil
}
