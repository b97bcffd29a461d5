package generate

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/chris17453/goodreads-pdf/internal/catalog"
)

// Goodreads library export column indices.
const (
	colBookID        = 0
	colTitle         = 1
	colAuthor        = 2
	colISBN          = 5
	colISBN13        = 6
	colNumberOfPages = 11
	colYearPublished = 12
	colOrigPubYear   = 13
	colDateRead      = 14

	minColumns = 15
)

func loadBooksFromCSV(filePath string) ([]catalog.Book, error) {
	totalBooks, err := countBooksInCSV(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to count books in CSV: %w", err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var books []catalog.Book
	processed := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("Error reading record", "error", err)
			continue
		}

		book, err := parseBookRecord(record)
		if err != nil {
			slog.Warn("Invalid book record", "error", err)
			continue
		}

		books = append(books, book)
		processed++
		logBookProgress(processed, totalBooks)
	}

	return books, nil
}

func parseBookRecord(record []string) (catalog.Book, error) {
	if len(record) < minColumns {
		return catalog.Book{}, fmt.Errorf("record has %d columns, want at least %d", len(record), minColumns)
	}

	bookID, err := strconv.Atoi(record[colBookID])
	if err != nil {
		return catalog.Book{}, fmt.Errorf("invalid book ID: %w", err)
	}

	// ISBN13 is the primary identifier, the 10-digit ISBN the fallback
	isbn := catalog.CleanISBN(record[colISBN13])
	if isbn == "" {
		isbn = catalog.CleanISBN(record[colISBN])
	}

	return catalog.Book{
		ID:                      bookID,
		Title:                   record[colTitle],
		Author:                  record[colAuthor],
		ISBN:                    isbn,
		NumberOfPages:           parseIntField(record[colNumberOfPages]),
		YearPublished:           parseIntField(record[colYearPublished]),
		OriginalPublicationYear: parseIntField(record[colOrigPubYear]),
		DateRead:                catalog.ParseDateRead(record[colDateRead]),
	}, nil
}

func parseIntField(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

// countBooksInCSV counts the data rows so progress can be reported.
func countBooksInCSV(filePath string) (int, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	count := 0
	for {
		if _, err := reader.Read(); err == io.EOF {
			break
		} else if err != nil {
			continue
		}
		count++
	}

	return count, nil
}

func logBookProgress(processed, total int) {
	if processed == 0 || processed%10 != 0 {
		return
	}

	percentage := "0%"
	if total > 0 {
		percentage = fmt.Sprintf("%.1f%%", float64(processed)/float64(total)*100)
	}

	slog.Info("Processing books",
		"processed", processed,
		"total", total,
		"percentage", percentage,
	)
}
