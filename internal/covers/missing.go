package covers

import (
	"fmt"
	"os"
	"strings"
)

// MissingBook identifies a book that received a generated placeholder.
type MissingBook struct {
	Title string
	ID    int
	ISBN  string // empty when no identifier was ever found
}

// MissingReport collects the books that fell through to a placeholder.
// Entries are appended once per book and cleared only at process start.
type MissingReport struct {
	entries []MissingBook
}

// Add appends one entry to the report.
func (r *MissingReport) Add(title string, id int, isbn string) {
	r.entries = append(r.entries, MissingBook{Title: title, ID: id, ISBN: isbn})
}

// Entries returns the recorded entries in append order.
func (r *MissingReport) Entries() []MissingBook {
	return r.entries
}

// WriteFile writes the report as text, one line per missing book.
func (r *MissingReport) WriteFile(path string) error {
	var b strings.Builder
	b.WriteString("Books without found covers:\n\n")

	for _, entry := range r.entries {
		isbn := entry.ISBN
		if isbn == "" {
			isbn = "N/A"
		}
		fmt.Fprintf(&b, "Title: %s, Book ID: %d, ISBN: %s\n", entry.Title, entry.ID, isbn)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write missing books report: %w", err)
	}

	return nil
}
