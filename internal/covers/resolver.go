package covers

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/chris17453/goodreads-pdf/internal/catalog"
)

// Source identifies which resolution strategy produced a cover asset.
type Source int

const (
	// SourceISBNLookup means the cover came from an identifier-based
	// primary-provider lookup (or a cached real cover).
	SourceISBNLookup Source = iota
	// SourceTitleAuthorLookup means the cover came from a free-text
	// title/author search against the primary provider.
	SourceTitleAuthorLookup
	// SourceSecondaryProvider means the cover came from the fixed-URL
	// secondary provider.
	SourceSecondaryProvider
	// SourcePlaceholder means every remote source failed and the cover
	// was synthesized.
	SourcePlaceholder
)

func (s Source) String() string {
	switch s {
	case SourceISBNLookup:
		return "isbn-lookup"
	case SourceTitleAuthorLookup:
		return "title-author-lookup"
	case SourceSecondaryProvider:
		return "secondary-provider"
	case SourcePlaceholder:
		return "generated-placeholder"
	}
	return "unknown"
}

// Asset is a resolved cover image on disk.
type Asset struct {
	Path        string
	Source      Source
	Placeholder bool
}

// Resolver obtains a cover for each book by walking a fixed chain of
// strategies: cache, identifier recovery, primary provider by ISBN, secondary
// provider by ISBN, primary provider by title/author, generated placeholder.
// Every remote failure is swallowed and treated as "no result".
type Resolver struct {
	store     *Store
	generator *Generator
	missing   *MissingReport

	// ForceRefresh skips the cache check so covers are re-downloaded even
	// when a valid cached file exists.
	ForceRefresh bool
}

// NewResolver creates a resolver over the given store, placeholder generator
// and missing-books report.
func NewResolver(store *Store, generator *Generator, missing *MissingReport) *Resolver {
	return &Resolver{store: store, generator: generator, missing: missing}
}

// lookup carries the per-book state threaded through the strategy chain.
// The ISBN may be recovered mid-chain when the record had none.
type lookup struct {
	book   catalog.Book
	isbn   string
	title  string
	author string
}

// strategy is one step of the fallback chain. It returns the asset and true
// on success; any failure means "try the next strategy".
type strategy struct {
	name string
	run  func(ctx context.Context, l *lookup) (Asset, bool)
}

// Resolve returns a usable cover asset for the book. It is total: every
// failure mode degrades to the next strategy and the final strategy always
// succeeds. A placeholder result is recorded in the missing-books report.
func (r *Resolver) Resolve(ctx context.Context, book catalog.Book) Asset {
	l := &lookup{
		book:   book,
		isbn:   book.ISBN,
		title:  book.CleanTitle(),
		author: book.Author,
	}

	if !r.ForceRefresh {
		if asset, ok := r.fromCache(l); ok {
			slog.Debug("Cover cache hit", "book_id", book.ID, "path", asset.Path)
			if asset.Placeholder {
				r.missing.Add(l.title, book.ID, l.isbn)
			}
			return asset
		}
	}

	if l.isbn == "" {
		r.recoverIdentifier(ctx, l)
	}

	chain := []strategy{
		{name: "googlebooks-isbn", run: r.fromPrimaryByISBN},
		{name: "openlibrary-cover", run: r.fromSecondaryByISBN},
		{name: "googlebooks-title-author", run: r.fromPrimaryByTitleAuthor},
	}

	for _, s := range chain {
		if asset, ok := s.run(ctx, l); ok {
			slog.Info("Downloaded cover", "book_id", book.ID, "strategy", s.name, "path", asset.Path)
			return asset
		}
	}

	return r.placeholder(l)
}

// fromCache returns a previously cached asset when one is valid. The kind of
// asset is inferred from the filename prefix.
func (r *Resolver) fromCache(l *lookup) (Asset, bool) {
	if path := r.store.CoverPath(l.book.ID); r.store.IsValid(path) {
		return Asset{Path: path, Source: SourceISBNLookup}, true
	}
	if path := r.store.PlaceholderPath(l.book.ID); r.store.IsValid(path) {
		return Asset{Path: path, Source: SourcePlaceholder, Placeholder: true}, true
	}
	return Asset{}, false
}

// recoverIdentifier tries to find an ISBN by title/author search. Failure
// leaves the lookup without an identifier and is not fatal.
func (r *Resolver) recoverIdentifier(ctx context.Context, l *lookup) {
	isbn, err := recoverISBN(ctx, l.title, l.author)
	if err != nil {
		slog.Warn("ISBN recovery failed", "title", l.title, "error", err)
		return
	}
	if isbn == "" {
		slog.Debug("No ISBN found for title", "title", l.title)
		return
	}

	slog.Debug("Recovered ISBN", "title", l.title, "isbn", isbn)
	l.isbn = isbn
}

func (r *Resolver) fromPrimaryByISBN(ctx context.Context, l *lookup) (Asset, bool) {
	if l.isbn == "" {
		return Asset{}, false
	}

	coverURL, err := searchCoverURLByISBN(ctx, l.isbn)
	if err != nil {
		slog.Warn("Google Books ISBN lookup failed", "isbn", l.isbn, "error", err)
		return Asset{}, false
	}
	if coverURL == "" {
		return Asset{}, false
	}

	return r.download(ctx, l, coverURL, SourceISBNLookup)
}

func (r *Resolver) fromSecondaryByISBN(ctx context.Context, l *lookup) (Asset, bool) {
	if l.isbn == "" {
		return Asset{}, false
	}
	return r.download(ctx, l, openLibraryCoverURL(l.isbn), SourceSecondaryProvider)
}

func (r *Resolver) fromPrimaryByTitleAuthor(ctx context.Context, l *lookup) (Asset, bool) {
	coverURL, err := searchCoverURLByTitleAuthor(ctx, l.title, l.author)
	if err != nil {
		slog.Warn("Google Books title/author lookup failed", "title", l.title, "error", err)
		return Asset{}, false
	}
	if coverURL == "" {
		return Asset{}, false
	}

	return r.download(ctx, l, coverURL, SourceTitleAuthorLookup)
}

// download fetches an image URL into the cache. A validation failure deletes
// the file and moves on; the strategy is not retried this run.
func (r *Resolver) download(ctx context.Context, l *lookup, coverURL string, source Source) (Asset, bool) {
	data, err := fetchImage(ctx, coverURL)
	if err != nil {
		slog.Warn("Cover download failed", "book_id", l.book.ID, "url", coverURL, "error", err)
		return Asset{}, false
	}

	path := r.store.CoverPath(l.book.ID)
	if err := r.store.Write(path, data); err != nil {
		slog.Warn("Cover rejected", "book_id", l.book.ID, "url", coverURL, "error", err)
		return Asset{}, false
	}

	return Asset{Path: path, Source: source}, true
}

// placeholder synthesizes a generic cover, records the book as missing and
// returns the asset. This is the terminal strategy and cannot fail: a disk
// error is logged and the asset is returned anyway, leaving the layout to
// draw its empty-box fallback.
func (r *Resolver) placeholder(l *lookup) Asset {
	published := "unknown"
	if year := l.book.LatestPublicationYear(); year > 0 {
		published = strconv.Itoa(year)
	}

	img := r.generator.Generate(l.title, l.author, published)

	path := r.store.PlaceholderPath(l.book.ID)
	if err := r.store.WriteImage(path, img); err != nil {
		slog.Error("Failed to persist placeholder cover", "book_id", l.book.ID, "error", err)
	}

	slog.Info("Generated placeholder cover", "book_id", l.book.ID, "title", l.title)
	r.missing.Add(l.title, l.book.ID, l.isbn)

	return Asset{Path: path, Source: SourcePlaceholder, Placeholder: true}
}
