// Package covers implements the cover acquisition pipeline: a flat on-disk
// cache of cover images, the remote provider lookups, a generated-placeholder
// fallback and the resolver that chains them together.
package covers

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/chris17453/goodreads-pdf/internal/fileutil"
)

// Store maps book IDs to cached cover files in a single flat directory.
// Real covers and generated placeholders use distinct filename prefixes so
// they are distinguishable by name alone.
type Store struct {
	// Dir is the cover cache directory
	Dir string
	// BrokenSize is the byte size of a known-bad provider response; a file
	// of exactly this size is treated as invalid
	BrokenSize int64
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, brokenSize int64) *Store {
	return &Store{Dir: dir, BrokenSize: brokenSize}
}

// CoverPath returns the cache path for a real cover of the given book.
func (s *Store) CoverPath(bookID int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("cover_%d.jpg", bookID))
}

// PlaceholderPath returns the cache path for a generated placeholder cover.
func (s *Store) PlaceholderPath(bookID int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("GENERIC_%d.jpg", bookID))
}

// IsPlaceholderPath reports whether path names a generated placeholder.
func (s *Store) IsPlaceholderPath(path string) bool {
	return strings.HasPrefix(filepath.Base(path), "GENERIC_")
}

// IsValid reports whether the file at path exists, is non-empty and does not
// match the broken-image size sentinel.
func (s *Store) IsValid(path string) bool {
	size := fileutil.FileSize(path)
	return size > 0 && size != s.BrokenSize
}

// Write decodes raw image bytes and persists them at path as JPEG, so every
// cached cover shares one pixel format. A file that fails validation after
// writing is deleted so it cannot poison the cache.
func (s *Store) Write(path string, data []byte) error {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode cover image: %w", err)
	}
	return s.WriteImage(path, img)
}

// WriteImage persists an already-decoded image at path as JPEG, applying the
// same validation rule as Write.
func (s *Store) WriteImage(path string, img image.Image) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create cover directory: %w", err)
	}

	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save cover image: %w", err)
	}

	if !s.IsValid(path) {
		_ = os.Remove(path)
		return fmt.Errorf("cover at %s failed validation after write", path)
	}

	return nil
}
