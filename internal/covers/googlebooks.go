package covers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/chris17453/goodreads-pdf/internal/ratelimit"
)

// Package-level variables for the Google Books API client.
// These can be overridden in tests for dependency injection.
var (
	googleBooksHTTPClient    *http.Client
	googleBooksClientOnce    sync.Once
	googleBooksHTTPClientNew = func() *http.Client {
		return &http.Client{Timeout: 10 * time.Second}
	}
	googleBooksBaseURL = "https://www.googleapis.com/books/v1"

	gbRateLimiter   *ratelimit.Limiter
	gbLimiterOnce   sync.Once
	imageHTTPClient = &http.Client{Timeout: 30 * time.Second}
)

// getGoogleBooksHTTPClient returns a singleton HTTP client for Google Books.
func getGoogleBooksHTTPClient() *http.Client {
	googleBooksClientOnce.Do(func() {
		googleBooksHTTPClient = googleBooksHTTPClientNew()
	})
	return googleBooksHTTPClient
}

// getGBRateLimiter returns a singleton rate limiter for Google Books (2 req/sec).
func getGBRateLimiter() *ratelimit.Limiter {
	gbLimiterOnce.Do(func() {
		gbRateLimiter = ratelimit.New("GoogleBooks", 2)
	})
	return gbRateLimiter
}

type googleBooksResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo googleBooksVolumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

type googleBooksVolumeInfo struct {
	Title      string `json:"title"`
	ImageLinks struct {
		Thumbnail  string `json:"thumbnail"`
		Large      string `json:"large"`
		ExtraLarge string `json:"extraLarge"`
	} `json:"imageLinks"`
}

// coverURL picks the best available image variant in fixed priority order:
// large, then extraLarge, then thumbnail.
func (v googleBooksVolumeInfo) coverURL() string {
	if v.ImageLinks.Large != "" {
		return v.ImageLinks.Large
	}
	if v.ImageLinks.ExtraLarge != "" {
		return v.ImageLinks.ExtraLarge
	}
	return v.ImageLinks.Thumbnail
}

// searchCoverURLByISBN asks Google Books for a cover image URL by ISBN.
// No match is returned as an empty URL, not an error.
func searchCoverURLByISBN(ctx context.Context, isbn string) (string, error) {
	if isbn == "" {
		return "", fmt.Errorf("ISBN is required")
	}
	query := "isbn:" + isbn
	return searchCoverURL(ctx, query)
}

// searchCoverURLByTitleAuthor asks Google Books for a cover image URL by a
// free-text title/author match, using the first result only.
func searchCoverURLByTitleAuthor(ctx context.Context, title, author string) (string, error) {
	query := fmt.Sprintf("intitle:%s+inauthor:%s", url.QueryEscape(title), url.QueryEscape(author))
	return searchCoverURL(ctx, query)
}

func searchCoverURL(ctx context.Context, query string) (string, error) {
	limiter := getGBRateLimiter()
	if err := limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait failed: %w", err)
	}

	requestURL := fmt.Sprintf("%s/volumes?q=%s", googleBooksBaseURL, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := getGoogleBooksHTTPClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("google Books API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google Books API returned status %d", resp.StatusCode)
	}

	var result googleBooksResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode Google Books response: %w", err)
	}

	if result.TotalItems == 0 || len(result.Items) == 0 {
		return "", nil
	}

	info := result.Items[0].VolumeInfo
	slog.Debug("Google Books match", "query", query, "title", info.Title)

	return info.coverURL(), nil
}

// fetchImage downloads image bytes from a provider URL. A non-200 response is
// an error; callers treat every error as "no result".
func fetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := imageHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned status %d for %s", resp.StatusCode, imageURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}

	return data, nil
}
