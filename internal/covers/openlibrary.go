package covers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/chris17453/goodreads-pdf/internal/ratelimit"
)

// Package-level variables for the OpenLibrary client.
// These can be overridden in tests for dependency injection.
var (
	openLibraryHTTPClient    *http.Client
	openLibraryClientOnce    sync.Once
	openLibraryHTTPClientNew = func() *http.Client {
		return &http.Client{Timeout: 10 * time.Second}
	}
	openLibraryBaseURL       = "https://openlibrary.org"
	openLibraryCoversBaseURL = "https://covers.openlibrary.org"

	olRateLimiter *ratelimit.Limiter
	olLimiterOnce sync.Once
)

// getOpenLibraryHTTPClient returns a singleton HTTP client for OpenLibrary.
func getOpenLibraryHTTPClient() *http.Client {
	openLibraryClientOnce.Do(func() {
		openLibraryHTTPClient = openLibraryHTTPClientNew()
	})
	return openLibraryHTTPClient
}

// getOLRateLimiter returns a singleton rate limiter for OpenLibrary (1 req/sec).
func getOLRateLimiter() *ratelimit.Limiter {
	olLimiterOnce.Do(func() {
		olRateLimiter = ratelimit.New("OpenLibrary", 1)
	})
	return olRateLimiter
}

type openLibrarySearchResponse struct {
	Docs []struct {
		ISBN []string `json:"isbn"`
	} `json:"docs"`
}

// recoverISBN searches OpenLibrary by title and author and returns the first
// ISBN found in the results. No match is returned as "", not an error.
func recoverISBN(ctx context.Context, title, author string) (string, error) {
	limiter := getOLRateLimiter()
	if err := limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait failed: %w", err)
	}

	params := url.Values{}
	params.Set("title", title)
	params.Set("author", author)
	requestURL := fmt.Sprintf("%s/search.json?%s", openLibraryBaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := getOpenLibraryHTTPClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("OpenLibrary search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenLibrary search returned status %d", resp.StatusCode)
	}

	var result openLibrarySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode OpenLibrary response: %w", err)
	}

	for _, doc := range result.Docs {
		if len(doc.ISBN) > 0 {
			return doc.ISBN[0], nil
		}
	}

	return "", nil
}

// openLibraryCoverURL returns the fixed-URL large cover endpoint for an ISBN.
func openLibraryCoverURL(isbn string) string {
	return fmt.Sprintf("%s/b/isbn/%s-L.jpg", openLibraryCoversBaseURL, url.PathEscape(isbn))
}
