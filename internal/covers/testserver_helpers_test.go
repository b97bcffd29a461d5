package covers

import (
	"bytes"
	"image/color"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/chris17453/goodreads-pdf/internal/ratelimit"
)

// pointProvidersAt redirects every provider base URL at the test server and
// restores the package state when the test finishes.
func pointProvidersAt(t *testing.T, server *httptest.Server) {
	t.Helper()

	origImageClient := imageHTTPClient

	t.Cleanup(func() {
		googleBooksHTTPClient = nil
		googleBooksClientOnce = sync.Once{}
		googleBooksHTTPClientNew = func() *http.Client { return &http.Client{Timeout: 10 * time.Second} }
		googleBooksBaseURL = "https://www.googleapis.com/books/v1"

		openLibraryHTTPClient = nil
		openLibraryClientOnce = sync.Once{}
		openLibraryHTTPClientNew = func() *http.Client { return &http.Client{Timeout: 10 * time.Second} }
		openLibraryBaseURL = "https://openlibrary.org"
		openLibraryCoversBaseURL = "https://covers.openlibrary.org"

		gbRateLimiter = nil
		gbLimiterOnce = sync.Once{}
		olRateLimiter = nil
		olLimiterOnce = sync.Once{}

		imageHTTPClient = origImageClient
	})

	googleBooksHTTPClient = nil
	googleBooksClientOnce = sync.Once{}
	googleBooksHTTPClientNew = func() *http.Client { return server.Client() }
	googleBooksBaseURL = server.URL

	openLibraryHTTPClient = nil
	openLibraryClientOnce = sync.Once{}
	openLibraryHTTPClientNew = func() *http.Client { return server.Client() }
	openLibraryBaseURL = server.URL
	openLibraryCoversBaseURL = server.URL

	imageHTTPClient = server.Client()

	// Keep the singleton limiters out of the way in tests
	gbLimiterOnce = sync.Once{}
	gbLimiterOnce.Do(func() { gbRateLimiter = ratelimit.New("GoogleBooks", 1000) })
	olLimiterOnce = sync.Once{}
	olLimiterOnce.Do(func() { olRateLimiter = ratelimit.New("OpenLibrary", 1000) })
}

// jpegBytes returns a small valid JPEG payload.
func jpegBytes(t *testing.T) []byte {
	t.Helper()

	img := imaging.New(12, 18, color.NRGBA{R: 180, G: 40, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}
