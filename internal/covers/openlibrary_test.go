package covers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverISBN(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "The Left Hand of Darkness", r.URL.Query().Get("title"))
		assert.Equal(t, "Ursula K. Le Guin", r.URL.Query().Get("author"))
		_, _ = w.Write([]byte(`{"docs":[{"title":"no isbn here"},{"isbn":["9780441478125","0441478123"]}]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	pointProvidersAt(t, server)

	isbn, err := recoverISBN(context.Background(), "The Left Hand of Darkness", "Ursula K. Le Guin")
	require.NoError(t, err)
	assert.Equal(t, "9780441478125", isbn, "first ISBN of the first doc that has one")
}

func TestRecoverISBNNoResults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"docs":[]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	pointProvidersAt(t, server)

	isbn, err := recoverISBN(context.Background(), "Unknown", "Nobody")
	require.NoError(t, err)
	assert.Empty(t, isbn)
}

func TestRecoverISBNServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	pointProvidersAt(t, server)

	_, err := recoverISBN(context.Background(), "Any", "One")
	require.Error(t, err)
}

func TestOpenLibraryCoverURL(t *testing.T) {
	assert.Equal(t,
		"https://covers.openlibrary.org/b/isbn/9780441478125-L.jpg",
		openLibraryCoverURL("9780441478125"),
	)
}
