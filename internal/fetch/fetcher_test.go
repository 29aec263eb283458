package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-trust/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Council approves budget</title>
  <link rel="canonical" href="/news/council-budget">
</head>
<body>
  <nav><a href="/">Home</a></nav>
  <article>
    <h1>Council approves budget</h1>
    <p>The city council approved the annual budget on Tuesday after a long debate about public transport funding.</p>
    <p>The new plan increases spending on buses and cycle lanes while holding property taxes flat for the coming year.</p>
    <p>Officials said the vote followed months of consultation with residents and local businesses across the city.</p>
  </article>
</body>
</html>`

func TestHTTPFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	page := NewHTTPFetcher().Fetch(context.Background(), srv.URL+"/story?id=1")

	assert.False(t, page.Degraded)
	assert.Contains(t, page.Title, "Council approves budget")
	assert.Contains(t, page.Content, "annual budget")
	assert.Equal(t, srv.URL+"/news/council-budget", page.CanonicalURL)
}

func TestHTTPFetcher_Fetch_UserAgent(t *testing.T) {
	agents := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents <- r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	NewHTTPFetcher(WithUserAgent("news-trust-test/1.0")).Fetch(context.Background(), srv.URL)
	assert.Equal(t, "news-trust-test/1.0", <-agents)

	NewHTTPFetcher(WithUserAgent("")).Fetch(context.Background(), srv.URL)
	assert.Equal(t, defaultAgent, <-agents)
}

func TestHTTPFetcher_Fetch_NoCanonicalUsesFinalURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Short</title></head><body><p>Just one line.</p></body></html>`))
	}))
	defer srv.Close()

	page := NewHTTPFetcher().Fetch(context.Background(), srv.URL+"/a")

	assert.False(t, page.Degraded)
	assert.Equal(t, srv.URL+"/a", page.CanonicalURL)
	assert.Contains(t, page.Content, "Just one line.")
}

func TestHTTPFetcher_Fetch_Truncates(t *testing.T) {
	longTitle := strings.Repeat("T", 400)
	longParagraph := strings.Repeat("word ", 4000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><head><title>" + longTitle + "</title></head><body><p>" + longParagraph + "</p></body></html>"))
	}))
	defer srv.Close()

	page := NewHTTPFetcher().Fetch(context.Background(), srv.URL)

	assert.False(t, page.Degraded)
	assert.LessOrEqual(t, len([]rune(page.Title)), domain.TitleMaxLength)
	assert.LessOrEqual(t, len([]rune(page.Content)), domain.ContentMaxLength)
}

func TestHTTPFetcher_Fetch_Degraded(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer notFound.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	tests := []struct {
		name    string
		fetcher *HTTPFetcher
		url     string
	}{
		{name: "http error status", fetcher: NewHTTPFetcher(), url: notFound.URL},
		{name: "timeout", fetcher: NewHTTPFetcher(WithTimeout(50 * time.Millisecond)), url: slow.URL},
		{name: "invalid url", fetcher: NewHTTPFetcher(), url: "not a url"},
		{name: "unsupported scheme", fetcher: NewHTTPFetcher(), url: "ftp://example.com/file"},
		{name: "connection refused", fetcher: NewHTTPFetcher(), url: "http://127.0.0.1:1/nothing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := tt.fetcher.Fetch(context.Background(), tt.url)

			require.True(t, page.Degraded)
			assert.Equal(t, PlaceholderTitle, page.Title)
			assert.Equal(t, PlaceholderContent, page.Content)
			assert.Equal(t, tt.url, page.CanonicalURL)
		})
	}
}
