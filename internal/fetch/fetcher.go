package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-trust/internal/domain"
	"github.com/DjordjeVuckovic/news-trust/pkg/utils"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

const (
	PlaceholderTitle   = "Untitled article"
	PlaceholderContent = "Content could not be retrieved."

	defaultTimeout  = 10 * time.Second
	defaultMaxBody  = 5 << 20
	defaultAgent    = "Mozilla/5.0 (compatible; NewsTrust/1.0)"
	minReadableText = 40
)

// Page is the extracted view of a remote article.
// Degraded is set when the page could not be retrieved or parsed and the
// placeholder title/content were substituted.
type Page struct {
	Title        string
	Content      string
	CanonicalURL string
	Degraded     bool
}

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) Page
}

type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

var _ Fetcher = (*HTTPFetcher)(nil)

type Option func(*HTTPFetcher)

func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

func WithHttpClient(c *http.Client) Option {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithUserAgent overrides the default agent; empty keeps the default.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:    &http.Client{Timeout: defaultTimeout},
		userAgent: defaultAgent,
		maxBody:   defaultMaxBody,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch never fails. Network, status and parse errors are logged and turned
// into a degraded Page carrying the placeholder text and the input URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) Page {
	page, err := f.fetch(ctx, rawURL)
	if err != nil {
		slog.Warn("failed to fetch online article", "url", rawURL, "error", err)
		return Page{
			Title:        PlaceholderTitle,
			Content:      PlaceholderContent,
			CanonicalURL: rawURL,
			Degraded:     true,
		}
	}
	return page
}

func (f *HTTPFetcher) fetch(ctx context.Context, rawURL string) (Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Page{}, fmt.Errorf("invalid url: %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Page{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return Page{}, fmt.Errorf("read body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Page{}, fmt.Errorf("parse html: %w", err)
	}

	title, content := extractReadable(body, resp.Request.URL)
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if len([]rune(content)) < minReadableText {
		content = extractParagraphs(doc)
	}
	if title == "" && content == "" {
		return Page{}, fmt.Errorf("no readable content at %s", rawURL)
	}
	if title == "" {
		title = PlaceholderTitle
	}
	if content == "" {
		content = PlaceholderContent
	}

	return Page{
		Title:        utils.Truncate(title, domain.TitleMaxLength),
		Content:      utils.Truncate(content, domain.ContentMaxLength),
		CanonicalURL: canonicalURL(doc, resp.Request.URL),
	}, nil
}

func extractReadable(body []byte, pageURL *url.URL) (string, string) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		slog.Debug("readability extraction failed", "url", pageURL.String(), "error", err)
		return "", ""
	}
	return strings.TrimSpace(article.Title), normalizeSpace(article.TextContent)
}

func extractParagraphs(doc *goquery.Document) string {
	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := normalizeSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " ")
}

// canonicalURL resolves <link rel="canonical"> against the final response URL.
func canonicalURL(doc *goquery.Document, pageURL *url.URL) string {
	href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return pageURL.String()
	}
	ref, err := url.Parse(href)
	if err != nil {
		return pageURL.String()
	}
	return pageURL.ResolveReference(ref).String()
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
