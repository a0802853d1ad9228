package collector

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/frank-whw/infohound/internal/cache"
)

const (
	scrapeTimeout  = 10 * time.Second
	scrapeCacheTTL = 24 // hours
	scrapeBodyMax  = 2 << 20
	scrapeAgent    = "Mozilla/5.0 (compatible; InfoHound/1.0)"
)

// Elements that never carry article text.
const strippedSelectors = "script, style, nav, footer, aside, .ads, .comments"

// Candidate containers, most specific first.
var contentSelectors = []string{"article", "[role=main]", ".content", ".post", "main", "body"}

// readability leaves runs of blank lines behind; collapse them.
var redundantNewlines = regexp.MustCompile(`\n{3,}`)

// Scraper extracts readable text from article pages, caching results for a day.
type Scraper struct {
	httpClient *http.Client
	cache      *cache.ContentCache
	log        *slog.Logger
}

// ScraperOption configures a Scraper.
type ScraperOption func(*Scraper)

// WithHTTPClient replaces the HTTP client (for testing).
func WithHTTPClient(client *http.Client) ScraperOption {
	return func(s *Scraper) {
		s.httpClient = client
	}
}

// NewScraper returns a scraper backed by contentCache.
func NewScraper(contentCache *cache.ContentCache, log *slog.Logger, opts ...ScraperOption) *Scraper {
	s := &Scraper{
		httpClient: &http.Client{Timeout: scrapeTimeout},
		cache:      contentCache,
		log:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchContent returns the readable text of the page at rawURL, trimmed to
// maxLen runes. Results are cached by URL.
func (s *Scraper) FetchContent(ctx context.Context, rawURL string, maxLen int) (string, error) {
	return s.cache.GetOrFetch(rawURL, func() (string, error) {
		return s.scrape(ctx, rawURL, maxLen)
	}, scrapeCacheTTL)
}

func (s *Scraper) scrape(ctx context.Context, rawURL string, maxLen int) (string, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || pageURL.Scheme == "" || pageURL.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", scrapeAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, scrapeBodyMax))
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}

	text := extractText(body)
	if text == "" {
		// The selector chain found nothing useful; let readability try.
		article, err := readability.FromReader(bytes.NewReader(body), pageURL)
		if err != nil {
			return "", fmt.Errorf("extract content: %w", err)
		}
		text = strings.TrimSpace(article.TextContent)
	}

	text = redundantNewlines.ReplaceAllString(text, "\n")

	return truncate(text, maxLen), nil
}

// extractText strips non-content elements and returns the text of the first
// selector in the chain that yields anything.
func extractText(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	doc.Find(strippedSelectors).Remove()

	for _, sel := range contentSelectors {
		if text := strings.TrimSpace(doc.Find(sel).Text()); text != "" {
			return text
		}
	}

	return ""
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
