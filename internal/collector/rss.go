package collector

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/tomakado/containers/set"

	"github.com/frank-whw/infohound/internal/model"
)

const (
	feedTimeout = 30 * time.Second
	feedAgent   = "InfoHound/1.0 (Daily Tech Digest)"

	// Feed items older than this are yesterday's news.
	maxItemAge = 48 * time.Hour

	// Inline feed content shorter than this is assumed to be a teaser,
	// so the linked page is scraped instead.
	minInlineContent = 500

	rssScrapeLen  = 10000
	rssContentLen = 15000
)

// RSSCollector fetches articles from a single RSS/Atom feed.
type RSSCollector struct {
	cfg        model.SourceConfig
	parser     *gofeed.Parser
	httpClient *http.Client
	scraper    *Scraper
	log        *slog.Logger
}

// NewRSS returns a collector over the feed described by cfg.
func NewRSS(cfg model.SourceConfig, deps Deps) *RSSCollector {
	return &RSSCollector{
		cfg:        cfg,
		parser:     gofeed.NewParser(),
		httpClient: &http.Client{Timeout: feedTimeout},
		scraper:    deps.Scraper,
		log:        deps.Logger,
	}
}

func (c *RSSCollector) ID() string               { return c.cfg.ID }
func (c *RSSCollector) Name() string             { return c.cfg.Name }
func (c *RSSCollector) Category() model.Category { return c.cfg.Category }
func (c *RSSCollector) Weight() float64          { return c.cfg.Weight }
func (c *RSSCollector) MaxPerDay() int           { return c.cfg.MaxPerDay }

// Fetch parses the feed and collects up to MaxPerDay qualifying articles
// out of the 2*MaxPerDay most recent items. A failed feed fetch yields an
// empty result, never an error.
func (c *RSSCollector) Fetch(ctx context.Context) ([]model.RawArticle, error) {
	c.log.Info("fetching rss feed", "source", c.cfg.Name)

	feed, err := c.loadFeed(ctx)
	if err != nil {
		c.log.Error("fetching feed failed", "source", c.cfg.Name, "err", err)
		return nil, nil
	}

	items := feed.Items
	if window := c.cfg.MaxPerDay * 2; len(items) > window {
		items = items[:window]
	}

	var articles []model.RawArticle
	for _, item := range items {
		if item.Link == "" || item.Title == "" {
			continue
		}

		// Undated items are treated as fresh.
		published := time.Now()
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}
		if time.Since(published) > maxItemAge {
			continue
		}

		if c.shouldSkip(item.Title, item.Categories) {
			continue
		}

		content := item.Content
		if len([]rune(content)) < minInlineContent {
			scraped, err := c.scraper.FetchContent(ctx, item.Link, rssScrapeLen)
			if err != nil {
				c.log.Warn("fetching article content failed", "url", item.Link, "err", err)
			} else {
				content = scraped
			}
		}

		articles = append(articles, model.RawArticle{
			ID:          hashURL(item.Link),
			Title:       item.Title,
			URL:         item.Link,
			Content:     truncate(content, rssContentLen),
			Description: item.Description,
			PublishedAt: published,
			Source:      c.cfg.ID,
			SourceName:  c.cfg.Name,
			Category:    c.cfg.Category,
		})

		if len(articles) >= c.cfg.MaxPerDay {
			break
		}
	}

	c.log.Info("fetched articles", "source", c.cfg.Name, "count", len(articles))
	return articles, nil
}

func (c *RSSCollector) loadFeed(ctx context.Context) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", feedAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	return feed, nil
}

// shouldSkip drops an item when any configured exclude keyword appears in
// its categories or title.
func (c *RSSCollector) shouldSkip(title string, categories []string) bool {
	if c.cfg.Filter == nil || len(c.cfg.Filter.ExcludeKeywords) == 0 {
		return false
	}

	categorySet := set.New(categories...)
	lowerTitle := strings.ToLower(title)

	for _, keyword := range c.cfg.Filter.ExcludeKeywords {
		if categorySet.Contains(keyword) || strings.Contains(lowerTitle, strings.ToLower(keyword)) {
			return true
		}
	}

	return false
}
