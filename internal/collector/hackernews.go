package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/frank-whw/infohound/internal/cache"
	"github.com/frank-whw/infohound/internal/model"
)

const (
	hnTimeout = 15 * time.Second

	// How far down the front page to look.
	hnTopWindow = 50

	// Stories below this score are noise for a daily digest.
	hnDefaultMinScore = 100

	// Story metadata moves quickly, so it is cached for one hour only.
	hnItemCacheTTL = 1

	hnScrapeLen  = 15000
	hnContentLen = 15000
)

// hnItem is the subset of the Hacker News item payload the collector reads.
type hnItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
}

// HackerNewsCollector pulls top stories from the Hacker News API.
type HackerNewsCollector struct {
	cfg        model.SourceConfig
	apiBase    string
	minScore   int
	httpClient *http.Client
	cache      *cache.ContentCache
	scraper    *Scraper
	log        *slog.Logger
}

// NewHackerNews returns a collector over the HN API at cfg.URL.
func NewHackerNews(cfg model.SourceConfig, deps Deps) *HackerNewsCollector {
	minScore := hnDefaultMinScore
	if cfg.Filter != nil && cfg.Filter.MinScore > 0 {
		minScore = cfg.Filter.MinScore
	}

	return &HackerNewsCollector{
		cfg:        cfg,
		apiBase:    cfg.URL,
		minScore:   minScore,
		httpClient: &http.Client{Timeout: hnTimeout},
		cache:      deps.Cache,
		scraper:    deps.Scraper,
		log:        deps.Logger,
	}
}

func (c *HackerNewsCollector) ID() string               { return c.cfg.ID }
func (c *HackerNewsCollector) Name() string             { return c.cfg.Name }
func (c *HackerNewsCollector) Category() model.Category { return c.cfg.Category }
func (c *HackerNewsCollector) Weight() float64          { return c.cfg.Weight }
func (c *HackerNewsCollector) MaxPerDay() int           { return c.cfg.MaxPerDay }

// Fetch walks the top stories until MaxPerDay articles qualify. Individual
// story failures are skipped; a failed id-list fetch yields an empty result.
func (c *HackerNewsCollector) Fetch(ctx context.Context) ([]model.RawArticle, error) {
	c.log.Info("fetching top stories from hacker news")

	ids, err := c.topStories(ctx)
	if err != nil {
		c.log.Error("fetching top stories failed", "err", err)
		return nil, nil
	}
	if len(ids) > hnTopWindow {
		ids = ids[:hnTopWindow]
	}

	var articles []model.RawArticle
	for _, id := range ids {
		if len(articles) >= c.cfg.MaxPerDay {
			break
		}

		item, err := c.item(ctx, id)
		if err != nil {
			c.log.Warn("fetching hn item failed", "id", id, "err", err)
			continue
		}
		if item.URL == "" || item.Score < c.minScore {
			continue
		}

		// Some story URLs are not fetchable; keep the story anyway.
		content, err := c.scraper.FetchContent(ctx, item.URL, hnScrapeLen)
		if err != nil {
			content = ""
		}

		articles = append(articles, model.RawArticle{
			ID:          fmt.Sprintf("hn-%d", item.ID),
			Title:       item.Title,
			URL:         item.URL,
			Content:     truncate(content, hnContentLen),
			PublishedAt: time.Unix(item.Time, 0),
			Source:      c.cfg.ID,
			SourceName:  c.cfg.Name,
			Category:    c.cfg.Category,
			Metadata: map[string]any{
				"score":    item.Score,
				"comments": item.Descendants,
				"author":   item.By,
			},
		})
	}

	c.log.Info("fetched articles", "source", c.cfg.Name, "count", len(articles))
	return articles, nil
}

func (c *HackerNewsCollector) topStories(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := c.getJSON(ctx, c.apiBase+"/topstories.json", &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *HackerNewsCollector) item(ctx context.Context, id int64) (*hnItem, error) {
	cacheKey := fmt.Sprintf("hn-item-%d", id)

	raw, err := c.cache.GetOrFetch(cacheKey, func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/item/%d.json", c.apiBase, id), nil)
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("fetch item %d: %w", id, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("read item %d: %w", id, err)
		}

		return string(body), nil
	}, hnItemCacheTTL)
	if err != nil {
		return nil, err
	}

	var item hnItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, fmt.Errorf("decode item %d: %w", id, err)
	}

	return &item, nil
}

func (c *HackerNewsCollector) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
