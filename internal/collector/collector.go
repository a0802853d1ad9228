// Package collector pulls candidate articles from configured content
// sources and normalizes them into RawArticle records.
package collector

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/frank-whw/infohound/internal/cache"
	"github.com/frank-whw/infohound/internal/model"
)

// Collector yields raw articles from one content source. Fetch never
// returns an error for a failed source; it logs and yields nothing, so a
// bad source cannot abort the run.
type Collector interface {
	ID() string
	Name() string
	Category() model.Category
	Weight() float64
	MaxPerDay() int
	Fetch(ctx context.Context) ([]model.RawArticle, error)
}

// Deps bundles the shared collaborators every collector needs.
type Deps struct {
	Cache   *cache.ContentCache
	Scraper *Scraper
	Logger  *slog.Logger
}

// New builds the collector for a source config. Dispatch is by source id
// first (hackernews has its own API), then by mechanism type.
func New(cfg model.SourceConfig, deps Deps) (Collector, error) {
	switch {
	case cfg.ID == "hackernews":
		return NewHackerNews(cfg, deps), nil
	case cfg.Type == model.SourceTypeRSS:
		return NewRSS(cfg, deps), nil
	default:
		return nil, fmt.Errorf("unknown collector type for source: %s", cfg.ID)
	}
}

// hashURL derives the stable article id for content without a native one.
func hashURL(u string) string {
	sum := md5.Sum([]byte(u))
	return hex.EncodeToString(sum[:])[:12]
}
