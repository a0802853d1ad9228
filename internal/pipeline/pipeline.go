// Package pipeline sequences one digest run: fetch, dedupe, evaluate,
// filter, summarize, assemble, render, persist. Each stage isolates its
// failures so one bad source or article cannot abort the run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/frank-whw/infohound/internal/collector"
	"github.com/frank-whw/infohound/internal/digest"
	"github.com/frank-whw/infohound/internal/model"
	"github.com/frank-whw/infohound/internal/render"
)

const (
	// Fetch-order caps applied before each AI stage.
	maxEvaluate  = 20
	maxSummarize = 15

	// Articles scoring below this never reach summarization.
	qualityThreshold = 7.0
)

// AIService scores and summarizes articles. Results are values, possibly
// degraded; the implementation never surfaces per-article errors.
type AIService interface {
	Evaluate(ctx context.Context, article model.RawArticle) model.ArticleScore
	Summarize(ctx context.Context, article model.ArticleWithScore) model.ArticleSummary
}

// Options wires a Pipeline.
type Options struct {
	Sources      []model.SourceConfig
	NewCollector func(cfg model.SourceConfig) (collector.Collector, error)
	AI           AIService
	Logger       *slog.Logger

	// Concurrency bounds simultaneous AI calls. It is a throttle against
	// provider rate limits, not a performance dial; values below 1 are
	// clamped to 1 and the bound cannot be disabled.
	Concurrency int

	OutputDir  string
	ArchiveDir string

	// Now overrides the clock (for testing).
	Now func() time.Time
}

type Pipeline struct {
	sources      []model.SourceConfig
	newCollector func(cfg model.SourceConfig) (collector.Collector, error)
	ai           AIService
	log          *slog.Logger
	concurrency  int
	outputDir    string
	archiveDir   string
	now          func() time.Time
}

func New(opts Options) *Pipeline {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Pipeline{
		sources:      opts.Sources,
		newCollector: opts.NewCollector,
		ai:           opts.AI,
		log:          opts.Logger,
		concurrency:  concurrency,
		outputDir:    opts.OutputDir,
		archiveDir:   opts.ArchiveDir,
		now:          now,
	}
}

// Run performs one full pass and returns the generated digest. A run that
// ends early because nothing was fetched or nothing passed the quality
// threshold returns (nil, nil); only persistence failures are errors.
func (p *Pipeline) Run(ctx context.Context) (*model.DailyDigest, error) {
	p.log.Info("starting digest generation")

	raw := p.fetchAll(ctx)
	if len(raw) == 0 {
		p.log.Warn("no articles found")
		return nil, nil
	}

	if len(raw) > maxEvaluate {
		raw = raw[:maxEvaluate]
	}
	evaluated := p.evaluate(ctx, raw)

	quality := lo.Filter(evaluated, func(a model.ArticleWithScore, _ int) bool {
		return a.OverallScore >= qualityThreshold
	})
	p.log.Info("quality filter applied", "passed", len(quality), "threshold", qualityThreshold)
	if len(quality) == 0 {
		p.log.Warn("no articles passed quality threshold")
		return nil, nil
	}

	if len(quality) > maxSummarize {
		quality = quality[:maxSummarize]
	}
	summarized := p.summarize(ctx, quality)

	d := digest.Build(p.now(), summarized)

	if err := p.persist(d); err != nil {
		return nil, err
	}

	p.log.Info("digest generation completed",
		"articles", d.Stats.TotalArticles, "avg_score", d.Stats.AverageScore)
	return &d, nil
}

// fetchAll runs every source's collector sequentially, isolating
// per-source failures, and deduplicates the result by URL keeping the
// first occurrence.
func (p *Pipeline) fetchAll(ctx context.Context) []model.RawArticle {
	var articles []model.RawArticle

	for _, src := range p.sources {
		coll, err := p.newCollector(src)
		if err != nil {
			p.log.Error("creating collector failed", "source", src.Name, "err", err)
			continue
		}

		items, err := coll.Fetch(ctx)
		if err != nil {
			p.log.Error("fetching source failed", "source", src.Name, "err", err)
			continue
		}

		p.log.Info("collected articles", "source", src.Name, "count", len(items))
		articles = append(articles, items...)
	}

	unique := lo.UniqBy(articles, func(a model.RawArticle) string {
		return a.URL
	})

	p.log.Info("total unique articles", "count", len(unique))
	return unique
}

func (p *Pipeline) evaluate(ctx context.Context, articles []model.RawArticle) []model.ArticleWithScore {
	p.log.Info("evaluating articles", "count", len(articles))

	scored := make([]model.ArticleWithScore, len(articles))
	p.forEachBounded(len(articles), func(i int) {
		scores := p.ai.Evaluate(ctx, articles[i])
		scored[i] = model.ArticleWithScore{
			RawArticle:   articles[i],
			Scores:       scores,
			OverallScore: scores.Overall,
		}
	})

	return scored
}

func (p *Pipeline) summarize(ctx context.Context, articles []model.ArticleWithScore) []model.ArticleWithSummary {
	p.log.Info("summarizing articles", "count", len(articles))

	summarized := make([]model.ArticleWithSummary, len(articles))
	p.forEachBounded(len(articles), func(i int) {
		summarized[i] = model.ArticleWithSummary{
			ArticleWithScore: articles[i],
			Summary:          p.ai.Summarize(ctx, articles[i]),
		}
	})

	return summarized
}

// forEachBounded runs fn for every index with at most p.concurrency calls
// in flight. Each result stays tied to its input slot, so output order
// matches input order regardless of completion order.
func (p *Pipeline) forEachBounded(n int, fn func(i int)) {
	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(i)
		}(i)
	}

	wg.Wait()
}

// persist writes the dated Markdown, the fixed index.html and the archive
// copy. Any failure here is fatal for the run.
func (p *Pipeline) persist(d model.DailyDigest) error {
	markdown := render.Markdown(d)
	page := render.HTML(d)
	name := d.Date.Format("2006-01-02") + ".md"

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return fmt.Errorf("ensure output dir: %w", err)
	}

	mdPath := filepath.Join(p.outputDir, name)
	if err := os.WriteFile(mdPath, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	p.log.Info("saved markdown", "path", mdPath)

	htmlPath := filepath.Join(p.outputDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(page), 0o644); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	p.log.Info("saved html", "path", htmlPath)

	if err := os.MkdirAll(p.archiveDir, 0o755); err != nil {
		return fmt.Errorf("ensure archive dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(p.archiveDir, name), []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	return nil
}
