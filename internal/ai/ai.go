// Package ai scores and summarizes articles through a provider-agnostic
// LLM interface. Every failure degrades to a fixed default value; errors
// never cross the service boundary.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/frank-whw/infohound/internal/model"
)

// Config selects and tunes one LLM backend.
type Config struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
}

// Provider performs a single chat completion against one backend.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service evaluates article quality and produces structured summaries.
type Service struct {
	provider Provider
	log      *slog.Logger
}

// NewService constructs a Service over the configured provider. Unknown
// provider identifiers fail here, before the pipeline starts.
func NewService(cfg Config, log *slog.Logger) (*Service, error) {
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}

	log.Info("created ai service", "provider", cfg.Provider, "model", cfg.Model)

	return &Service{provider: provider, log: log}, nil
}

// NewServiceWithProvider wires an explicit provider (for testing).
func NewServiceWithProvider(provider Provider, log *slog.Logger) *Service {
	return &Service{provider: provider, log: log}
}

func newProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		return newAnthropicProvider(cfg), nil
	case "openai", "openrouter", "deepseek", "custom":
		return newOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", cfg.Provider)
	}
}

// Evaluate rates an article on four dimensions and derives the weighted
// overall score. Any failure yields the fixed default score.
func (s *Service) Evaluate(ctx context.Context, article model.RawArticle) model.ArticleScore {
	reply, err := s.provider.Complete(ctx, evaluationPrompt(article))
	if err != nil {
		s.log.Error("evaluating article failed", "title", article.Title, "err", err)
		return DefaultScore()
	}

	raw, err := ExtractJSON(reply)
	if err != nil {
		s.log.Error("parsing evaluation reply failed", "title", article.Title, "err", err)
		return DefaultScore()
	}

	var scores model.ArticleScore
	if err := json.Unmarshal([]byte(raw), &scores); err != nil {
		s.log.Error("decoding evaluation reply failed", "title", article.Title, "err", err)
		return DefaultScore()
	}

	scores.Overall = Overall(scores)
	return scores
}

// Summarize produces the structured summary for a scored article. Any
// failure yields a degraded summary synthesized from the article itself.
func (s *Service) Summarize(ctx context.Context, article model.ArticleWithScore) model.ArticleSummary {
	reply, err := s.provider.Complete(ctx, summarizationPrompt(article))
	if err != nil {
		s.log.Error("summarizing article failed", "title", article.Title, "err", err)
		return FallbackSummary(article)
	}

	raw, err := ExtractJSON(reply)
	if err != nil {
		s.log.Error("parsing summary reply failed", "title", article.Title, "err", err)
		return FallbackSummary(article)
	}

	var summary model.ArticleSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		s.log.Error("decoding summary reply failed", "title", article.Title, "err", err)
		return FallbackSummary(article)
	}

	if !summary.Level.Valid() {
		summary.Level = model.LevelAdvanced
	}

	return summary
}

// Overall computes the fixed weighted average over the four sub-scores,
// rounded to one decimal place.
func Overall(s model.ArticleScore) float64 {
	v := s.Novelty*0.2 + s.Depth*0.3 + s.Practicality*0.3 + s.Relevance*0.2
	return math.Round(v*10) / 10
}

// DefaultScore is the degraded result substituted on any evaluation failure.
func DefaultScore() model.ArticleScore {
	return model.ArticleScore{
		Novelty:      5,
		Depth:        5,
		Practicality: 5,
		Relevance:    5,
		Overall:      5,
	}
}

// FallbackSummary is the degraded result substituted on any summarization
// failure, synthesized from the article's own fields.
func FallbackSummary(article model.ArticleWithScore) model.ArticleSummary {
	oneSentence := article.Description
	if oneSentence == "" {
		oneSentence = article.Title
	}

	keyPoints := []string{article.Description}
	if article.Description == "" {
		keyPoints = []string{"See original article"}
	}

	return model.ArticleSummary{
		WhyItMatters:       "Article about " + article.Title,
		OneSentenceSummary: oneSentence,
		KeyPoints:          keyPoints,
		Tags:               []string{string(article.Category)},
		Level:              model.LevelAdvanced,
	}
}
