package model

import "time"

// Category buckets articles into digest sections.
type Category string

const (
	CategoryTechDeep Category = "tech-deep"
	CategoryProduct  Category = "product"
	CategoryAI       Category = "ai"
	CategoryChinese  Category = "chinese"
)

// SourceType selects the fetch mechanism for a source.
type SourceType string

const (
	SourceTypeRSS SourceType = "rss"
	SourceTypeAPI SourceType = "api"
)

// SourceFilter holds optional per-source filter rules.
type SourceFilter struct {
	MinScore        int      `json:"minScore,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	ExcludeKeywords []string `json:"excludeKeywords,omitempty"`
}

// SourceConfig is the static description of one content source,
// loaded once per run and never mutated.
type SourceConfig struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Type     SourceType `json:"type"`
	URL      string     `json:"url"`
	Category Category   `json:"category"`
	// Weight is reserved for future ranking and is not consumed anywhere yet.
	Weight    float64       `json:"weight"`
	MaxPerDay int           `json:"maxPerDay"`
	Filter    *SourceFilter `json:"filter,omitempty"`
}

// RawArticle is one fetched item. URL is the deduplication key across
// all sources within a run.
type RawArticle struct {
	ID          string
	Title       string
	URL         string
	Content     string
	Description string
	PublishedAt time.Time
	Source      string
	SourceName  string
	Category    Category
	Metadata    map[string]any
}

// ArticleScore holds the four quality sub-scores (1-10) and the derived
// weighted overall value.
type ArticleScore struct {
	Novelty      float64 `json:"novelty"`
	Depth        float64 `json:"depth"`
	Practicality float64 `json:"practicality"`
	Relevance    float64 `json:"relevance"`
	Overall      float64 `json:"overall"`
}

// ArticleWithScore is a scored article. OverallScore mirrors
// Scores.Overall and is the primary sort/filter key.
type ArticleWithScore struct {
	RawArticle
	Scores       ArticleScore
	OverallScore float64
}

// Level is the reader difficulty of a summary.
type Level string

const (
	LevelBeginner Level = "beginner"
	LevelAdvanced Level = "advanced"
	LevelExpert   Level = "expert"
)

// Valid reports whether l is one of the three known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelAdvanced, LevelExpert:
		return true
	}
	return false
}

// ArticleSummary is the structured summary produced for one article.
type ArticleSummary struct {
	WhyItMatters       string   `json:"whyItMatters"`
	OneSentenceSummary string   `json:"oneSentenceSummary"`
	KeyPoints          []string `json:"keyPoints"`
	Background         string   `json:"background,omitempty"`
	Tags               []string `json:"tags"`
	Level              Level    `json:"level"`
}

// ArticleWithSummary is the terminal per-article record consumed by rendering.
type ArticleWithSummary struct {
	ArticleWithScore
	Summary ArticleSummary
}

// Section is a named, icon-tagged group of articles sharing a category.
type Section struct {
	Name     string
	Icon     string
	Articles []ArticleWithSummary
}

// DigestStats aggregates numbers over every summarized article of a run.
type DigestStats struct {
	TotalArticles     int
	AverageScore      float64
	EstimatedReadTime int
}

// DailyDigest is the final structured output for one run.
type DailyDigest struct {
	Date     time.Time
	Headline ArticleWithSummary
	Sections []Section
	Stats    DigestStats
}
