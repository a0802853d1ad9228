// Package digest turns a flat list of scored and summarized articles into
// the headline, categorized sections and stats of one daily digest.
package digest

import (
	"math"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/frank-whw/infohound/internal/model"
)

// At most this many articles appear per section.
const maxPerSection = 3

// Minutes of reading per article.
const readTimePerArticle = 1.5

type sectionConfig struct {
	category model.Category
	name     string
	icon     string
}

// Fixed section display order.
var sectionOrder = []sectionConfig{
	{model.CategoryTechDeep, "深度技术", "🔥"},
	{model.CategoryProduct, "产品 & 创业", "🚀"},
	{model.CategoryAI, "AI & 研究", "🤖"},
	{model.CategoryChinese, "中文精选", "🌏"},
}

// Build assembles the digest for date. The highest-scoring article becomes
// the headline and is excluded from section grouping; ties keep input
// order, so the result is deterministic.
func Build(date time.Time, articles []model.ArticleWithSummary) model.DailyDigest {
	if len(articles) == 0 {
		return model.DailyDigest{Date: date}
	}

	sorted := make([]model.ArticleWithSummary, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OverallScore > sorted[j].OverallScore
	})

	headline := sorted[0]
	byCategory := lo.GroupBy(sorted[1:], func(a model.ArticleWithSummary) model.Category {
		return a.Category
	})

	var sections []model.Section
	for _, sc := range sectionOrder {
		group := byCategory[sc.category]
		if len(group) == 0 {
			continue
		}
		if len(group) > maxPerSection {
			group = group[:maxPerSection]
		}
		sections = append(sections, model.Section{
			Name:     sc.name,
			Icon:     sc.icon,
			Articles: group,
		})
	}

	return model.DailyDigest{
		Date:     date,
		Headline: headline,
		Sections: sections,
		Stats:    stats(articles),
	}
}

func stats(articles []model.ArticleWithSummary) model.DigestStats {
	if len(articles) == 0 {
		return model.DigestStats{}
	}

	sum := lo.SumBy(articles, func(a model.ArticleWithSummary) float64 {
		return a.OverallScore
	})
	avg := sum / float64(len(articles))

	return model.DigestStats{
		TotalArticles:     len(articles),
		AverageScore:      math.Round(avg*10) / 10,
		EstimatedReadTime: int(math.Ceil(float64(len(articles)) * readTimePerArticle)),
	}
}
