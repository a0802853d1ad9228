package ai

import (
	"fmt"

	"github.com/frank-whw/infohound/internal/model"
)

const (
	evaluationContentLen    = 8000
	summarizationContentLen = 10000
)

func evaluationPrompt(article model.RawArticle) string {
	return fmt.Sprintf(`You are a senior tech editor evaluating article quality.

Article Title: %s
Article Content: %s
Source: %s
Category: %s

Rate this article on 4 dimensions (1-10 scale):
1. novelty: How new/unique is the information?
2. depth: How deep is the analysis? Does it have data/cases?
3. practicality: Can readers get actionable insights?
4. relevance: How relevant for a tech-savvy reader interested in %s?

Respond in JSON format:
{
  "novelty": 8,
  "depth": 7,
  "practicality": 9,
  "relevance": 8,
  "reasoning": "Brief explanation of your ratings"
}`,
		article.Title,
		promptBody(article.Content, article.Description, evaluationContentLen),
		article.SourceName,
		article.Category,
		article.Category,
	)
}

func summarizationPrompt(article model.ArticleWithScore) string {
	return fmt.Sprintf(`Create a structured summary for this tech article.

Title: %s
Content: %s
Source: %s
Quality Score: %.1f/10

Generate:
1. whyItMatters: One sentence explaining WHY this is worth reading (not just what it's about)
2. oneSentenceSummary: The core point in one sentence
3. keyPoints: 3-5 bullet points with real insights (include specific data/cases when available)
4. background: Brief context if needed to understand (optional)
5. tags: 2-4 technical tags (e.g., "AI", "Backend", "React", "Security")
6. level: "beginner", "advanced", or "expert"

Respond in JSON format:
{
  "whyItMatters": "...",
  "oneSentenceSummary": "...",
  "keyPoints": ["...", "...", "..."],
  "background": "...",
  "tags": ["tag1", "tag2"],
  "level": "advanced"
}`,
		article.Title,
		promptBody(article.Content, article.Description, summarizationContentLen),
		article.SourceName,
		article.OverallScore,
	)
}

// promptBody picks the richest available text for a prompt, bounded in length.
func promptBody(content, description string, maxLen int) string {
	if content != "" {
		runes := []rune(content)
		if len(runes) > maxLen {
			return string(runes[:maxLen])
		}
		return content
	}
	if description != "" {
		return description
	}
	return "N/A"
}
