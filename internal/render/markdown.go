// Package render turns a daily digest into Markdown and HTML text.
// It is pure: no network, no filesystem.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/frank-whw/infohound/internal/model"
)

var levelEmoji = map[model.Level]string{
	model.LevelBeginner: "🟢",
	model.LevelAdvanced: "🟡",
	model.LevelExpert:   "🔴",
}

var chineseWeekdays = [...]string{"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"}

// Markdown renders the digest as a Markdown newsletter.
func Markdown(digest model.DailyDigest) string {
	var sections []string
	for _, s := range digest.Sections {
		sections = append(sections, markdownSection(s))
	}

	return fmt.Sprintf(`# 📰 InfoHound - %s

> 今日精选 %d 篇文章，预计阅读时间 %d 分钟

---

%s

---

%s

---

## 📊 今日统计

| 指标 | 数值 |
|------|------|
| 文章总数 | %d 篇 |
| 平均质量分 | %.1f/10 |
| 预计阅读时间 | %d 分钟 |

---

*由 [InfoHound](https://github.com/Frank-whw/InfoHound) 自动生成 | AI 整理，人工阅读*
`,
		formatDate(digest.Date),
		digest.Stats.TotalArticles,
		digest.Stats.EstimatedReadTime,
		markdownHeadline(digest.Headline),
		strings.Join(sections, "\n\n---\n\n"),
		digest.Stats.TotalArticles,
		digest.Stats.AverageScore,
		digest.Stats.EstimatedReadTime,
	)
}

func markdownHeadline(article model.ArticleWithSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## 🌟 头条\n\n")
	fmt.Fprintf(&b, "### %s\n", article.Title)
	fmt.Fprintf(&b, "**来源**: %s | **评分**: %.1f/10 %s\n\n",
		article.SourceName, article.OverallScore, levelEmoji[article.Summary.Level])
	fmt.Fprintf(&b, "**为什么重要**: %s\n\n", article.Summary.WhyItMatters)
	fmt.Fprintf(&b, "**一句话总结**: %s\n\n", article.Summary.OneSentenceSummary)

	b.WriteString("**关键要点**:\n")
	for _, p := range article.Summary.KeyPoints {
		fmt.Fprintf(&b, "• %s\n", p)
	}

	if article.Summary.Background != "" {
		fmt.Fprintf(&b, "\n**背景**: %s\n", article.Summary.Background)
	}

	fmt.Fprintf(&b, "\n**标签**: %s\n\n", strings.Join(article.Summary.Tags, ", "))
	fmt.Fprintf(&b, "[阅读原文](%s)\n", article.URL)

	return b.String()
}

func markdownSection(section model.Section) string {
	var articles []string
	for _, a := range section.Articles {
		articles = append(articles, markdownArticle(a))
	}

	return fmt.Sprintf("## %s %s\n\n%s\n", section.Icon, section.Name, strings.Join(articles, "\n\n"))
}

func markdownArticle(article model.ArticleWithSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "### %s %s\n", levelEmoji[article.Summary.Level], article.Title)
	fmt.Fprintf(&b, "**来源**: %s | **评分**: %.1f/10\n\n", article.SourceName, article.OverallScore)
	fmt.Fprintf(&b, "**为什么重要**: %s\n\n", article.Summary.WhyItMatters)

	b.WriteString("**要点**:\n")
	for _, p := range keyPointsPreview(article.Summary.KeyPoints) {
		fmt.Fprintf(&b, "• %s\n", p)
	}

	fmt.Fprintf(&b, "\n[阅读原文](%s)", article.URL)

	return b.String()
}

// Body sections show at most the first three key points; the headline
// shows all of them.
func keyPointsPreview(points []string) []string {
	if len(points) > 3 {
		return points[:3]
	}
	return points
}

func formatDate(t time.Time) string {
	return fmt.Sprintf("%d年%d月%d日%s", t.Year(), int(t.Month()), t.Day(), chineseWeekdays[t.Weekday()])
}
