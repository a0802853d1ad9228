package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/frank-whw/infohound/internal/model"
)

const htmlStyle = `    * { box-sizing: border-box; }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
      line-height: 1.6;
      max-width: 680px;
      margin: 0 auto;
      padding: 20px;
      color: #333;
      background: #f5f5f5;
    }
    .container {
      background: white;
      padding: 40px;
      border-radius: 8px;
      box-shadow: 0 2px 4px rgba(0,0,0,0.1);
    }
    h1 { color: #1a1a1a; font-size: 28px; margin-bottom: 8px; }
    .subtitle { color: #666; font-size: 14px; margin-bottom: 30px; }
    .headline { background: #f8f9fa; padding: 24px; border-radius: 8px; margin: 24px 0; }
    .section { margin: 32px 0; }
    .section-title { font-size: 20px; color: #1a1a1a; margin-bottom: 16px; padding-bottom: 8px; border-bottom: 2px solid #e9ecef; }
    .article { margin: 20px 0; padding: 16px; border-left: 4px solid #dee2e6; }
    .article.tech-deep { border-left-color: #2563eb; }
    .article.product { border-left-color: #f59e0b; }
    .article.ai { border-left-color: #8b5cf6; }
    .article.chinese { border-left-color: #10b981; }
    .article-title { font-size: 16px; font-weight: 600; margin-bottom: 8px; }
    .article-meta { font-size: 12px; color: #6b7280; margin-bottom: 8px; }
    .article-summary { font-size: 14px; color: #4b5563; margin-bottom: 12px; }
    .key-points { margin: 12px 0; padding-left: 16px; }
    .key-points li { margin: 4px 0; font-size: 14px; color: #374151; }
    .level-badge { display: inline-block; padding: 2px 8px; border-radius: 4px; font-size: 11px; margin-right: 8px; }
    .level-beginner { background: #d1fae5; color: #065f46; }
    .level-advanced { background: #fef3c7; color: #92400e; }
    .level-expert { background: #fee2e2; color: #991b1b; }
    .tags { margin-top: 8px; }
    .tag { display: inline-block; padding: 2px 8px; background: #f3f4f6; border-radius: 4px; font-size: 11px; color: #6b7280; margin-right: 4px; }
    a { color: #2563eb; text-decoration: none; }
    a:hover { text-decoration: underline; }
    .stats { background: #f8f9fa; padding: 16px; border-radius: 8px; margin-top: 24px; }
    .stats table { width: 100%; font-size: 14px; }
    .stats td { padding: 4px 0; }
    .footer { text-align: center; margin-top: 32px; padding-top: 24px; border-top: 1px solid #e5e7eb; font-size: 12px; color: #9ca3af; }
    @media (max-width: 600px) {
      body { padding: 10px; }
      .container { padding: 20px; }
    }`

// HTML renders the digest as a standalone newsletter page.
func HTML(digest model.DailyDigest) string {
	date := formatDate(digest.Date)

	var b strings.Builder

	fmt.Fprintf(&b, `<!DOCTYPE html>
<html lang="zh-CN">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>InfoHound - %s</title>
  <style>
%s
  </style>
</head>
<body>
  <div class="container">
    <h1>📰 InfoHound</h1>
    <p class="subtitle">%s · 今日精选 %d 篇 · 预计阅读 %d 分钟</p>
`, date, htmlStyle, date, digest.Stats.TotalArticles, digest.Stats.EstimatedReadTime)

	htmlArticle(&b, digest.Headline, "headline article", nil)

	for _, section := range digest.Sections {
		fmt.Fprintf(&b, `    <div class="section">
      <div class="section-title">%s %s</div>
`, section.Icon, html.EscapeString(section.Name))
		for _, a := range section.Articles {
			htmlArticle(&b, a, "article", keyPointsPreview)
		}
		b.WriteString("    </div>\n")
	}

	fmt.Fprintf(&b, `    <div class="stats">
      <table>
        <tr><td>文章总数</td><td><strong>%d 篇</strong></td></tr>
        <tr><td>平均质量分</td><td><strong>%.1f/10</strong></td></tr>
        <tr><td>预计阅读时间</td><td><strong>%d 分钟</strong></td></tr>
      </table>
    </div>

    <div class="footer">
      <p>由 <a href="https://github.com/Frank-whw/InfoHound">InfoHound</a> 自动生成 · AI 整理，人工阅读</p>
    </div>
  </div>
</body>
</html>
`, digest.Stats.TotalArticles, digest.Stats.AverageScore, digest.Stats.EstimatedReadTime)

	return b.String()
}

// htmlArticle writes one article block. limit trims the key-point list
// when non-nil (body sections show three, the headline shows all).
func htmlArticle(b *strings.Builder, article model.ArticleWithSummary, class string, limit func([]string) []string) {
	points := article.Summary.KeyPoints
	if limit != nil {
		points = limit(points)
	}

	fmt.Fprintf(b, `    <div class="%s %s">
      <div class="article-title">%s</div>
      <div class="article-meta">来源: %s · 评分: %.1f/10 <span class="level-badge level-%s">%s</span></div>
      <div class="article-summary"><strong>为什么重要:</strong> %s</div>
      <ul class="key-points">
`,
		class,
		article.Category,
		html.EscapeString(article.Title),
		html.EscapeString(article.SourceName),
		article.OverallScore,
		article.Summary.Level,
		article.Summary.Level,
		html.EscapeString(article.Summary.WhyItMatters),
	)

	for _, p := range points {
		fmt.Fprintf(b, "        <li>%s</li>\n", html.EscapeString(p))
	}

	b.WriteString("      </ul>\n      <div class=\"tags\">")
	for _, t := range article.Summary.Tags {
		fmt.Fprintf(b, `<span class="tag">%s</span>`, html.EscapeString(t))
	}
	fmt.Fprintf(b, `</div>
      <p><a href="%s" target="_blank">阅读原文 →</a></p>
    </div>
`, html.EscapeString(article.URL))
}
