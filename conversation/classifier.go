package conversation

import "strings"

// categoryKeywords lists the trigger keywords per category, in
// classification priority order. The first group with any substring hit
// wins, so a transcript mentioning both "market" and "growth" lands in
// Market Research.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryProductStrategy, []string{"product", "feature", "roadmap", "strategy", "development", "pricing", "launch", "mvp"}},
	{CategoryMarketResearch, []string{"market", "competitor", "industry", "customers", "target audience", "demand", "size", "opportunity"}},
	{CategoryUserResearch, []string{"user", "customer journey", "persona", "behavior", "interview", "survey", "feedback", "testing"}},
	{CategoryGrowth, []string{"growth", "acquisition", "retention", "marketing", "viral", "funnel", "conversion", "metrics"}},
	{CategoryAnalytics, []string{"analytics", "data", "metrics", "kpi", "tracking", "measurement", "performance", "roi"}},
}

// Classify assigns a category to a transcript by scanning the concatenated
// lowercase text of every turn against the keyword groups. Pure and
// deterministic; unmatched transcripts default to Product Strategy.
func Classify(messages []Message) Category {
	var b strings.Builder
	for i := range messages {
		b.WriteString(messages[i].Text)
		b.WriteByte(' ')
	}
	text := strings.ToLower(b.String())

	for _, group := range categoryKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(text, keyword) {
				return group.category
			}
		}
	}
	return CategoryProductStrategy
}
