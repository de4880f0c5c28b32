package conversation

import (
	"regexp"
	"strings"

	"github.com/hrygo/ideasense/internal/strutil"
)

const (
	insightFallbackNoAI    = "No insights available"
	insightFallbackDefault = "Comprehensive business analysis with actionable insights"
)

// labelledInsightRules anchor on the labels an assistant puts in front of
// its takeaways. Unlike the preview cascade these may span clause
// boundaries, so captures run to the end of the line.
var labelledInsightRules = []extractRule{
	{regexp.MustCompile(`(?i)(?:key insights?|main takeaways?)[:\s]+([^\n]{30,100})`), 1, 100},
	{regexp.MustCompile(`(?i)(?:focus on|key benefits)[:\s]+([^\n]{30,100})`), 1, 100},
	{regexp.MustCompile(`(?i)(?:opportunity|market potential)[:\s]+([^\n]{30,100})`), 1, 100},
	{regexp.MustCompile(`(?i)(?:recommend|suggestions?|next steps)[:\s]+([^\n]{30,100})`), 1, 100},
}

var bulletInsightRegex = regexp.MustCompile(`(?m)^\s*(?:[-•‣*]|\d+[.)])\s+([^\n]{20,80})`)

// insightKeywords qualify a sentence for the last-resort fallback.
var insightKeywords = []string{
	"key", "important", "focus", "opportunity", "challenge", "recommend", "critical",
}

// ExtractKeyInsights derives a short takeaway blurb from all AI messages
// in the transcript, distinct from the preview: it favors labelled
// recommendations over descriptive text.
func ExtractKeyInsights(messages []Message) string {
	var b strings.Builder
	hasAI := false
	for i := range messages {
		if messages[i].IsUser {
			continue
		}
		hasAI = true
		b.WriteString(messages[i].Text)
		b.WriteByte('\n')
	}
	if !hasAI {
		return insightFallbackNoAI
	}
	text := b.String()

	if v := applyRules(labelledInsightRules, text); v != "" {
		return v
	}
	if m := bulletInsightRegex.FindStringSubmatch(text); m != nil {
		if cleaned := Clean(m[1]); cleaned != "" {
			return strutil.Truncate(cleaned, 80)
		}
	}
	if v := insightSentenceFallback(text); v != "" {
		return v
	}
	return insightFallbackDefault
}

// insightSentenceFallback returns the first sentence longer than 30
// characters that mentions any insight keyword.
func insightSentenceFallback(text string) string {
	for _, sentence := range sentenceSplitRegex.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) <= 30 {
			continue
		}
		lower := strings.ToLower(sentence)
		for _, keyword := range insightKeywords {
			if strings.Contains(lower, keyword) {
				return strutil.Truncate(Clean(sentence), 100)
			}
		}
	}
	return ""
}
