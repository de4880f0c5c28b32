package conversation

import (
	"regexp"
	"strings"

	"github.com/hrygo/ideasense/internal/strutil"
)

const (
	titleFallbackNoUser = "New Conversation"
	titleFallbackNone   = "Business Concept"
	maxTitleKeywords    = 3
)

// fillerPrefixes are conversational openers stripped from the start of the
// user's message before keyword extraction. Matched case-insensitively
// against the lowered text, anchored at the start.
var fillerPrefixes = []string{
	"i have an idea",
	"i'm looking for",
	"i want to create",
	"help me with",
}

// titleStopwords are generic idea-pitch words that never make a useful
// title keyword.
var titleStopwords = map[string]struct{}{
	"that": {}, "for": {}, "app": {}, "application": {}, "idea": {},
	"business": {}, "product": {}, "service": {}, "platform": {},
	"tool": {}, "system": {}, "solution": {}, "website": {}, "mobile": {},
	"web": {}, "about": {}, "like": {}, "would": {}, "could": {},
	"should": {}, "will": {}, "can": {}, "make": {}, "create": {},
	"develop": {},
}

// businessTypes is the ordered scan list for the AI response; the first
// entry found as a substring names the venture type in the title.
var businessTypes = []string{
	"App", "Platform", "Service", "Tool", "Solution", "System",
	"Marketplace", "Network", "Dashboard", "Assistant", "Tracker",
	"Manager", "Optimizer", "Analyzer", "Generator", "Builder",
}

var titlePunctuationRegex = regexp.MustCompile(`[^\w\s]`)

// GenerateTitle derives a short display title for a transcript.
//
// Precedence: a chunked AI response carries a human-readable analysis
// label for the whole multi-part answer, and that label always wins.
// Otherwise the title is synthesized from the first user message's
// keywords plus the business type detected in the first AI reply. The
// result is a deliberately naive lexical heuristic; awkward titles like
// "Want Build Booking Platform" are expected output, not bugs.
func GenerateTitle(messages []Message) string {
	var userMessage *Message
	for i := range messages {
		if messages[i].IsUser {
			userMessage = &messages[i]
			break
		}
	}
	if userMessage == nil {
		return titleFallbackNoUser
	}

	for i := range messages {
		m := &messages[i]
		if !m.IsUser && m.ChunkedData != nil && m.ChunkedData.AnalysisID != "" {
			return m.ChunkedData.AnalysisID
		}
	}

	keywords := extractKeywords(userMessage.Text)
	for i := range messages {
		m := &messages[i]
		if !m.IsUser && m.HasText() {
			return composeTitle(keywords, extractBusinessType(m.Text))
		}
	}
	return composeTitle(keywords, "")
}

// extractKeywords pulls up to three salient words from the user's pitch,
// in original order, each with its first letter capitalized.
func extractKeywords(text string) []string {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, prefix := range fillerPrefixes {
		if strings.HasPrefix(lower, prefix) {
			lower = strings.TrimSpace(lower[len(prefix):])
			break
		}
	}
	lower = titlePunctuationRegex.ReplaceAllString(lower, "")

	var keywords []string
	for _, word := range strings.Fields(lower) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := titleStopwords[word]; stop {
			continue
		}
		keywords = append(keywords, strutil.Capitalize(word))
		if len(keywords) == maxTitleKeywords {
			break
		}
	}
	return keywords
}

// extractBusinessType returns the first entry of businessTypes present in
// the AI text, matched case-insensitively, or "" when none is.
func extractBusinessType(aiText string) string {
	lower := strings.ToLower(aiText)
	for _, t := range businessTypes {
		if strings.Contains(lower, strings.ToLower(t)) {
			return t
		}
	}
	return ""
}

func composeTitle(keywords []string, businessType string) string {
	switch {
	case len(keywords) > 0 && businessType != "":
		return strings.Join(keywords, " ") + " " + businessType
	case len(keywords) > 0:
		return strings.Join(keywords, " ") + " App"
	case businessType != "":
		return "New " + businessType
	default:
		return titleFallbackNone
	}
}
