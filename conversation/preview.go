package conversation

import (
	"regexp"
	"strings"

	"github.com/hrygo/ideasense/internal/strutil"
)

const (
	// onboardingGreeting marks the assistant's canned opener; messages
	// containing it carry no conversation substance.
	onboardingGreeting = "What ideas would you like to share"

	previewFallbackNoAI    = "Business analysis and recommendations"
	previewFallbackDefault = "Comprehensive business analysis and strategic recommendations"
)

// extractRule pairs a capture pattern with the minimum cleaned length the
// capture must keep and the truncation ceiling applied to the result.
// Cascades are evaluated in order, first satisfied rule wins.
type extractRule struct {
	pattern  *regexp.Regexp
	minLen   int
	truncLen int
}

// businessDescriptionRules anchor on the verbs an assistant uses when
// restating what the idea does. Captures run to the end of the clause.
var businessDescriptionRules = []extractRule{
	{regexp.MustCompile(`(?i)(?:creates|provides|offers|delivers|enables|helps)\s+([^.!?\n]{30,100})`), 25, 90},
	{regexp.MustCompile(`(?i)(?:is designed to|aims to|focuses on)\s+([^.!?\n]{30,100})`), 25, 90},
	{regexp.MustCompile(`(?i)(?:allows users to|enables users to)\s+([^.!?\n]{30,100})`), 25, 90},
	{regexp.MustCompile(`(?i)(?:solution for|platform for|app for)\s+([^.!?\n]{30,100})`), 25, 90},
	{regexp.MustCompile(`(?i)(?:addresses|solves|tackles)\s+([^.!?\n]{30,100})`), 25, 90},
}

// valuePropositionRules are the second cascade, anchored on benefit
// phrasing rather than idea description.
var valuePropositionRules = []extractRule{
	{regexp.MustCompile(`(?i)(?:key benefits|main benefits)[:\s]+([^.!?\n]{25,80})`), 25, 80},
	{regexp.MustCompile(`(?i)(?:users can|customers can)\s+([^.!?\n]{25,80})`), 25, 80},
	{regexp.MustCompile(`(?i)(?:saves|improves|increases|reduces|optimizes)\s+([^.!?\n]{25,80})`), 25, 80},
	{regexp.MustCompile(`(?i)(?:provides|offers)\s+([^.!?\n]{25,80})`), 25, 80},
}

// sectionHeaders are boilerplate headings stripped before the sentence
// fallback so they never surface as previews.
var sectionHeaders = []string{
	"Business Concept Analysis",
	"Market Analysis",
	"Execution Strategy",
	"Action Plan",
}

var (
	sectionMarkerRegex = regexp.MustCompile(`\[[^\]]*\]`)
	sentenceSplitRegex = regexp.MustCompile(`[.!?]+`)
)

// GeneratePreview derives a 1-2 sentence preview from the first
// substantive AI message, at most 100 characters plus an ellipsis marker
// when truncated.
func GeneratePreview(messages []Message) string {
	var source *Message
	for i := range messages {
		m := &messages[i]
		if m.IsUser || !m.HasText() || strings.Contains(m.Text, onboardingGreeting) {
			continue
		}
		source = m
		break
	}
	if source == nil {
		return previewFallbackNoAI
	}

	if v := applyRules(businessDescriptionRules, source.Text); v != "" {
		return v
	}
	if v := applyRules(valuePropositionRules, source.Text); v != "" {
		return v
	}
	if v := previewSentenceFallback(source.Text); v != "" {
		return v
	}
	return previewFallbackDefault
}

// applyRules evaluates an ordered cascade against text, returning the
// first cleaned capture that keeps the rule's minimum length, truncated
// to the rule's ceiling. Returns "" when no rule is satisfied.
func applyRules(rules []extractRule, text string) string {
	for _, rule := range rules {
		m := rule.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		cleaned := Clean(m[1])
		if len(cleaned) < rule.minLen {
			continue
		}
		return strutil.Truncate(cleaned, rule.truncLen)
	}
	return ""
}

// previewSentenceFallback strips section scaffolding and returns the
// first real sentence longer than 30 characters, skipping the analysis
// boilerplate the assistant tends to open with.
func previewSentenceFallback(text string) string {
	stripped := sectionMarkerRegex.ReplaceAllString(text, " ")
	for _, header := range sectionHeaders {
		stripped = strings.ReplaceAll(stripped, header, " ")
	}
	stripped = Clean(stripped)

	for _, sentence := range sentenceSplitRegex.Split(stripped, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) <= 30 {
			continue
		}
		lower := strings.ToLower(sentence)
		if strings.Contains(lower, "analysis") || strings.Contains(lower, "concept") {
			continue
		}
		return strutil.Truncate(sentence, 100)
	}
	return ""
}
