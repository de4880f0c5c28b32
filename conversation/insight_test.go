package conversation

import (
	"strings"
	"testing"
)

func TestExtractKeyInsights(t *testing.T) {
	tests := []struct {
		name     string
		messages []Message
		expected string
	}{
		{
			name:     "no ai messages",
			messages: []Message{userMsg("hello?")},
			expected: "No insights available",
		},
		{
			name: "labelled key insights",
			messages: []Message{
				userMsg("waitlist idea"),
				aiMsg("Key insights: validate demand with a waitlist before building anything"),
			},
			expected: "validate demand with a waitlist before building anything",
		},
		{
			name: "recommendation label",
			messages: []Message{
				userMsg("where to start?"),
				aiMsg("I recommend starting with a single neighborhood pilot program"),
			},
			expected: "starting with a single neighborhood pilot program",
		},
		{
			name: "bullet fallback",
			messages: []Message{
				userMsg("what matters most?"),
				aiMsg("Here is what matters:\n- build trust with verified reviews and background checks\n- everything else"),
			},
			expected: "build trust with verified reviews and background checks",
		},
		{
			name: "keyword sentence fallback",
			messages: []Message{
				userMsg("any advice?"),
				aiMsg("The most important thing is talking to ten customers this week"),
			},
			expected: "The most important thing is talking to ten customers this week",
		},
		{
			name: "nothing matches falls to default",
			messages: []Message{
				userMsg("I want to build an app for booking dog walkers"),
				aiMsg("This addresses a real need in the pet care market. Users can find walkers quickly. This is a Platform for pet owners."),
			},
			expected: "Comprehensive business analysis with actionable insights",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeyInsights(tt.messages)
			if got != tt.expected {
				t.Errorf("ExtractKeyInsights() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestExtractKeyInsightsTruncation(t *testing.T) {
	long := "It is critically important that " + strings.Repeat("a", 100)
	messages := []Message{
		userMsg("how long can this get?"),
		aiMsg(long),
	}
	got := ExtractKeyInsights(messages)
	want := "It is critically important that " + strings.Repeat("a", 68) + "..."
	if got != want {
		t.Errorf("ExtractKeyInsights() = %q, want 100 chars plus ellipsis", got)
	}
}

func TestExtractKeyInsightsSpansAllAIMessages(t *testing.T) {
	// The labelled cascade runs over the concatenation of every AI turn,
	// not just the first one.
	messages := []Message{
		userMsg("ok, summarize"),
		aiMsg("Plenty of descriptive text without any labels in it at all."),
		aiMsg("Next steps: interview twenty potential customers about pricing"),
	}
	got := ExtractKeyInsights(messages)
	want := "interview twenty potential customers about pricing"
	if got != want {
		t.Errorf("ExtractKeyInsights() = %q, want %q", got, want)
	}
}
