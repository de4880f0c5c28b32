// Package conversation derives structured metadata from finished chat
// transcripts: a topical category, a short title, a preview snippet and a
// key-insight blurb. All derivation is pure lexical matching over fixed
// rule tables; nothing here calls an LLM.
package conversation

import (
	"strings"
	"time"
)

// Category is one of the fixed topical labels assigned to a conversation.
type Category string

const (
	CategoryProductStrategy Category = "Product Strategy"
	CategoryMarketResearch  Category = "Market Research"
	CategoryUserResearch    Category = "User Research"
	CategoryGrowth          Category = "Growth"
	CategoryAnalytics       Category = "Analytics"
)

// CategoryAll is the filter sentinel used by the history chip set.
// It is not a member of the category set and never appears on a Record.
const CategoryAll = "All"

// Categories returns the closed category set in classification priority order.
func Categories() []Category {
	return []Category{
		CategoryProductStrategy,
		CategoryMarketResearch,
		CategoryUserResearch,
		CategoryGrowth,
		CategoryAnalytics,
	}
}

// ChunkedData tags an AI response that was delivered in segments.
// AnalysisID is a human-readable label for the whole multi-part response.
type ChunkedData struct {
	AnalysisID   string `json:"analysisId"`
	CurrentChunk int    `json:"currentChunk"`
	TotalChunks  int    `json:"totalChunks"`
	NextPrompt   string `json:"nextPrompt"`
}

// Message is one transcript turn.
type Message struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	IsUser      bool         `json:"isUser"`
	Timestamp   time.Time    `json:"timestamp"`
	ChunkedData *ChunkedData `json:"chunkedData,omitempty"`
}

// HasText reports whether the message carries displayable text.
// Whitespace-only text is treated as absent.
func (m *Message) HasText() bool {
	return strings.TrimSpace(m.Text) != ""
}

// Record is one persisted history entry. The message slice is an immutable
// snapshot taken at save time; only the derived fields change afterwards,
// and only through regeneration.
type Record struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Category Category  `json:"category"`
	Date     time.Time `json:"date"`
	Messages []Message `json:"messages"`
	Preview  string    `json:"preview"`
	Analysis string    `json:"analysis"`
	UserID   string    `json:"userId"`
}
