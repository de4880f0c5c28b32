// Package store owns the per-user, size-bounded conversation history on
// top of a pluggable key-value driver.
package store

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/hrygo/ideasense/conversation"
	"github.com/hrygo/ideasense/internal/metrics"
	"github.com/hrygo/ideasense/store/cache"
)

const (
	// MaxConversations bounds each user's history; the oldest entries
	// are evicted silently on overflow.
	MaxConversations = 50
	// MinTranscriptMessages is the shortest transcript that produces a
	// record: one user turn and one AI turn.
	MinTranscriptMessages = 2

	lockStripes  = 64
	cacheTTL     = 5 * time.Minute
	cacheEntries = 256
)

// Store persists conversation histories. Writers for the same user are
// serialized in-process by striped locks; the whole list is re-read and
// re-written on every mutation. Cross-process writers are last-write-wins
// by contract: the persisted value is a single JSON blob per user and the
// deployment model is a single instance.
type Store struct {
	driver  Driver
	metrics *metrics.Metrics
	lists   *cache.LRUCache[string, []*conversation.Record]
	locks   [lockStripes]sync.Mutex
}

// New creates a Store on the given driver. metrics may be nil.
func New(driver Driver, m *metrics.Metrics) *Store {
	return &Store{
		driver:  driver,
		metrics: m,
		lists:   cache.NewLRUCache[string, []*conversation.Record](cacheEntries, cacheTTL),
	}
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) lock(userID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &s.locks[h.Sum32()%lockStripes]
}

// SaveConversation derives metadata for the transcript and prepends a new
// record to the user's history. Transcripts shorter than
// MinTranscriptMessages are skipped: the call returns (nil, nil) and the
// persisted list is untouched, so callers detect the skip from the
// missing record, not from an error.
func (s *Store) SaveConversation(ctx context.Context, userID string, messages []conversation.Message) (*conversation.Record, error) {
	if len(messages) < MinTranscriptMessages {
		slog.Debug("conversation_save_skipped",
			"user_id", userID,
			"message_count", len(messages))
		if s.metrics != nil {
			s.metrics.ConversationSkipped()
		}
		return nil, nil
	}

	start := time.Now()
	meta := conversation.DeriveMetadata(messages)
	record := &conversation.Record{
		ID:       shortuuid.New(),
		Title:    meta.Title,
		Category: meta.Category,
		Date:     time.Now().UTC(),
		Messages: append([]conversation.Message(nil), messages...),
		Preview:  meta.Preview,
		Analysis: meta.Analysis,
		UserID:   userID,
	}

	mu := s.lock(userID)
	mu.Lock()
	defer mu.Unlock()

	list := s.loadList(ctx, userID)
	list = append([]*conversation.Record{record}, list...)
	if len(list) > MaxConversations {
		list = list[:MaxConversations]
	}
	if err := s.persistList(ctx, userID, list); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ConversationSaved(string(record.Category))
		s.metrics.ObserveSaveDuration(time.Since(start).Seconds())
	}
	slog.Debug("conversation_saved",
		"user_id", userID,
		"conversation_id", record.ID,
		"category", record.Category)
	return record, nil
}

// ListConversations returns the user's history, newest first. Storage
// read failures are logged and swallowed; the caller always gets a list.
// The returned slice is shared with the read cache and must be treated
// as read-only.
func (s *Store) ListConversations(ctx context.Context, userID string) []*conversation.Record {
	list := s.loadList(ctx, userID)
	if list == nil {
		return []*conversation.Record{}
	}
	return list
}

// DeleteConversation removes the record with the given id and persists
// the shrunk list. Persistence failures propagate to the caller.
func (s *Store) DeleteConversation(ctx context.Context, userID, id string) ([]*conversation.Record, error) {
	mu := s.lock(userID)
	mu.Lock()
	defer mu.Unlock()

	list := s.loadList(ctx, userID)
	kept := make([]*conversation.Record, 0, len(list))
	for _, r := range list {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if err := s.persistList(ctx, userID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// ListConversationsByCategory filters the history by category. The "All"
// sentinel (and an empty category) returns the full list; anything else
// matches exactly.
func (s *Store) ListConversationsByCategory(ctx context.Context, userID, category string) []*conversation.Record {
	list := s.ListConversations(ctx, userID)
	if category == conversation.CategoryAll || category == "" {
		return list
	}
	filtered := make([]*conversation.Record, 0, len(list))
	for _, r := range list {
		if string(r.Category) == category {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// SearchConversations matches query case-insensitively as a substring of
// title, preview and category.
func (s *Store) SearchConversations(ctx context.Context, userID, query string) []*conversation.Record {
	list := s.ListConversations(ctx, userID)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}
	if s.metrics != nil {
		s.metrics.SearchPerformed()
	}
	matched := make([]*conversation.Record, 0, len(list))
	for _, r := range list {
		if strings.Contains(strings.ToLower(r.Title), q) ||
			strings.Contains(strings.ToLower(r.Preview), q) ||
			strings.Contains(strings.ToLower(string(r.Category)), q) {
			matched = append(matched, r)
		}
	}
	return matched
}

// RegenerateConversationData recomputes title, category, preview and
// analysis for every stored record from its retained transcript. IDs,
// dates and message snapshots are preserved. The pipeline is pure, so
// running this twice in a row yields identical output.
//
// Records already handed out through the cache are never written to;
// regeneration builds fresh copies and swaps in a new list, so
// concurrent readers keep seeing a consistent snapshot.
func (s *Store) RegenerateConversationData(ctx context.Context, userID string) ([]*conversation.Record, error) {
	mu := s.lock(userID)
	mu.Lock()
	defer mu.Unlock()

	list := s.loadList(ctx, userID)
	if len(list) == 0 {
		return []*conversation.Record{}, nil
	}
	regenerated := make([]*conversation.Record, len(list))
	for i, r := range list {
		clone := *r
		meta := conversation.DeriveMetadata(clone.Messages)
		clone.Title = meta.Title
		clone.Category = meta.Category
		clone.Preview = meta.Preview
		clone.Analysis = meta.Analysis
		regenerated[i] = &clone
	}
	if err := s.persistList(ctx, userID, regenerated); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordsRegenerated(len(regenerated))
	}
	slog.Info("conversation_data_regenerated",
		"user_id", userID,
		"record_count", len(regenerated))
	return regenerated, nil
}

// ClearConversations deletes the user's entire persisted history.
func (s *Store) ClearConversations(ctx context.Context, userID string) error {
	mu := s.lock(userID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.driver.Delete(ctx, ConversationKey(userID)); err != nil {
		if s.metrics != nil {
			s.metrics.StoreError("delete")
		}
		return errors.Wrapf(err, "clear conversations for user %s", userID)
	}
	s.lists.Remove(userID)
	return nil
}

// loadList reads the user's history from cache or storage. Read and
// decode failures are logged and swallowed per the read contract.
func (s *Store) loadList(ctx context.Context, userID string) []*conversation.Record {
	if cached, ok := s.lists.Get(userID); ok {
		return cached
	}

	raw, ok, err := s.driver.Get(ctx, ConversationKey(userID))
	if err != nil {
		slog.Warn("conversation_list_read_failed",
			"user_id", userID,
			"error", err)
		if s.metrics != nil {
			s.metrics.StoreError("read")
		}
		return nil
	}
	if !ok {
		return nil
	}

	var list []*conversation.Record
	if err := json.Unmarshal(raw, &list); err != nil {
		slog.Warn("conversation_list_decode_failed",
			"user_id", userID,
			"error", err)
		if s.metrics != nil {
			s.metrics.StoreError("decode")
		}
		return nil
	}
	s.lists.Put(userID, list)
	return list
}

// persistList serializes and writes the whole list, then refreshes the
// cache. A failed write leaves the prior persisted state untouched since
// serialization happens before the driver call.
func (s *Store) persistList(ctx context.Context, userID string, list []*conversation.Record) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return errors.Wrap(err, "encode conversation list")
	}
	if err := s.driver.Set(ctx, ConversationKey(userID), raw); err != nil {
		if s.metrics != nil {
			s.metrics.StoreError("write")
		}
		return errors.Wrapf(err, "persist conversation list for user %s", userID)
	}
	s.lists.Put(userID, list)
	return nil
}
