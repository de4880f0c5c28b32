package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/ideasense/conversation"
	"github.com/hrygo/ideasense/store/db/memory"
)

func newTestStore() (*Store, *memory.Driver) {
	driver := memory.NewDriver()
	return New(driver, nil), driver
}

func transcript(userText, aiText string) []conversation.Message {
	return []conversation.Message{
		{ID: "u1", Text: userText, IsUser: true},
		{ID: "a1", Text: aiText, IsUser: false},
	}
}

func TestSaveConversation(t *testing.T) {
	ctx := context.Background()
	st, driver := newTestStore()

	record, err := st.SaveConversation(ctx, "user-1", transcript(
		"I want to build an app for booking dog walkers",
		"This addresses a real need in the pet care market. Users can find walkers quickly. This is a Platform for pet owners.",
	))
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "Want Build Booking Platform", record.Title)
	assert.Equal(t, conversation.CategoryMarketResearch, record.Category)
	assert.Equal(t, "a real need in the pet care market", record.Preview)
	assert.Equal(t, "user-1", record.UserID)
	assert.Len(t, record.Messages, 2)
	assert.False(t, record.Date.IsZero())

	// Persisted under the per-user namespace key.
	raw, ok, err := driver.Get(ctx, ConversationKey("user-1"))
	require.NoError(t, err)
	require.True(t, ok)
	var persisted []*conversation.Record
	require.NoError(t, json.Unmarshal(raw, &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, record.ID, persisted[0].ID)
}

func TestSaveConversationSkipsShortTranscript(t *testing.T) {
	ctx := context.Background()
	st, driver := newTestStore()

	for _, messages := range [][]conversation.Message{
		nil,
		{{ID: "u1", Text: "just me", IsUser: true}},
	} {
		record, err := st.SaveConversation(ctx, "user-1", messages)
		assert.NoError(t, err)
		assert.Nil(t, record)
	}

	_, ok, err := driver.Get(ctx, ConversationKey("user-1"))
	require.NoError(t, err)
	assert.False(t, ok, "skipped saves must not touch storage")
	assert.Empty(t, st.ListConversations(ctx, "user-1"))
}

func TestSaveConversationBoundsHistory(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore()

	var lastID string
	for i := 0; i < MaxConversations+5; i++ {
		record, err := st.SaveConversation(ctx, "user-1", transcript(
			"retention is really hard",
			"Focus on your onboarding funnel first.",
		))
		require.NoError(t, err)
		require.NotNil(t, record)
		lastID = record.ID
	}

	list := st.ListConversations(ctx, "user-1")
	require.Len(t, list, MaxConversations)
	assert.Equal(t, lastID, list[0].ID, "newest record comes first")
}

func TestListConversationsIsolatedPerUser(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore()

	_, err := st.SaveConversation(ctx, "user-1", transcript("retention is really hard", "Start with churn cohorts."))
	require.NoError(t, err)

	assert.Len(t, st.ListConversations(ctx, "user-1"), 1)
	assert.Empty(t, st.ListConversations(ctx, "user-2"))
}

func TestDeleteConversation(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore()

	first, err := st.SaveConversation(ctx, "user-1", transcript("retention is really hard", "Cohorts."))
	require.NoError(t, err)
	second, err := st.SaveConversation(ctx, "user-1", transcript("analytics dashboards rock", "Indeed."))
	require.NoError(t, err)

	kept, err := st.DeleteConversation(ctx, "user-1", first.ID)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, second.ID, kept[0].ID)

	// Deleting an unknown id is a no-op.
	kept, err = st.DeleteConversation(ctx, "user-1", "no-such-id")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestListConversationsByCategory(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore()

	_, err := st.SaveConversation(ctx, "user-1", transcript("retention is really hard", "Cohorts."))
	require.NoError(t, err)
	_, err = st.SaveConversation(ctx, "user-1", transcript("analytics dashboards rock", "Indeed."))
	require.NoError(t, err)

	growth := st.ListConversationsByCategory(ctx, "user-1", string(conversation.CategoryGrowth))
	require.Len(t, growth, 1)
	assert.Equal(t, conversation.CategoryGrowth, growth[0].Category)

	assert.Len(t, st.ListConversationsByCategory(ctx, "user-1", conversation.CategoryAll), 2)
	assert.Len(t, st.ListConversationsByCategory(ctx, "user-1", ""), 2)
	assert.Empty(t, st.ListConversationsByCategory(ctx, "user-1", "Made Up"))
}

func TestSearchConversations(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore()

	_, err := st.SaveConversation(ctx, "user-1", transcript(
		"I want to build an app for booking dog walkers",
		"This addresses a real need in the pet care market.",
	))
	require.NoError(t, err)
	_, err = st.SaveConversation(ctx, "user-1", transcript("analytics dashboards rock", "Indeed."))
	require.NoError(t, err)

	assert.Len(t, st.SearchConversations(ctx, "user-1", "BOOKING"), 1, "title match is case-insensitive")
	assert.Len(t, st.SearchConversations(ctx, "user-1", "pet care"), 1, "preview matches")
	assert.Len(t, st.SearchConversations(ctx, "user-1", "research"), 1, "category matches")
	assert.Empty(t, st.SearchConversations(ctx, "user-1", "zebra"))
	assert.Len(t, st.SearchConversations(ctx, "user-1", "   "), 2, "blank query returns everything")
}

func TestRegenerateConversationData(t *testing.T) {
	ctx := context.Background()
	driver := memory.NewDriver()
	st := New(driver, nil)

	record, err := st.SaveConversation(ctx, "user-1", transcript(
		"I want to build an app for booking dog walkers",
		"This addresses a real need in the pet care market. Users can find walkers quickly. This is a Platform for pet owners.",
	))
	require.NoError(t, err)

	// Tamper with the persisted metadata, as an old pipeline version
	// would have left it.
	tampered := []*conversation.Record{{
		ID:       record.ID,
		Title:    "stale title",
		Category: "Stale",
		Date:     record.Date,
		Messages: record.Messages,
		Preview:  "stale preview",
		Analysis: "stale analysis",
		UserID:   record.UserID,
	}}
	raw, err := json.Marshal(tampered)
	require.NoError(t, err)
	require.NoError(t, driver.Set(ctx, ConversationKey("user-1"), raw))

	// Fresh store so the read comes from the driver, not the cache.
	st = New(driver, nil)
	regenerated, err := st.RegenerateConversationData(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, regenerated, 1)

	assert.Equal(t, record.ID, regenerated[0].ID, "id survives regeneration")
	assert.Equal(t, record.Date.Unix(), regenerated[0].Date.Unix(), "date survives regeneration")
	assert.Equal(t, "Want Build Booking Platform", regenerated[0].Title)
	assert.Equal(t, conversation.CategoryMarketResearch, regenerated[0].Category)
	assert.Equal(t, "a real need in the pet care market", regenerated[0].Preview)

	// The pipeline is pure: a second run changes nothing.
	again, err := st.RegenerateConversationData(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, regenerated[0].Title, again[0].Title)
	assert.Equal(t, regenerated[0].Preview, again[0].Preview)
	assert.Equal(t, regenerated[0].Analysis, again[0].Analysis)
}

func TestRegenerateConversationDataLeavesHandedOutRecordsUntouched(t *testing.T) {
	ctx := context.Background()
	driver := memory.NewDriver()
	st := New(driver, nil)

	record, err := st.SaveConversation(ctx, "user-1", transcript(
		"I want to build an app for booking dog walkers",
		"This addresses a real need in the pet care market.",
	))
	require.NoError(t, err)

	tampered := []*conversation.Record{{
		ID:       record.ID,
		Title:    "stale title",
		Category: "Stale",
		Date:     record.Date,
		Messages: record.Messages,
		Preview:  "stale preview",
		Analysis: "stale analysis",
		UserID:   record.UserID,
	}}
	raw, err := json.Marshal(tampered)
	require.NoError(t, err)
	require.NoError(t, driver.Set(ctx, ConversationKey("user-1"), raw))

	st = New(driver, nil)
	before := st.ListConversations(ctx, "user-1")
	require.Len(t, before, 1)

	after, err := st.RegenerateConversationData(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "Want Build Booking App", after[0].Title)

	// The records handed out before regeneration keep their snapshot;
	// only the freshly returned list carries the recomputed fields.
	assert.Equal(t, "stale title", before[0].Title)
	assert.Equal(t, "stale preview", before[0].Preview)
	assert.Equal(t, "stale analysis", before[0].Analysis)
	assert.NotSame(t, before[0], after[0])
}

func TestRegenerateConversationDataConcurrentWithReads(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore()

	_, err := st.SaveConversation(ctx, "user-1", transcript(
		"I want to build an app for booking dog walkers",
		"This addresses a real need in the pet care market.",
	))
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_, err := st.RegenerateConversationData(ctx, "user-1")
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			for _, r := range st.ListConversations(ctx, "user-1") {
				_ = r.Title + r.Preview + r.Analysis
			}
		}
	}()
	wg.Wait()
}

func TestRegenerateConversationDataEmptyHistory(t *testing.T) {
	ctx := context.Background()
	st, driver := newTestStore()

	list, err := st.RegenerateConversationData(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, ok, err := driver.Get(ctx, ConversationKey("user-1"))
	require.NoError(t, err)
	assert.False(t, ok, "empty regeneration must not write")
}

func TestClearConversations(t *testing.T) {
	ctx := context.Background()
	st, driver := newTestStore()

	_, err := st.SaveConversation(ctx, "user-1", transcript("retention is really hard", "Cohorts."))
	require.NoError(t, err)

	require.NoError(t, st.ClearConversations(ctx, "user-1"))
	assert.Empty(t, st.ListConversations(ctx, "user-1"))

	_, ok, err := driver.Get(ctx, ConversationKey("user-1"))
	require.NoError(t, err)
	assert.False(t, ok)
}

// faultyDriver wraps the memory driver and fails selected operations.
type faultyDriver struct {
	*memory.Driver
	failGet bool
	failSet bool
}

func (d *faultyDriver) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if d.failGet {
		return nil, false, errors.New("disk on fire")
	}
	return d.Driver.Get(ctx, key)
}

func (d *faultyDriver) Set(ctx context.Context, key string, value []byte) error {
	if d.failSet {
		return errors.New("disk on fire")
	}
	return d.Driver.Set(ctx, key, value)
}

func TestListConversationsSwallowsReadFailure(t *testing.T) {
	ctx := context.Background()
	st := New(&faultyDriver{Driver: memory.NewDriver(), failGet: true}, nil)

	list := st.ListConversations(ctx, "user-1")
	require.NotNil(t, list)
	assert.Empty(t, list)
}

func TestListConversationsSwallowsDecodeFailure(t *testing.T) {
	ctx := context.Background()
	driver := memory.NewDriver()
	require.NoError(t, driver.Set(ctx, ConversationKey("user-1"), []byte("not json")))

	st := New(driver, nil)
	assert.Empty(t, st.ListConversations(ctx, "user-1"))
}

func TestSaveConversationPropagatesWriteFailure(t *testing.T) {
	ctx := context.Background()
	st := New(&faultyDriver{Driver: memory.NewDriver(), failSet: true}, nil)

	record, err := st.SaveConversation(ctx, "user-1", transcript("retention is really hard", "Cohorts."))
	require.Error(t, err)
	assert.Nil(t, record)
	assert.Contains(t, err.Error(), "persist conversation list")
}

func TestConversationKey(t *testing.T) {
	assert.Equal(t, "conversations_user-1", ConversationKey("user-1"))
}
