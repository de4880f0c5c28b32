package store

import "context"

// Driver is the key-value contract the conversation store runs on. The
// persistence model is one logical record per user: the JSON-serialized
// array of that user's conversation records.
type Driver interface {
	// Get returns the stored value for key; ok is false when the key
	// does not exist.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Migrate prepares the backing schema.
	Migrate(ctx context.Context) error
	Close() error
}

// conversationKeyPrefix namespaces per-user history blobs in the KV store.
const conversationKeyPrefix = "conversations_"

// ConversationKey returns the storage key of a user's history list.
func ConversationKey(userID string) string {
	return conversationKeyPrefix + userID
}
