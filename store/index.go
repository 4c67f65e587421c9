package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aynalab/chatsync/chat"
)

// MessageCache persists the full session-id → message-list index under a
// fixed key. Callers read-modify-write the whole index: a crash between read
// and write leaves either the old or the new full snapshot, never a
// half-merged structure.
type MessageCache struct {
	kv KV
}

// NewMessageCache creates a MessageCache over the given KV backend.
func NewMessageCache(kv KV) *MessageCache {
	return &MessageCache{kv: kv}
}

// Load returns the persisted index. Missing or malformed data yields an
// empty index, not an error.
func (c *MessageCache) Load(ctx context.Context) (chat.MessageIndex, error) {
	data, err := c.kv.Load(ctx, KeyMessages)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return make(chat.MessageIndex), nil
		}
		return nil, fmt.Errorf("load message index: %w", err)
	}

	var idx chat.MessageIndex
	if err := json.Unmarshal(data, &idx); err != nil || idx == nil {
		return make(chat.MessageIndex), nil
	}
	return idx, nil
}

// Save overwrites the persisted index with the given snapshot.
func (c *MessageCache) Save(ctx context.Context, idx chat.MessageIndex) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("encode message index: %w", err)
	}
	if err := c.kv.Save(ctx, KeyMessages, data); err != nil {
		return fmt.Errorf("save message index: %w", err)
	}
	return nil
}
