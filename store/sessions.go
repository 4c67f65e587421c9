package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aynalab/chatsync/chat"
)

// SessionStore persists the ordered session list under a fixed key. Loads
// degrade to an empty list when the key is absent or the payload is
// malformed; a corrupt snapshot must never prevent the client from starting.
type SessionStore struct {
	kv KV
}

// NewSessionStore creates a SessionStore over the given KV backend.
func NewSessionStore(kv KV) *SessionStore {
	return &SessionStore{kv: kv}
}

// Load returns the persisted session list in stored order. Missing or
// malformed data yields an empty list, not an error.
func (s *SessionStore) Load(ctx context.Context) ([]chat.Session, error) {
	data, err := s.kv.Load(ctx, KeySessions)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	var sessions []chat.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, nil
	}
	return sessions, nil
}

// Save overwrites the persisted session list. There is no partial-update
// API: every mutation rewrites the whole collection.
func (s *SessionStore) Save(ctx context.Context, sessions []chat.Session) error {
	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}
	if err := s.kv.Save(ctx, KeySessions, data); err != nil {
		return fmt.Errorf("save sessions: %w", err)
	}
	return nil
}
