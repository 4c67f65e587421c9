// Package store provides the durable persistence port for the chat client.
// It exposes a flat key-value contract with pluggable backends (filesystem,
// SQLite, in-memory) plus typed write-through wrappers for the session list
// and the per-session message index.
//
// Backends are stateless: they perform I/O on every call and never cache.
// All writes are whole-value overwrites, so a crash mid-mutation leaves
// either the previous or the new snapshot, never a partial merge.
package store

import "context"

// Fixed keys under which the chat client persists its state.
const (
	KeySessions = "chat/sessions.json"
	KeyMessages = "chat/messages.json"
)

// KV is the raw persistence contract. Keys are /-separated paths, values are
// opaque bytes.
type KV interface {
	// Load retrieves the value for key. Returns ErrKeyNotFound when absent.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save persists value under key, creating or overwriting as needed.
	Save(ctx context.Context, key string, value []byte) error
	// Delete removes key. Missing keys are ignored.
	Delete(ctx context.Context, key string) error
	// List returns all keys present in the store.
	List(ctx context.Context) ([]string, error)
}
