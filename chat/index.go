package chat

import (
	"maps"
	"slices"
)

// MessageIndex maps a session id to that session's messages in arrival order.
// Invariant: every message stored under key k has SessionID == k. A missing
// key is equivalent to an empty history.
type MessageIndex map[string][]Message

// Append adds msg under its own session id.
func (idx MessageIndex) Append(msg Message) {
	idx[msg.SessionID] = append(idx[msg.SessionID], msg)
}

// Messages returns a defensive copy of the history for the given session id.
func (idx MessageIndex) Messages(sessionID string) []Message {
	return slices.Clone(idx[sessionID])
}

// Clone returns a deep copy of the index.
func (idx MessageIndex) Clone() MessageIndex {
	copied := make(MessageIndex, len(idx))
	for id, msgs := range idx {
		copied[id] = slices.Clone(msgs)
	}
	return copied
}

// Drop removes a session's entry entirely, leaving no orphaned history.
func (idx MessageIndex) Drop(sessionID string) {
	delete(idx, sessionID)
}

// SessionIDs returns the session ids present in the index, unordered.
func (idx MessageIndex) SessionIDs() []string {
	return slices.Collect(maps.Keys(idx))
}
