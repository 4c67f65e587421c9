// Package chat defines the domain types shared across the synchronization
// core: messages, sessions, the per-session message index, and the
// authenticated identity that scopes the realtime channel.
package chat

import (
	"strings"
	"time"
)

// Message is a single chat message. Messages are immutable once created; the
// session id is stamped at send time and never reassigned. The JSON field
// names are the wire and persistence format.
type Message struct {
	Text      string    `json:"text"`
	UserID    string    `json:"userId"`
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a Message stamped with the current time.
func NewMessage(text, userID, sessionID string) Message {
	return Message{
		Text:      text,
		UserID:    userID,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
	}
}

// Blank reports whether the message text is empty after trimming whitespace.
// Blank messages are never sent.
func (m Message) Blank() bool {
	return strings.TrimSpace(m.Text) == ""
}

// Identity is the authenticated user on whose behalf the channel is opened
// and outgoing messages are stamped. Supplied by the authentication
// collaborator; the core only consumes UserID.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email,omitempty"`
}
