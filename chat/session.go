package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is a named, independently scoped conversation thread. Immutable
// except for Name. The id is a UUIDv7: derived from the creation instant and
// monotonic within it, so two sessions created in the same instant still get
// distinct, ordered ids.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewSession creates a Session with a fresh time-ordered id. An empty name
// is kept empty; callers that want the "Chat N" default use DefaultName.
func NewSession(name string) Session {
	return Session{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// DefaultName returns the display name for the n-th session ("Chat 1",
// "Chat 2", ...). n is the number of sessions that already exist.
func DefaultName(n int) string {
	return fmt.Sprintf("Chat %d", n+1)
}
