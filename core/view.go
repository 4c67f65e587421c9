package core

import (
	"sync"

	"github.com/aynalab/chatsync/chat"
)

// View is the derived presentation state: the active session and its message
// history. It is recomputed whenever the active session changes or its index
// entry mutates, never stored independently. Messages always equals the
// index entry for the active session (empty when no session is active).
type View struct {
	ActiveSession *chat.Session
	Messages      []chat.Message
}

// ViewListener consumes republished views. Invoked outside the core's
// mutation lock, so a listener may call back into the core.
type ViewListener func(view View)

// ViewSubscription is a cancellable registration of a view listener.
type ViewSubscription struct {
	cancel func()
	once   sync.Once
}

// Cancel deregisters the listener. Safe to call more than once.
func (s *ViewSubscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// viewSlot holds the single active view listener. The presentation layer is
// a single consumer; re-subscribing replaces the previous registration.
type viewSlot struct {
	mu  sync.Mutex
	gen int
	l   ViewListener
}

func (s *viewSlot) subscribe(l ViewListener) *ViewSubscription {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.l = l
	s.mu.Unlock()

	return &ViewSubscription{cancel: func() {
		s.mu.Lock()
		if s.gen == gen {
			s.l = nil
		}
		s.mu.Unlock()
	}}
}

func (s *viewSlot) publish(view View) {
	s.mu.Lock()
	l := s.l
	s.mu.Unlock()

	if l != nil {
		l(view)
	}
}
