// Package channel provides the realtime message transport for the chat
// client: one live bidirectional connection per authenticated identity, with
// fire-and-forget sends and a single active inbound subscription.
//
// Two transports are provided: a WebSocket client (the default) and a
// Connect bidirectional-stream client. Reconnection and backoff are the
// transport's own concern; callers treat a failed send as a silent drop.
package channel

import (
	"context"
	"errors"
	"sync"

	"github.com/aynalab/chatsync/chat"
)

// ErrClosed is returned by Send after the channel has been closed.
var ErrClosed = errors.New("channel closed")

// Handler consumes one inbound message. Handlers are invoked sequentially in
// network arrival order; a handler must not block indefinitely.
type Handler func(msg chat.Message)

// Channel is one live connection to the remote message server, scoped to a
// single identity.
type Channel interface {
	// Send transmits a message. Fire-and-forget: delivery confirmation is
	// out of scope, and the server echo is the only acknowledgment.
	Send(ctx context.Context, msg chat.Message) error
	// Subscribe registers the single active inbound handler, deregistering
	// any previous one so stale handlers never receive duplicates.
	Subscribe(h Handler) *Subscription
	// Close tears down the connection and drops the active subscription.
	Close() error
}

// Dialer opens a Channel for an identity. The core invokes it whenever a
// non-nil identity becomes available.
type Dialer func(ctx context.Context, identity chat.Identity) (Channel, error)

// Subscription is a cancellable registration of an inbound handler.
type Subscription struct {
	cancel func()
	once   sync.Once
}

// NewSubscription wraps a cancel function in a Subscription. Intended for
// Channel implementations outside this package, including test fakes.
func NewSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Cancel deregisters the handler. Safe to call more than once; canceling a
// subscription that was already replaced is a no-op.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// handlerSlot holds the single active handler for a channel. Subscribing
// replaces (and implicitly cancels) the previous registration.
type handlerSlot struct {
	mu  sync.Mutex
	gen int
	h   Handler
}

func (s *handlerSlot) subscribe(h Handler) *Subscription {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.h = h
	s.mu.Unlock()

	return &Subscription{cancel: func() {
		s.mu.Lock()
		if s.gen == gen {
			s.h = nil
		}
		s.mu.Unlock()
	}}
}

func (s *handlerSlot) deliver(msg chat.Message) {
	s.mu.Lock()
	h := s.h
	s.mu.Unlock()

	if h != nil {
		h(msg)
	}
}

func (s *handlerSlot) clear() {
	s.mu.Lock()
	s.h = nil
	s.mu.Unlock()
}
