// Package core implements the session synchronization core: it owns the
// session list and the per-session message index, binds the realtime channel
// to the message cache, and derives the active view consumed by the
// presentation layer.
//
// All mutations — user intents and inbound network messages alike — are
// serialized through a single mutex, so every operation observes the state
// left by the previous one and runs to completion before the next. Durable
// stores are written through synchronously after each mutation; persisted
// state never lags memory by more than one event.
package core

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aynalab/chatsync/channel"
	"github.com/aynalab/chatsync/chat"
	"github.com/aynalab/chatsync/observability"
	"github.com/aynalab/chatsync/store"
)

// ConfirmFunc gates destructive intents. It is invoked with the session
// about to be deleted and returns false to abort. Called while the core's
// mutation lock is held: implementations must not call back into the core.
type ConfirmFunc func(sess chat.Session) bool

// Option configures a Core after config-driven initialization.
type Option func(*Core)

// WithSessionStore overrides the config-created session store.
func WithSessionStore(s *store.SessionStore) Option {
	return func(c *Core) { c.sessionStore = s }
}

// WithMessageCache overrides the config-created message cache.
func WithMessageCache(m *store.MessageCache) Option {
	return func(c *Core) { c.cache = m }
}

// WithDialer overrides the config-created channel dialer.
func WithDialer(d channel.Dialer) Option {
	return func(c *Core) { c.dialer = d }
}

// WithObserver overrides the default SlogObserver.
func WithObserver(o observability.Observer) Option {
	return func(c *Core) { c.observer = o }
}

// WithConfirm installs the destructive-intent confirmation hook.
func WithConfirm(f ConfirmFunc) Option {
	return func(c *Core) { c.confirm = f }
}

// WithClock overrides the time source used to stamp messages and sessions.
func WithClock(now func() time.Time) Option {
	return func(c *Core) { c.now = now }
}

// Core is the session synchronization orchestrator.
type Core struct {
	mu       sync.Mutex
	sessions []chat.Session
	index    chat.MessageIndex
	active   string // active session id; "" when none

	identity *chat.Identity
	ch       channel.Channel
	sub      *channel.Subscription
	chGen    int // bumped on every identity change; guards late dials

	sessionStore *store.SessionStore
	cache        *store.MessageCache
	dialer       channel.Dialer
	observer     observability.Observer
	confirm      ConfirmFunc
	now          func() time.Time

	views viewSlot
}

// New creates a Core from configuration. The store backend and channel
// dialer are built from their config sections; functional options applied
// afterwards can override any collaborator for testing.
func New(cfg *Config, opts ...Option) (*Core, error) {
	kv, err := store.New(&cfg.Store)
	if err != nil {
		return nil, err
	}
	dialer, err := channel.NewDialer(&cfg.Channel)
	if err != nil {
		return nil, err
	}

	c := &Core{
		index:        make(chat.MessageIndex),
		sessionStore: store.NewSessionStore(kv),
		cache:        store.NewMessageCache(kv),
		dialer:       dialer,
		observer:     observability.NewSlogObserver(slog.Default()),
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Initialize loads persisted state. The first session in stored order
// becomes active (a deliberate fixed default, not most-recently-used);
// with no persisted sessions the core starts empty with no active session.
// Corrupt or missing snapshots degrade to empty state rather than failing.
func (c *Core) Initialize(ctx context.Context) error {
	c.mu.Lock()

	sessions, err := c.sessionStore.Load(ctx)
	if err != nil {
		c.emit(ctx, EventError, observability.LevelWarning, "core.Initialize", map[string]any{"error": err.Error()})
		sessions = nil
	}
	index, err := c.cache.Load(ctx)
	if err != nil {
		c.emit(ctx, EventError, observability.LevelWarning, "core.Initialize", map[string]any{"error": err.Error()})
		index = make(chat.MessageIndex)
	}

	c.sessions = sessions
	c.index = index
	c.active = ""
	if len(sessions) > 0 {
		c.active = sessions[0].ID
	}

	c.emit(ctx, EventInitialized, observability.LevelInfo, "core.Initialize", map[string]any{
		"sessions": len(sessions),
		"active":   c.active,
	})

	view := c.viewLocked()
	c.mu.Unlock()

	c.views.publish(view)
	return nil
}

// Sessions returns a copy of the session list in insertion order.
func (c *Core) Sessions() []chat.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	sessions := make([]chat.Session, len(c.sessions))
	copy(sessions, c.sessions)
	return sessions
}

// ActiveSession returns the active session, or nil when none is active.
func (c *Core) ActiveSession() *chat.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLocked()
}

// Messages returns the message history for the given session id in arrival
// order.
func (c *Core) Messages(sessionID string) []chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index.Messages(sessionID)
}

// View returns the current derived view.
func (c *Core) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// SubscribeView registers the single active view listener, replacing any
// previous registration. The listener receives every republished view.
func (c *Core) SubscribeView(l ViewListener) *ViewSubscription {
	return c.views.subscribe(l)
}

// CreateSession appends a new session, persists the list, and makes the new
// session active. An empty name defaults to "Chat N". The message index gets
// no eager entry: absence is equivalent to an empty history.
func (c *Core) CreateSession(ctx context.Context, name string) (chat.Session, error) {
	c.mu.Lock()

	if name == "" {
		name = chat.DefaultName(len(c.sessions))
	}
	sess := chat.NewSession(name)
	sess.CreatedAt = c.now().UTC()

	c.sessions = append(c.sessions, sess)
	if err := c.sessionStore.Save(ctx, c.sessions); err != nil {
		c.sessions = c.sessions[:len(c.sessions)-1]
		c.mu.Unlock()
		return chat.Session{}, err
	}
	c.active = sess.ID

	c.emit(ctx, EventSessionCreated, observability.LevelInfo, "core.CreateSession", map[string]any{
		"session_id": sess.ID,
		"name":       sess.Name,
	})

	view := c.viewLocked()
	c.mu.Unlock()

	c.views.publish(view)
	return sess, nil
}

// SwitchSession makes the target session active and re-derives the view. No
// storage side effect. The inbound handler is rebound so the shared channel
// keeps exactly one live subscription across switches.
func (c *Core) SwitchSession(ctx context.Context, sessionID string) error {
	c.mu.Lock()

	if c.findLocked(sessionID) < 0 {
		c.mu.Unlock()
		return ErrSessionNotFound
	}
	c.active = sessionID
	c.rebindLocked()

	c.emit(ctx, EventSessionSwitched, observability.LevelVerbose, "core.SwitchSession", map[string]any{
		"session_id": sessionID,
	})

	view := c.viewLocked()
	c.mu.Unlock()

	c.views.publish(view)
	return nil
}

// RenameSession updates a session's display name and persists the list.
func (c *Core) RenameSession(ctx context.Context, sessionID, name string) error {
	c.mu.Lock()

	i := c.findLocked(sessionID)
	if i < 0 {
		c.mu.Unlock()
		return ErrSessionNotFound
	}
	previous := c.sessions[i].Name
	c.sessions[i].Name = name
	if err := c.sessionStore.Save(ctx, c.sessions); err != nil {
		c.sessions[i].Name = previous
		c.mu.Unlock()
		return err
	}

	c.emit(ctx, EventSessionRenamed, observability.LevelVerbose, "core.RenameSession", map[string]any{
		"session_id": sessionID,
		"name":       name,
	})

	view := c.viewLocked()
	c.mu.Unlock()

	c.views.publish(view)
	return nil
}

// DeleteSession removes a session and its message history, persisting both
// collections. Destructive and irreversible: the confirmation hook runs
// first, and a declined confirmation aborts with no state change. When the
// deleted session was active, the first remaining session (in list order)
// becomes active, or none if the list is now empty.
func (c *Core) DeleteSession(ctx context.Context, sessionID string) error {
	c.mu.Lock()

	i := c.findLocked(sessionID)
	if i < 0 {
		c.mu.Unlock()
		return ErrSessionNotFound
	}

	if c.confirm != nil && !c.confirm(c.sessions[i]) {
		c.emit(ctx, EventDeleteCancelled, observability.LevelVerbose, "core.DeleteSession", map[string]any{
			"session_id": sessionID,
		})
		c.mu.Unlock()
		return nil
	}

	c.sessions = append(c.sessions[:i], c.sessions[i+1:]...)
	c.index.Drop(sessionID)
	if err := c.sessionStore.Save(ctx, c.sessions); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.cache.Save(ctx, c.index); err != nil {
		c.mu.Unlock()
		return err
	}

	if c.active == sessionID {
		c.active = ""
		if len(c.sessions) > 0 {
			c.active = c.sessions[0].ID
		}
	}

	c.emit(ctx, EventSessionDeleted, observability.LevelInfo, "core.DeleteSession", map[string]any{
		"session_id": sessionID,
		"remaining":  len(c.sessions),
	})

	view := c.viewLocked()
	c.mu.Unlock()

	c.views.publish(view)
	return nil
}

// SendMessage stamps text with the current identity and active session id
// and transmits it. The message is not appended locally: the server echo is
// the single source of truth for ordering and visibility, including the
// sender's own messages. Silently a no-op when the text trims to empty, no
// channel is open, no identity is set, or no session is active.
func (c *Core) SendMessage(ctx context.Context, text string) error {
	c.mu.Lock()

	if strings.TrimSpace(text) == "" || c.ch == nil || c.identity == nil || c.active == "" {
		c.mu.Unlock()
		return nil
	}

	msg := chat.Message{
		Text:      text,
		UserID:    c.identity.UserID,
		SessionID: c.active,
		Timestamp: c.now().UTC(),
	}
	ch := c.ch
	c.mu.Unlock()

	// The send happens outside the lock: a slow transport must not block
	// inbound handling or other intents.
	if err := ch.Send(ctx, msg); err != nil {
		c.emit(ctx, EventMessageDropped, observability.LevelWarning, "core.SendMessage", map[string]any{
			"session_id": msg.SessionID,
			"error":      err.Error(),
		})
		return nil
	}

	c.emit(ctx, EventMessageSent, observability.LevelVerbose, "core.SendMessage", map[string]any{
		"session_id": msg.SessionID,
	})
	return nil
}

// SetIdentity updates the authenticated identity gating the channel
// lifecycle. Any prior channel is closed, and its subscription cancelled and
// fully quiesced, before a new one is dialed — inbound messages from a stale
// identity must never pollute the new state. A nil identity (logout) just
// tears down. Dialing and closing happen outside the mutation lock, so
// pending intents and in-flight inbound handling are never blocked on the
// transport.
func (c *Core) SetIdentity(ctx context.Context, identity *chat.Identity) error {
	c.mu.Lock()
	old, oldSub := c.ch, c.sub
	c.ch, c.sub = nil, nil
	c.identity = identity
	c.chGen++
	gen := c.chGen
	c.mu.Unlock()

	c.teardown(ctx, old, oldSub)

	c.emit(ctx, EventIdentityChanged, observability.LevelInfo, "core.SetIdentity", map[string]any{
		"authenticated": identity != nil,
	})
	if identity == nil || c.dialer == nil {
		return nil
	}

	ch, err := c.dialer(ctx, *identity)
	if err != nil {
		c.emit(ctx, EventError, observability.LevelWarning, "core.SetIdentity", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	c.mu.Lock()
	if c.chGen != gen {
		// Identity changed again while dialing; this channel lost the race.
		c.mu.Unlock()
		ch.Close()
		return nil
	}
	c.ch = ch
	c.sub = ch.Subscribe(c.handleInbound)
	c.mu.Unlock()

	c.emit(ctx, EventChannelOpened, observability.LevelInfo, "core.SetIdentity", map[string]any{
		"user_id": identity.UserID,
	})
	return nil
}

// Close tears down the channel. The core remains usable for local reads.
func (c *Core) Close() error {
	c.mu.Lock()
	old, oldSub := c.ch, c.sub
	c.ch, c.sub = nil, nil
	c.chGen++
	c.mu.Unlock()

	c.teardown(context.Background(), old, oldSub)
	return nil
}

// handleInbound records an inbound message under its own session id and
// persists the full index. The view is republished only when the message
// belongs to the active session; messages for other sessions are still
// recorded so a later switch shows them.
func (c *Core) handleInbound(msg chat.Message) {
	ctx := context.Background()

	c.mu.Lock()
	c.index.Append(msg)
	if err := c.cache.Save(ctx, c.index); err != nil {
		c.emit(ctx, EventError, observability.LevelWarning, "core.handleInbound", map[string]any{
			"error": err.Error(),
		})
	}

	c.emit(ctx, EventMessageReceived, observability.LevelVerbose, "core.handleInbound", map[string]any{
		"session_id": msg.SessionID,
		"active":     msg.SessionID == c.active,
	})

	if msg.SessionID != c.active {
		c.mu.Unlock()
		return
	}

	view := c.viewLocked()
	c.mu.Unlock()

	c.views.publish(view)
}

func (c *Core) activeLocked() *chat.Session {
	i := c.findLocked(c.active)
	if i < 0 {
		return nil
	}
	sess := c.sessions[i]
	return &sess
}

func (c *Core) findLocked(sessionID string) int {
	if sessionID == "" {
		return -1
	}
	for i, sess := range c.sessions {
		if sess.ID == sessionID {
			return i
		}
	}
	return -1
}

func (c *Core) viewLocked() View {
	active := c.activeLocked()
	view := View{ActiveSession: active}
	if active != nil {
		view.Messages = c.index.Messages(active.ID)
	}
	return view
}

// rebindLocked re-registers the inbound handler on the shared channel,
// cancelling the previous subscription first so exactly one handler is live.
func (c *Core) rebindLocked() {
	if c.ch == nil {
		return
	}
	c.sub.Cancel()
	c.sub = c.ch.Subscribe(c.handleInbound)
}

// teardown cancels a subscription and closes its channel. Must be called
// without the mutation lock held: Close blocks until the channel's read pump
// has quiesced, and an in-flight delivery may itself be waiting on the lock.
func (c *Core) teardown(ctx context.Context, ch channel.Channel, sub *channel.Subscription) {
	if ch == nil {
		return
	}
	sub.Cancel()
	if err := ch.Close(); err != nil {
		c.emit(ctx, EventError, observability.LevelWarning, "core.Close", map[string]any{
			"error": err.Error(),
		})
	}
	c.emit(ctx, EventChannelClosed, observability.LevelInfo, "core.Close", nil)
}

func (c *Core) emit(ctx context.Context, typ observability.EventType, level observability.Level, source string, data map[string]any) {
	c.observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: c.now(),
		Source:    source,
		Data:      data,
	})
}
