package channel

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/aynalab/chatsync/chat"
)

// EventMessage is the single named event exchanged in both directions.
const EventMessage = "message"

// frame is the wire envelope for WebSocket traffic: an event name plus the
// message payload, mirroring the event-based protocol of the original server.
type frame struct {
	Event string       `json:"event"`
	Data  chat.Message `json:"data"`
}

type wsChannel struct {
	conn    *websocket.Conn
	slot    handlerSlot
	writeMu sync.Mutex

	closeOnce sync.Once
	closeErr  error
	done      chan struct{}
}

// DialWebSocket opens a WebSocket channel to url, identifying the user via
// the X-Chat-User header. A single read pump delivers inbound "message"
// events to the active subscription in arrival order; frames with any other
// event name are ignored.
func DialWebSocket(ctx context.Context, url string, identity chat.Identity) (Channel, error) {
	header := http.Header{}
	header.Set("X-Chat-User", identity.UserID)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	c := &wsChannel{
		conn: conn,
		done: make(chan struct{}),
	}
	go c.readPump()

	return c, nil
}

// WebSocketDialer returns a Dialer that connects to url for each identity.
func WebSocketDialer(url string) Dialer {
	return func(ctx context.Context, identity chat.Identity) (Channel, error) {
		return DialWebSocket(ctx, url, identity)
	}
}

func (c *wsChannel) readPump() {
	defer close(c.done)

	for {
		var f frame
		if err := c.conn.ReadJSON(&f); err != nil {
			// Read errors mean the connection is gone; the dropped frame
			// is the transport's loss to absorb, not ours to retry.
			return
		}
		if f.Event != EventMessage {
			continue
		}
		c.slot.deliver(f.Data)
	}
}

func (c *wsChannel) Send(ctx context.Context, msg chat.Message) error {
	select {
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetWriteDeadline(deadline)
	}
	return c.conn.WriteJSON(frame{Event: EventMessage, Data: msg})
}

func (c *wsChannel) Subscribe(h Handler) *Subscription {
	return c.slot.subscribe(h)
}

func (c *wsChannel) Close() error {
	c.closeOnce.Do(func() {
		c.slot.clear()
		c.closeErr = c.conn.Close()
		<-c.done
	})
	return c.closeErr
}
