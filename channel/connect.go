package channel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/aynalab/chatsync/chat"
)

// connectChannel adapts a Connect bidirectional stream to the Channel
// contract. Messages travel as schema-less structpb envelopes, mirroring the
// untyped JSON payloads of the event-based protocol, so no generated schema
// code is required on the client.
type connectChannel struct {
	stream  *connect.BidiStreamForClient[structpb.Struct, structpb.Struct]
	cancel  context.CancelFunc
	slot    handlerSlot
	writeMu sync.Mutex

	closeOnce sync.Once
	done      chan struct{}
}

// DialConnect opens a Connect bidi-stream channel at url using httpClient,
// which must support HTTP/2 for bidirectional streaming. The identity rides
// in the request headers; the stream handshake itself happens lazily on the
// first send, per Connect semantics.
func DialConnect(ctx context.Context, httpClient connect.HTTPClient, url string, identity chat.Identity) (Channel, error) {
	client := connect.NewClient[structpb.Struct, structpb.Struct](httpClient, url)

	streamCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stream := client.CallBidiStream(streamCtx)
	stream.RequestHeader().Set("X-Chat-User", identity.UserID)

	c := &connectChannel{
		stream: stream,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go c.readPump()

	return c, nil
}

// ConnectDialer returns a Dialer that opens a bidi stream at url for each
// identity.
func ConnectDialer(httpClient connect.HTTPClient, url string) Dialer {
	return func(ctx context.Context, identity chat.Identity) (Channel, error) {
		return DialConnect(ctx, httpClient, url, identity)
	}
}

func (c *connectChannel) readPump() {
	defer close(c.done)

	for {
		env, err := c.stream.Receive()
		if err != nil {
			return
		}
		msg, err := decodeEnvelope(env)
		if err != nil {
			continue
		}
		c.slot.deliver(msg)
	}
}

func (c *connectChannel) Send(ctx context.Context, msg chat.Message) error {
	select {
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	env, err := encodeEnvelope(msg)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.stream.Send(env)
}

func (c *connectChannel) Subscribe(h Handler) *Subscription {
	return c.slot.subscribe(h)
}

func (c *connectChannel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.slot.clear()
		err = c.stream.CloseRequest()
		c.cancel()
		c.stream.CloseResponse()
		<-c.done
	})
	return err
}

func encodeEnvelope(msg chat.Message) (*structpb.Struct, error) {
	env, err := structpb.NewStruct(map[string]any{
		"text":      msg.Text,
		"userId":    msg.UserID,
		"sessionId": msg.SessionID,
		"timestamp": msg.Timestamp.Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, fmt.Errorf("encode message envelope: %w", err)
	}
	return env, nil
}

func decodeEnvelope(env *structpb.Struct) (chat.Message, error) {
	fields := env.AsMap()

	msg := chat.Message{
		Text:      stringField(fields, "text"),
		UserID:    stringField(fields, "userId"),
		SessionID: stringField(fields, "sessionId"),
	}
	if msg.SessionID == "" {
		return chat.Message{}, fmt.Errorf("message envelope missing sessionId")
	}

	if raw := stringField(fields, "timestamp"); raw != "" {
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return chat.Message{}, fmt.Errorf("bad message timestamp %q: %w", raw, err)
		}
		msg.Timestamp = ts
	}

	return msg, nil
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}
