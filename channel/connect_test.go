package channel

import (
	"testing"
	"time"

	"github.com/aynalab/chatsync/chat"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	want := chat.Message{
		Text:      "hello",
		UserID:    "u1",
		SessionID: "s1",
		Timestamp: time.Date(2025, 3, 4, 5, 6, 7, 890000000, time.UTC),
	}

	env, err := encodeEnvelope(want)
	if err != nil {
		t.Fatalf("encodeEnvelope() error = %v", err)
	}

	got, err := decodeEnvelope(env)
	if err != nil {
		t.Fatalf("decodeEnvelope() error = %v", err)
	}

	if got.Text != want.Text || got.UserID != want.UserID || got.SessionID != want.SessionID {
		t.Errorf("decodeEnvelope() = %+v, want %+v", got, want)
	}
	if !got.Timestamp.Equal(want.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, want.Timestamp)
	}
}

func TestDecodeEnvelope_MissingSessionID(t *testing.T) {
	env, err := encodeEnvelope(chat.Message{Text: "hi", UserID: "u1"})
	if err != nil {
		t.Fatalf("encodeEnvelope() error = %v", err)
	}

	if _, err := decodeEnvelope(env); err == nil {
		t.Error("decodeEnvelope() error = nil, want error for missing sessionId")
	}
}

func TestHandlerSlot_SubscribeReplacesPrevious(t *testing.T) {
	var slot handlerSlot

	var first, second int
	slot.subscribe(func(chat.Message) { first++ })
	sub2 := slot.subscribe(func(chat.Message) { second++ })

	slot.deliver(chat.Message{Text: "a"})

	if first != 0 {
		t.Errorf("replaced handler invoked %d times, want 0", first)
	}
	if second != 1 {
		t.Errorf("active handler invoked %d times, want 1", second)
	}

	sub2.Cancel()
	slot.deliver(chat.Message{Text: "b"})
	if second != 1 {
		t.Errorf("cancelled handler invoked %d times, want 1", second)
	}
}

func TestHandlerSlot_StaleCancelDoesNotClobberActive(t *testing.T) {
	var slot handlerSlot

	sub1 := slot.subscribe(func(chat.Message) {})

	var active int
	slot.subscribe(func(chat.Message) { active++ })

	// Cancelling the replaced registration must not deregister its successor.
	sub1.Cancel()
	slot.deliver(chat.Message{Text: "a"})

	if active != 1 {
		t.Errorf("active handler invoked %d times, want 1", active)
	}
}
