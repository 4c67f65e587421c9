package chat_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aynalab/chatsync/chat"
)

func TestNewSession_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s := chat.NewSession("test")
		if s.ID == "" {
			t.Fatal("session ID should not be empty")
		}
		if seen[s.ID] {
			t.Fatalf("duplicate session ID %q", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestNewSession_IDsOrdered(t *testing.T) {
	a := chat.NewSession("a")
	b := chat.NewSession("b")

	if !(a.ID < b.ID) {
		t.Errorf("ids should be time-ordered: %q then %q", a.ID, b.ID)
	}
}

func TestDefaultName(t *testing.T) {
	tests := []struct {
		existing int
		want     string
	}{
		{0, "Chat 1"},
		{1, "Chat 2"},
		{41, "Chat 42"},
	}
	for _, tt := range tests {
		if got := chat.DefaultName(tt.existing); got != tt.want {
			t.Errorf("DefaultName(%d) = %q, want %q", tt.existing, got, tt.want)
		}
	}
}

func TestMessage_Blank(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", true},
		{"   \t\n", true},
		{"hi", false},
		{"  hi  ", false},
	}
	for _, tt := range tests {
		m := chat.Message{Text: tt.text}
		if got := m.Blank(); got != tt.want {
			t.Errorf("Blank(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestMessage_JSONFieldNames(t *testing.T) {
	msg := chat.Message{
		Text:      "hi",
		UserID:    "u1",
		SessionID: "s1",
		Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"text", "userId", "sessionId", "timestamp"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("wire format missing key %q", key)
		}
	}
}

func TestMessageIndex_AppendKeysBySessionID(t *testing.T) {
	idx := make(chat.MessageIndex)
	idx.Append(chat.Message{Text: "a", SessionID: "1"})
	idx.Append(chat.Message{Text: "b", SessionID: "2"})
	idx.Append(chat.Message{Text: "c", SessionID: "1"})

	got := idx.Messages("1")
	if len(got) != 2 || got[0].Text != "a" || got[1].Text != "c" {
		t.Errorf("Messages(1) = %v, want [a c] in order", got)
	}
	if len(idx.Messages("2")) != 1 {
		t.Errorf("Messages(2) = %v, want one message", idx.Messages("2"))
	}
}

func TestMessageIndex_MessagesIsACopy(t *testing.T) {
	idx := make(chat.MessageIndex)
	idx.Append(chat.Message{Text: "a", SessionID: "1"})

	msgs := idx.Messages("1")
	msgs[0].Text = "mutated"

	if idx.Messages("1")[0].Text != "a" {
		t.Error("mutating the returned slice should not affect the index")
	}
}

func TestMessageIndex_Drop(t *testing.T) {
	idx := make(chat.MessageIndex)
	idx.Append(chat.Message{Text: "a", SessionID: "1"})
	idx.Drop("1")

	if _, ok := idx["1"]; ok {
		t.Error("Drop should remove the index entry entirely")
	}
}

func TestMessageIndex_Clone(t *testing.T) {
	idx := make(chat.MessageIndex)
	idx.Append(chat.Message{Text: "a", SessionID: "1"})

	clone := idx.Clone()
	clone.Append(chat.Message{Text: "b", SessionID: "1"})

	if len(idx.Messages("1")) != 1 {
		t.Error("appending to a clone should not affect the original")
	}
}
