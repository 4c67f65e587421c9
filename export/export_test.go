package export_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aynalab/chatsync/chat"
	"github.com/aynalab/chatsync/export"
)

func sampleTranscript() *export.Transcript {
	created := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	return &export.Transcript{
		Session: chat.Session{ID: "s1", Name: "Chat 1", CreatedAt: created},
		Messages: []chat.Message{
			{Text: "hello", UserID: "u1", SessionID: "s1", Timestamp: created.Add(time.Minute)},
			{Text: "hi back", UserID: "u2", SessionID: "s1", Timestamp: created.Add(2 * time.Minute)},
		},
	}
}

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format  string
		wantExt string
		wantErr bool
	}{
		{"json", "json", false},
		{"yaml", "yaml", false},
		{"md", "md", false},
		{"markdown", "md", false},
		{"csv", "", true},
	}

	for _, tt := range tests {
		e, err := export.NewExporter(tt.format)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NewExporter(%q) error = nil, want error", tt.format)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewExporter(%q) error = %v", tt.format, err)
		}
		if got := e.Extension(); got != tt.wantExt {
			t.Errorf("Extension() = %q, want %q", got, tt.wantExt)
		}
	}
}

func TestJSONExporter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	e, _ := export.NewExporter("json")

	if err := e.Export(sampleTranscript(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var got export.Transcript
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Session.ID != "s1" || len(got.Messages) != 2 {
		t.Errorf("round-tripped transcript = %+v, want 2 messages for s1", got)
	}
	if got.Messages[0].Text != "hello" || got.Messages[1].Text != "hi back" {
		t.Error("message order not preserved")
	}
}

func TestYAMLExporter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	e, _ := export.NewExporter("yaml")

	if err := e.Export(sampleTranscript(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var got export.Transcript
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if got.Session.Name != "Chat 1" || len(got.Messages) != 2 {
		t.Errorf("round-tripped transcript = %+v, want 2 messages for Chat 1", got)
	}
}

func TestMarkdownExporter_Content(t *testing.T) {
	var buf bytes.Buffer
	e, _ := export.NewExporter("md")

	if err := e.Export(sampleTranscript(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"# Chat 1", "**u1**", "hello", "**u2**", "hi back"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q:\n%s", want, out)
		}
	}
}
