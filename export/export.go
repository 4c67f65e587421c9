// Package export renders a session transcript — the session metadata plus
// its ordered message history — in portable formats.
package export

import (
	"fmt"
	"io"

	"github.com/aynalab/chatsync/chat"
)

// Transcript is the exportable snapshot of one session.
type Transcript struct {
	Session  chat.Session   `json:"session" yaml:"session"`
	Messages []chat.Message `json:"messages" yaml:"messages"`
}

// Exporter defines the interface for all export formats.
type Exporter interface {
	Export(t *Transcript, w io.Writer) error
	Extension() string
}

// NewExporter creates an exporter for the given format.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, md, yaml)", format)
	}
}
