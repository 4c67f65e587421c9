package export

import (
	"fmt"
	"io"
	"time"
)

// MarkdownExporter exports transcripts as a readable Markdown document.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(t *Transcript, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# %s\n\n", t.Session.Name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Created: %s\n\n", t.Session.CreatedAt.Format(time.RFC3339)); err != nil {
		return err
	}

	for _, msg := range t.Messages {
		if _, err := fmt.Fprintf(w, "**%s** (%s):\n\n%s\n\n",
			msg.UserID,
			msg.Timestamp.Format(time.RFC3339),
			msg.Text,
		); err != nil {
			return err
		}
	}

	return nil
}

func (e *MarkdownExporter) Extension() string {
	return "md"
}
