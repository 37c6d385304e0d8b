package export

import (
	"fmt"
	"io"
	"time"

	"github.com/iksnae/chatview/internal"
)

// MarkdownExporter exports sessions in Markdown format. Message text is
// written unchanged since the chat markup is a subset of Markdown.
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(session *internal.ChatSession, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# %s\n\n", session.Title)
	_, _ = fmt.Fprintf(w, "**Created:** %s  \n", session.CreatedAt.Format(time.RFC3339))
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(session.Messages))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range session.Messages {
		timestamp := ""
		if !msg.Timestamp.IsZero() {
			timestamp = fmt.Sprintf(" (%s)", msg.Timestamp.Format(time.RFC3339))
		}
		edited := ""
		if msg.Edited {
			edited = " _(edited)_"
		}

		_, _ = fmt.Fprintf(w, "**%s:**%s%s\n\n%s\n\n", msg.Role, timestamp, edited, msg.Text)

		if i < len(session.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
