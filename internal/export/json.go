package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/chatview/internal"
)

// JSONExporter writes a session as a one-element collection, the same shape
// the store keeps under chats:<user>, so an export can be loaded back as is
type JSONExporter struct {
	// Compact disables indentation
	Compact bool
}

// Export exports a session to JSON format
func (e *JSONExporter) Export(session *internal.ChatSession, w io.Writer) error {
	enc := json.NewEncoder(w)
	if !e.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode([]*internal.ChatSession{session})
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
