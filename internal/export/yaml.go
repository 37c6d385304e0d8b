package export

import (
	"fmt"
	"io"

	"github.com/iksnae/chatview/internal"
	"gopkg.in/yaml.v3"
)

// yamlDocument wraps a session with a little metadata for readers
type yamlDocument struct {
	Generator    string                `yaml:"generator"`
	MessageCount int                   `yaml:"message_count"`
	Session      *internal.ChatSession `yaml:"session"`
}

// YAMLExporter exports sessions in YAML format
type YAMLExporter struct{}

// Export exports a session to YAML format
func (e *YAMLExporter) Export(session *internal.ChatSession, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	doc := yamlDocument{
		Generator:    "chatview",
		MessageCount: len(session.Messages),
		Session:      session,
	}
	if err := enc.Encode(doc); err != nil {
		_ = enc.Close()
		return fmt.Errorf("failed to encode session %s: %w", session.ID, err)
	}
	return enc.Close()
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
