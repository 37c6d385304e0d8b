package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/chatview/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	session := internal.CreateTestSession("Greetings")

	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(session, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{"generator: chatview", "message_count: 2", "title: Greetings", "role: user", "role: assistant"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\ngot: %s", want, output)
		}
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	doc, ok := decoded["session"].(map[string]interface{})
	if !ok {
		t.Fatalf("session = %v, want a mapping", decoded["session"])
	}
	messages, ok := doc["messages"].([]interface{})
	if !ok || len(messages) != 2 {
		t.Errorf("messages = %v, want 2 entries", doc["messages"])
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	if got := (&YAMLExporter{}).Extension(); got != "yaml" {
		t.Errorf("Extension() = %v, want yaml", got)
	}
}
