package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/chatview/internal"
)

func TestHTMLExporter_Export(t *testing.T) {
	session := internal.CreateTestSessionWithMessages("<b>Code</b> talk",
		"How do I log?",
		"Use:\n```js\nconsole.log(1)\n```")

	var buf bytes.Buffer
	if err := (&HTMLExporter{}).Export(session, &buf); err != nil {
		t.Fatalf("HTMLExporter.Export() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>&lt;b&gt;Code&lt;/b&gt; talk</title>",
		`<div class="message user">`,
		`<div class="message assistant">`,
		`<div class="code-block-wrapper">`,
		`<span class="number">1</span>`,
		".keyword {",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(output, "<b>Code</b>") {
		t.Error("session title must be escaped")
	}
}

func TestHTMLExporter_EmptySession(t *testing.T) {
	var buf bytes.Buffer
	if err := (&HTMLExporter{}).Export(internal.CreateTestSessionWithMessages("Empty"), &buf); err != nil {
		t.Fatalf("HTMLExporter.Export() error = %v", err)
	}
	if !strings.Contains(buf.String(), `<div class="empty-state">`) {
		t.Errorf("expected empty state, got:\n%s", buf.String())
	}
}

func TestHTMLExporter_Extension(t *testing.T) {
	if got := (&HTMLExporter{}).Extension(); got != "html" {
		t.Errorf("Extension() = %v, want html", got)
	}
}
