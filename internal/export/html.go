package export

import (
	"fmt"
	"io"
	"time"

	"github.com/iksnae/chatview/internal"
	"github.com/iksnae/chatview/internal/render"
)

// HTMLExporter exports a session as a standalone HTML page
type HTMLExporter struct{}

// Export renders the transcript with embedded styles
func (e *HTMLExporter) Export(session *internal.ChatSession, w io.Writer) error {
	title := render.Escape(session.Title)
	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta name="generator" content="chatview">
<meta name="date" content="%s">
<title>%s</title>
<style>%s</style>
</head>
<body>
<h1 class="chat-title">%s</h1>
<div class="messages">
%s
</div>
</body>
</html>
`, session.CreatedAt.Format(time.RFC3339), title, stylesheet, title, render.RenderTranscript(session))
	return err
}

// Extension returns the file extension for this format
func (e *HTMLExporter) Extension() string {
	return "html"
}

const stylesheet = `
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; max-width: 860px; margin: 2rem auto; padding: 0 1rem; background: #f7f7f8; color: #1f2328; }
.chat-title { font-size: 1.4rem; }
.message { display: flex; flex-direction: column; margin: 0.75rem 0; }
.message.user { align-items: flex-end; }
.message.assistant { align-items: flex-start; }
.message-bubble { max-width: 80%; padding: 0.6rem 0.9rem; border-radius: 12px; white-space: pre-wrap; word-wrap: break-word; }
.message.user .message-bubble { background: #0969da; color: #fff; }
.message.assistant .message-bubble { background: #fff; border: 1px solid #d0d7de; }
.message-time { font-size: 0.75rem; color: #6e7781; margin-top: 0.2rem; }
.edited-indicator { font-style: italic; }
.inline-code { font-family: ui-monospace, monospace; background: rgba(175,184,193,0.2); padding: 0 0.3em; border-radius: 4px; }
.code-block-wrapper { margin: 0.5rem 0; border-radius: 8px; overflow: hidden; background: #1e1e1e; white-space: normal; }
.code-header { display: flex; justify-content: space-between; align-items: center; padding: 0.3rem 0.7rem; background: #2d2d2d; color: #ccc; font-size: 0.8rem; }
.copy-code-btn { background: transparent; color: #ccc; border: 1px solid #555; border-radius: 4px; cursor: pointer; }
pre { margin: 0; padding: 0.8rem; overflow-x: auto; }
pre code { font-family: ui-monospace, monospace; color: #d4d4d4; white-space: pre; }
.keyword { color: #569cd6; }
.string { color: #ce9178; }
.comment { color: #6a9955; font-style: italic; }
.number { color: #b5cea8; }
.literal { color: #4fc1ff; }
.function { color: #dcdcaa; }
.tag { color: #569cd6; }
.attribute { color: #9cdcfe; }
.empty-state { text-align: center; color: #6e7781; padding: 3rem 0; }
`
