package render

import (
	"strings"
	"time"

	"github.com/iksnae/chatview/internal"
)

const previewLength = 25

// RenderMessage renders a message bubble with its time and edited marker
func RenderMessage(msg internal.Message) string {
	var b strings.Builder
	b.WriteString(`<div class="message `)
	b.WriteString(Escape(string(msg.Role)))
	b.WriteString(`"><div class="message-bubble">`)
	b.WriteString(Format(msg.Text))
	b.WriteString(`</div><div class="message-time">`)
	b.WriteString(Clock(msg.Timestamp))
	if msg.Edited {
		b.WriteString(`<span class="edited-indicator"> (edited)</span>`)
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

// RenderTranscript renders every message of a session, or a welcome
// placeholder when it has none
func RenderTranscript(session *internal.ChatSession) string {
	if session == nil || len(session.Messages) == 0 {
		return `<div class="empty-state"><i class="fas fa-comments"></i><h3>Welcome</h3><p>Start a conversation</p></div>`
	}
	parts := make([]string, 0, len(session.Messages))
	for _, msg := range session.Messages {
		parts = append(parts, RenderMessage(msg))
	}
	return strings.Join(parts, "\n")
}

// RenderSessionList renders the sidebar entries, marking current as active
func RenderSessionList(sessions []*internal.ChatSession, current int) string {
	parts := make([]string, 0, len(sessions))
	for i, session := range sessions {
		class := "chat-session"
		if i == current {
			class += " active"
		}
		parts = append(parts, `<div class="`+class+`"><div class="session-title">`+
			Escape(session.Title)+`</div><div class="session-preview">`+
			Escape(Preview(session))+`</div></div>`)
	}
	return strings.Join(parts, "\n")
}

// Preview returns the start of the last message, or "No messages"
func Preview(session *internal.ChatSession) string {
	last, ok := session.LastMessage()
	if !ok || last.Text == "" {
		return "No messages"
	}
	return internal.Truncate(last.Text, previewLength)
}

// Clock formats a timestamp as local HH:MM, empty for the zero time
func Clock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("15:04")
}
