package render

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chatview/internal"
	"github.com/mattn/go-runewidth"
)

const terminalStyle = "monokai"

var (
	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	codeLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)
)

// TerminalRenderer renders sessions for a terminal. Fenced code is colored
// with chroma; everything else is printed as typed.
type TerminalRenderer struct {
	width int
	color bool
}

// NewTerminalRenderer creates a renderer. width limits title lines (0 means
// no limit) and color turns code highlighting on.
func NewTerminalRenderer(width int, color bool) *TerminalRenderer {
	return &TerminalRenderer{width: width, color: color}
}

// RenderTitle renders a session heading, truncated to the terminal width
func (r *TerminalRenderer) RenderTitle(index int, session *internal.ChatSession) string {
	title := fmt.Sprintf("#%d %s", index, session.Title)
	if r.width > 0 && runewidth.StringWidth(title) > r.width {
		title = runewidth.Truncate(title, r.width, "…")
	}
	return titleStyle.Render(title)
}

// RenderMessage renders one message with a role/time header
func (r *TerminalRenderer) RenderMessage(msg internal.Message) string {
	label := assistantLabelStyle.Render("Assistant")
	if msg.Role == internal.RoleUser {
		label = userLabelStyle.Render("You")
	}
	header := label
	if clock := Clock(msg.Timestamp); clock != "" {
		header += " " + timeStyle.Render(clock)
	}
	if msg.Edited {
		header += timeStyle.Render(" (edited)")
	}
	return header + "\n" + r.RenderText(msg.Text)
}

// RenderTranscript renders the last limit messages of a session (all when
// limit <= 0), or a welcome line when it is empty
func (r *TerminalRenderer) RenderTranscript(session *internal.ChatSession, limit int) string {
	if len(session.Messages) == 0 {
		return timeStyle.Render("Welcome. Start a conversation.")
	}
	messages := session.Messages
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		parts = append(parts, r.RenderMessage(msg))
	}
	return strings.Join(parts, "\n\n")
}

// RenderText renders message text, highlighting fenced code blocks
func (r *TerminalRenderer) RenderText(text string) string {
	ex := ExtractCodeBlocks(text)
	return ex.Reinsert(ex.Text, r.renderCode)
}

func (r *TerminalRenderer) renderCode(block CodeBlock) string {
	code := block.Code
	if r.color {
		code = HighlightTerminal(code, block.Language)
	}
	return "\n" + codeLabelStyle.Render(block.Language) + "\n" + code + "\n"
}

// HighlightTerminal colors code with ANSI escapes. Unknown languages are
// guessed from the content; if tokenizing fails the code is returned as is.
func HighlightTerminal(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(terminalStyle)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
