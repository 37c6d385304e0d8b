package internal

import (
	"context"
	"strings"
)

const (
	maxGeneratedTitle = 30
	maxFallbackTitle  = 20
	fallbackWordCount = 3
)

// DefaultTitlePrompt asks the completion service for a short title.
// {message} is replaced by the first user message.
const DefaultTitlePrompt = `Write a short title (2-4 words) for this chat conversation based on its first message: "{message}". The title should be creative and relevant. Reply with the title only.`

var titleQuotes = strings.NewReplacer(`"`, "", "'", "", "“", "", "”", "", "‘", "", "’", "")

// Truncate keeps the first n runes of s and appends "..." when anything was cut
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// FirstWords returns the first n space-separated words of s
func FirstWords(s string, n int) string {
	words := strings.Split(s, " ")
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// CleanTitle turns a raw completion reply into a display title
func CleanTitle(reply string) string {
	title := strings.TrimSpace(titleQuotes.Replace(reply))
	if title == "" {
		return DefaultTitle
	}
	return Truncate(title, maxGeneratedTitle)
}

// FallbackTitle derives a title from the first message when generation
// fails. A message without words gets DefaultTitle.
func FallbackTitle(firstMessage string) string {
	title := Truncate(FirstWords(firstMessage, fallbackWordCount), maxFallbackTitle)
	if strings.TrimSpace(title) == "" {
		return DefaultTitle
	}
	return title
}

// TitlePrompt fills the prompt template with the first message
func TitlePrompt(template, firstMessage string) string {
	if template == "" {
		template = DefaultTitlePrompt
	}
	return strings.ReplaceAll(template, "{message}", firstMessage)
}

// TitleGenerator produces titles for new conversations
type TitleGenerator struct {
	completer Completer
	prompt    string
}

// NewTitleGenerator creates a generator. A nil completer always falls back
// to the heuristic title.
func NewTitleGenerator(completer Completer, prompt string) *TitleGenerator {
	return &TitleGenerator{completer: completer, prompt: prompt}
}

// Generate asks the completer for a title. It never fails: any error yields
// the heuristic title instead.
func (g *TitleGenerator) Generate(ctx context.Context, firstMessage string) string {
	if g == nil || g.completer == nil {
		return FallbackTitle(firstMessage)
	}
	reply, err := g.completer.Complete(ctx, TitlePrompt(g.prompt, firstMessage))
	if err != nil {
		LogWarn("Title generation failed, using first words: %v", err)
		return FallbackTitle(firstMessage)
	}
	return CleanTitle(reply)
}
