package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const (
	// DefaultTitle is the title of a session nobody has talked in yet
	DefaultTitle = "New Chat"
	// PendingTitle is shown while a title is being generated
	PendingTitle = "Generating..."
	// AnonymousUserID scopes storage when no identity is available
	AnonymousUserID = "local"
)

// ChatSession is one conversation thread
type ChatSession struct {
	ID           string     `json:"id" yaml:"id"`
	Title        string     `json:"title" yaml:"title"`
	Messages     []Message  `json:"messages" yaml:"messages"`
	CreatedAt    time.Time  `json:"createdAt" yaml:"created_at"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
	TitlePending bool       `json:"titlePending,omitempty" yaml:"title_pending,omitempty"`
}

// Message is a single chat message in its raw, unrendered form
type Message struct {
	ID        string    `json:"id" yaml:"id"`
	Role      Role      `json:"role" yaml:"role"`
	Text      string    `json:"text" yaml:"text"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Edited    bool      `json:"edited,omitempty" yaml:"edited,omitempty"`
}

// NewChatSession creates an empty session with the default title
func NewChatSession(now time.Time) *ChatSession {
	return &ChatSession{
		ID:        uuid.NewString(),
		Title:     DefaultTitle,
		Messages:  []Message{},
		CreatedAt: now,
	}
}

// NewMessage creates a message stamped with now. The ID combines the creation
// time with a random suffix so two messages created in the same millisecond differ.
func NewMessage(role Role, text string, now time.Time) Message {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return Message{
		ID:        fmt.Sprintf("%d-%s", now.UnixMilli(), suffix),
		Role:      role,
		Text:      text,
		Timestamp: now,
	}
}

// LastUpdated returns when the session last changed, falling back to its creation time
func (s *ChatSession) LastUpdated() time.Time {
	if s.UpdatedAt == nil || s.UpdatedAt.IsZero() {
		return s.CreatedAt
	}
	return *s.UpdatedAt
}

// HasUserMessage reports whether any user message has been appended yet
func (s *ChatSession) HasUserMessage() bool {
	for _, msg := range s.Messages {
		if msg.Role == RoleUser {
			return true
		}
	}
	return false
}

// FirstUserMessage returns the text of the first user message, if any
func (s *ChatSession) FirstUserMessage() (string, bool) {
	for _, msg := range s.Messages {
		if msg.Role == RoleUser {
			return msg.Text, true
		}
	}
	return "", false
}

// LastMessage returns the most recent message, if any
func (s *ChatSession) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// Clone returns a deep copy so callers can't mutate store-owned state
func (s *ChatSession) Clone() *ChatSession {
	if s == nil {
		return nil
	}
	c := *s
	c.Messages = make([]Message, len(s.Messages))
	copy(c.Messages, s.Messages)
	if s.UpdatedAt != nil {
		updated := *s.UpdatedAt
		c.UpdatedAt = &updated
	}
	return &c
}

// sessionsKeyPrefix starts every key holding a session collection
const sessionsKeyPrefix = "chats:"

// sessionsKey returns the durable key holding a user's session collection
func sessionsKey(userID string) string {
	return sessionsKeyPrefix + normalizeUserID(userID)
}

// CurrentKey returns the durable key holding a user's selected session index
func CurrentKey(userID string) string {
	return "current:" + normalizeUserID(userID)
}

func normalizeUserID(userID string) string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return AnonymousUserID
	}
	return userID
}
