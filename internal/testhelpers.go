package internal

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// CreateTestSession creates a session holding one user/assistant exchange
func CreateTestSession(title string) *ChatSession {
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	session := NewChatSession(now.Add(-time.Minute))
	session.Title = title
	session.Messages = []Message{
		NewMessage(RoleUser, "Hello, how are you?", now),
		NewMessage(RoleAssistant, "I'm doing **well**, thank you!", now.Add(time.Second)),
	}
	updated := now.Add(time.Second)
	session.UpdatedAt = &updated
	return session
}

// CreateTestSessionWithMessages creates a session with the given texts,
// alternating user and assistant roles starting with the user
func CreateTestSessionWithMessages(title string, texts ...string) *ChatSession {
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	session := NewChatSession(now)
	session.Title = title
	for i, text := range texts {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		session.Messages = append(session.Messages, NewMessage(role, text, now.Add(time.Duration(i)*time.Second)))
	}
	return session
}

// NewTestStore returns a loaded store over a fresh memory backend
func NewTestStore(userID string) (*Store, *MemoryBackend) {
	backend := NewMemoryBackend()
	store := NewStore(backend, userID)
	if err := store.Load(); err != nil {
		panic(fmt.Sprintf("loading empty memory store: %v", err))
	}
	return store, backend
}

// FakeCompleter records prompts and answers from a fixed function
type FakeCompleter struct {
	mu      sync.Mutex
	prompts []string
	Reply   func(message string) (string, error)
}

func (f *FakeCompleter) Complete(ctx context.Context, message string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, message)
	f.mu.Unlock()
	if f.Reply == nil {
		return "ok", nil
	}
	return f.Reply(message)
}

// Prompts returns every message the fake has received
func (f *FakeCompleter) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.prompts))
	copy(out, f.prompts)
	return out
}

// GateCompleter blocks every call until Release is called, then answers reply
type GateCompleter struct {
	Started chan struct{}
	release chan struct{}
	once    sync.Once
	reply   string
}

// NewGateCompleter creates a completer that holds calls until released
func NewGateCompleter(reply string) *GateCompleter {
	return &GateCompleter{
		Started: make(chan struct{}, 16),
		release: make(chan struct{}),
		reply:   reply,
	}
}

func (g *GateCompleter) Complete(ctx context.Context, message string) (string, error) {
	g.Started <- struct{}{}
	select {
	case <-g.release:
		return g.reply, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Release lets all current and future calls return
func (g *GateCompleter) Release() {
	g.once.Do(func() { close(g.release) })
}
