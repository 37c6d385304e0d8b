package internal

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
)

// Manager drives session and message lifecycle on top of a Store: it keeps
// the active-session cursor, sends messages to the completer and kicks off
// title generation for new conversations.
type Manager struct {
	store     *Store
	completer Completer
	titles    *TitleGenerator

	mu      sync.Mutex
	current int

	busy atomic.Bool
	wg   sync.WaitGroup
}

// NewManager creates a manager over a loaded store. The active session starts
// at the store's remembered selection.
func NewManager(store *Store, completer Completer, titles *TitleGenerator) *Manager {
	return &Manager{
		store:     store,
		completer: completer,
		titles:    titles,
		current:   store.CurrentIndex(),
	}
}

// Store returns the underlying store
func (m *Manager) Store() *Store {
	return m.store
}

// Current returns the index of the active session
func (m *Manager) Current() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// CurrentSession returns a copy of the active session
func (m *Manager) CurrentSession() (*ChatSession, error) {
	return m.store.Session(m.Current())
}

// Select makes session i active and remembers the choice
func (m *Manager) Select(i int) error {
	if err := m.store.SetCurrentIndex(i); err != nil {
		return err
	}
	m.mu.Lock()
	m.current = i
	m.mu.Unlock()
	return nil
}

// CreateSession appends a new session and selects it
func (m *Manager) CreateSession() (int, error) {
	i := m.store.CreateSession()
	if err := m.Select(i); err != nil {
		return i, err
	}
	LogDebug("Created session %d", i)
	return i, nil
}

// AppendMessage appends a message to session i. The session's first user
// message starts title generation in the background; Wait blocks until it is done.
func (m *Manager) AppendMessage(ctx context.Context, i int, role Role, text string) (Message, error) {
	msg, startTitle, err := m.store.appendMessage(i, role, text, true)
	if err != nil {
		return Message{}, err
	}
	if startTitle {
		session, err := m.store.Session(i)
		if err == nil {
			m.generateTitle(context.WithoutCancel(ctx), session.ID, text)
		}
	}
	return msg, nil
}

func (m *Manager) generateTitle(ctx context.Context, sessionID, firstMessage string) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		title := m.titles.Generate(ctx, firstMessage)
		if m.store.finishTitle(sessionID, title) {
			LogDebug("Session %s titled %q", sessionID, title)
		}
	}()
}

// Send appends text as a user message to the active session, asks the
// completer for a reply and appends it as an assistant message. A failed
// request is recorded as an "Error: ..." assistant message rather than
// returned. Blank text is ignored and a send while another is running
// returns ErrSendInProgress without touching the session.
func (m *Manager) Send(ctx context.Context, text string) (*Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if !m.busy.CompareAndSwap(false, true) {
		return nil, ErrSendInProgress
	}
	defer m.busy.Store(false)

	i := m.Current()
	if _, err := m.AppendMessage(ctx, i, RoleUser, text); err != nil {
		return nil, err
	}

	reply, err := m.complete(ctx, text)
	if err != nil {
		LogWarn("Completion failed: %v", err)
		reply = "Error: " + err.Error()
	}

	msg, err := m.AppendMessage(ctx, i, RoleAssistant, reply)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (m *Manager) complete(ctx context.Context, text string) (string, error) {
	if m.completer == nil {
		return "", errNoCompleter
	}
	return m.completer.Complete(ctx, text)
}

// Busy reports whether a send is in flight
func (m *Manager) Busy() bool {
	return m.busy.Load()
}

// Wait blocks until all background title generations have finished
func (m *Manager) Wait() {
	m.wg.Wait()
}
