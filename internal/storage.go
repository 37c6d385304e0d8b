package internal

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Store owns one user's ordered session collection and mirrors it into a
// Backend after every mutation. Readers get copies; only the Store mutates.
type Store struct {
	mu       sync.Mutex
	backend  Backend
	userID   string
	sessions []*ChatSession
	err      error
	now      func() time.Time
}

// NewStore creates a store for userID. An empty userID maps to the anonymous user.
func NewStore(backend Backend, userID string) *Store {
	return &Store{
		backend: backend,
		userID:  normalizeUserID(userID),
		now:     time.Now,
	}
}

// UserID returns the identity the store is scoped to
func (s *Store) UserID() string {
	return s.userID
}

// Key returns the durable key of the collection
func (s *Store) Key() string {
	return sessionsKey(s.userID)
}

// Load reads the collection from the backend. A missing or empty collection
// is seeded with one "New Chat" session and written back. Sessions left with
// a pending title by an interrupted run get the first-words title, and
// repeated session IDs are repaired.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.Key()
	value, found, err := s.backend.Get(key)
	if err != nil {
		return &StorageError{Op: "get", Key: key, Err: err}
	}

	var sessions []*ChatSession
	if found && strings.TrimSpace(value) != "" {
		if err := json.Unmarshal([]byte(value), &sessions); err != nil {
			return &ParseError{Source: "sessions", Key: key, Err: err}
		}
	}

	changed := false
	kept := sessions[:0]
	for _, session := range sessions {
		if session == nil {
			changed = true
			continue
		}
		if session.Messages == nil {
			session.Messages = []Message{}
		}
		if session.TitlePending {
			session.Title = recoveredTitle(session)
			session.TitlePending = false
			changed = true
			LogDebug("Recovered pending title for session %s: %q", session.ID, session.Title)
		}
		kept = append(kept, session)
	}
	sessions, deduped := NewDeduplicator().Deduplicate(kept)
	changed = changed || deduped

	if len(sessions) == 0 {
		sessions = []*ChatSession{NewChatSession(s.now())}
		changed = true
		LogDebug("Seeded empty collection for %s", s.userID)
	}

	s.sessions = sessions
	if changed {
		s.persistLocked()
	}
	LogDebug("Loaded %d sessions for %s", len(s.sessions), s.userID)
	return nil
}

func recoveredTitle(session *ChatSession) string {
	if first, ok := session.FirstUserMessage(); ok {
		return FallbackTitle(first)
	}
	return DefaultTitle
}

// Len returns the number of sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sessions returns a copy of the collection in creation order
func (s *Store) Sessions() []*ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*ChatSession, len(s.sessions))
	for i, session := range s.sessions {
		out[i] = session.Clone()
	}
	return out
}

// Session returns a copy of the session at index i
func (s *Store) Session(i int) (*ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.sessionLocked(i)
	if err != nil {
		return nil, err
	}
	return session.Clone(), nil
}

// Err returns the error from the latest write, or nil when it succeeded
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// CreateSession appends a new "New Chat" session and returns its index
func (s *Store) CreateSession() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, NewChatSession(s.now()))
	s.persistLocked()
	return len(s.sessions) - 1
}

// AppendMessage appends a message to session i and persists the collection
func (s *Store) AppendMessage(i int, role Role, text string) (Message, error) {
	msg, _, err := s.appendMessage(i, role, text, false)
	return msg, err
}

// appendMessage appends a message. With markTitle set, the session's first
// user message also flips the title to pending in the same write, and
// startTitle reports that generation should begin.
func (s *Store) appendMessage(i int, role Role, text string, markTitle bool) (msg Message, startTitle bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionLocked(i)
	if err != nil {
		return Message{}, false, err
	}

	firstUser := role == RoleUser && !session.HasUserMessage()
	now := s.now()
	msg = NewMessage(role, text, now)
	session.Messages = append(session.Messages, msg)
	session.UpdatedAt = &now

	if markTitle && firstUser {
		session.Title = PendingTitle
		session.TitlePending = true
		startTitle = true
	}

	s.persistLocked()
	return msg, startTitle, nil
}

// SetTitle renames session i. A rename overrides any title still being generated.
func (s *Store) SetTitle(i int, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionLocked(i)
	if err != nil {
		return err
	}
	session.Title = title
	session.TitlePending = false
	s.persistLocked()
	return nil
}

// finishTitle stores a generated title unless the session was renamed meanwhile
func (s *Store) finishTitle(sessionID, title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, session := range s.sessions {
		if session.ID != sessionID {
			continue
		}
		if !session.TitlePending {
			LogDebug("Discarding generated title for renamed session %s", sessionID)
			return false
		}
		session.Title = title
		session.TitlePending = false
		s.persistLocked()
		return true
	}
	return false
}

// CurrentIndex returns the remembered selection, clamped to the collection
func (s *Store) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, found, err := s.backend.Get(CurrentKey(s.userID))
	if err != nil {
		LogWarn("Failed to read current session: %v", err)
		return s.lastIndexLocked()
	}
	if !found {
		return s.lastIndexLocked()
	}
	i, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || i < 0 || i >= len(s.sessions) {
		return s.lastIndexLocked()
	}
	return i
}

// SetCurrentIndex remembers the selected session
func (s *Store) SetCurrentIndex(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.sessionLocked(i); err != nil {
		return err
	}
	key := CurrentKey(s.userID)
	if err := s.backend.Set(key, strconv.Itoa(i)); err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (s *Store) lastIndexLocked() int {
	if len(s.sessions) == 0 {
		return 0
	}
	return len(s.sessions) - 1
}

func (s *Store) sessionLocked(i int) (*ChatSession, error) {
	if i < 0 || i >= len(s.sessions) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrSessionIndex, i, len(s.sessions))
	}
	return s.sessions[i], nil
}

// persistLocked writes the whole collection. Failures are logged and kept in
// s.err; the in-memory state stays authoritative.
func (s *Store) persistLocked() {
	key := s.Key()
	data, err := json.Marshal(s.sessions)
	if err != nil {
		s.err = fmt.Errorf("failed to marshal sessions: %w", err)
		LogError("%v", s.err)
		return
	}
	if err := s.backend.Set(key, string(data)); err != nil {
		s.err = &StorageError{Op: "set", Key: key, Err: err}
		LogError("Failed to save sessions: %v", err)
		return
	}
	s.err = nil
}
