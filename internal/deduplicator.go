package internal

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// Deduplicator repairs a loaded collection so every session has a unique ID.
// Generated titles are matched to their session by ID, so a repeated ID would
// send a title to the wrong session.
type Deduplicator struct{}

// NewDeduplicator creates a new Deduplicator
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Deduplicate drops exact copies of a session and gives a fresh ID to any
// other session whose ID is empty or already taken. changed reports whether
// the collection was modified.
func (d *Deduplicator) Deduplicate(sessions []*ChatSession) (unique []*ChatSession, changed bool) {
	seenIDs := make(map[string]bool)
	seenContent := make(map[string]bool)
	unique = make([]*ChatSession, 0, len(sessions))

	for _, session := range sessions {
		hash := d.hashSessionContent(session)
		if session.ID != "" && seenIDs[session.ID] && seenContent[session.ID+":"+hash] {
			LogDebug("Dropping duplicate of session %s", session.ID)
			changed = true
			continue
		}
		if session.ID == "" || seenIDs[session.ID] {
			old := session.ID
			session.ID = uuid.NewString()
			LogDebug("Re-keyed session %q as %s", old, session.ID)
			changed = true
		}
		seenIDs[session.ID] = true
		seenContent[session.ID+":"+hash] = true
		unique = append(unique, session)
	}

	return unique, changed
}

// hashSessionContent creates a content-based hash for a session
func (d *Deduplicator) hashSessionContent(session *ChatSession) string {
	h := sha256.New()

	h.Write([]byte(session.Title))
	for _, msg := range session.Messages {
		h.Write([]byte(msg.ID))
		h.Write([]byte(msg.Role))
		h.Write([]byte(msg.Text))
	}

	return hex.EncodeToString(h.Sum(nil))
}
