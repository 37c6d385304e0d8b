package internal

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Backend is the durable key/value store sessions are mirrored into
type Backend interface {
	// Get returns the value for key. found is false when the key was never written.
	Get(key string) (value string, found bool, err error)
	// Set overwrites the value for key
	Set(key, value string) error
}

// Scanner is implemented by backends that can enumerate keys by prefix
type Scanner interface {
	Scan(prefix string) ([]KeyValuePair, error)
}

// UserSummary describes one user's stored collection
type UserSummary struct {
	UserID   string
	Sessions int
}

// ListUsers returns every user with a stored session collection, sorted by ID
func ListUsers(b Backend) ([]UserSummary, error) {
	scanner, ok := b.(Scanner)
	if !ok {
		return nil, fmt.Errorf("backend %T cannot list users", b)
	}
	pairs, err := scanner.Scan(sessionsKeyPrefix)
	if err != nil {
		return nil, err
	}

	users := make([]UserSummary, 0, len(pairs))
	for _, pair := range pairs {
		users = append(users, UserSummary{
			UserID:   strings.TrimPrefix(pair.Key, sessionsKeyPrefix),
			Sessions: countSessions(pair.Value),
		})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserID < users[j].UserID })
	return users, nil
}

// Backend kinds accepted by OpenBackend
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// OpenBackend builds the backend named by kind rooted at dataDir. The returned
// close func must be called when the caller is done with the backend.
func OpenBackend(kind, dataDir string) (Backend, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(kind) {
	case "", BackendFile:
		b, err := NewFileBackend(dataDir)
		if err != nil {
			return nil, nil, err
		}
		return b, noop, nil
	case BackendSQLite:
		b, err := OpenSQLiteBackend(SQLitePath(dataDir))
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	case BackendMemory:
		return NewMemoryBackend(), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (expected %s, %s or %s)", kind, BackendFile, BackendSQLite, BackendMemory)
	}
}

// MemoryBackend keeps values in a map. Nothing survives the process.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

func (m *MemoryBackend) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Scan returns every pair whose key starts with prefix, sorted by key
func (m *MemoryBackend) Scan(prefix string) ([]KeyValuePair, error) {
	var pairs []KeyValuePair
	for _, key := range m.Keys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if value, found, _ := m.Get(key); found {
			pairs = append(pairs, KeyValuePair{Key: key, Value: value})
		}
	}
	return pairs, nil
}

// Keys lists stored keys in sorted order
func (m *MemoryBackend) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
