package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const indexVersion = "1.0"

// FileBackend stores each key as a JSON file under a directory and keeps a
// YAML index describing what is there.
type FileBackend struct {
	dir string
	mu  sync.Mutex
}

// IndexMetadata describes the index file itself
type IndexMetadata struct {
	Version   string    `yaml:"version"`
	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// IndexEntry describes one stored key
type IndexEntry struct {
	Key          string    `yaml:"key"`
	File         string    `yaml:"file"`
	SessionCount int       `yaml:"session_count"`
	UpdatedAt    time.Time `yaml:"updated_at"`
}

// StoreIndex is the YAML index of all stored keys
type StoreIndex struct {
	Entries  []IndexEntry  `yaml:"entries"`
	Metadata IndexMetadata `yaml:"metadata"`
}

// NewFileBackend creates a file backend rooted at dir, creating it if needed
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		return nil, &StorageError{Op: "open", Key: dir, Err: errors.New("data directory is empty")}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &StorageError{Op: "open", Key: dir, Err: err}
	}
	return &FileBackend{dir: dir}, nil
}

// Dir returns the backing directory
func (fb *FileBackend) Dir() string {
	return fb.dir
}

// IndexPath returns the path to the YAML index
func (fb *FileBackend) IndexPath() string {
	return filepath.Join(fb.dir, "sessions.yaml")
}

// KeyPath returns the file a key is stored in
func (fb *FileBackend) KeyPath(key string) string {
	return filepath.Join(fb.dir, sanitizeKey(key)+".json")
}

func (fb *FileBackend) Get(key string) (string, bool, error) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	data, err := os.ReadFile(fb.KeyPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageError{Op: "get", Key: key, Err: err}
	}
	return string(data), true, nil
}

func (fb *FileBackend) Set(key, value string) error {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	path := fb.KeyPath(key)
	if err := atomicWriteFile(path, []byte(value), 0644); err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	// The index is informational; a stale index never loses data.
	if err := fb.updateIndex(key, filepath.Base(path), countSessions(value)); err != nil {
		LogWarn("Failed to update index for %s: %v", key, err)
	}
	return nil
}

// Scan returns every indexed key starting with prefix with its value. A
// missing index means nothing has been written yet.
func (fb *FileBackend) Scan(prefix string) ([]KeyValuePair, error) {
	index, err := fb.LoadIndex()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var pairs []KeyValuePair
	for _, entry := range index.Entries {
		if !strings.HasPrefix(entry.Key, prefix) {
			continue
		}
		value, found, err := fb.Get(entry.Key)
		if err != nil {
			return nil, err
		}
		if !found {
			LogDebug("Index lists %s but its file is gone", entry.Key)
			continue
		}
		pairs = append(pairs, KeyValuePair{Key: entry.Key, Value: value})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
	return pairs, nil
}

// LoadIndex loads the YAML index
func (fb *FileBackend) LoadIndex() (*StoreIndex, error) {
	data, err := os.ReadFile(fb.IndexPath())
	if err != nil {
		return nil, err
	}

	var index StoreIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, &ParseError{Source: "index", Key: fb.IndexPath(), Err: err}
	}
	return &index, nil
}

func (fb *FileBackend) updateIndex(key, file string, sessionCount int) error {
	now := time.Now()
	index, err := fb.LoadIndex()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			LogDebug("Rebuilding unreadable index: %v", err)
		}
		index = &StoreIndex{Metadata: IndexMetadata{Version: indexVersion, CreatedAt: now}}
	}
	index.Metadata.UpdatedAt = now

	entry := IndexEntry{Key: key, File: file, SessionCount: sessionCount, UpdatedAt: now}
	found := false
	for i := range index.Entries {
		if index.Entries[i].Key == key {
			index.Entries[i] = entry
			found = true
			break
		}
	}
	if !found {
		index.Entries = append(index.Entries, entry)
	}

	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	return atomicWriteFile(fb.IndexPath(), data, 0644)
}

// countSessions returns how many sessions a stored value holds, or 0 for
// values that are not a session collection.
func countSessions(value string) int {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return 0
	}
	return len(raw)
}

// sanitizeKey maps a storage key to a safe file name
func sanitizeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.', r == '@':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// atomicWriteFile writes data to a temp file in the same directory, syncs it
// and renames it over path, so readers see either the old or the new content.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	f, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := f.Name()

	success := false
	defer func() {
		if !success {
			f.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync data to disk: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		return fmt.Errorf("failed to set file permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
