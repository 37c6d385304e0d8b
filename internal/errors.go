package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrSendInProgress is returned when a send is attempted while another is outstanding.
	// The second message is dropped, not queued.
	ErrSendInProgress = errors.New("a message is already being sent")

	// ErrSessionIndex is returned for a session index outside the collection
	ErrSessionIndex = errors.New("session index out of range")

	errNoCompleter = errors.New("no completion service configured")
)

// StorageError represents errors reading or writing the durable store
type StorageError struct {
	Op  string // "get", "set", "open", "index"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors decoding persisted data
type ParseError struct {
	Source string // "sessions", "index"
	Key    string // storage key or file path
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CompletionError is a non-2xx answer from the completion endpoint
type CompletionError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *CompletionError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("completion error [%d] %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("completion error [%d] %s: %s", e.StatusCode, e.URL, e.Body)
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// ConfigError represents errors loading configuration
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config error: %v", e.Err)
	}
	return fmt.Sprintf("config error %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
