package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// TwoSessionsJSON is a persisted collection with two sessions, the second one
// holding a short exchange with a fenced code block.
const TwoSessionsJSON = `[
  {
    "id": "8a7d5c1e-0000-4000-8000-000000000001",
    "title": "New Chat",
    "messages": [],
    "createdAt": "2024-05-01T09:00:00Z"
  },
  {
    "id": "8a7d5c1e-0000-4000-8000-000000000002",
    "title": "JS help",
    "messages": [
      {"id": "1714554000000-aaaaaaaa", "role": "user", "text": "How do I log in **JS**?", "timestamp": "2024-05-01T09:00:00Z"},
      {"id": "1714554001000-bbbbbbbb", "role": "assistant", "text": "Use:\n` + "```js\\nconsole.log(1)\\n```" + `", "timestamp": "2024-05-01T09:00:01Z", "edited": true}
    ],
    "createdAt": "2024-05-01T08:59:00Z",
    "updatedAt": "2024-05-01T09:00:01Z"
  }
]`

// EmptySessionJSON is a collection with a single untouched session
const EmptySessionJSON = `[{"id":"8a7d5c1e-0000-4000-8000-000000000003","title":"New Chat","messages":[],"createdAt":"2024-05-02T10:00:00Z"}]`

// PendingTitleJSON is a collection whose only session was persisted mid title generation
const PendingTitleJSON = `[{"id":"8a7d5c1e-0000-4000-8000-000000000004","title":"Generating...","titlePending":true,"messages":[{"id":"1714640400000-cccccccc","role":"user","text":"Explain goroutines and channels please","timestamp":"2024-05-02T09:00:00Z"}],"createdAt":"2024-05-02T09:00:00Z"}]`

// CompletionServer is a fake completion endpoint that records requests
type CompletionServer struct {
	*httptest.Server

	mu       sync.Mutex
	messages []string
	reply    func(message string) (int, string)
}

// NewCompletionServer starts a fake endpoint. reply picks the status code and
// the reply text for each incoming message.
func NewCompletionServer(t *testing.T, reply func(message string) (int, string)) *CompletionServer {
	t.Helper()
	cs := &CompletionServer{reply: reply}
	cs.Server = httptest.NewServer(http.HandlerFunc(cs.handle))
	t.Cleanup(cs.Close)
	return cs
}

// Messages returns the messages received so far
func (cs *CompletionServer) Messages() []string {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([]string, len(cs.messages))
	copy(out, cs.messages)
	return out
}

func (cs *CompletionServer) handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	cs.mu.Lock()
	cs.messages = append(cs.messages, req.Message)
	cs.mu.Unlock()

	status, text := cs.reply(req.Message)
	if status < 200 || status > 299 {
		http.Error(w, text, status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"reply": text})
}
