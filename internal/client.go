package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	jsonContentType = "application/json"
	// maxErrorBody caps how much of a failed response is kept in a CompletionError
	maxErrorBody = 512
)

// Completer turns a user message into a reply
type Completer interface {
	Complete(ctx context.Context, message string) (string, error)
}

// CompleterFunc adapts a function to Completer
type CompleterFunc func(ctx context.Context, message string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, message string) (string, error) {
	return f(ctx, message)
}

type completionRequest struct {
	Message string `json:"message"`
}

type completionResponse struct {
	Reply string `json:"reply"`
}

// HTTPCompleter posts messages to a remote chat endpoint. One attempt per
// message; failures are returned to the caller.
type HTTPCompleter struct {
	URL        string
	httpClient *http.Client
}

// NewHTTPCompleter creates a client for url. A zero timeout means no client-side limit.
func NewHTTPCompleter(url string, timeout time.Duration) *HTTPCompleter {
	return &HTTPCompleter{
		URL:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Complete sends message and returns the reply text
func (c *HTTPCompleter) Complete(ctx context.Context, message string) (string, error) {
	if c.URL == "" {
		return "", errors.New("no completion endpoint configured")
	}

	reqBytes, err := json.Marshal(completionRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", jsonContentType)
	req.Header.Set("Accept", jsonContentType)
	req.Header.Set("X-Request-ID", requestID)

	LogDebug("POST %s (request %s, %d bytes)", c.URL, requestID, len(reqBytes))
	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if err := handleCompletionError(c.URL, res, body); err != nil {
		return "", err
	}

	var resp completionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return resp.Reply, nil
}

func handleCompletionError(url string, res *http.Response, body []byte) error {
	if res.StatusCode >= 200 && res.StatusCode <= 299 {
		return nil
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	return &CompletionError{URL: url, StatusCode: res.StatusCode, Body: text}
}
