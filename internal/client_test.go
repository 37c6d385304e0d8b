package internal

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iksnae/chatview/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPCompleter_Complete(t *testing.T) {
	srv := testutil.NewCompletionServer(t, func(message string) (int, string) {
		return http.StatusOK, "echo: " + message
	})

	c := NewHTTPCompleter(srv.URL, 5*time.Second)
	reply, err := c.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", reply)
	assert.Equal(t, []string{"hello"}, srv.Messages())
}

func TestHTTPCompleter_StatusError(t *testing.T) {
	srv := testutil.NewCompletionServer(t, func(string) (int, string) {
		return http.StatusInternalServerError, "model overloaded"
	})

	c := NewHTTPCompleter(srv.URL, 5*time.Second)
	_, err := c.Complete(context.Background(), "hello")
	require.Error(t, err)

	var compErr *CompletionError
	require.True(t, errors.As(err, &compErr), "error %v is not a CompletionError", err)
	assert.Equal(t, http.StatusInternalServerError, compErr.StatusCode)
	assert.Equal(t, "model overloaded", compErr.Body)
	assert.Equal(t, srv.URL, compErr.URL)
}

func TestHTTPCompleter_Headers(t *testing.T) {
	var gotID, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		gotType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"reply":"ok"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPCompleter(srv.URL, time.Second).Complete(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotType)
	_, parseErr := uuid.Parse(gotID)
	assert.NoError(t, parseErr, "X-Request-ID %q is not a UUID", gotID)
}

func TestHTTPCompleter_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewHTTPCompleter(srv.URL, time.Second).Complete(context.Background(), "x")
	assert.Error(t, err)
}

func TestHTTPCompleter_NoEndpoint(t *testing.T) {
	_, err := NewHTTPCompleter("", time.Second).Complete(context.Background(), "x")
	assert.Error(t, err)
}

func TestHTTPCompleter_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewHTTPCompleter(srv.URL, 0).Complete(ctx, "x")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
