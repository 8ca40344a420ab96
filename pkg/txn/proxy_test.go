package txn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxyRunner_SubmitsOneBatch(t *testing.T) {
	var got batchRequest
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	runner := NewProxyRunner(srv.URL, time.Second)
	err := runner.RunTx(context.Background(), func(ctx context.Context, s Scope) error {
		require.NoError(t, s.Exec(ctx, "UPDATE tasks SET position = $1 WHERE id = $2", 1, "a"))
		require.NoError(t, s.Exec(ctx, "UPDATE tasks SET position = $1 WHERE id = $2", 0, "b"))
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, requests)
	require.Len(t, got.Statements, 2)
	assert.Equal(t, "UPDATE tasks SET position = $1 WHERE id = $2", got.Statements[0].Query)
	assert.Equal(t, []any{float64(1), "a"}, got.Statements[0].Params)
}

func TestProxyRunner_WorkErrorSubmitsNothing(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	boom := errors.New("validation failed")
	runner := NewProxyRunner(srv.URL, time.Second)
	err := runner.RunTx(context.Background(), func(ctx context.Context, s Scope) error {
		_ = s.Exec(ctx, "UPDATE tasks SET position = 0")
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, requests, "failed work must not reach the proxy")
}

func TestProxyRunner_EmptyWorkSkipsSubmit(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	runner := NewProxyRunner(srv.URL, time.Second)
	err := runner.RunTx(context.Background(), func(ctx context.Context, s Scope) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, requests)
}

func TestProxyRunner_ProxyFailureAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(batchResponse{Error: "deadlock detected"})
	}))
	defer srv.Close()

	runner := NewProxyRunner(srv.URL, time.Second)
	err := runner.RunTx(context.Background(), func(ctx context.Context, s Scope) error {
		return s.Exec(ctx, "UPDATE boards SET position = 1")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransactionAborted)
	assert.Contains(t, err.Error(), "deadlock detected")
}

func TestProxyRunner_TimeoutMapsToUpstreamTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	runner := NewProxyRunner(srv.URL, 50*time.Millisecond)
	err := runner.RunTx(context.Background(), func(ctx context.Context, s Scope) error {
		return s.Exec(ctx, "UPDATE boards SET position = 1")
	})

	assert.ErrorIs(t, err, ErrUpstreamTimeout)
}
