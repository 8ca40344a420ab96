package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskwall/taskwall/pkg/composables"
	"github.com/taskwall/taskwall/pkg/realtime"
)

func dialAsTenant(t *testing.T, hub *Hub, tenantID string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeHTTP(w, r.WithContext(composables.WithTenantID(r.Context(), tenantID)))
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForConnections(t *testing.T, hub *Hub, tenantID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectionCount(tenantID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("tenant %q never reached %d connections", tenantID, want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_BroadcastScopedToTenant(t *testing.T) {
	hub := NewHub(&HubOptions{})

	acme := dialAsTenant(t, hub, "acme")
	globex := dialAsTenant(t, hub, "globex")
	waitForConnections(t, hub, "acme", 1)
	waitForConnections(t, hub, "globex", 1)

	event := realtime.NewEvent("task.moved", map[string]string{"id": "t1"}, "acme")
	data, err := event.Encode()
	require.NoError(t, err)
	hub.Broadcast("acme", data)

	require.NoError(t, acme.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := acme.ReadMessage()
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(msg, &wire))
	assert.Equal(t, "task.moved", wire["event"])

	require.NoError(t, globex.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	_, _, err = globex.ReadMessage()
	assert.Error(t, err, "tenant globex must not receive acme's event")
}

func TestHub_GlobalBroadcastReachesEveryone(t *testing.T) {
	hub := NewHub(&HubOptions{})

	acme := dialAsTenant(t, hub, "acme")
	globex := dialAsTenant(t, hub, "globex")
	waitForConnections(t, hub, "acme", 1)
	waitForConnections(t, hub, "globex", 1)

	hub.Broadcast("", []byte(`{"event":"system.maintenance"}`))

	for _, conn := range []*websocket.Conn{acme, globex} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(msg), "system.maintenance")
	}
}

type stubSubscriber struct {
	events chan realtime.Event
}

func (s *stubSubscriber) SubscribeAll(ctx context.Context) (<-chan realtime.Event, error) {
	return s.events, nil
}

func TestHub_RunFansOutSubscriberFeed(t *testing.T) {
	hub := NewHub(&HubOptions{})
	sub := &stubSubscriber{events: make(chan realtime.Event, 1)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.Run(ctx, sub) }()

	conn := dialAsTenant(t, hub, "acme")
	waitForConnections(t, hub, "acme", 1)

	sub.events <- realtime.NewEvent("board.updated", map[string]string{"id": "b1"}, "acme")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "board.updated")
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	hub := NewHub(&HubOptions{})

	conn := dialAsTenant(t, hub, "acme")
	waitForConnections(t, hub, "acme", 1)

	require.NoError(t, conn.Close())
	waitForConnections(t, hub, "acme", 0)
}
