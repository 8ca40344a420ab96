// Package ws is the websocket gateway: it upgrades client connections,
// groups them by tenant, and fans realtime events out to every connection in
// the event's tenant scope.
package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/taskwall/taskwall/pkg/composables"
	"github.com/taskwall/taskwall/pkg/realtime"
)

const writeTimeout = 10 * time.Second

type HubOptions struct {
	Logger      *logrus.Logger
	CheckOrigin func(r *http.Request) bool
}

type Hub struct {
	logger   *logrus.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]map[*connection]struct{}
}

type connection struct {
	ws     *websocket.Conn
	tenant string
	mu     sync.Mutex
}

func (c *connection) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func NewHub(opts *HubOptions) *Hub {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     opts.CheckOrigin,
		},
		conns: make(map[string]map[*connection]struct{}),
	}
}

// ServeHTTP upgrades the request. The connection is keyed by the tenant
// already resolved into the request context; single-tenant deployments group
// every connection under the empty key.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := composables.UseTenantID(r.Context())

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	conn := &connection{ws: wsConn, tenant: tenantID}
	h.register(tenantID, conn)
	h.logger.WithField("tenant", tenantID).Debug("websocket client connected")

	// Reader loop: clients do not send us application data; this only
	// detects disconnects and drains control frames.
	go func() {
		defer h.unregister(tenantID, conn)
		defer func() { _ = wsConn.Close() }()
		for {
			if _, _, err := wsConn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) register(tenantID string, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[tenantID] == nil {
		h.conns[tenantID] = make(map[*connection]struct{})
	}
	h.conns[tenantID][conn] = struct{}{}
}

func (h *Hub) unregister(tenantID string, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[tenantID], conn)
	if len(h.conns[tenantID]) == 0 {
		delete(h.conns, tenantID)
	}
}

// ConnectionCount reports the live connections for a tenant.
func (h *Hub) ConnectionCount(tenantID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[tenantID])
}

// Broadcast sends data to every connection in the tenant's scope. An event
// without a tenant goes to all connections.
func (h *Hub) Broadcast(tenantID string, data []byte) {
	h.mu.RLock()
	var targets []*connection
	if tenantID == "" {
		for _, group := range h.conns {
			for conn := range group {
				targets = append(targets, conn)
			}
		}
	} else {
		for conn := range h.conns[tenantID] {
			targets = append(targets, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		if err := conn.send(data); err != nil {
			h.logger.WithError(err).Debug("websocket write failed, dropping client")
			h.unregister(conn.tenant, conn)
			_ = conn.ws.Close()
		}
	}
}

// Run consumes the subscriber feed and fans events out until ctx is done.
// Intended to run in its own goroutine for the process lifetime.
func (h *Hub) Run(ctx context.Context, sub realtime.Subscriber) error {
	events, err := sub.SubscribeAll(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			data, err := event.Encode()
			if err != nil {
				h.logger.WithError(err).Warn("failed to encode realtime event")
				continue
			}
			h.Broadcast(event.TenantID, data)
		}
	}
}
