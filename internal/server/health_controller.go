package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskwall/taskwall/pkg/application"
	"github.com/taskwall/taskwall/pkg/httpapi"
	"github.com/taskwall/taskwall/pkg/realtime"
	"github.com/taskwall/taskwall/pkg/ws"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	pool     *pgxpool.Pool
	realtime realtime.Publisher
}

func NewHealthController(pool *pgxpool.Pool, rt realtime.Publisher) application.Controller {
	return &HealthController{pool: pool, realtime: rt}
}

func (c *HealthController) Key() string { return "/health" }

func (c *HealthController) Register(r *mux.Router) {
	r.HandleFunc("/health", c.Health).Methods(http.MethodGet)
}

func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{"database": "ok", "realtime": "ok"}
	healthy := true

	if err := c.pool.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	if p, ok := c.realtime.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			checks["realtime"] = err.Error()
			healthy = false
		}
	}

	status := http.StatusOK
	state := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	_ = httpapi.WriteJSON(w, status, map[string]any{"status": state, "checks": checks})
}

// WebsocketController exposes the realtime hub on /ws. The tenant middleware
// has already scoped the connection by the time the upgrade happens.
type WebsocketController struct {
	hub *ws.Hub
}

func NewWebsocketController(hub *ws.Hub) application.Controller {
	return &WebsocketController{hub: hub}
}

func (c *WebsocketController) Key() string { return "/ws" }

func (c *WebsocketController) Register(r *mux.Router) {
	r.Handle("/ws", c.hub).Methods(http.MethodGet)
}
