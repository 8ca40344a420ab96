package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskwall_events_published_total",
		Help: "Realtime events published, by transport and outcome.",
	}, []string{"transport", "status"})

	Reorders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskwall_reorders_total",
		Help: "Reorder operations applied, by entity.",
	}, []string{"entity"})

	TenantPoolsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "taskwall_tenant_pools_open",
		Help: "Tenant database pools currently cached.",
	})
)
