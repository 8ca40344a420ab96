package realtime

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskwall/taskwall/pkg/metrics"
)

// PgPublisher publishes events through PostgreSQL NOTIFY, for deployments
// without a Redis broker. The notification rides on the tenant's own
// database, so tenant scoping is inherent: a listener on one tenant database
// never sees another tenant's channel.
type PgPublisher struct {
	pool   *pgxpool.Pool
	prefix string
}

func NewPgPublisher(pool *pgxpool.Pool, prefix string) *PgPublisher {
	return &PgPublisher{pool: pool, prefix: prefix}
}

func (p *PgPublisher) Publish(ctx context.Context, event Event) error {
	data, err := event.Encode()
	if err != nil {
		return ErrPublishFailed.WithDetails(err.Error())
	}
	channel := pgChannelFor(p.prefix, event.TenantID)
	if _, err := p.pool.Exec(ctx, "SELECT pg_notify($1, $2)", channel, string(data)); err != nil {
		metrics.EventsPublished.WithLabelValues("postgres", "error").Inc()
		return ErrPublishFailed.WithDetails(err.Error())
	}
	metrics.EventsPublished.WithLabelValues("postgres", "ok").Inc()
	return nil
}

func (p *PgPublisher) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
