// Package tenancy resolves tenant identifiers to database pools. Each tenant
// has its own logical database; the registry lazily opens one pool per tenant
// and caches it for the process lifetime.
package tenancy

import (
	"context"
	"regexp"
	"sync"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/taskwall/taskwall/pkg/metrics"
)

// ErrTenantNotReady signals that the tenant hint was syntactically valid but
// no backing database is provisioned for it yet. Recoverable: callers answer
// 503 and the client retries.
var ErrTenantNotReady = errors.New("tenant database not ready")

var tenantIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,62}$`)

// Opener produces a pool for a tenant. The default opener builds a DSN from
// configuration; tests inject their own.
type Opener func(ctx context.Context, tenantID string) (*pgxpool.Pool, error)

type Options struct {
	// Default is returned for every request in single-tenant mode.
	Default *pgxpool.Pool
	// MultiTenant enables per-tenant resolution. Off means Default always wins.
	MultiTenant bool
	Opener      Opener
	Logger      *logrus.Logger
}

// Registry owns the tenant → pool cache. It is the only long-lived shared
// mutable state in the process: insert-only, read-mostly after warm-up, never
// evicted outside process restart.
type Registry struct {
	opts Options

	mu    sync.Mutex
	pools map[string]*poolEntry
}

// poolEntry is a future: ready closes once initialization finished, after
// which pool/err never change. Concurrent first resolutions of the same
// tenant share one entry, so the opener runs exactly once per attempt.
type poolEntry struct {
	ready chan struct{}
	pool  *pgxpool.Pool
	err   error
}

func NewRegistry(opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Registry{
		opts:  opts,
		pools: make(map[string]*poolEntry),
	}
}

// Default returns the process-wide pool.
func (r *Registry) Default() *pgxpool.Pool {
	return r.opts.Default
}

// GetOrCreate resolves the pool for tenantID, initializing it on first use.
// All concurrent callers for the same new tenant block until the single
// initialization finishes and then receive the same pool. A failed
// initialization is not cached, so a later request retries provisioning.
func (r *Registry) GetOrCreate(ctx context.Context, tenantID string) (*pgxpool.Pool, error) {
	if !r.opts.MultiTenant {
		return r.opts.Default, nil
	}
	if !tenantIDPattern.MatchString(tenantID) {
		return nil, errors.Wrapf(ErrTenantNotReady, "invalid tenant id %q", tenantID)
	}

	r.mu.Lock()
	entry, ok := r.pools[tenantID]
	if !ok {
		entry = &poolEntry{ready: make(chan struct{})}
		r.pools[tenantID] = entry
		r.mu.Unlock()
		r.initialize(ctx, tenantID, entry)
	} else {
		r.mu.Unlock()
	}

	select {
	case <-entry.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if entry.err != nil {
		return nil, entry.err
	}
	return entry.pool, nil
}

func (r *Registry) initialize(ctx context.Context, tenantID string, entry *poolEntry) {
	defer close(entry.ready)

	pool, err := r.opts.Opener(ctx, tenantID)
	if err != nil {
		r.opts.Logger.WithField("tenant", tenantID).WithError(err).Warn("tenant pool initialization failed")
		entry.err = errors.Wrapf(ErrTenantNotReady, "tenant %q: %v", tenantID, err)
		// Drop the failed entry so the next request retries; provisioning may
		// finish in the meantime.
		r.mu.Lock()
		delete(r.pools, tenantID)
		r.mu.Unlock()
		return
	}

	r.opts.Logger.WithField("tenant", tenantID).Info("tenant pool initialized")
	metrics.TenantPoolsOpen.Inc()
	entry.pool = pool
}

// Close closes every cached pool, waiting out initializations still in
// flight so the pools they produce are not leaked. Only used on shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	entries := make([]*poolEntry, 0, len(r.pools))
	for _, entry := range r.pools {
		entries = append(entries, entry)
	}
	r.mu.Unlock()

	for _, entry := range entries {
		<-entry.ready
		if entry.pool != nil {
			entry.pool.Close()
		}
	}
	if r.opts.Default != nil {
		r.opts.Default.Close()
	}
}
