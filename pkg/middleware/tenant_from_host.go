package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/taskwall/taskwall/pkg/composables"
	"github.com/taskwall/taskwall/pkg/configuration"
	"github.com/taskwall/taskwall/pkg/httpapi"
	"github.com/taskwall/taskwall/pkg/tenancy"
)

// RequireTenant resolves the tenant database for every request and stores
// both the tenant id and its pool in the context. The tenant hint is the
// first Host label under the configured base domain, or the tenant header as
// an escape hatch. In single-tenant mode the default pool is used and no
// hint is required.
func RequireTenant(registry *tenancy.Registry, conf *configuration.Configuration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !conf.Multitenancy.Enabled {
				ctx := composables.WithPool(r.Context(), registry.Default())
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			tenantID := tenantHint(r, conf)
			if tenantID == "" {
				// A multi-tenant deployment without a resolvable hint is a
				// routing misconfiguration, not a client mistake.
				composables.UseLogger(r.Context()).WithField("host", r.Host).Warn("no tenant hint on request")
				http.NotFound(w, r)
				return
			}

			pool, err := registry.GetOrCreate(r.Context(), tenantID)
			if err != nil {
				composables.UseLogger(r.Context()).WithField("tenant", tenantID).WithError(err).Warn("tenant resolution failed")
				_ = httpapi.WriteDomainError(w, err)
				return
			}

			ctx := composables.WithTenantID(r.Context(), tenantID)
			ctx = composables.WithPool(ctx, pool)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tenantHint(r *http.Request, conf *configuration.Configuration) string {
	if hinted := strings.TrimSpace(r.Header.Get(conf.Multitenancy.TenantHeader)); hinted != "" {
		return strings.ToLower(hinted)
	}

	host := normalizeHost(r.Host)
	suffix := "." + strings.ToLower(conf.Multitenancy.BaseDomain)
	if !strings.HasSuffix(host, suffix) {
		return ""
	}
	sub := strings.TrimSuffix(host, suffix)
	if sub == "" || strings.Contains(sub, ".") {
		return ""
	}
	return sub
}

func normalizeHost(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(raw); err == nil {
		return strings.TrimSpace(h)
	}
	return raw
}
