package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskwall/taskwall/pkg/composables"
	"github.com/taskwall/taskwall/pkg/configuration"
	"github.com/taskwall/taskwall/pkg/tenancy"
)

func multiTenantConf() *configuration.Configuration {
	return &configuration.Configuration{
		Multitenancy: configuration.MultitenancyOptions{
			Enabled:      true,
			BaseDomain:   "taskwall.test",
			TenantHeader: "X-Tenant-ID",
		},
	}
}

func testRegistry(t *testing.T) *tenancy.Registry {
	t.Helper()
	r := tenancy.NewRegistry(tenancy.Options{
		MultiTenant: true,
		Opener: func(ctx context.Context, tenantID string) (*pgxpool.Pool, error) {
			if tenantID == "pending" {
				return nil, errors.New("provisioning in flight")
			}
			return pgxpool.New(ctx, "host=localhost dbname=test_"+tenantID)
		},
	})
	t.Cleanup(r.Close)
	return r
}

func echoTenant() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := composables.UseTenantID(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := composables.UsePool(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(tenantID))
	})
}

func TestRequireTenant_SubdomainHint(t *testing.T) {
	handler := RequireTenant(testRegistry(t), multiTenantConf())(echoTenant())

	req := httptest.NewRequest(http.MethodGet, "/boards", nil)
	req.Host = "acme.taskwall.test:3200"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme", rec.Body.String())
}

func TestRequireTenant_HeaderHintWins(t *testing.T) {
	handler := RequireTenant(testRegistry(t), multiTenantConf())(echoTenant())

	req := httptest.NewRequest(http.MethodGet, "/boards", nil)
	req.Host = "taskwall.test"
	req.Header.Set("X-Tenant-ID", "globex")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "globex", rec.Body.String())
}

func TestRequireTenant_MissingHintIs404(t *testing.T) {
	handler := RequireTenant(testRegistry(t), multiTenantConf())(echoTenant())

	req := httptest.NewRequest(http.MethodGet, "/boards", nil)
	req.Host = "taskwall.test"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequireTenant_NotReadyIs503(t *testing.T) {
	handler := RequireTenant(testRegistry(t), multiTenantConf())(echoTenant())

	req := httptest.NewRequest(http.MethodGet, "/boards", nil)
	req.Host = "pending.taskwall.test"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "TENANT_NOT_READY")
}

func TestRequireTenant_SingleTenantMode(t *testing.T) {
	def, err := pgxpool.New(context.Background(), "host=localhost dbname=single")
	require.NoError(t, err)
	defer def.Close()
	registry := tenancy.NewRegistry(tenancy.Options{Default: def})
	conf := &configuration.Configuration{}

	var sawPool atomic.Bool
	handler := RequireTenant(registry, conf)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pool, err := composables.UsePool(r.Context())
		require.NoError(t, err)
		sawPool.Store(pool == def)
	}))

	req := httptest.NewRequest(http.MethodGet, "/boards", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sawPool.Load())
}

func TestTenantHint_DeepSubdomainRejected(t *testing.T) {
	conf := multiTenantConf()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "a.b.taskwall.test"
	assert.Equal(t, "", tenantHint(req, conf))
}
