package httpapi

import (
	"net/http/httptest"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"

	"github.com/taskwall/taskwall/pkg/ordering"
	"github.com/taskwall/taskwall/pkg/tenancy"
	"github.com/taskwall/taskwall/pkg/txn"
)

func TestWriteDomainError_Taxonomy(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"tenant not ready", errors.Wrap(tenancy.ErrTenantNotReady, "acme"), 503, "TENANT_NOT_READY"},
		{"item not found", ordering.ErrItemNotFound, 404, "ITEM_NOT_FOUND"},
		{"invalid target", ordering.ErrInvalidTarget, 422, "INVALID_TARGET_POSITION"},
		{"upstream timeout", txn.ErrUpstreamTimeout.WithDetails("proxy"), 504, "UPSTREAM_TIMEOUT"},
		{"aborted", txn.ErrTransactionAborted.WithDetails("deadlock"), 500, "TRANSACTION_ABORTED"},
		{"unknown", errors.New("SELECT * FROM secrets failed"), 500, "INTERNAL_SERVER_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			assert.NoError(t, WriteDomainError(rec, tc.err))
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.code)
			// Internal detail must not leak into the response body.
			assert.NotContains(t, rec.Body.String(), "SELECT")
		})
	}
}
