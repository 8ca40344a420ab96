// Package services orchestrates repositories, the ordering engine, the
// transaction runner and the realtime publisher. Mutations commit first;
// realtime events are fire-and-forget afterwards.
package services

import (
	"context"

	"github.com/taskwall/taskwall/pkg/composables"
)

// tenantID resolves the tenant for outbound events. Empty means the global
// channel (single-tenant mode).
func tenantID(ctx context.Context) string {
	id, err := composables.UseTenantID(ctx)
	if err != nil {
		return ""
	}
	return id
}
