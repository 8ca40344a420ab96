package composables

import (
	"context"
	"errors"

	"github.com/taskwall/taskwall/pkg/constants"
)

var ErrNoTenant = errors.New("no tenant found in context")

func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, constants.TenantKey, tenantID)
}

func UseTenantID(ctx context.Context) (string, error) {
	tenantID, ok := ctx.Value(constants.TenantKey).(string)
	if !ok || tenantID == "" {
		return "", ErrNoTenant
	}
	return tenantID, nil
}
