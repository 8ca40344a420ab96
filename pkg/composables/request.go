package composables

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/taskwall/taskwall/pkg/constants"
)

// UseLogger returns the request-scoped logger. Outside of a request (tests,
// background workers) it falls back to the standard logger so callers never
// need to nil-check.
func UseLogger(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(constants.LoggerKey)
	if logger == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logger.(*logrus.Entry)
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}
