package txn

import (
	"context"

	"github.com/taskwall/taskwall/pkg/composables"
)

// DirectRunner wraps the work in a native pgx transaction on the pool carried
// by ctx. When ctx already carries a transaction the work joins it, so nested
// RunTx calls form one unit whose commit belongs to the outermost caller.
type DirectRunner struct{}

func NewDirectRunner() Runner {
	return &DirectRunner{}
}

// RunTx rolls back on the first error and returns it unchanged, so callers
// can still classify the root cause (validation vs. infrastructure).
func (r *DirectRunner) RunTx(ctx context.Context, work func(ctx context.Context, s Scope) error) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return work(txCtx, &directScope{})
	})
}

// directScope issues statements against the transaction in ctx. Reads done by
// repositories inside the same callback see the same transaction through
// composables.UseTx.
type directScope struct{}

func (s *directScope) Exec(ctx context.Context, query string, args ...any) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, query, args...)
	return err
}
