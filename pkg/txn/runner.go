// Package txn executes a sequence of write statements as one atomic unit.
// Two strategies exist behind one interface: a direct pgx transaction, and a
// batch submitted to a remote SQL proxy for deployments where the process has
// no local transaction primitive. Callers never branch on which one is
// active.
package txn

import (
	"context"

	"github.com/taskwall/taskwall/pkg/serrors"
)

var (
	ErrTransactionAborted = serrors.NewError("TXN_ABORTED", "transaction aborted", "")
	ErrUpstreamTimeout    = serrors.NewError("TXN_UPSTREAM_TIMEOUT", "upstream execution deadline exceeded", "")
)

// Scope is handed to the work callback; statements issued through it belong
// to the atomic unit. The scope is request-local and must not outlive the
// callback.
type Scope interface {
	Exec(ctx context.Context, query string, args ...any) error
}

// Runner runs work atomically: either every statement applied through the
// scope is visible afterwards, or none is. The first failing statement aborts
// the whole unit and is surfaced to the caller.
type Runner interface {
	RunTx(ctx context.Context, work func(ctx context.Context, s Scope) error) error
}
