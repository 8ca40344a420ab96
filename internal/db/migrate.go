// Package db owns the embedded schema and applies it on startup.
//
// The schema is written to be idempotent so every tenant database can be
// brought up to date with a single pass, including ones created lazily on
// first request.
package db

import (
	"context"
	_ "embed"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// Migrate applies the embedded schema to the given pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return errors.Wrap(err, "apply schema")
	}
	return nil
}
