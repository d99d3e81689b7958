package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Transactor implements ports.DBTransactor on top of the connection pool.
// Every balance mutation in the ledger runs inside one of its transactions.
type Transactor struct {
	pool Pool
}

// NewTransactor wraps the connection pool for the service layer.
func NewTransactor(pool Pool) *Transactor {
	return &Transactor{pool: pool}
}

// Begin opens a transaction; callers take row locks through it before
// touching any balance.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return t.pool.Begin(ctx)
}
