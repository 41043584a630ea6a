package postgresql

import (
	"context"

	"github.com/crewops/ops-portal-go/internal/pkg/database"
)

// querier returns the transaction bound to the context when there is one,
// otherwise the pool. Lets the same repository methods run inside and outside
// database.Transact.
func querier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := database.TxFromContext(ctx); ok {
		return tx
	}
	return db.Pool
}
