// Package ledger turns line items into sale and budget totals and applies
// committed quantities to catalog stock.
package ledger

import (
	"context"

	"github.com/google/uuid"

	"gesso-pos/internal/model"
)

// CatalogRepository is the slice of product storage the ledger needs.
type CatalogRepository interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	// LockProducts reads the given rows and holds them until the surrounding transaction ends.
	LockProducts(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	SetStock(ctx context.Context, id uuid.UUID, stock int) error
}

// TxManager runs fn in a transaction. Nested calls reuse the transaction found in ctx.
type TxManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
