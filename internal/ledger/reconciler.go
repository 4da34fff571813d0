package ledger

import (
	"bytes"
	"context"
	"sort"

	"github.com/google/uuid"

	"gesso-pos/internal/apperror"
	"gesso-pos/internal/model"
	"gesso-pos/pkg/logger"
)

// StockChange is one product's stock before and after a reconciliation.
type StockChange struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Before    int       `json:"before"`
	After     int       `json:"after"`
	MinStock  int       `json:"min_stock"`
}

func (c StockChange) IsLowStock() bool {
	return c.After <= c.MinStock
}

// Reconciler applies committed line quantities to catalog stock, all or nothing.
type Reconciler struct {
	catalog CatalogRepository
	tx      TxManager
}

func NewReconciler(catalog CatalogRepository, tx TxManager) *Reconciler {
	return &Reconciler{catalog: catalog, tx: tx}
}

type demand struct {
	id       uuid.UUID
	quantity int
}

// Reconcile decrements stock for every catalog line. Manual lines and
// lines that match nothing are skipped. If any product is short the
// error names the first one in item order and no stock changes.
func (r *Reconciler) Reconcile(ctx context.Context, items []LineItem) ([]StockChange, error) {
	demands, err := r.resolve(ctx, items)
	if err != nil {
		return nil, err
	}
	if len(demands) == 0 {
		return nil, nil
	}

	var changes []StockChange
	err = r.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		changes = changes[:0]

		ids := make([]uuid.UUID, len(demands))
		for i, d := range demands {
			ids[i] = d.id
		}
		// consistent lock order across concurrent checkouts
		sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })

		locked, err := r.catalog.LockProducts(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]model.Product, len(locked))
		for _, p := range locked {
			byID[p.ID] = p
		}

		for _, d := range demands {
			p, ok := byID[d.id]
			if !ok {
				return apperror.NewNotFound("product", d.id)
			}
			if p.Stock < d.quantity {
				return apperror.NewInsufficientStock(p.ID.String(), p.Name, d.quantity, p.Stock)
			}
		}

		for _, d := range demands {
			p := byID[d.id]
			after := p.Stock - d.quantity
			if after < 0 {
				after = 0
			}
			if err := r.catalog.SetStock(ctx, p.ID, after); err != nil {
				return err
			}
			changes = append(changes, StockChange{
				ProductID: p.ID,
				Name:      p.Name,
				Quantity:  d.quantity,
				Before:    p.Stock,
				After:     after,
				MinStock:  p.MinStock,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock reconciled", "products", len(changes))
	return changes, nil
}

// resolve aggregates quantities per product, keeping first-seen item order.
func (r *Reconciler) resolve(ctx context.Context, items []LineItem) ([]demand, error) {
	var (
		demands []demand
		pos     = map[uuid.UUID]int{}
		byName  map[string]uuid.UUID
	)
	for _, it := range items {
		if !it.IsCatalog() {
			continue
		}
		id, ok := it.ProductID()
		if !ok {
			if byName == nil {
				products, err := r.catalog.ListProducts(ctx)
				if err != nil {
					return nil, err
				}
				byName = make(map[string]uuid.UUID, len(products))
				for _, p := range products {
					key := normalizeName(p.Name)
					if _, dup := byName[key]; !dup {
						byName[key] = p.ID
					}
				}
			}
			if id, ok = byName[normalizeName(it.Description())]; !ok {
				continue
			}
		}
		if i, seen := pos[id]; seen {
			demands[i].quantity += it.Quantity()
			continue
		}
		pos[id] = len(demands)
		demands = append(demands, demand{id: id, quantity: it.Quantity()})
	}
	return demands, nil
}
