// Package memory holds an in-process product catalog. Transactions are
// serialized and roll back by restoring a snapshot.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"gesso-pos/internal/apperror"
	"gesso-pos/internal/ledger"
	"gesso-pos/internal/model"
	"gesso-pos/internal/repository"
)

var (
	_ repository.ProductRepository = (*Catalog)(nil)
	_ ledger.TxManager             = (*Catalog)(nil)
)

type txKey struct{}

type Catalog struct {
	txMu sync.Mutex

	mu       sync.RWMutex
	products map[uuid.UUID]model.Product
	failures map[uuid.UUID]error
}

func NewCatalog(products ...model.Product) *Catalog {
	c := &Catalog{
		products: make(map[uuid.UUID]model.Product, len(products)),
		failures: map[uuid.UUID]error{},
	}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = model.NewID()
		}
		c.products[p.ID] = p
	}
	return c
}

// FailSetStock makes the next SetStock calls for id return err.
func (c *Catalog) FailSetStock(id uuid.UUID, err error) {
	c.mu.Lock()
	c.failures[id] = err
	c.mu.Unlock()
}

func (c *Catalog) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	c.txMu.Lock()
	defer c.txMu.Unlock()

	c.mu.RLock()
	snapshot := make(map[uuid.UUID]model.Product, len(c.products))
	for id, p := range c.products {
		snapshot[id] = p
	}
	c.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		c.mu.Lock()
		c.products = snapshot
		c.mu.Unlock()
		return err
	}
	return nil
}

func (c *Catalog) Create(_ context.Context, product *model.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if product.SKU != "" {
		for _, p := range c.products {
			if p.SKU == product.SKU {
				return apperror.NewDuplicate("product", "sku", product.SKU)
			}
		}
	}
	if product.ID == uuid.Nil {
		product.ID = model.NewID()
	}
	c.products[product.ID] = *product
	return nil
}

func (c *Catalog) Update(_ context.Context, product *model.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.products[product.ID]; !ok {
		return apperror.NewNotFound("product", product.ID)
	}
	c.products[product.ID] = *product
	return nil
}

func (c *Catalog) FindAll(_ context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]model.Product, 0, len(c.products))
	for _, p := range c.products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.LowStockOnly && !p.IsLowStock() {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *Catalog) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, apperror.NewNotFound("product", sku)
}

func (c *Catalog) GetProduct(_ context.Context, id uuid.UUID) (*model.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	if !ok {
		return nil, apperror.NewNotFound("product", id)
	}
	return &p, nil
}

func (c *Catalog) ListProducts(ctx context.Context) ([]model.Product, error) {
	return c.FindAll(ctx, repository.ProductFilter{})
}

// LockProducts returns the rows found; the transaction mutex is the lock.
func (c *Catalog) LockProducts(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *Catalog) SetStock(_ context.Context, id uuid.UUID, stock int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.failures[id]; ok {
		delete(c.failures, id)
		return err
	}
	p, ok := c.products[id]
	if !ok {
		return apperror.NewNotFound("product", id)
	}
	p.Stock = stock
	c.products[id] = p
	return nil
}

// Stock is a test helper; it returns -1 for unknown ids.
func (c *Catalog) Stock(id uuid.UUID) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	if !ok {
		return -1
	}
	return p.Stock
}
