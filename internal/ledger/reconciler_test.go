package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gesso-pos/internal/apperror"
	"gesso-pos/internal/ledger"
	"gesso-pos/internal/model"
	"gesso-pos/internal/repository/memory"
)

func setup(products ...*model.Product) (*memory.Catalog, *ledger.Reconciler) {
	rows := make([]model.Product, len(products))
	for i, p := range products {
		rows[i] = *p
	}
	catalog := memory.NewCatalog(rows...)
	return catalog, ledger.NewReconciler(catalog, catalog)
}

func TestReconcile_SimpleSale(t *testing.T) {
	gesso := product("Gesso São Francisco", "29.90", "18.00", 150)
	catalog, rec := setup(gesso)

	acc := ledger.NewAccumulator()
	require.NoError(t, acc.AddCatalogItem(gesso, 5))
	require.NoError(t, acc.AddManualItem("Frete", dec("20"), 1))

	changes, err := rec.Reconcile(context.Background(), acc.Items())
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, 150, changes[0].Before)
	assert.Equal(t, 145, changes[0].After)
	assert.Equal(t, 145, catalog.Stock(gesso.ID))
}

func TestReconcile_AllOrNothing(t *testing.T) {
	arame := product("Arame", "10.00", "6.00", 120)
	rebites := product("Rebites", "0.50", "0.25", 5)
	molduras := product("Molduras", "15.00", "8.00", 8)
	catalog, rec := setup(arame, rebites, molduras)

	items := []ledger.LineItem{
		ledger.FromSnapshot(model.ItemSnapshot{Kind: model.ItemCatalog, ProductID: &arame.ID, Description: "Arame", Quantity: 10, UnitPrice: arame.Price}),
		ledger.FromSnapshot(model.ItemSnapshot{Kind: model.ItemCatalog, ProductID: &rebites.ID, Description: "Rebites", Quantity: 50, UnitPrice: rebites.Price}),
		ledger.FromSnapshot(model.ItemSnapshot{Kind: model.ItemCatalog, ProductID: &molduras.ID, Description: "Molduras", Quantity: 9, UnitPrice: molduras.Price}),
	}

	changes, err := rec.Reconcile(context.Background(), items)
	require.True(t, apperror.IsInsufficientStock(err))
	assert.Nil(t, changes)

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "Rebites", appErr.Details["product_name"])

	assert.Equal(t, 120, catalog.Stock(arame.ID))
	assert.Equal(t, 5, catalog.Stock(rebites.ID))
	assert.Equal(t, 8, catalog.Stock(molduras.ID))
}

func TestReconcile_AggregatesRepeatedProduct(t *testing.T) {
	tabicas := product("Tabicas", "25.00", "12.00", 12)
	catalog, rec := setup(tabicas)
	line := func(q int) ledger.LineItem {
		return ledger.FromSnapshot(model.ItemSnapshot{Kind: model.ItemCatalog, ProductID: &tabicas.ID, Description: "Tabicas", Quantity: q, UnitPrice: tabicas.Price})
	}

	_, err := rec.Reconcile(context.Background(), []ledger.LineItem{line(7), line(7)})
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, 12, catalog.Stock(tabicas.ID))

	changes, err := rec.Reconcile(context.Background(), []ledger.LineItem{line(7), line(5)})
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, 12, changes[0].Quantity)
	assert.Equal(t, 0, catalog.Stock(tabicas.ID))
	assert.True(t, changes[0].IsLowStock())
}

func TestReconcile_NameFallbackAndManualSkipped(t *testing.T) {
	sisal := product("Sisal", "30.00", "15.00", 45)
	catalog, rec := setup(sisal)

	items := []ledger.LineItem{
		ledger.FromSnapshot(model.ItemSnapshot{Kind: model.ItemCatalog, Description: "sisal", Quantity: 5, UnitPrice: sisal.Price}),
		ledger.FromSnapshot(model.ItemSnapshot{Kind: model.ItemManual, Description: "Sisal", Quantity: 3, UnitPrice: sisal.Price}),
		ledger.FromSnapshot(model.ItemSnapshot{Kind: model.ItemCatalog, Description: "Produto antigo", Quantity: 1, UnitPrice: dec("9")}),
	}

	changes, err := rec.Reconcile(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, 40, catalog.Stock(sisal.ID))
}

func TestReconcile_UnknownProductIsNotFound(t *testing.T) {
	ghost := product("Fantasma", "1", "1", 10)
	_, rec := setup()

	items := []ledger.LineItem{
		ledger.FromSnapshot(model.ItemSnapshot{Kind: model.ItemCatalog, ProductID: &ghost.ID, Description: "Fantasma", Quantity: 1, UnitPrice: ghost.Price}),
	}
	_, err := rec.Reconcile(context.Background(), items)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReconcile_WriteFailureRollsBack(t *testing.T) {
	a := product("A", "1", "0.5", 10)
	b := product("B", "1", "0.5", 10)
	catalog, rec := setup(a, b)
	boom := errors.New("disk full")
	catalog.FailSetStock(b.ID, boom)

	items := []ledger.LineItem{
		ledger.FromSnapshot(model.ItemSnapshot{Kind: model.ItemCatalog, ProductID: &a.ID, Description: "A", Quantity: 2, UnitPrice: a.Price}),
		ledger.FromSnapshot(model.ItemSnapshot{Kind: model.ItemCatalog, ProductID: &b.ID, Description: "B", Quantity: 2, UnitPrice: b.Price}),
	}
	_, err := rec.Reconcile(context.Background(), items)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 10, catalog.Stock(a.ID))
	assert.Equal(t, 10, catalog.Stock(b.ID))
}

func TestReconcile_EmptyOrManualOnly(t *testing.T) {
	_, rec := setup()
	acc := ledger.NewAccumulator()
	require.NoError(t, acc.AddManualItem("Serviço", dec("100"), 1))

	changes, err := rec.Reconcile(context.Background(), acc.Items())
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestReconcile_ConcurrentCheckoutsNeverOversell(t *testing.T) {
	placas := product("Placas 60x60", "30.00", "18.00", 10)
	catalog, rec := setup(placas)
	item := ledger.FromSnapshot(model.ItemSnapshot{Kind: model.ItemCatalog, ProductID: &placas.ID, Description: "Placas 60x60", Quantity: 1, UnitPrice: placas.Price})

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := rec.Reconcile(context.Background(), []ledger.LineItem{item}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 0, catalog.Stock(placas.ID))
}
