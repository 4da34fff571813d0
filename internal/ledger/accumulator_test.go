package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gesso-pos/internal/apperror"
	"gesso-pos/internal/ledger"
	"gesso-pos/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func product(name, price, cost string, stock int) *model.Product {
	return &model.Product{
		BaseModel: model.BaseModel{ID: model.NewID()},
		SKU:       name,
		Name:      name,
		Price:     dec(price),
		Cost:      dec(cost),
		Stock:     stock,
		MinStock:  5,
	}
}

func TestAddCatalogItem_SnapshotsPrice(t *testing.T) {
	gesso := product("Gesso São Francisco", "29.90", "18.00", 150)
	acc := ledger.NewAccumulator()

	require.NoError(t, acc.AddCatalogItem(gesso, 5))
	gesso.Price = dec("35.00")

	items := acc.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Gesso São Francisco", items[0].Description())
	assert.True(t, items[0].UnitPrice().Equal(dec("29.90")))
	assert.True(t, items[0].LineTotal().Equal(dec("149.50")))
	id, ok := items[0].ProductID()
	assert.True(t, ok)
	assert.Equal(t, gesso.ID, id)
}

func TestAddCatalogItem_Rejections(t *testing.T) {
	molduras := product("Molduras", "15.00", "8.00", 8)

	tests := []struct {
		name     string
		quantity int
		check    func(error) bool
	}{
		{"zero quantity", 0, apperror.IsValidation},
		{"negative quantity", -2, apperror.IsValidation},
		{"more than stock", 9, apperror.IsInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := ledger.NewAccumulator()
			err := acc.AddCatalogItem(molduras, tt.quantity)
			assert.True(t, tt.check(err), "unexpected error %v", err)
			assert.Equal(t, 0, acc.Len())
		})
	}
}

func TestAddCatalogItem_CountsQueuedQuantity(t *testing.T) {
	tabicas := product("Tabicas", "25.00", "12.00", 12)
	acc := ledger.NewAccumulator()

	require.NoError(t, acc.AddCatalogItem(tabicas, 8))
	err := acc.AddCatalogItem(tabicas, 5)

	require.True(t, apperror.IsInsufficientStock(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, 13, appErr.Details["requested"])
	assert.Equal(t, 12, appErr.Details["available"])
	assert.Equal(t, 1, acc.Len())
	assert.Equal(t, 8, acc.Items()[0].Quantity())
}

func TestAddManualItem_Validation(t *testing.T) {
	tests := []struct {
		name        string
		description string
		price       string
		quantity    int
		wantErr     bool
	}{
		{"valid", "Painel sob medida", "40.00", 2, false},
		{"blank description", "   ", "40.00", 2, true},
		{"zero price", "Painel", "0", 1, true},
		{"negative price", "Painel", "-1", 1, true},
		{"zero quantity", "Painel", "40.00", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := ledger.NewAccumulator()
			err := acc.AddManualItem(tt.description, dec(tt.price), tt.quantity)
			if tt.wantErr {
				assert.True(t, apperror.IsValidation(err))
				assert.Equal(t, 0, acc.Len())
				return
			}
			require.NoError(t, err)
			item := acc.Items()[0]
			assert.Equal(t, model.ItemManual, item.Kind())
			_, linked := item.ProductID()
			assert.False(t, linked)
			assert.True(t, item.LineTotal().Equal(dec("80.00")))
		})
	}
}

func TestRemoveItem(t *testing.T) {
	acc := ledger.NewAccumulator()
	require.NoError(t, acc.AddManualItem("A", dec("1"), 1))
	require.NoError(t, acc.AddManualItem("B", dec("2"), 1))
	require.NoError(t, acc.AddManualItem("C", dec("3"), 1))

	require.NoError(t, acc.RemoveItem(1))
	items := acc.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Description())
	assert.Equal(t, "C", items[1].Description())

	err := acc.RemoveItem(2)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeIndexOutOfRange, appErr.Code)
	assert.Equal(t, 2, acc.Len())

	assert.Error(t, acc.RemoveItem(-1))
}

func TestUpdateItem_RecomputesLineTotal(t *testing.T) {
	acc := ledger.NewAccumulator()
	require.NoError(t, acc.AddCatalogItem(product("Placas 60x60", "30.00", "18.00", 85), 2))

	qty := 4
	price := dec("27.50")
	require.NoError(t, acc.UpdateItem(0, ledger.ItemUpdate{Quantity: &qty, UnitPrice: &price}))

	item := acc.Items()[0]
	assert.Equal(t, 4, item.Quantity())
	assert.True(t, item.LineTotal().Equal(dec("110.00")))
}

func TestUpdateItem_InvalidLeavesItemUnchanged(t *testing.T) {
	acc := ledger.NewAccumulator()
	require.NoError(t, acc.AddCatalogItem(product("Rebites", "0.50", "0.25", 5), 2))

	price := dec("0.40")
	tooMany := 6
	err := acc.UpdateItem(0, ledger.ItemUpdate{UnitPrice: &price, Quantity: &tooMany})
	assert.True(t, apperror.IsInsufficientStock(err))

	blank := " "
	assert.True(t, apperror.IsValidation(acc.UpdateItem(0, ledger.ItemUpdate{Description: &blank})))

	item := acc.Items()[0]
	assert.Equal(t, 2, item.Quantity())
	assert.True(t, item.UnitPrice().Equal(dec("0.50")))
	assert.Equal(t, "Rebites", item.Description())

	assert.True(t, apperror.IsValidation(acc.UpdateItem(3, ledger.ItemUpdate{})))
}

func TestItems_ReturnsCopy(t *testing.T) {
	acc := ledger.NewAccumulator()
	require.NoError(t, acc.AddManualItem("Frete", dec("20"), 1))

	items := acc.Items()
	items[0] = ledger.LineItem{}

	assert.Equal(t, "Frete", acc.Items()[0].Description())
}

func TestSnapshotRoundTrip(t *testing.T) {
	gesso := product("Gesso", "29.90", "18.00", 10)
	acc := ledger.NewAccumulator()
	require.NoError(t, acc.AddCatalogItem(gesso, 3))

	snap := acc.Items()[0].Snapshot(0)
	require.NotNil(t, snap.ProductID)
	assert.Equal(t, gesso.ID, *snap.ProductID)

	back := ledger.FromSnapshot(snap)
	assert.True(t, back.IsCatalog())
	assert.True(t, back.LineTotal().Equal(dec("89.70")))
}
