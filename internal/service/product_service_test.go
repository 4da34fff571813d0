package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gesso-pos/internal/apperror"
	"gesso-pos/internal/model"
	"gesso-pos/internal/repository"
	"gesso-pos/internal/ws"
)

func TestCreateProduct_LogsInitialStock(t *testing.T) {
	e := newEnv()
	svc := e.productService()

	p, err := svc.CreateProduct(context.Background(), &ProductInput{
		SKU: "PLC-6060", Name: " Placa de Gesso 60x60 ", Category: "Placas",
		Price: dec("25.90"), Cost: dec("15.50"), Stock: 40,
	}, cashier)
	require.NoError(t, err)
	assert.Equal(t, "Placa de Gesso 60x60", p.Name)
	assert.Equal(t, 5, p.MinStock)
	assert.Equal(t, 40, e.catalog.Stock(p.ID))

	require.Len(t, e.movements.saved, 1)
	assert.Equal(t, model.MovementIn, e.movements.saved[0].Type)
	assert.Equal(t, 40, e.movements.saved[0].StockAfter)

	_, err = svc.CreateProduct(context.Background(), &ProductInput{SKU: "PLC-6060", Name: "Outra", Price: dec("1")}, cashier)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestCreateProduct_Validation(t *testing.T) {
	svc := newEnv().productService()
	_, err := svc.CreateProduct(context.Background(), &ProductInput{SKU: "X", Name: "X", Price: dec("-1")}, cashier)
	assert.True(t, apperror.IsValidation(err))
	_, err = svc.CreateProduct(context.Background(), &ProductInput{SKU: "X", Price: dec("1")}, cashier)
	assert.True(t, apperror.IsValidation(err))
}

func TestUpdateProduct_StockEditIsAdjustment(t *testing.T) {
	gesso := newProduct("Gesso", "29.90", "18.00", 50, 10)
	e := newEnv(gesso)
	minStock := 8

	updated, err := e.productService().UpdateProduct(context.Background(), gesso.ID, &ProductInput{
		SKU: gesso.SKU, Name: "Gesso Cola", Price: dec("31.00"), Cost: dec("18.00"), Stock: 7, MinStock: &minStock,
	}, cashier)
	require.NoError(t, err)
	assert.Equal(t, "Gesso Cola", updated.Name)
	assert.Equal(t, 7, e.catalog.Stock(gesso.ID))

	require.Len(t, e.movements.saved, 1)
	mv := e.movements.saved[0]
	assert.Equal(t, model.MovementAdjust, mv.Type)
	assert.Equal(t, 50, mv.StockBefore)
	assert.Equal(t, 7, mv.StockAfter)
	assert.Len(t, e.events.ofType(ws.EventLowStockAlert), 1)
}

func TestRecordMovement(t *testing.T) {
	gesso := newProduct("Gesso", "29.90", "18.00", 20, 10)
	e := newEnv(gesso)
	svc := e.productService()
	ctx := context.Background()

	mv, err := svc.RecordMovement(ctx, &MovementInput{ProductID: gesso.ID, Type: model.MovementIn, Quantity: 30, Reason: "Compra fornecedor"}, cashier)
	require.NoError(t, err)
	assert.Equal(t, 20, mv.StockBefore)
	assert.Equal(t, 50, mv.StockAfter)

	_, err = svc.RecordMovement(ctx, &MovementInput{ProductID: gesso.ID, Type: model.MovementOut, Quantity: 51}, cashier)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, 50, e.catalog.Stock(gesso.ID))

	mv, err = svc.RecordMovement(ctx, &MovementInput{ProductID: gesso.ID, Type: model.MovementOut, Quantity: 45}, cashier)
	require.NoError(t, err)
	assert.Equal(t, 5, mv.StockAfter)
	assert.Len(t, e.events.ofType(ws.EventLowStockAlert), 1)

	mv, err = svc.RecordMovement(ctx, &MovementInput{ProductID: gesso.ID, Type: model.MovementAdjust, Quantity: 12, Reason: "Inventário"}, cashier)
	require.NoError(t, err)
	assert.Equal(t, 7, mv.Quantity)
	assert.Equal(t, 12, e.catalog.Stock(gesso.ID))

	mv, err = svc.RecordMovement(ctx, &MovementInput{ProductID: gesso.ID, Type: model.MovementAdjust, Quantity: 0}, cashier)
	require.NoError(t, err)
	assert.Equal(t, 0, mv.StockAfter)

	_, err = svc.RecordMovement(ctx, &MovementInput{ProductID: gesso.ID, Type: model.MovementIn, Quantity: 0}, cashier)
	assert.True(t, apperror.IsValidation(err))
	_, err = svc.RecordMovement(ctx, &MovementInput{ProductID: gesso.ID, Type: "perda", Quantity: 1}, cashier)
	assert.True(t, apperror.IsValidation(err))
	_, err = svc.RecordMovement(ctx, &MovementInput{ProductID: model.NewID(), Type: model.MovementIn, Quantity: 1}, cashier)
	assert.True(t, apperror.IsNotFound(err))

	all, err := svc.ListMovements(ctx, model.MovementFilter{ProductID: &gesso.ID})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestLowStockListing(t *testing.T) {
	ok := newProduct("Arame", "10.00", "6.00", 120, 10)
	low := newProduct("Rebites", "0.50", "0.25", 5, 10)
	e := newEnv(ok, low)

	list, err := e.productService().LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Rebites", list[0].Name)

	all, err := e.productService().ListProducts(context.Background(), repository.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
