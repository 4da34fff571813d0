package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gesso-pos/internal/apperror"
	"gesso-pos/internal/model"
	"gesso-pos/internal/ws"
)

func createBudget(t *testing.T, e *env, items ...CheckoutItem) *model.Budget {
	t.Helper()
	b, err := e.budgetService().CreateBudget(context.Background(), &BudgetRequest{
		Items:         items,
		PaymentMethod: model.PaymentPix,
		CustomerName:  "Construtora Alfa",
		CustomerType:  model.PessoaJuridica,
	}, cashier)
	require.NoError(t, err)
	return b
}

func TestCreateBudget_NoStockEffect(t *testing.T) {
	sanca := newProduct("Sanca", "13.00", "7.00", 200, 20)
	e := newEnv(sanca)

	date := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	b, err := e.budgetService().CreateBudget(context.Background(), &BudgetRequest{
		Items: []CheckoutItem{
			{ProductID: &sanca.ID, Quantity: 100},
			{Description: "Mão de obra", Quantity: 1, UnitPrice: decPtr("300")},
		},
		Discount: dec("50"),
		Date:     &date,
	}, cashier)
	require.NoError(t, err)

	assert.Equal(t, model.BudgetQuote, b.Status)
	assert.Equal(t, "ORC-0001", b.DisplayNumber())
	assert.Equal(t, model.AnonymousCustomerName, b.CustomerName)
	assert.Equal(t, model.PessoaFisica, b.CustomerType)
	assert.Equal(t, date.AddDate(0, 0, 15), b.ValidUntil)
	assert.Equal(t, "1600", b.Subtotal.String())
	assert.Equal(t, "1550", b.Total.String())
	require.Len(t, b.Items, 2)
	assert.Equal(t, model.ItemManual, b.Items[1].Kind)

	assert.Equal(t, 200, e.catalog.Stock(sanca.ID))
	assert.Empty(t, e.movements.saved)
}

func TestCreateBudget_RegisteredCustomerIsCopied(t *testing.T) {
	alfa := model.Customer{Name: "Construtora Alfa", Type: model.PessoaJuridica, Document: "11.222.333/0001-44", Phone: "(81) 9999-0000"}
	alfa.ID = model.NewID()
	e := newEnv()
	e.customers = newFakeCustomers(alfa)

	b, err := e.budgetService().CreateBudget(context.Background(), &BudgetRequest{
		Items:      []CheckoutItem{{Description: "Forro", Quantity: 10, UnitPrice: decPtr("45")}},
		CustomerID: &alfa.ID,
	}, cashier)
	require.NoError(t, err)
	assert.Equal(t, alfa.ID, *b.CustomerID)
	assert.Equal(t, "11.222.333/0001-44", b.CustomerDocument)
	assert.Equal(t, "CNPJ", b.CustomerType.DocumentLabel())
}

func TestCreateBudget_ValidUntilBeforeDate(t *testing.T) {
	e := newEnv()
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	before := date.AddDate(0, 0, -1)

	_, err := e.budgetService().CreateBudget(context.Background(), &BudgetRequest{
		Items:      []CheckoutItem{{Description: "Forro", Quantity: 1, UnitPrice: decPtr("45")}},
		Date:       &date,
		ValidUntil: &before,
	}, cashier)
	assert.True(t, apperror.IsValidation(err))
}

func TestBudgetLifecycle(t *testing.T) {
	sanca := newProduct("Sanca", "13.00", "7.00", 200, 20)
	e := newEnv(sanca)
	svc := e.budgetService()
	ctx := context.Background()

	b := createBudget(t, e, CheckoutItem{ProductID: &sanca.ID, Quantity: 100})

	ordered, err := svc.ConvertToOrder(ctx, b.ID, cashier)
	require.NoError(t, err)
	assert.Equal(t, model.BudgetOrder, ordered.Status)
	assert.Equal(t, 200, e.catalog.Stock(sanca.ID))

	_, err = svc.ConvertToOrder(ctx, b.ID, cashier)
	assert.True(t, apperror.IsInvalidStatusTransition(err))

	sold, sale, err := svc.ConvertToSale(ctx, b.ID, nil, cashier)
	require.NoError(t, err)
	assert.Equal(t, model.BudgetSold, sold.Status)
	assert.Equal(t, sale.ID, *sold.SaleID)
	assert.Equal(t, model.BudgetSold, e.budgets.status(b.ID))
	assert.Equal(t, 100, e.catalog.Stock(sanca.ID))

	assert.Equal(t, model.SalePaid, sale.Status)
	assert.Equal(t, model.PaymentPix, sale.PaymentMethod)
	assert.True(t, sale.Total.Equal(b.Total))
	assert.True(t, sale.Profit.Equal(b.Profit))
	assert.Equal(t, b.ID, *sale.BudgetID)
	assert.Equal(t, "Construtora Alfa", sale.CustomerName)

	require.Len(t, e.movements.saved, 1)
	assert.Equal(t, "Orçamento ORC-0001", e.movements.saved[0].Reason)

	_, _, err = svc.ConvertToSale(ctx, b.ID, nil, cashier)
	assert.True(t, apperror.IsInvalidStatusTransition(err))
	assert.Equal(t, 100, e.catalog.Stock(sanca.ID))
	assert.Equal(t, 1, e.sales.count())

	_, err = svc.ConvertToOrder(ctx, b.ID, cashier)
	assert.True(t, apperror.IsInvalidStatusTransition(err))

	changed := e.events.ofType(ws.EventBudgetStatusChanged)
	require.Len(t, changed, 2)
	assert.Equal(t, "vendido", changed[1].Action)
}

func orderBudget(t *testing.T, e *env, b *model.Budget) {
	t.Helper()
	_, err := e.budgetService().ConvertToOrder(context.Background(), b.ID, cashier)
	require.NoError(t, err)
}

func TestConvertToSale_OrderPaidWithCash(t *testing.T) {
	e := newEnv()
	b := createBudget(t, e, CheckoutItem{Description: "Forro", Quantity: 1, UnitPrice: decPtr("83.33")})
	orderBudget(t, e, b)

	_, sale, err := e.budgetService().ConvertToSale(context.Background(), b.ID, &ConvertToSaleRequest{
		PaymentMethod: model.PaymentCash,
		AmountPaid:    dec("100"),
	}, cashier)
	require.NoError(t, err)
	assert.Equal(t, "16.67", sale.ChangeDue.StringFixed(2))
}

func TestConvertToSale_InsufficientStockKeepsBudgetOpen(t *testing.T) {
	sanca := newProduct("Sanca", "13.00", "7.00", 200, 20)
	e := newEnv(sanca)
	b := createBudget(t, e, CheckoutItem{ProductID: &sanca.ID, Quantity: 150})
	orderBudget(t, e, b)

	// stock sold elsewhere after the budget was made
	_, err := e.productService().RecordMovement(context.Background(), &MovementInput{
		ProductID: sanca.ID, Type: model.MovementOut, Quantity: 100,
	}, cashier)
	require.NoError(t, err)

	_, _, err = e.budgetService().ConvertToSale(context.Background(), b.ID, nil, cashier)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, model.BudgetOrder, e.budgets.status(b.ID))
	assert.Equal(t, 100, e.catalog.Stock(sanca.ID))
	assert.Zero(t, e.sales.count())
}

func TestConvertToSale_RequiresPaymentMethod(t *testing.T) {
	e := newEnv()
	b, err := e.budgetService().CreateBudget(context.Background(), &BudgetRequest{
		Items: []CheckoutItem{{Description: "Forro", Quantity: 1, UnitPrice: decPtr("10")}},
	}, cashier)
	require.NoError(t, err)
	orderBudget(t, e, b)

	_, _, err = e.budgetService().ConvertToSale(context.Background(), b.ID, nil, cashier)
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, model.BudgetOrder, e.budgets.status(b.ID))
}

func TestConvertToSale_QuoteMustBeOrderedFirst(t *testing.T) {
	sanca := newProduct("Sanca", "13.00", "7.00", 200, 20)
	e := newEnv(sanca)
	b := createBudget(t, e, CheckoutItem{ProductID: &sanca.ID, Quantity: 100})

	_, _, err := e.budgetService().ConvertToSale(context.Background(), b.ID, nil, cashier)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidStatusTransition(err))
	assert.Equal(t, model.BudgetQuote, e.budgets.status(b.ID))
	assert.Equal(t, 200, e.catalog.Stock(sanca.ID))
	assert.Zero(t, e.sales.count())
	assert.Empty(t, e.movements.saved)
}

func TestConvertToOrder_ExpiredBudget(t *testing.T) {
	e := newEnv()
	date := time.Now().AddDate(0, 0, -60)
	validUntil := date.AddDate(0, 0, 1)
	b, err := e.budgetService().CreateBudget(context.Background(), &BudgetRequest{
		Items:      []CheckoutItem{{Description: "Forro", Quantity: 1, UnitPrice: decPtr("45")}},
		Date:       &date,
		ValidUntil: &validUntil,
	}, cashier)
	require.NoError(t, err)

	_, err = e.budgetService().ConvertToOrder(context.Background(), b.ID, cashier)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBudgetExpired, appErr.Code)
	assert.Equal(t, 422, appErr.HTTPStatus)
	assert.Equal(t, model.BudgetQuote, e.budgets.status(b.ID))
	assert.Empty(t, e.events.ofType(ws.EventBudgetStatusChanged))
}

func TestConvertToSale_UnknownBudget(t *testing.T) {
	e := newEnv()
	_, _, err := e.budgetService().ConvertToSale(context.Background(), model.NewID(), nil, cashier)
	assert.True(t, apperror.IsNotFound(err))
}
