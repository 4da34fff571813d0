package service

import (
	"github.com/shopspring/decimal"

	"gesso-pos/internal/ledger"
	"gesso-pos/internal/model"
	"gesso-pos/internal/repository/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func newProduct(name, price, cost string, stock, minStock int) model.Product {
	p := model.Product{
		SKU:      name,
		Name:     name,
		Price:    dec(price),
		Cost:     dec(cost),
		Stock:    stock,
		MinStock: minStock,
	}
	p.ID = model.NewID()
	return p
}

var cashier = Actor{ID: "op-1", Name: "Maria", Email: "maria@gesso.com"}

type env struct {
	catalog   *memory.Catalog
	customers *fakeCustomers
	sales     *fakeSales
	budgets   *fakeBudgets
	movements *fakeMovements
	events    *recordingPublisher
}

func newEnv(products ...model.Product) *env {
	return &env{
		catalog:   memory.NewCatalog(products...),
		customers: newFakeCustomers(),
		sales:     newFakeSales(),
		budgets:   newFakeBudgets(),
		movements: &fakeMovements{},
		events:    &recordingPublisher{},
	}
}

func (e *env) saleService() SaleService {
	return NewSaleService(e.catalog, e.customers, e.sales, e.movements, e.catalog,
		ledger.NewTotalsEngine(ledger.DefaultManualCostRatio), e.events)
}

func (e *env) budgetService() BudgetService {
	return NewBudgetService(e.catalog, e.customers, e.budgets, e.sales, e.movements, e.catalog,
		ledger.NewTotalsEngine(ledger.DefaultManualCostRatio), e.events, 15)
}

func (e *env) productService() ProductService {
	return NewProductService(e.catalog, e.movements, e.catalog, e.events, 5)
}
