package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gesso-pos/internal/apperror"
	"gesso-pos/internal/ledger"
	"gesso-pos/internal/model"
	"gesso-pos/internal/repository"
	"gesso-pos/pkg/logger"
)

type SaleService interface {
	// Quote prices a cart without touching stock or persisting anything.
	Quote(ctx context.Context, req *QuoteRequest) (*Quote, error)
	Checkout(ctx context.Context, req *CheckoutRequest, actor Actor) (*model.Sale, error)
	GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	ListSales(ctx context.Context, filter model.SaleFilter) ([]model.Sale, error)
}

// CheckoutItem is a catalog line when ProductID is set, a manual line otherwise.
// UnitPrice on a catalog line overrides the catalog price.
type CheckoutItem struct {
	ProductID   *uuid.UUID       `json:"product_id"`
	Description string           `json:"description" validate:"max=255"`
	Quantity    int              `json:"quantity" validate:"gt=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

type QuoteRequest struct {
	Items         []CheckoutItem      `json:"items" validate:"required,min=1,dive"`
	Discount      decimal.Decimal     `json:"discount" validate:"gte=0"`
	PaymentMethod model.PaymentMethod `json:"payment_method" validate:"omitempty,payment_method"`
	AmountPaid    decimal.Decimal     `json:"amount_paid" validate:"gte=0"`
}

type CheckoutRequest struct {
	QuoteRequest
	CustomerID   *uuid.UUID       `json:"customer_id"`
	CustomerName string           `json:"customer_name" validate:"max=255"`
	Status       model.SaleStatus `json:"status" validate:"omitempty,oneof=pago pendente"`
	Date         *time.Time       `json:"date"`
}

type Quote struct {
	Items      []ledger.LineItem `json:"items"`
	Totals     ledger.Totals     `json:"totals"`
	AmountPaid decimal.Decimal   `json:"amount_paid"`
	Change     decimal.Decimal   `json:"change"`
}

type saleService struct {
	catalog   repository.ProductRepository
	customers repository.CustomerRepository
	sales     repository.SaleRepository
	tx        ledger.TxManager
	totals    ledger.TotalsEngine
	committer *saleCommitter
	events    EventPublisher
}

func NewSaleService(
	catalog repository.ProductRepository,
	customers repository.CustomerRepository,
	sales repository.SaleRepository,
	movements repository.StockMovementRepository,
	tx ledger.TxManager,
	totals ledger.TotalsEngine,
	events EventPublisher,
) SaleService {
	return &saleService{
		catalog:   catalog,
		customers: customers,
		sales:     sales,
		tx:        tx,
		totals:    totals,
		committer: newSaleCommitter(catalog, sales, movements, tx),
		events:    publisherOrNop(events),
	}
}

func (s *saleService) Quote(ctx context.Context, req *QuoteRequest) (*Quote, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	acc, err := buildAccumulator(ctx, s.catalog, req.Items)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	items := acc.Items()
	t := s.totals.Compute(items, catalog, req.Discount)
	q := &Quote{Items: items, Totals: t, AmountPaid: req.AmountPaid}
	if req.PaymentMethod != "" {
		q.AmountPaid, q.Change = quotePayment(t.Total, req.AmountPaid, req.PaymentMethod)
	}
	return q, nil
}

// quotePayment mirrors settlePayment without rejecting a short cash amount.
func quotePayment(total, paid decimal.Decimal, method model.PaymentMethod) (decimal.Decimal, decimal.Decimal) {
	if method != model.PaymentCash {
		return total, decimal.Zero
	}
	return paid, ledger.ComputeChange(total, paid, method)
}

func (s *saleService) Checkout(ctx context.Context, req *CheckoutRequest, actor Actor) (*model.Sale, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.PaymentMethod == "" {
		return nil, apperror.NewValidation("payment method is required").WithDetail("field", "PaymentMethod")
	}
	status := req.Status
	if status == "" {
		status = model.SalePaid
	}

	acc, err := buildAccumulator(ctx, s.catalog, req.Items)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	items := acc.Items()
	t := s.totals.Compute(items, catalog, req.Discount)

	paid, change, err := settlePayment(t.Total, req.AmountPaid, req.PaymentMethod, status)
	if err != nil {
		return nil, err
	}

	sale := &model.Sale{
		Date:          time.Now(),
		Subtotal:      t.Subtotal,
		Discount:      t.Discount,
		Total:         t.Total,
		Profit:        t.Profit,
		PaymentMethod: req.PaymentMethod,
		AmountPaid:    paid,
		ChangeDue:     change,
		Status:        status,
	}
	if req.Date != nil {
		sale.Date = *req.Date
	}
	sale.CreatedBy = actor.ID
	sale.UpdatedBy = actor.ID

	var changes []ledger.StockChange
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.resolveCustomer(ctx, sale, req, actor); err != nil {
			return err
		}
		changes, err = s.committer.commit(ctx, sale, items, "", actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale recorded",
		"sale_id", sale.ID, "number", sale.Number,
		"total", sale.Total.StringFixed(2), "payment_method", sale.PaymentMethod)

	publishSale(s.events, actor, sale)
	publishStockChanges(s.events, actor, saleReason(sale), changes)
	return sale, nil
}

// resolveCustomer links an existing customer, registers an inline one by
// name, or falls back to the anonymous label.
func (s *saleService) resolveCustomer(ctx context.Context, sale *model.Sale, req *CheckoutRequest, actor Actor) error {
	if req.CustomerID != nil && *req.CustomerID != uuid.Nil {
		c, err := s.customers.FindByID(ctx, *req.CustomerID)
		if err != nil {
			return err
		}
		sale.CustomerID = &c.ID
		sale.CustomerName = c.Name
		return nil
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" || strings.EqualFold(name, model.AnonymousCustomerName) {
		sale.CustomerName = model.AnonymousCustomerName
		return nil
	}

	c := &model.Customer{Name: name, Type: model.PessoaFisica}
	c.CreatedBy = actor.ID
	if err := s.customers.Create(ctx, c); err != nil {
		return err
	}
	sale.CustomerID = &c.ID
	sale.CustomerName = c.Name
	return nil
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	return s.sales.FindByID(ctx, id)
}

func (s *saleService) ListSales(ctx context.Context, filter model.SaleFilter) ([]model.Sale, error) {
	return s.sales.FindAll(ctx, filter)
}

// buildAccumulator turns request lines into ledger items, tagging errors with the line index.
func buildAccumulator(ctx context.Context, catalog ledger.CatalogRepository, lines []CheckoutItem) (*ledger.Accumulator, error) {
	acc := ledger.NewAccumulator()
	for i, line := range lines {
		if err := addLine(ctx, acc, catalog, line); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return nil, appErr.WithDetail("item", i)
			}
			return nil, err
		}
	}
	return acc, nil
}

func addLine(ctx context.Context, acc *ledger.Accumulator, catalog ledger.CatalogRepository, line CheckoutItem) error {
	if line.ProductID == nil || *line.ProductID == uuid.Nil {
		if line.UnitPrice == nil {
			return apperror.NewValidation("unit price is required for manual items")
		}
		return acc.AddManualItem(line.Description, *line.UnitPrice, line.Quantity)
	}

	p, err := catalog.GetProduct(ctx, *line.ProductID)
	if err != nil {
		return err
	}
	if err := acc.AddCatalogItem(p, line.Quantity); err != nil {
		return err
	}
	if line.UnitPrice != nil && !line.UnitPrice.Equal(p.Price) {
		return acc.UpdateItem(acc.Len()-1, ledger.ItemUpdate{UnitPrice: line.UnitPrice})
	}
	return nil
}

// settlePayment returns the amount recorded as paid and the change due.
// A paid cash sale must cover the total; other methods are charged exactly.
func settlePayment(total, paid decimal.Decimal, method model.PaymentMethod, status model.SaleStatus) (decimal.Decimal, decimal.Decimal, error) {
	if method != model.PaymentCash {
		return total, decimal.Zero, nil
	}
	if status == model.SalePending {
		return paid, decimal.Zero, nil
	}
	if paid.LessThan(total) {
		return decimal.Zero, decimal.Zero, apperror.NewInsufficientPayment(total.StringFixed(2), paid.StringFixed(2))
	}
	return paid, ledger.ComputeChange(total, paid, method), nil
}

func saleReason(sale *model.Sale) string {
	return "Venda #" + sale.DisplayNumber()
}

// saleCommitter is the write path shared by checkout and budget conversion.
type saleCommitter struct {
	reconciler *ledger.Reconciler
	sales      repository.SaleRepository
	movements  repository.StockMovementRepository
	tx         ledger.TxManager
}

func newSaleCommitter(catalog ledger.CatalogRepository, sales repository.SaleRepository, movements repository.StockMovementRepository, tx ledger.TxManager) *saleCommitter {
	return &saleCommitter{
		reconciler: ledger.NewReconciler(catalog, tx),
		sales:      sales,
		movements:  movements,
		tx:         tx,
	}
}

// commit reconciles stock, stores the sale with its snapshots and logs a
// saida movement per product, all in one transaction.
func (c *saleCommitter) commit(ctx context.Context, sale *model.Sale, items []ledger.LineItem, reason string, actor Actor) ([]ledger.StockChange, error) {
	if len(items) == 0 {
		return nil, apperror.NewValidation("a sale needs at least one item")
	}
	if sale.ID == uuid.Nil {
		sale.ID = model.NewID()
	}
	sale.Items = make([]model.SaleItem, len(items))
	for i, it := range items {
		sale.Items[i] = model.SaleItem{SaleID: sale.ID, ItemSnapshot: it.Snapshot(i)}
	}

	var changes []ledger.StockChange
	err := c.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		changes, err = c.reconciler.Reconcile(ctx, items)
		if err != nil {
			return err
		}
		if err := c.sales.Create(ctx, sale); err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}

		why := reason
		if why == "" {
			why = saleReason(sale)
		}
		movements := make([]model.StockMovement, len(changes))
		for i, ch := range changes {
			movements[i] = model.StockMovement{
				ProductID:   ch.ProductID,
				Type:        model.MovementOut,
				Quantity:    ch.Quantity,
				StockBefore: ch.Before,
				StockAfter:  ch.After,
				Reason:      why,
				ReferenceID: &sale.ID,
				Date:        sale.Date,
				BaseModel:   model.BaseModel{CreatedBy: actor.ID},
			}
		}
		return c.movements.CreateBatch(ctx, movements)
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}
