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

type BudgetService interface {
	CreateBudget(ctx context.Context, req *BudgetRequest, actor Actor) (*model.Budget, error)
	GetBudget(ctx context.Context, id uuid.UUID) (*model.Budget, error)
	ListBudgets(ctx context.Context, filter model.BudgetFilter) ([]model.Budget, error)
	ConvertToOrder(ctx context.Context, id uuid.UUID, actor Actor) (*model.Budget, error)
	ConvertToSale(ctx context.Context, id uuid.UUID, req *ConvertToSaleRequest, actor Actor) (*model.Budget, *model.Sale, error)
}

type BudgetRequest struct {
	Items            []CheckoutItem      `json:"items" validate:"required,min=1,dive"`
	Discount         decimal.Decimal     `json:"discount" validate:"gte=0"`
	PaymentMethod    model.PaymentMethod `json:"payment_method" validate:"omitempty,payment_method"`
	CustomerID       *uuid.UUID          `json:"customer_id"`
	CustomerName     string              `json:"customer_name" validate:"max=255"`
	CustomerType     model.CustomerType  `json:"customer_type" validate:"omitempty,oneof=pessoa_fisica pessoa_juridica"`
	CustomerDocument string              `json:"customer_document" validate:"max=20"`
	CustomerPhone    string              `json:"customer_phone" validate:"max=20"`
	CustomerEmail    string              `json:"customer_email" validate:"omitempty,email"`
	CustomerAddress  string              `json:"customer_address" validate:"max=255"`
	Observations     string              `json:"observations"`
	Date             *time.Time          `json:"date"`
	ValidUntil       *time.Time          `json:"valid_until"`
	DeliveryDate     *time.Time          `json:"delivery_date"`
}

// ConvertToSaleRequest: an empty method falls back to the budget's; a zero
// amount means the customer paid exactly the total.
type ConvertToSaleRequest struct {
	PaymentMethod model.PaymentMethod `json:"payment_method" validate:"omitempty,payment_method"`
	AmountPaid    decimal.Decimal     `json:"amount_paid" validate:"gte=0"`
}

type budgetService struct {
	catalog      repository.ProductRepository
	customers    repository.CustomerRepository
	budgets      repository.BudgetRepository
	tx           ledger.TxManager
	totals       ledger.TotalsEngine
	committer    *saleCommitter
	events       EventPublisher
	validityDays int
	now          func() time.Time
}

func NewBudgetService(
	catalog repository.ProductRepository,
	customers repository.CustomerRepository,
	budgets repository.BudgetRepository,
	sales repository.SaleRepository,
	movements repository.StockMovementRepository,
	tx ledger.TxManager,
	totals ledger.TotalsEngine,
	events EventPublisher,
	validityDays int,
) BudgetService {
	return &budgetService{
		catalog:      catalog,
		customers:    customers,
		budgets:      budgets,
		tx:           tx,
		totals:       totals,
		committer:    newSaleCommitter(catalog, sales, movements, tx),
		events:       publisherOrNop(events),
		validityDays: validityDays,
		now:          time.Now,
	}
}

func (s *budgetService) CreateBudget(ctx context.Context, req *BudgetRequest, actor Actor) (*model.Budget, error) {
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

	budget := &model.Budget{
		Date:          s.now(),
		DeliveryDate:  req.DeliveryDate,
		Subtotal:      t.Subtotal,
		Discount:      t.Discount,
		Total:         t.Total,
		Profit:        t.Profit,
		PaymentMethod: req.PaymentMethod,
		Observations:  strings.TrimSpace(req.Observations),
		Status:        model.BudgetQuote,
	}
	if req.Date != nil {
		budget.Date = *req.Date
	}
	budget.ValidUntil = budget.Date.AddDate(0, 0, s.validityDays)
	if req.ValidUntil != nil {
		if req.ValidUntil.Before(budget.Date) {
			return nil, apperror.NewValidation("valid_until must not be before the budget date").WithDetail("field", "ValidUntil")
		}
		budget.ValidUntil = *req.ValidUntil
	}
	budget.CreatedBy = actor.ID
	budget.UpdatedBy = actor.ID

	if err := s.fillCustomer(ctx, budget, req); err != nil {
		return nil, err
	}

	budget.ID = model.NewID()
	budget.Items = make([]model.BudgetItem, len(items))
	for i, it := range items {
		budget.Items[i] = model.BudgetItem{BudgetID: budget.ID, ItemSnapshot: it.Snapshot(i)}
	}

	if err := s.budgets.Create(ctx, budget); err != nil {
		return nil, err
	}
	logger.Info(ctx, "budget created", "budget_id", budget.ID, "number", budget.Number, "total", budget.Total.StringFixed(2))
	return budget, nil
}

// fillCustomer copies a registered customer's data, or the inline fields.
func (s *budgetService) fillCustomer(ctx context.Context, b *model.Budget, req *BudgetRequest) error {
	if req.CustomerID != nil && *req.CustomerID != uuid.Nil {
		c, err := s.customers.FindByID(ctx, *req.CustomerID)
		if err != nil {
			return err
		}
		b.CustomerID = &c.ID
		b.CustomerName = c.Name
		b.CustomerType = c.Type
		b.CustomerDocument = c.Document
		b.CustomerPhone = c.Phone
		b.CustomerEmail = c.Email
		b.CustomerAddress = c.Address
		if b.CustomerType == "" {
			b.CustomerType = model.PessoaFisica
		}
		return nil
	}

	b.CustomerName = strings.TrimSpace(req.CustomerName)
	if b.CustomerName == "" {
		b.CustomerName = model.AnonymousCustomerName
	}
	b.CustomerType = req.CustomerType
	if b.CustomerType == "" {
		b.CustomerType = model.PessoaFisica
	}
	b.CustomerDocument = req.CustomerDocument
	b.CustomerPhone = req.CustomerPhone
	b.CustomerEmail = req.CustomerEmail
	b.CustomerAddress = req.CustomerAddress
	return nil
}

func (s *budgetService) GetBudget(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	return s.budgets.FindByID(ctx, id)
}

func (s *budgetService) ListBudgets(ctx context.Context, filter model.BudgetFilter) ([]model.Budget, error) {
	return s.budgets.FindAll(ctx, filter)
}

// ConvertToOrder moves a still valid orcamento to pedido. Stock is untouched.
func (s *budgetService) ConvertToOrder(ctx context.Context, id uuid.UUID, actor Actor) (*model.Budget, error) {
	var (
		budget *model.Budget
		from   model.BudgetStatus
	)
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		budget, err = s.budgets.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = budget.Status
		if !from.CanTransitionTo(model.BudgetOrder) {
			return apperror.NewInvalidStatusTransition("budget", string(from), string(model.BudgetOrder))
		}
		if s.now().After(budget.ValidUntil) {
			return apperror.NewBusinessRule(apperror.CodeBudgetExpired, "budget expired on "+budget.ValidUntil.Format("02/01/2006")).
				WithDetail("valid_until", budget.ValidUntil)
		}
		if err := s.budgets.UpdateStatus(ctx, id, model.BudgetOrder, nil, actor.ID); err != nil {
			return err
		}
		budget.Status = model.BudgetOrder
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "budget converted", "budget_id", id, "from", from, "to", budget.Status)
	publishBudgetStatus(s.events, actor, budget, from)
	return budget, nil
}

// ConvertToSale reconciles stock and records a paid sale carrying the
// budget's items and totals. The budget row stays locked throughout, so
// two concurrent conversions cannot both succeed.
func (s *budgetService) ConvertToSale(ctx context.Context, id uuid.UUID, req *ConvertToSaleRequest, actor Actor) (*model.Budget, *model.Sale, error) {
	if req == nil {
		req = &ConvertToSaleRequest{}
	}
	if err := validate(req); err != nil {
		return nil, nil, err
	}

	var (
		budget  *model.Budget
		sale    *model.Sale
		from    model.BudgetStatus
		changes []ledger.StockChange
	)
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		budget, err = s.budgets.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = budget.Status
		if !from.CanTransitionTo(model.BudgetSold) {
			return apperror.NewInvalidStatusTransition("budget", string(from), string(model.BudgetSold))
		}

		method := req.PaymentMethod
		if method == "" {
			method = budget.PaymentMethod
		}
		if method == "" {
			return apperror.NewValidation("payment method is required").WithDetail("field", "PaymentMethod")
		}
		paid := req.AmountPaid
		if paid.IsZero() {
			paid = budget.Total
		}
		paid, change, err := settlePayment(budget.Total, paid, method, model.SalePaid)
		if err != nil {
			return err
		}

		items := make([]ledger.LineItem, len(budget.Items))
		for i, bi := range budget.Items {
			items[i] = ledger.FromSnapshot(bi.ItemSnapshot)
		}

		sale = &model.Sale{
			Date:          s.now(),
			CustomerID:    budget.CustomerID,
			CustomerName:  budget.CustomerName,
			Subtotal:      budget.Subtotal,
			Discount:      budget.Discount,
			Total:         budget.Total,
			Profit:        budget.Profit,
			PaymentMethod: method,
			AmountPaid:    paid,
			ChangeDue:     change,
			Status:        model.SalePaid,
			BudgetID:      &budget.ID,
		}
		sale.CreatedBy = actor.ID
		sale.UpdatedBy = actor.ID

		changes, err = s.committer.commit(ctx, sale, items, "Orçamento "+budget.DisplayNumber(), actor)
		if err != nil {
			return err
		}
		if err := s.budgets.UpdateStatus(ctx, id, model.BudgetSold, &sale.ID, actor.ID); err != nil {
			return err
		}
		budget.Status = model.BudgetSold
		budget.SaleID = &sale.ID
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "budget converted",
		"budget_id", id, "from", from, "to", budget.Status,
		"sale_id", sale.ID, "total", sale.Total.StringFixed(2))

	publishBudgetStatus(s.events, actor, budget, from)
	publishSale(s.events, actor, sale)
	publishStockChanges(s.events, actor, "Orçamento "+budget.DisplayNumber(), changes)
	return budget, sale, nil
}
