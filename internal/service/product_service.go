package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gesso-pos/internal/apperror"
	"gesso-pos/internal/ledger"
	"gesso-pos/internal/model"
	"gesso-pos/internal/repository"
	"gesso-pos/internal/ws"
	"gesso-pos/pkg/logger"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *ProductInput, actor Actor) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductInput, actor Actor) (*model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error)
	LowStock(ctx context.Context) ([]model.Product, error)
	RecordMovement(ctx context.Context, req *MovementInput, actor Actor) (*model.StockMovement, error)
	ListMovements(ctx context.Context, filter model.MovementFilter) ([]model.StockMovement, error)

	movementRecorder
}

// movementRecorder lets callers that own an outer transaction publish only after it commits.
type movementRecorder interface {
	recordMovement(ctx context.Context, req *MovementInput, actor Actor) (*model.StockMovement, error)
	publishMovement(movement *model.StockMovement, actor Actor)
}

type ProductInput struct {
	SKU         string          `json:"sku" validate:"required,max=50"`
	Name        string          `json:"name" validate:"required,max=255"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Unit        string          `json:"unit" validate:"max=20"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Cost        decimal.Decimal `json:"cost" validate:"gte=0"`
	Stock       int             `json:"stock" validate:"gte=0"`
	MinStock    *int            `json:"min_stock" validate:"omitempty,gte=0"`
}

// MovementInput: for ajuste, Quantity is the new absolute stock.
type MovementInput struct {
	ProductID uuid.UUID          `json:"product_id" validate:"uuid_required"`
	Type      model.MovementType `json:"type" validate:"required,oneof=entrada saida ajuste"`
	Quantity  int                `json:"quantity" validate:"gte=0"`
	Reason    string             `json:"reason" validate:"max=255"`
	Date      *time.Time         `json:"date"`

	referenceID *uuid.UUID
}

type productService struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	tx        ledger.TxManager
	events    EventPublisher
	minStock  int
}

func NewProductService(products repository.ProductRepository, movements repository.StockMovementRepository, tx ledger.TxManager, events EventPublisher, defaultMinStock int) ProductService {
	return &productService{
		products:  products,
		movements: movements,
		tx:        tx,
		events:    publisherOrNop(events),
		minStock:  defaultMinStock,
	}
}

func (s *productService) CreateProduct(ctx context.Context, req *ProductInput, actor Actor) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if existing, err := s.products.FindBySKU(ctx, req.SKU); err == nil && existing != nil {
		return nil, apperror.NewDuplicate("product", "sku", req.SKU)
	} else if err != nil && !apperror.IsNotFound(err) {
		return nil, err
	}

	product := &model.Product{}
	s.apply(product, req)
	product.Stock = req.Stock
	product.CreatedBy = actor.ID
	product.UpdatedBy = actor.ID

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.products.Create(ctx, product); err != nil {
			return err
		}
		if product.Stock == 0 {
			return nil
		}
		return s.movements.CreateBatch(ctx, []model.StockMovement{{
			ProductID:   product.ID,
			Type:        model.MovementIn,
			Quantity:    product.Stock,
			StockBefore: 0,
			StockAfter:  product.Stock,
			Reason:      "Estoque inicial",
			Date:        time.Now(),
			BaseModel:   model.BaseModel{CreatedBy: actor.ID},
		}})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "product created", "product_id", product.ID, "sku", product.SKU)
	s.events.Publish(ws.Event{
		Type:   ws.EventStockUpdate,
		Action: "product_created",
		Data: map[string]interface{}{
			"id":    product.ID,
			"sku":   product.SKU,
			"name":  product.Name,
			"stock": product.Stock,
			"price": product.Price,
		},
		User:    actor.eventUser(),
		Message: fmt.Sprintf("%s cadastrou o produto '%s'", actor.Name, product.Name),
	})
	return product, nil
}

// UpdateProduct locks the row; a stock edit is logged as an ajuste movement.
func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductInput, actor Actor) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var (
		updated  model.Product
		oldStock int
	)
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.products.LockProducts(ctx, []uuid.UUID{id})
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return apperror.NewNotFound("product", id)
		}
		existing := locked[0]
		oldStock = existing.Stock

		if req.SKU != existing.SKU {
			if other, err := s.products.FindBySKU(ctx, req.SKU); err == nil && other.ID != id {
				return apperror.NewDuplicate("product", "sku", req.SKU)
			}
		}

		s.apply(&existing, req)
		existing.Stock = req.Stock
		existing.UpdatedBy = actor.ID
		if err := s.products.Update(ctx, &existing); err != nil {
			return err
		}
		updated = existing

		if oldStock == existing.Stock {
			return nil
		}
		return s.movements.CreateBatch(ctx, []model.StockMovement{{
			ProductID:   id,
			Type:        model.MovementAdjust,
			Quantity:    existing.Stock,
			StockBefore: oldStock,
			StockAfter:  existing.Stock,
			Reason:      "Edição de produto",
			Date:        time.Now(),
			BaseModel:   model.BaseModel{CreatedBy: actor.ID},
		}})
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ws.Event{
		Type:   ws.EventStockUpdate,
		Action: "product_updated",
		Data: map[string]interface{}{
			"id":        updated.ID,
			"sku":       updated.SKU,
			"name":      updated.Name,
			"old_stock": oldStock,
			"new_stock": updated.Stock,
			"price":     updated.Price,
		},
		User:    actor.eventUser(),
		Message: fmt.Sprintf("%s atualizou o produto '%s'", actor.Name, updated.Name),
	})
	if updated.Stock != oldStock && updated.IsLowStock() {
		publishLowStock(s.events, updated.ID.String(), updated.Name, updated.Stock, updated.MinStock)
	}
	return &updated, nil
}

func (s *productService) apply(p *model.Product, req *ProductInput) {
	p.SKU = strings.TrimSpace(req.SKU)
	p.Name = strings.TrimSpace(req.Name)
	p.Category = req.Category
	p.Description = req.Description
	p.Unit = req.Unit
	p.Price = req.Price
	p.Cost = req.Cost
	if req.MinStock != nil {
		p.MinStock = *req.MinStock
	} else if p.ID == uuid.Nil {
		p.MinStock = s.minStock
	}
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.products.GetProduct(ctx, id)
}

func (s *productService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	return s.products.FindAll(ctx, filter)
}

func (s *productService) LowStock(ctx context.Context) ([]model.Product, error) {
	return s.products.FindAll(ctx, repository.ProductFilter{LowStockOnly: true})
}

// RecordMovement applies an entrada, saida or ajuste under a row lock.
func (s *productService) RecordMovement(ctx context.Context, req *MovementInput, actor Actor) (*model.StockMovement, error) {
	movement, err := s.recordMovement(ctx, req, actor)
	if err != nil {
		return nil, err
	}
	s.publishMovement(movement, actor)
	return movement, nil
}

func (s *productService) recordMovement(ctx context.Context, req *MovementInput, actor Actor) (*model.StockMovement, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Type != model.MovementAdjust && req.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be greater than zero").WithDetail("field", "Quantity")
	}

	movement := &model.StockMovement{
		ProductID:   req.ProductID,
		Type:        req.Type,
		Reason:      strings.TrimSpace(req.Reason),
		ReferenceID: req.referenceID,
		Date:        time.Now(),
	}
	if req.Date != nil {
		movement.Date = *req.Date
	}
	movement.CreatedBy = actor.ID

	var product model.Product
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.products.LockProducts(ctx, []uuid.UUID{req.ProductID})
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return apperror.NewNotFound("product", req.ProductID)
		}
		product = locked[0]

		newStock := product.Stock
		switch req.Type {
		case model.MovementIn:
			newStock += req.Quantity
			movement.Quantity = req.Quantity
		case model.MovementOut:
			if product.Stock < req.Quantity {
				return apperror.NewInsufficientStock(product.ID.String(), product.Name, req.Quantity, product.Stock)
			}
			newStock -= req.Quantity
			movement.Quantity = req.Quantity
		case model.MovementAdjust:
			newStock = req.Quantity
			movement.Quantity = abs(newStock - product.Stock)
		}

		if err := s.products.SetStock(ctx, product.ID, newStock); err != nil {
			return err
		}
		movement.StockBefore = product.Stock
		movement.StockAfter = newStock
		product.Stock = newStock
		return s.movements.CreateBatch(ctx, []model.StockMovement{*movement})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock movement recorded",
		"product_id", product.ID, "type", movement.Type,
		"before", movement.StockBefore, "after", movement.StockAfter)

	movement.Product = &product
	return movement, nil
}

func (s *productService) publishMovement(movement *model.StockMovement, actor Actor) {
	product := movement.Product
	s.events.Publish(ws.Event{
		Type:   ws.EventStockUpdate,
		Action: "movement_" + string(movement.Type),
		Data: map[string]interface{}{
			"product_id": product.ID,
			"name":       product.Name,
			"type":       movement.Type,
			"quantity":   movement.Quantity,
			"old_stock":  movement.StockBefore,
			"new_stock":  movement.StockAfter,
		},
		User:    actor.eventUser(),
		Message: fmt.Sprintf("%s: %s %d -> %d", product.Name, movement.Type, movement.StockBefore, movement.StockAfter),
	})
	if movement.StockAfter < movement.StockBefore && product.IsLowStock() {
		publishLowStock(s.events, product.ID.String(), product.Name, product.Stock, product.MinStock)
	}
}

func (s *productService) ListMovements(ctx context.Context, filter model.MovementFilter) ([]model.StockMovement, error) {
	return s.movements.FindAll(ctx, filter)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
