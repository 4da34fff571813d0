package repository

import (
	"context"

	"gorm.io/gorm"

	"gesso-pos/internal/model"
)

type StockMovementRepository interface {
	CreateBatch(ctx context.Context, movements []model.StockMovement) error
	FindAll(ctx context.Context, filter model.MovementFilter) ([]model.StockMovement, error)
}

type stockMovementRepo struct {
	db *gorm.DB
}

func NewStockMovementRepo(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db}
}

func (r *stockMovementRepo) CreateBatch(ctx context.Context, movements []model.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return translate(conn(ctx, r.db).Omit("Product").Create(&movements).Error, "stock movement", nil)
}

func (r *stockMovementRepo) FindAll(ctx context.Context, filter model.MovementFilter) ([]model.StockMovement, error) {
	q := conn(ctx, r.db).Preload("Product")
	if !filter.Period.From.IsZero() {
		q = q.Where("date >= ?", filter.Period.From)
	}
	if !filter.Period.To.IsZero() {
		q = q.Where("date <= ?", filter.Period.To)
	}
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var movements []model.StockMovement
	err := q.Order("date DESC").Find(&movements).Error
	return movements, translate(err, "stock movement", nil)
}
